package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/models"
)

func TestContactMessageLifecycle(t *testing.T) {
	router, _ := setupTest(t)
	_, adminToken := createTestUser(t, "admin", "admin@example.com", models.RoleAdmin)
	_, memberToken := createTestUser(t, "alice", "alice@example.com", models.RoleMember)

	payload := map[string]string{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"subject": "Collaboration",
		"body":    "I would like to visit the lab.",
	}
	rec := performJSON(router, http.MethodPost, "/api/contact/", payload, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Only staff can read the queue.
	rec = performJSON(router, http.MethodGet, "/api/contact/", nil, memberToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member list status = %d, want 403", rec.Code)
	}

	rec = performJSON(router, http.MethodGet, "/api/contact/", nil, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff list status = %d", rec.Code)
	}
	var messages []models.ContactMessage
	decodeBody(t, rec, &messages)
	if len(messages) != 1 || messages[0].Status != models.ContactNew {
		t.Fatalf("messages = %+v, want one new message", messages)
	}

	path := fmt.Sprintf("/api/contact/%d/status", messages[0].ID)

	rec = performJSON(router, http.MethodPut, path, map[string]string{"status": "archived"}, adminToken)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid status update = %d, want 422", rec.Code)
	}

	rec = performJSON(router, http.MethodPut, path, map[string]string{"status": models.ContactReplied}, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("status update = %d, body = %s", rec.Code, rec.Body.String())
	}

	var stored models.ContactMessage
	db.DB.First(&stored, messages[0].ID)
	if stored.Status != models.ContactReplied {
		t.Errorf("stored status = %q, want replied", stored.Status)
	}
}

func TestAccountRequestApproval(t *testing.T) {
	router, _ := setupTest(t)
	_, adminToken := createTestUser(t, "admin", "admin@example.com", models.RoleAdmin)

	payload := map[string]string{
		"name":       "New Researcher",
		"email":      "newcomer@example.com",
		"motivation": "I study proteins.",
	}
	rec := performJSON(router, http.MethodPost, "/api/account-requests/", payload, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var request models.AccountRequest
	if err := db.DB.First(&request).Error; err != nil {
		t.Fatalf("load request: %v", err)
	}

	path := fmt.Sprintf("/api/account-requests/%d/status", request.ID)

	rec = performJSON(router, http.MethodPut, path, map[string]string{"status": models.RequestApproved}, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Approval provisions a passwordless account for the applicant.
	var user models.User
	if err := db.DB.Where("email = ?", "newcomer@example.com").First(&user).Error; err != nil {
		t.Fatalf("provisioned user not found: %v", err)
	}
	if user.HasUsablePassword() {
		t.Error("provisioned account must have no usable password")
	}

	// A resolved request cannot be resolved again.
	rec = performJSON(router, http.MethodPut, path, map[string]string{"status": models.RequestRejected}, adminToken)
	if rec.Code != http.StatusConflict {
		t.Errorf("re-resolve status = %d, want 409", rec.Code)
	}
}

func TestAccountRequestRejection(t *testing.T) {
	router, _ := setupTest(t)
	_, adminToken := createTestUser(t, "admin", "admin@example.com", models.RoleAdmin)

	payload := map[string]string{"name": "Someone", "email": "someone@example.com"}
	rec := performJSON(router, http.MethodPost, "/api/account-requests/", payload, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rec.Code)
	}

	var request models.AccountRequest
	db.DB.First(&request)

	path := fmt.Sprintf("/api/account-requests/%d/status", request.ID)

	// Only approved or rejected are acceptable resolutions.
	rec = performJSON(router, http.MethodPut, path, map[string]string{"status": "pending"}, adminToken)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("pending resolution status = %d, want 422", rec.Code)
	}

	rec = performJSON(router, http.MethodPut, path, map[string]string{"status": models.RequestRejected}, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("reject status = %d", rec.Code)
	}

	// Rejection provisions nothing.
	var count int64
	db.DB.Model(&models.User{}).Where("email = ?", "someone@example.com").Count(&count)
	if count != 0 {
		t.Errorf("rejected request created %d users", count)
	}
}
