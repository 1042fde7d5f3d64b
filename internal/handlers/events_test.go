package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/internal/models"
)

func createTestEvent(t *testing.T, router *gin.Engine, token string, maxParticipants *int) uint {
	t.Helper()

	payload := map[string]interface{}{
		"type":       models.EventTypeSeminar,
		"title":      "Weekly seminar",
		"start_time": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
	if maxParticipants != nil {
		payload["max_participants"] = *maxParticipants
	}

	rec := performJSON(router, http.MethodPost, "/api/events", payload, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp EventResponse
	decodeBody(t, rec, &resp)
	return resp.ID
}

func TestRegisterForEventDuplicate(t *testing.T) {
	router, _ := setupTest(t)
	_, ownerToken := createTestUser(t, "owner", "owner@example.com", models.RoleMember)
	_, aliceToken := createTestUser(t, "alice", "alice@example.com", models.RoleMember)

	eventID := createTestEvent(t, router, ownerToken, nil)
	path := fmt.Sprintf("/api/events/%d/register", eventID)

	rec := performJSON(router, http.MethodPost, path, nil, aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first registration status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = performJSON(router, http.MethodPost, path, nil, aliceToken)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate registration status = %d, want 409", rec.Code)
	}
}

func TestRegisterForEventCapacity(t *testing.T) {
	router, _ := setupTest(t)
	_, ownerToken := createTestUser(t, "owner", "owner@example.com", models.RoleMember)
	_, aliceToken := createTestUser(t, "alice", "alice@example.com", models.RoleMember)
	_, bobToken := createTestUser(t, "bob", "bob@example.com", models.RoleMember)

	capacity := 1
	eventID := createTestEvent(t, router, ownerToken, &capacity)
	path := fmt.Sprintf("/api/events/%d/register", eventID)

	rec := performJSON(router, http.MethodPost, path, nil, aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first registration status = %d", rec.Code)
	}

	rec = performJSON(router, http.MethodPost, path, nil, bobToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("over-capacity registration status = %d, want 409", rec.Code)
	}

	// A cancelled seat frees capacity for the next registrant.
	rec = performJSON(router, http.MethodPost, fmt.Sprintf("/api/events/%d/cancel", eventID), nil, aliceToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = performJSON(router, http.MethodPost, path, nil, bobToken)
	if rec.Code != http.StatusCreated {
		t.Errorf("registration after cancellation status = %d, want 201", rec.Code)
	}
}

func TestUpdateEventCapacityValidation(t *testing.T) {
	router, _ := setupTest(t)
	_, ownerToken := createTestUser(t, "owner", "owner@example.com", models.RoleMember)
	_, aliceToken := createTestUser(t, "alice", "alice@example.com", models.RoleMember)
	_, bobToken := createTestUser(t, "bob", "bob@example.com", models.RoleMember)

	eventID := createTestEvent(t, router, ownerToken, nil)
	for _, token := range []string{aliceToken, bobToken} {
		rec := performJSON(router, http.MethodPost, fmt.Sprintf("/api/events/%d/register", eventID), nil, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("registration status = %d, body = %s", rec.Code, rec.Body.String())
		}
	}

	path := fmt.Sprintf("/api/events/%d", eventID)
	update := func(maxParticipants interface{}) map[string]interface{} {
		payload := map[string]interface{}{
			"type":       models.EventTypeSeminar,
			"title":      "Weekly seminar",
			"start_time": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		}
		if maxParticipants != nil {
			payload["max_participants"] = maxParticipants
		}
		return payload
	}

	rec := performJSON(router, http.MethodPut, path, update(0), ownerToken)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero capacity status = %d, want 422", rec.Code)
	}

	// Shrinking below the two live registrations must be refused.
	rec = performJSON(router, http.MethodPut, path, update(1), ownerToken)
	if rec.Code != http.StatusConflict {
		t.Errorf("capacity below registrations status = %d, want 409", rec.Code)
	}

	rec = performJSON(router, http.MethodGet, path, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get event status = %d", rec.Code)
	}
	var got EventResponse
	decodeBody(t, rec, &got)
	if got.MaxParticipants != nil {
		t.Errorf("max_participants = %d after rejected update, want unlimited", *got.MaxParticipants)
	}

	rec = performJSON(router, http.MethodPut, path, update(2), ownerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("capacity at registration count status = %d, body = %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &got)
	if got.MaxParticipants == nil || *got.MaxParticipants != 2 {
		t.Errorf("max_participants = %v, want 2", got.MaxParticipants)
	}
	if got.RegisteredCount != 2 {
		t.Errorf("registered_count = %d, want 2", got.RegisteredCount)
	}
}

func TestCreateEventValidation(t *testing.T) {
	router, _ := setupTest(t)
	_, token := createTestUser(t, "owner", "owner@example.com", models.RoleMember)

	payload := map[string]interface{}{
		"type":       "party",
		"title":      "Not a lab event",
		"start_time": time.Now().Add(time.Hour).Format(time.RFC3339),
	}
	rec := performJSON(router, http.MethodPost, "/api/events", payload, token)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid type status = %d, want 422", rec.Code)
	}

	negative := -1
	payload = map[string]interface{}{
		"type":             models.EventTypeWorkshop,
		"title":            "Workshop",
		"start_time":       time.Now().Add(time.Hour).Format(time.RFC3339),
		"max_participants": negative,
	}
	rec = performJSON(router, http.MethodPost, "/api/events", payload, token)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative capacity status = %d, want 422", rec.Code)
	}
}

func TestListEventsPublic(t *testing.T) {
	router, _ := setupTest(t)
	_, token := createTestUser(t, "owner", "owner@example.com", models.RoleMember)
	createTestEvent(t, router, token, nil)

	rec := performJSON(router, http.MethodGet, "/api/events", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var events []EventResponse
	decodeBody(t, rec, &events)
	if len(events) != 1 {
		t.Errorf("events = %d, want 1", len(events))
	}
}
