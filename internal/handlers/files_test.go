package handlers

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/models"
)

func TestUploadAndDownloadFile(t *testing.T) {
	router, store := setupTest(t)
	_, token := createTestUser(t, "alice", "alice@example.com", models.RoleMember)

	rec := uploadTestFile(t, router, token, "notes.txt", "lab notebook contents")
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var uploaded FileResponse
	decodeBody(t, rec, &uploaded)
	if uploaded.UploadedBy.Name != "alice" {
		t.Errorf("uploaded_by = %q, want alice", uploaded.UploadedBy.Name)
	}
	if store.Len() != 1 {
		t.Errorf("blobs in store = %d, want 1", store.Len())
	}

	rec = performRequest(router, http.MethodGet, fmt.Sprintf("/api/files/%d/download", uploaded.ID), nil, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "lab notebook contents" {
		t.Errorf("downloaded body = %q", body)
	}
}

func TestListFilesSharedLibrary(t *testing.T) {
	router, _ := setupTest(t)
	_, aliceToken := createTestUser(t, "alice", "alice@example.com", models.RoleMember)
	_, bobToken := createTestUser(t, "bob", "bob@example.com", models.RoleMember)

	uploadTestFile(t, router, aliceToken, "a.txt", "from alice")
	uploadTestFile(t, router, bobToken, "b.txt", "from bob")

	// Every member sees the whole library.
	rec := performJSON(router, http.MethodGet, "/api/files", nil, bobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var files []FileResponse
	decodeBody(t, rec, &files)
	if len(files) != 2 {
		t.Errorf("files = %d, want 2", len(files))
	}

	rec = performJSON(router, http.MethodGet, "/api/files", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %d, want 401", rec.Code)
	}
}

func TestDeleteFileOwnerOnly(t *testing.T) {
	router, store := setupTest(t)
	_, aliceToken := createTestUser(t, "alice", "alice@example.com", models.RoleMember)
	_, bobToken := createTestUser(t, "bob", "bob@example.com", models.RoleMember)

	rec := uploadTestFile(t, router, aliceToken, "a.txt", "from alice")
	var uploaded FileResponse
	decodeBody(t, rec, &uploaded)

	rec = performJSON(router, http.MethodDelete, fmt.Sprintf("/api/files/%d", uploaded.ID), nil, bobToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete status = %d, want 403", rec.Code)
	}

	rec = performJSON(router, http.MethodDelete, fmt.Sprintf("/api/files/%d", uploaded.ID), nil, aliceToken)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var count int64
	db.DB.Unscoped().Model(&models.UserFile{}).Count(&count)
	if count != 0 {
		t.Errorf("file records = %d, want 0", count)
	}
	if store.Len() != 0 {
		t.Errorf("blobs in store = %d, want 0", store.Len())
	}
}
