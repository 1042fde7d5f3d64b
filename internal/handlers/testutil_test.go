package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/accounts"
	"github.com/laboissim/laboissim/internal/auth"
	"github.com/laboissim/laboissim/internal/middleware"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/laboissim/laboissim/internal/oauth"
	"github.com/laboissim/laboissim/internal/storage"
)

// setupTest wires a fresh sqlite database, in-memory blob storage and a
// router for one test.
func setupTest(t *testing.T) (*gin.Engine, *storage.MemoryStore) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	auth.SetJWTSecretForTest("test-secret")

	if err := db.ConnectSQLite(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("ConnectSQLite() error = %v", err)
	}
	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("MigrateDatabase() error = %v", err)
	}

	store := storage.NewMemoryStore()
	InitStorage(store)
	InitOAuth(oauth.NewClientFromEnv())

	return newTestRouter(), store
}

// newTestRouter mirrors the production route table for the endpoints the
// tests exercise.
func newTestRouter() *gin.Engine {
	r := gin.New()

	api := r.Group("/api")

	api.POST("/register/", Register)
	api.POST("/token/", TokenObtain)
	api.POST("/token/email/", TokenObtainEmail)
	api.POST("/token/refresh/", TokenRefresh)

	api.GET("/user/", middleware.AuthMiddleware(), Me)
	api.GET("/user/profile/", middleware.AuthMiddleware(), GetOwnProfile)
	api.PUT("/user/profile/", middleware.AuthMiddleware(), UpdateOwnProfile)
	api.POST("/user/avatar/", middleware.AuthMiddleware(), UploadAvatar)
	api.GET("/team-members/", TeamMembers)

	users := api.Group("/users", middleware.AuthMiddleware(), middleware.StaffMiddleware())
	users.POST("/:id/role", ChangeRole)
	users.POST("/:id/ban", BanUser)
	users.POST("/:id/unban", UnbanUser)
	users.DELETE("/:id", DeleteUser)

	api.GET("/site-content/", GetSiteContent)
	api.PUT("/site-content/", middleware.AuthMiddleware(), middleware.StaffMiddleware(), UpdateSiteContent)

	files := api.Group("/files", middleware.AuthMiddleware())
	files.GET("", ListFiles)
	files.POST("", UploadFile)
	files.GET("/:id/download", DownloadFile)
	files.DELETE("/:id", DeleteFile)

	api.GET("/events", ListEvents)
	api.GET("/events/:id", GetEvent)
	events := api.Group("/events", middleware.AuthMiddleware())
	events.POST("", CreateEvent)
	events.PUT("/:id", UpdateEvent)
	events.POST("/:id/register", RegisterForEvent)
	events.POST("/:id/cancel", CancelRegistration)

	messages := api.Group("/messages", middleware.AuthMiddleware())
	messages.POST("", SendMessage)
	messages.GET("/inbox", Inbox)
	messages.GET("/conversation/:user_id", Conversation)
	messages.POST("/:id/read", MarkMessageRead)

	api.GET("/publications", ListPublications)
	api.GET("/publications/:id", GetPublication)
	publications := api.Group("/publications", middleware.AuthMiddleware())
	publications.POST("", CreatePublication)
	publications.PUT("/:id", UpdatePublication)
	publications.DELETE("/:id", DeletePublication)

	api.GET("/projects", ListProjects)
	api.GET("/projects/:id/documents", ListProjectDocuments)
	projects := api.Group("/projects", middleware.AuthMiddleware())
	projects.POST("", CreateProject)
	projects.PUT("/:id", UpdateProject)
	projects.POST("/:id/documents", UploadProjectDocument)

	api.POST("/contact/", SubmitContactMessage)
	api.POST("/account-requests/", SubmitAccountRequest)
	admin := api.Group("", middleware.AuthMiddleware(), middleware.StaffMiddleware())
	admin.GET("/contact/", ListContactMessages)
	admin.PUT("/contact/:id/status", UpdateContactMessageStatus)
	admin.PUT("/account-requests/:id/status", ResolveAccountRequest)

	api.GET("/auth/google/login/", GoogleLogin)

	api.GET("/ws/notifications", middleware.AuthMiddleware(), NotificationSocket)

	return r
}

func performRequest(r http.Handler, method, path string, body io.Reader, token, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func performJSON(r http.Handler, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	}
	return performRequest(r, method, path, body, token, "application/json")
}

// createTestUser provisions an account directly and returns it with a
// valid access token.
func createTestUser(t *testing.T, username, email, role string) (*models.User, string) {
	t.Helper()

	user, err := accounts.Create(db.DB, accounts.CreateParams{
		Username: username,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("accounts.Create() error = %v", err)
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	return user, token
}

func uploadTestFile(t *testing.T, r http.Handler, token, name, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("part.Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("writer.Close() error = %v", err)
	}

	return performRequest(r, http.MethodPost, "/api/files", &buf, token, w.FormDataContentType())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %s: %v", rec.Body.String(), err)
	}
}
