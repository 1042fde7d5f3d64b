package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/laboissim/laboissim/internal/models"
)

func dialNotificationSocket(t *testing.T, srv *httptest.Server, token, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/notifications"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Origin", origin)

	return websocket.DefaultDialer.Dial(wsURL, header)
}

func readSocketJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}

	var payload map[string]interface{}
	if err := conn.ReadJSON(&payload); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return payload
}

func TestNotificationSocketDeliversMessages(t *testing.T) {
	router, _ := setupTest(t)
	alice, aliceToken := createTestUser(t, "alice", "alice@example.com", models.RoleMember)
	bob, bobToken := createTestUser(t, "bob", "bob@example.com", models.RoleMember)

	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, resp, err := dialNotificationSocket(t, srv, aliceToken, "http://localhost:3000")
	if err != nil {
		t.Fatalf("Dial() error = %v, response = %+v", err, resp)
	}
	defer conn.Close()

	welcome := readSocketJSON(t, conn)
	if welcome["type"] != "connected" {
		t.Fatalf("welcome type = %v, want connected", welcome["type"])
	}

	rec := performJSON(router, http.MethodPost, "/api/messages", map[string]interface{}{
		"receiver_id": alice.ID,
		"subject":     "Lab meeting",
		"body":        "Moved to 14:00.",
	}, bobToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("send message status = %d, body = %s", rec.Code, rec.Body.String())
	}

	notification := readSocketJSON(t, conn)
	if notification["type"] != "message" {
		t.Errorf("notification type = %v, want message", notification["type"])
	}
	if got := notification["sender_id"]; got != float64(bob.ID) {
		t.Errorf("sender_id = %v, want %d", got, bob.ID)
	}
	if notification["subject"] != "Lab meeting" {
		t.Errorf("subject = %v, want Lab meeting", notification["subject"])
	}
	wantConversation := models.ConversationKey(alice.ID, bob.ID)
	if notification["conversation_id"] != wantConversation {
		t.Errorf("conversation_id = %v, want %s", notification["conversation_id"], wantConversation)
	}
}

func TestNotificationSocketRejectsUnknownOrigin(t *testing.T) {
	router, _ := setupTest(t)
	_, token := createTestUser(t, "alice", "alice@example.com", models.RoleMember)

	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := dialNotificationSocket(t, srv, token, "http://evil.example.com")
	if err == nil {
		conn.Close()
		t.Fatal("Dial() succeeded for a disallowed origin")
	}
	if err != websocket.ErrBadHandshake {
		t.Errorf("Dial() error = %v, want bad handshake", err)
	}
}

func TestNotifyUserWithoutConnections(t *testing.T) {
	setupTest(t)

	// A user with no open sockets is a silent no-op.
	NotifyUser(9999, map[string]string{"type": "message"})
}
