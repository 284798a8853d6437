package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestClient_Send(t *testing.T) {
	uid := uuid.New()

	var got Message
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-key", time.Second)
	err := c.Send(context.Background(), Message{Title: "Sharing", Message: "alice shared an expense", UID: uid})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotKey != "secret-key" {
		t.Errorf("api key = %q, want %q", gotKey, "secret-key")
	}
	if got.UID != uid {
		t.Errorf("uid = %s, want %s", got.UID, uid)
	}
	if got.Title != "Sharing" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestClient_Send_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	err := c.Send(context.Background(), Message{Title: "t", Message: "m", UID: uuid.New()})
	if err == nil {
		t.Fatal("Send() error = nil, want gateway error")
	}
}
