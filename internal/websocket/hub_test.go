package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"seiso-backend/internal/models"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to register the connection.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestBroadcast_DeliversToClient(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub)

	hub.Broadcast(models.WSMessage{
		Type:    "generation_status",
		Payload: models.GenerationStatus{Target: "ad-copy", Step: 1, StepName: "Redactando"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.WSMessage
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Type != "generation_status" {
		t.Errorf("message type = %q, want generation_status", got.Type)
	}
}

// Overlapping generation requests broadcast from their own handler
// goroutines; every frame must still arrive intact.
func TestBroadcast_ConcurrentSenders(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub)

	const senders = 64

	var wg sync.WaitGroup
	wg.Add(senders)
	for i := 0; i < senders; i++ {
		go func(n int) {
			defer wg.Done()
			hub.Broadcast(models.WSMessage{
				Type:    "generation_done",
				Payload: models.GenerationDone{Target: "slide-1"},
			})
		}(i)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < senders; i++ {
		var got models.WSMessage
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("frame %d unreadable: %v", i, err)
		}
		if got.Type != "generation_done" {
			t.Errorf("frame %d type = %q, want generation_done", i, got.Type)
		}
	}

	wg.Wait()
	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.ClientCount())
	}
}

func TestUnregister_OnClientClose(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed connection never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Broadcasting to an empty hub is a no-op.
	hub.Broadcast(models.WSMessage{Type: "generation_status"})
}
