package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func recvJSON(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.send:
		var msg map[string]interface{}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubSeatUpdateBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := NewClient("alice", nil, hub)
	bruno := NewClient("bruno", nil, hub)
	hub.register <- alice
	hub.register <- bruno

	hub.BroadcastSeatUpdate("ride-1", 2)

	for _, c := range []*Client{alice, bruno} {
		msg := recvJSON(t, c)
		if msg["type"] != "seat_update" || msg["ride_id"] != "ride-1" {
			t.Errorf("client %s got %v", c.UserID, msg)
		}
		if msg["seats_available"] != float64(2) {
			t.Errorf("client %s seats_available = %v, want 2", c.UserID, msg["seats_available"])
		}
	}
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := NewClient("alice", nil, hub)
	bruno := NewClient("bruno", nil, hub)
	hub.register <- alice
	hub.register <- bruno

	hub.BroadcastToUser("alice", map[string]string{"type": "reservation_created"})

	msg := recvJSON(t, alice)
	if msg["type"] != "reservation_created" {
		t.Errorf("alice got %v", msg)
	}

	select {
	case data := <-bruno.send:
		t.Errorf("bruno should not receive targeted message, got %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := NewClient("alice", nil, hub)
	hub.register <- alice

	deadline := time.Now().Add(time.Second)
	for !hub.IsUserConnected("alice") {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	hub.unregister <- alice
	for hub.IsUserConnected("alice") {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(time.Millisecond)
	}

	if n := hub.GetClientCount(); n != 0 {
		t.Errorf("client count = %d, want 0", n)
	}
}
