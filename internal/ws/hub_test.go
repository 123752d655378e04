package ws

import "testing"

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient("c1", nil, ConnInfo{ConnID: "x"})
	if len(hub.rooms) != 1 {
		t.Fatalf("expected chat room to be created")
	}

	hub.RemoveClient("c1", nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected chat room to be removed")
	}
}

func TestHubRemoveUnknownClient(t *testing.T) {
	hub := NewHub()

	hub.RemoveClient("missing", nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected no rooms")
	}
}

func TestHubBroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()

	// Must not panic with no registered connections.
	hub.BroadcastChatCreated("c1")
}
