package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

// testSink collects delivered messages for one connection
type testSink struct {
	mu       sync.Mutex
	messages []Message
	sendErr  error
	closed   bool
}

func (s *testSink) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *testSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *testSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func addConn(h *Hub, id, userID, churchID, role string) *testSink {
	sink := &testSink{}
	h.AddConnection(NewConnection(id, userID, churchID, role, "name-"+userID, sink.send, sink.close))
	return sink
}

func TestBroadcastTargeting(t *testing.T) {
	h := NewHub(zap.NewNop())

	aliceA := addConn(h, "c1", "alice", "church-a", "church_admin")
	aliceB := addConn(h, "c2", "alice", "church-a", "church_admin") // second device
	bob := addConn(h, "c3", "bob", "church-a", "church_member")
	carol := addConn(h, "c4", "carol", "church-b", "church_member")

	if got := h.BroadcastToUser("alice", Message{Type: "ping"}); got != 2 {
		t.Errorf("BroadcastToUser delivered = %d, want 2", got)
	}
	if aliceA.count() != 1 || aliceB.count() != 1 || bob.count() != 0 {
		t.Error("user broadcast reached the wrong connections")
	}

	if got := h.BroadcastToChurch("church-a", Message{Type: "announcement"}); got != 3 {
		t.Errorf("BroadcastToChurch delivered = %d, want 3", got)
	}
	if carol.count() != 0 {
		t.Error("church broadcast leaked to another church")
	}

	if got := h.BroadcastToRole("church_member", Message{Type: "notice"}); got != 2 {
		t.Errorf("BroadcastToRole delivered = %d, want 2", got)
	}

	if got := h.Broadcast(Message{Type: "all"}, nil); got != 4 {
		t.Errorf("nil filter should reach everyone, delivered = %d", got)
	}
}

func TestBroadcastSetsTimestampAndPayload(t *testing.T) {
	h := NewHub(zap.NewNop())
	sink := addConn(h, "c1", "alice", "church-a", "staff")

	h.BroadcastToUser("alice", Message{
		Type:    "sermon_published",
		Payload: map[string]interface{}{"title": "On Grace"},
	})

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(sink.messages))
	}
	msg := sink.messages[0]
	if msg.Type != "sermon_published" {
		t.Errorf("Type = %q", msg.Type)
	}
	if msg.Timestamp.IsZero() {
		t.Error("hub should stamp the message before delivery")
	}
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok || payload["title"] != "On Grace" {
		t.Errorf("payload lost in transit: %v", msg.Payload)
	}
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	h := NewHub(zap.NewNop())

	healthy := addConn(h, "c1", "alice", "church-a", "staff")
	dead := &testSink{sendErr: errors.New("broken pipe")}
	h.AddConnection(NewConnection("c2", "bob", "church-a", "staff", "Bob", dead.send, dead.close))

	if got := h.BroadcastToChurch("church-a", Message{Type: "ping"}); got != 1 {
		t.Errorf("delivered = %d, want 1 (dead connection skipped)", got)
	}
	if healthy.count() != 1 {
		t.Error("healthy connection should still receive the message")
	}
	if !dead.closed {
		t.Error("failed connection should be closed when dropped")
	}
	if h.Stats().TotalConnections != 1 {
		t.Errorf("dead connection should be removed, stats = %+v", h.Stats())
	}
}

func TestAddConnectionLastWriteWins(t *testing.T) {
	h := NewHub(zap.NewNop())

	first := addConn(h, "c1", "alice", "church-a", "staff")
	second := addConn(h, "c1", "alice", "church-a", "staff")

	if !first.closed {
		t.Error("superseded connection must be closed")
	}
	if h.Stats().TotalConnections != 1 {
		t.Errorf("duplicate id must replace, total = %d", h.Stats().TotalConnections)
	}

	h.BroadcastToUser("alice", Message{Type: "ping"})
	if first.count() != 0 || second.count() != 1 {
		t.Error("only the replacement connection should receive messages")
	}
}

func TestRemoveConnectionIdempotent(t *testing.T) {
	h := NewHub(zap.NewNop())
	sink := addConn(h, "c1", "alice", "church-a", "staff")

	h.RemoveConnection("c1")
	if !sink.closed {
		t.Error("remove should close the transport")
	}
	h.RemoveConnection("c1")      // second remove is a no-op
	h.RemoveConnection("unknown") // unknown id is a no-op

	if h.Stats().TotalConnections != 0 {
		t.Errorf("total = %d, want 0", h.Stats().TotalConnections)
	}
}

func TestStats(t *testing.T) {
	h := NewHub(zap.NewNop())

	empty := h.Stats()
	if empty.TotalConnections != 0 || empty.UniqueUsers != 0 || empty.AverageConnectionsPerUser != 0 {
		t.Errorf("empty hub stats = %+v", empty)
	}

	addConn(h, "c1", "alice", "church-a", "staff")
	addConn(h, "c2", "alice", "church-a", "staff")
	addConn(h, "c3", "bob", "church-a", "staff")

	stats := h.Stats()
	if stats.TotalConnections != 3 {
		t.Errorf("TotalConnections = %d, want 3", stats.TotalConnections)
	}
	if stats.UniqueUsers != 2 {
		t.Errorf("UniqueUsers = %d, want 2", stats.UniqueUsers)
	}
	if stats.AverageConnectionsPerUser != 1.5 {
		t.Errorf("AverageConnectionsPerUser = %v, want 1.5", stats.AverageConnectionsPerUser)
	}
}

func TestConnectedUsers(t *testing.T) {
	h := NewHub(zap.NewNop())

	addConn(h, "c1", "alice", "church-a", "church_admin")
	addConn(h, "c2", "alice", "church-a", "church_admin") // same user twice
	addConn(h, "c3", "bob", "church-b", "church_member")

	all := h.ConnectedUsers("")
	if len(all) != 2 {
		t.Errorf("ConnectedUsers(\"\") = %d users, want 2 distinct", len(all))
	}

	scoped := h.ConnectedUsers("church-a")
	if len(scoped) != 1 || scoped[0].UserID != "alice" {
		t.Errorf("ConnectedUsers(church-a) = %+v, want just alice", scoped)
	}
}

func TestConcurrentBroadcastAndChurn(t *testing.T) {
	h := NewHub(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ids := []string{"c1", "c2", "c3", "c4"}
			for j := 0; j < 50; j++ {
				id := ids[(n+j)%len(ids)]
				addConn(h, id, "user-"+id, "church-a", "staff")
				h.BroadcastToChurch("church-a", Message{Type: "ping"})
				h.RemoveConnection(id)
			}
		}(i)
	}
	wg.Wait()

	if total := h.Stats().TotalConnections; total > 4 {
		t.Errorf("connection map leaked entries: %d", total)
	}
}
