package room

import (
	"testing"

	"github.com/socialoop/partyhost/broadcast"
)

func newManagedRoom(t *testing.T, code string) *Room {
	t.Helper()
	r := NewRoom(Options{
		Code:        code,
		GameType:    "quiz",
		Handler:     &quizHandler{min: 1, max: 4, rounds: 1},
		Broadcaster: broadcast.Nop{},
		Seed:        1,
	})
	t.Cleanup(r.Stop)
	return r
}

func TestManager_ReserveAndGet(t *testing.T) {
	m := NewManager()
	r := newManagedRoom(t, "ABCDEF")

	if !m.Reserve("ABCDEF", r) {
		t.Fatal("First reservation should succeed")
	}
	if m.Reserve("ABCDEF", newManagedRoom(t, "ABCDEF")) {
		t.Error("Reserving a taken code should fail")
	}

	got, exists := m.Get("ABCDEF")
	if !exists || got != r {
		t.Error("Get should return the reserved room")
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 room, got %d", m.Len())
	}
}

func TestManager_CaseInsensitiveCodes(t *testing.T) {
	m := NewManager()
	r := newManagedRoom(t, "ABCDEF")
	m.Reserve("AbCdEf", r)

	if _, exists := m.Get("abcdef"); !exists {
		t.Error("Lookup should be case-insensitive")
	}
	if m.Reserve("ABCDEF", r) {
		t.Error("Reservation should collide across case variants")
	}
	if _, exists := m.Get(" abcdef "); !exists {
		t.Error("Lookup should survive surrounding whitespace")
	}
}

func TestManager_RemoveStopsRoom(t *testing.T) {
	m := NewManager()
	r := newManagedRoom(t, "ABCDEF")
	m.Reserve("ABCDEF", r)

	removed, existed := m.Remove("abcdef")
	if !existed || removed != r {
		t.Fatal("Remove should hand back the room")
	}
	if _, exists := m.Get("ABCDEF"); exists {
		t.Error("Removed code should be free again")
	}

	// The stopped room rejects further events.
	err := r.Dispatch(&Event{Type: EventJoin, PlayerID: "p1"})
	if err == nil {
		t.Error("A stopped room should not accept events")
	}

	if _, existed := m.Remove("ABCDEF"); existed {
		t.Error("Removing twice should report absence")
	}
}

func TestManager_StopAll(t *testing.T) {
	m := NewManager()
	a := newManagedRoom(t, "AAAAAA")
	b := newManagedRoom(t, "BBBBBB")
	m.Reserve("AAAAAA", a)
	m.Reserve("BBBBBB", b)

	m.StopAll()

	if m.Len() != 0 {
		t.Errorf("Expected empty manager, got %d rooms", m.Len())
	}
	if err := a.Dispatch(&Event{Type: EventJoin, PlayerID: "p1"}); err == nil {
		t.Error("Stopped room should reject events")
	}
}
