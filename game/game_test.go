package game

import (
	"errors"
	"testing"
)

func TestPhase_String(t *testing.T) {
	cases := map[Phase]string{
		PhaseLobby:   "lobby",
		PhasePlaying: "playing",
		PhaseReveal:  "reveal",
		PhaseScoring: "scoring",
		PhaseEnded:   "ended",
		Phase(99):    "unknown",
	}

	for phase, expected := range cases {
		if got := phase.String(); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	}

	if PhaseLobby.Terminal() {
		t.Error("lobby should not be terminal")
	}
	if !PhaseEnded.Terminal() {
		t.Error("ended should be terminal")
	}
}

func TestData_Clone_Independent(t *testing.T) {
	original := Data{
		"question": "capital of France?",
		"answers":  map[string]interface{}{"p1": "Paris"},
		"order":    []interface{}{"p1", "p2"},
	}

	clone := original.Clone()
	clone["question"] = "changed"
	clone["answers"].(map[string]interface{})["p2"] = "Lyon"
	clone["order"].([]interface{})[0] = "p9"

	if original["question"] != "capital of France?" {
		t.Error("Clone should not share top-level values with the original")
	}
	if len(original["answers"].(map[string]interface{})) != 1 {
		t.Error("Clone should not share nested maps with the original")
	}
	if original["order"].([]interface{})[0] != "p1" {
		t.Error("Clone should not share nested slices with the original")
	}
}

func TestAction_Accessors(t *testing.T) {
	// JSON decoding hands numbers over as float64.
	act := Action{"answer": "b", "value": float64(42), "target": 7}

	if s, ok := act.String("answer"); !ok || s != "b" {
		t.Errorf("Expected answer b, got %q (ok=%v)", s, ok)
	}
	if n, ok := act.Int("value"); !ok || n != 42 {
		t.Errorf("Expected value 42, got %d (ok=%v)", n, ok)
	}
	if n, ok := act.Int("target"); !ok || n != 7 {
		t.Errorf("Expected target 7, got %d (ok=%v)", n, ok)
	}
	if f, ok := act.Float("value"); !ok || f != 42 {
		t.Errorf("Expected value 42.0, got %f (ok=%v)", f, ok)
	}
	if _, ok := act.String("missing"); ok {
		t.Error("Missing key should not report ok")
	}
}

func TestState_PlayerLookup(t *testing.T) {
	st := &State{
		Players: []PlayerInfo{
			{ID: "p1", Connected: true},
			{ID: "p2", Connected: false},
			{ID: "p3", Connected: true, Spectator: true},
		},
	}

	if _, ok := st.Player("p2"); !ok {
		t.Error("Player should find a seated id")
	}
	if _, ok := st.Player("p9"); ok {
		t.Error("Player should not find an unknown id")
	}

	active := st.ActivePlayers()
	if len(active) != 1 || active[0].ID != "p1" {
		t.Errorf("Expected active players [p1], got %v", active)
	}

	participants := st.Participants()
	if len(participants) != 2 {
		t.Errorf("Expected 2 participants, got %d", len(participants))
	}
}

func TestReasonCode(t *testing.T) {
	cases := []struct {
		err      error
		expected string
	}{
		{Rejectf("already answered"), "rejected"},
		{ErrCapacityExceeded, "room_full"},
		{ErrRoomNotFound, "room_not_found"},
		{ErrPhaseViolation, "phase_violation"},
		{ErrRoomEnded, "room_ended"},
		{ErrNotHost, "not_host"},
		{&HandlerFault{GameType: "trivia", Op: "InitRound", Err: errors.New("boom")}, "handler_fault"},
		{errors.New("plain"), "internal"},
		{nil, ""},
	}

	for _, c := range cases {
		if got := ReasonCode(c.err); got != c.expected {
			t.Errorf("Expected reason %q for %v, got %q", c.expected, c.err, got)
		}
	}
}

func TestHandlerFault_Unwrap(t *testing.T) {
	cause := errors.New("index out of range")
	fault := &HandlerFault{GameType: "cipher", Op: "ApplyAction", Err: cause}

	if !errors.Is(fault, cause) {
		t.Error("HandlerFault should unwrap to its cause")
	}
	if !IsFault(fault) {
		t.Error("IsFault should recognize a HandlerFault")
	}
	if IsFault(cause) {
		t.Error("IsFault should not match a plain error")
	}
}
