package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/socialoop/partyhost/game"
)

// echoHandler is the simplest possible game: any action is legal, the
// round never completes on its own, nobody scores.
type echoHandler struct{}

func (echoHandler) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "echo",
		Name:          "Echo",
		MinPlayers:    1,
		MaxPlayers:    4,
		DefaultRounds: 1,
	}
}

func (echoHandler) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	return game.Data{}, nil
}

func (echoHandler) ValidateAction(st *game.State, playerID string, act game.Action) error {
	return nil
}

func (echoHandler) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()
	say, _ := act.String("say")
	next[playerID] = say
	return next, nil
}

func (echoHandler) RoundComplete(st *game.State) bool { return false }

func (echoHandler) RoundScores(st *game.State) map[string]int { return nil }

func (echoHandler) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	return nil, false
}

func (echoHandler) PhaseDurations() map[game.Phase]time.Duration { return nil }

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Registry == nil {
		opts.Registry = game.NewRegistry()
		opts.Registry.MustRegister("echo", func() game.Handler { return echoHandler{} })
	}
	e := NewEngine(opts)
	t.Cleanup(e.Close)
	return e
}

func mustCreate(t *testing.T, e *Engine, params CreateParams) string {
	t.Helper()
	r, err := e.CreateRoom(params)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	return r.Code
}

func mustDispatch(t *testing.T, e *Engine, ev *Event) {
	t.Helper()
	if err := e.Dispatch(ev); err != nil {
		t.Fatalf("Event %s in %s failed: %v", ev.Type, ev.RoomCode, err)
	}
}

func waitRoomGone(t *testing.T, e *Engine, code string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, exists := e.Room(code); !exists {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Room %s was never reaped", code)
}

func TestGenerateCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateCode()
		if len(code) != CodeLength {
			t.Fatalf("Expected %d characters, got %q", CodeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("Code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestGenerateCode_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateCode()
		if seen[code] {
			t.Fatalf("Code %q generated twice", code)
		}
		seen[code] = true
	}
}

func TestEngine_CreateRoom(t *testing.T) {
	e := newTestEngine(t, Options{})

	code := mustCreate(t, e, CreateParams{GameType: "echo"})
	if len(code) != CodeLength {
		t.Errorf("Expected a %d character code, got %q", CodeLength, code)
	}
	if e.RoomCount() != 1 {
		t.Errorf("Expected 1 room, got %d", e.RoomCount())
	}

	// Lookups are case-insensitive.
	if _, exists := e.Room(strings.ToLower(code)); !exists {
		t.Errorf("Room %s not found via lowercase lookup", code)
	}
}

func TestEngine_CreateRoom_UnknownType(t *testing.T) {
	e := newTestEngine(t, Options{})

	_, err := e.CreateRoom(CreateParams{GameType: "chess"})
	if !errors.Is(err, game.ErrUnknownGameType) {
		t.Errorf("Expected ErrUnknownGameType, got %v", err)
	}
}

func TestEngine_CreateRoom_Limit(t *testing.T) {
	e := newTestEngine(t, Options{MaxRooms: 2})

	mustCreate(t, e, CreateParams{GameType: "echo"})
	mustCreate(t, e, CreateParams{GameType: "echo"})

	_, err := e.CreateRoom(CreateParams{GameType: "echo"})
	if !errors.Is(err, game.ErrTooManyRooms) {
		t.Errorf("Expected ErrTooManyRooms, got %v", err)
	}
}

func TestEngine_Dispatch_FullFlow(t *testing.T) {
	e := newTestEngine(t, Options{})
	code := mustCreate(t, e, CreateParams{GameType: "echo", Seed: 1})

	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "join", Payload: map[string]interface{}{"name": "Ana"}})
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p2", Type: "join", Payload: map[string]interface{}{"name": "Bo"}})
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "w1", Type: "join", Payload: map[string]interface{}{"name": "watcher", "spectator": true}})

	// An explicit ready=false keeps the start gated.
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p2", Type: "ready", Payload: map[string]interface{}{"ready": false}})
	err := e.Dispatch(&Event{RoomCode: code, PlayerID: "p1", Type: "start"})
	if !errors.Is(err, game.ErrPlayersNotReady) {
		t.Fatalf("Expected ErrPlayersNotReady, got %v", err)
	}

	// Ready without a payload defaults to true.
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p2", Type: "ready"})
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "start"})

	r, _ := e.Room(code)
	view := r.View()
	if view.Phase != "playing" || view.Round != 1 {
		t.Fatalf("Expected playing round 1, got %s round %d", view.Phase, view.Round)
	}

	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "action", Payload: map[string]interface{}{"say": "hi"}})
	if got := r.View().Data["p1"]; got != "hi" {
		t.Errorf("Expected the action to land in round data, got %v", got)
	}

	if err := e.ForceEnd(code, "test over"); err != nil {
		t.Fatalf("ForceEnd failed: %v", err)
	}
	res := r.Result()
	if res == nil || res.Reason != "test over" {
		t.Fatalf("Expected a result with the force-end reason, got %+v", res)
	}
}

func TestEngine_Dispatch_UnknownRoom(t *testing.T) {
	e := newTestEngine(t, Options{})

	err := e.Dispatch(&Event{RoomCode: "NOPE42", PlayerID: "p1", Type: "join"})
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestEngine_Dispatch_InternalTypesRejected(t *testing.T) {
	e := newTestEngine(t, Options{})
	code := mustCreate(t, e, CreateParams{GameType: "echo"})
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "join"})

	for _, evType := range []string{"timeout", "disconnect", "snapshot", "forceEnd", "bogus"} {
		err := e.Dispatch(&Event{RoomCode: code, PlayerID: "p1", Type: evType})
		if !errors.Is(err, game.ErrValidationRejected) {
			t.Errorf("Expected type %q to be rejected, got %v", evType, err)
		}
	}

	r, _ := e.Room(code)
	if r.View().Phase != "lobby" {
		t.Errorf("Rejected events must not move the room, got %s", r.View().Phase)
	}
}

func TestEngine_TwoRoomsStayIndependent(t *testing.T) {
	e := newTestEngine(t, Options{})

	codeA := mustCreate(t, e, CreateParams{GameType: "echo", Seed: 1})
	codeB := mustCreate(t, e, CreateParams{GameType: "echo", Seed: 2})

	for _, code := range []string{codeA, codeB} {
		mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "join"})
		mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "start"})
	}

	mustDispatch(t, e, &Event{RoomCode: codeA, PlayerID: "p1", Type: "action", Payload: map[string]interface{}{"say": "only A"}})

	roomA, _ := e.Room(codeA)
	roomB, _ := e.Room(codeB)
	if got := roomA.View().Data["p1"]; got != "only A" {
		t.Errorf("Expected the action in room A data, got %v", got)
	}
	if _, leaked := roomB.View().Data["p1"]; leaked {
		t.Errorf("Action in room A leaked into room B")
	}

	// Ending one room leaves the other running.
	if err := e.ForceEnd(codeA, "done"); err != nil {
		t.Fatalf("ForceEnd failed: %v", err)
	}
	if roomB.View().Phase != "playing" {
		t.Errorf("Room B should still be playing, got %s", roomB.View().Phase)
	}
}

func TestEngine_NotifyDisconnect(t *testing.T) {
	e := newTestEngine(t, Options{})
	code := mustCreate(t, e, CreateParams{GameType: "echo"})
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "join"})
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p2", Type: "join"})

	e.NotifyDisconnect(code, "p2")
	// A synchronous snapshot request flushes the queued disconnect.
	if err := e.RequestSnapshot(code, "p1"); err != nil {
		t.Fatalf("RequestSnapshot failed: %v", err)
	}

	r, _ := e.Room(code)
	if got := len(r.View().Players); got != 1 {
		t.Errorf("Expected the lobby disconnect to free the seat, got %d players", got)
	}
}

func TestEngine_ReapsEndedRooms(t *testing.T) {
	e := newTestEngine(t, Options{GracePeriod: 40 * time.Millisecond, ReapInterval: 20 * time.Millisecond})
	code := mustCreate(t, e, CreateParams{GameType: "echo"})
	mustDispatch(t, e, &Event{RoomCode: code, PlayerID: "p1", Type: "join"})

	if err := e.ForceEnd(code, "over"); err != nil {
		t.Fatalf("ForceEnd failed: %v", err)
	}
	waitRoomGone(t, e, code)
}

func TestEngine_ReapsAbandonedRooms(t *testing.T) {
	e := newTestEngine(t, Options{GracePeriod: 40 * time.Millisecond, ReapInterval: 20 * time.Millisecond})

	// Created but never joined.
	code := mustCreate(t, e, CreateParams{GameType: "echo"})
	waitRoomGone(t, e, code)
}

func TestEngine_Close(t *testing.T) {
	e := newTestEngine(t, Options{})
	code := mustCreate(t, e, CreateParams{GameType: "echo"})
	mustCreate(t, e, CreateParams{GameType: "echo"})

	e.Close()

	if e.RoomCount() != 0 {
		t.Errorf("Expected no rooms after close, got %d", e.RoomCount())
	}
	err := e.Dispatch(&Event{RoomCode: code, PlayerID: "p1", Type: "join"})
	if !errors.Is(err, game.ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound after close, got %v", err)
	}
}
