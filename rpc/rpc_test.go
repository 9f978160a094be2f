// rpc/rpc_test.go
package rpc

import (
	"math/rand"
	"net/rpc"
	"testing"
	"time"

	"github.com/socialoop/partyhost/engine"
	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/room"
)

// 最小玩法桩，回合数据带嵌套结构，顺带检验 gob 登记
type pulseHandler struct{}

func (h *pulseHandler) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "pulse",
		Name:          "Pulse",
		MinPlayers:    1,
		MaxPlayers:    4,
		DefaultRounds: 1,
	}
}

func (h *pulseHandler) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	return game.Data{
		"prompt": "hold steady",
		"beats":  map[string]interface{}{},
	}, nil
}

func (h *pulseHandler) ValidateAction(st *game.State, playerID string, act game.Action) error {
	return nil
}

func (h *pulseHandler) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	return st.Data, nil
}

func (h *pulseHandler) RoundComplete(st *game.State) bool { return false }

func (h *pulseHandler) RoundScores(st *game.State) map[string]int {
	return map[string]int{}
}

func (h *pulseHandler) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	return nil, false
}

func (h *pulseHandler) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: time.Minute,
		game.PhaseReveal:  time.Minute,
		game.PhaseScoring: time.Minute,
	}
}

func newOpsClient(t *testing.T) (*engine.Engine, *rpc.Client) {
	t.Helper()

	registry := game.NewRegistry()
	registry.MustRegister("pulse", func() game.Handler { return &pulseHandler{} })
	eng := engine.NewEngine(engine.Options{Registry: registry})
	t.Cleanup(eng.Close)

	srv, err := NewServer("127.0.0.1:0", eng)
	if err != nil {
		t.Fatalf("Failed to start RPC server: %v", err)
	}
	go srv.Start()
	t.Cleanup(srv.Stop)

	client, err := rpc.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("Failed to dial RPC server: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return eng, client
}

func TestOpsService_RoomLifecycle(t *testing.T) {
	eng, client := newOpsClient(t)

	var stats StatsReply
	if err := client.Call("OpsService.Stats", &StatsArgs{}, &stats); err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Rooms != 0 {
		t.Errorf("Expected 0 rooms, got %d", stats.Rooms)
	}
	if len(stats.GameTypes) != 1 || stats.GameTypes[0] != "pulse" {
		t.Errorf("Expected game types [pulse], got %v", stats.GameTypes)
	}

	created, err := eng.CreateRoom(engine.CreateParams{GameType: "pulse", Rounds: 1})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	code := created.Code

	var listing ListRoomsReply
	if err := client.Call("OpsService.ListRooms", &ListRoomsArgs{}, &listing); err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(listing.Rooms) != 1 || listing.Rooms[0].Code != code {
		t.Fatalf("Expected listing with room %s, got %+v", code, listing.Rooms)
	}
	if listing.Rooms[0].Phase != "lobby" {
		t.Errorf("Expected phase lobby, got %q", listing.Rooms[0].Phase)
	}

	var state RoomStateReply
	if err := client.Call("OpsService.RoomState", &RoomArgs{Code: code}, &state); err != nil {
		t.Fatalf("RoomState failed: %v", err)
	}
	if state.Room.GameType != "pulse" {
		t.Errorf("Expected gameType pulse, got %q", state.Room.GameType)
	}

	if err := client.Call("OpsService.RoomState", &RoomArgs{Code: "ZZZZZZ"}, &state); err == nil {
		t.Error("Expected an error for an unknown room code")
	}
}

func TestOpsService_RoundDataSurvivesTheWire(t *testing.T) {
	eng, client := newOpsClient(t)

	created, err := eng.CreateRoom(engine.CreateParams{GameType: "pulse", Rounds: 1})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if err := created.Dispatch(&room.Event{Type: room.EventJoin, PlayerID: "p1", Name: "Ana"}); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if err := created.Dispatch(&room.Event{Type: room.EventStart, PlayerID: "p1"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var state RoomStateReply
	if err := client.Call("OpsService.RoomState", &RoomArgs{Code: created.Code}, &state); err != nil {
		t.Fatalf("RoomState failed: %v", err)
	}
	if state.Room.Phase != "playing" {
		t.Fatalf("Expected phase playing, got %q", state.Room.Phase)
	}
	if state.Room.Data["prompt"] != "hold steady" {
		t.Errorf("Expected the round payload over the wire, got %v", state.Room.Data)
	}
}

func TestOpsService_ForceEnd(t *testing.T) {
	eng, client := newOpsClient(t)

	created, err := eng.CreateRoom(engine.CreateParams{GameType: "pulse", Rounds: 1})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if err := created.Dispatch(&room.Event{Type: room.EventJoin, PlayerID: "p1", Name: "Ana"}); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	var ended ForceEndReply
	if err := client.Call("OpsService.ForceEnd", &ForceEndArgs{Code: created.Code, Reason: "maintenance"}, &ended); err != nil {
		t.Fatalf("ForceEnd failed: %v", err)
	}
	if !ended.Ended {
		t.Error("Expected Ended to be true")
	}

	var res ResultReply
	if err := client.Call("OpsService.RoomResult", &RoomArgs{Code: created.Code}, &res); err != nil {
		t.Fatalf("RoomResult failed: %v", err)
	}
	if res.Result == nil {
		t.Fatal("Expected a result after force end")
	}
	if res.Result.Reason != "maintenance" {
		t.Errorf("Expected reason maintenance, got %q", res.Result.Reason)
	}
	if err := client.Call("OpsService.ForceEnd", &ForceEndArgs{Code: "ZZZZZZ", Reason: "x"}, &ended); err == nil {
		t.Error("Expected an error for an unknown room code")
	}
}
