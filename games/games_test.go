package games

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/persistence"
	"github.com/socialoop/partyhost/services"
)

func testContent(t *testing.T) *services.ContentService {
	t.Helper()
	svc, err := services.NewContentService(persistence.NewSeedSource())
	if err != nil {
		t.Fatalf("Content service failed: %v", err)
	}
	return svc
}

// testState builds a playing-phase state with connected players in join
// order; the first id is host.
func testState(round, total int, ids ...string) *game.State {
	players := make([]game.PlayerInfo, len(ids))
	for i, id := range ids {
		players[i] = game.PlayerInfo{ID: id, Name: "player " + id, Connected: true}
	}
	if len(players) > 0 {
		players[0].Host = true
	}
	return &game.State{
		Code:        "GAME01",
		GameType:    "test",
		Phase:       game.PhasePlaying,
		Round:       round,
		TotalRounds: total,
		Players:     players,
	}
}

func mustInit(t *testing.T, h game.Handler, st *game.State, seed int64) {
	t.Helper()
	data, err := h.InitRound(st, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("InitRound failed: %v", err)
	}
	st.Data = data
}

// mustApply validates then applies, mirroring the room's action path.
func mustApply(t *testing.T, h game.Handler, st *game.State, pid string, act game.Action) {
	t.Helper()
	if err := h.ValidateAction(st, pid, act); err != nil {
		t.Fatalf("Action by %s rejected: %v", pid, err)
	}
	data, err := h.ApplyAction(st, pid, act)
	if err != nil {
		t.Fatalf("ApplyAction for %s failed: %v", pid, err)
	}
	st.Data = data
}

func applyDefault(t *testing.T, h game.Handler, st *game.State, pid string) {
	t.Helper()
	act, ok := h.DefaultAction(st, pid)
	if !ok {
		return
	}
	data, err := h.ApplyAction(st, pid, act)
	if err != nil {
		t.Fatalf("Default action for %s failed: %v", pid, err)
	}
	st.Data = data
}

func expectReject(t *testing.T, h game.Handler, st *game.State, pid string, act game.Action) {
	t.Helper()
	err := h.ValidateAction(st, pid, act)
	if !errors.Is(err, game.ErrValidationRejected) {
		t.Fatalf("Expected a rejection for %s, got %v", pid, err)
	}
}

func TestRegisterAll(t *testing.T) {
	reg := game.NewRegistry()
	if err := RegisterAll(reg, testContent(t)); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}

	want := []string{
		"cipher", "family-feud", "infiltrator", "prediction", "quiz-board",
		"sketch-duel", "trivia", "two-truths", "wavelength", "wheel-of-fortune",
		"would-you-rather",
	}
	got := reg.Types()
	if len(got) != len(want) {
		t.Fatalf("Expected %d game types, got %d: %v", len(want), len(got), got)
	}
	for i, key := range want {
		if got[i] != key {
			t.Errorf("Expected type %q at %d, got %q", key, i, got[i])
		}
	}

	// Registration keys follow the descriptors and survive a second
	// registration attempt as an error, not a panic.
	for _, key := range want {
		h, err := reg.Create(key)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", key, err)
		}
		desc := h.Descriptor()
		if desc.Type != key {
			t.Errorf("Descriptor type %q does not match key %q", desc.Type, key)
		}
		if desc.MinPlayers < 1 || desc.MaxPlayers < desc.MinPlayers {
			t.Errorf("%q has a bad player range %d..%d", key, desc.MinPlayers, desc.MaxPlayers)
		}
		if desc.DefaultRounds < 1 {
			t.Errorf("%q has no default rounds", key)
		}
	}

	if err := RegisterAll(reg, testContent(t)); !errors.Is(err, game.ErrDuplicateGameType) {
		t.Errorf("Expected ErrDuplicateGameType on re-registration, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Grand   Canyon ": "grand canyon",
		"KEYS":              "keys",
		"check  Phone":      "check phone",
		"":                  "",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
