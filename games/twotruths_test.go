// games/twotruths_test.go
package games

import (
	"testing"

	"github.com/socialoop/partyhost/game"
)

var sampleStatements = []string{
	"I once missed a flight twice in one day",
	"I have never broken a bone",
	"I speak four languages",
}

func twoTruthsRound(t *testing.T, round int, ids ...string) (*TwoTruths, *game.State) {
	t.Helper()
	h := NewTwoTruths()
	st := testState(round, 5, ids...)
	mustInit(t, h, st, 71)
	return h, st
}

func TestTwoTruths_SpotTheLie(t *testing.T) {
	h, st := twoTruthsRound(t, 1, "p1", "p2", "p3", "p4")

	if got := dataString(st, "storyteller"); got != "p1" {
		t.Fatalf("Expected p1 to open, got %q", got)
	}

	mustApply(t, h, st, "p1", game.Action{"statements": sampleStatements, "lie": 2})
	if got := dataStrings(st, "statements"); len(got) != 3 {
		t.Fatalf("Expected 3 statements on the board, got %d", len(got))
	}

	// JSON 解码的票面是 float64
	mustApply(t, h, st, "p2", game.Action{"vote": float64(2)})
	mustApply(t, h, st, "p3", game.Action{"vote": 0})
	if h.RoundComplete(st) {
		t.Fatal("Round complete with p4 undecided")
	}
	mustApply(t, h, st, "p4", game.Action{"vote": 1})
	if !h.RoundComplete(st) {
		t.Fatal("Round should be complete after the last vote")
	}

	scores := h.RoundScores(st)
	if scores["p2"] != 8 {
		t.Errorf("Expected 8 for spotting the lie, got %d", scores["p2"])
	}
	if scores["p3"] != 0 || scores["p4"] != 0 {
		t.Errorf("Expected 0 for the fooled, got %d and %d", scores["p3"], scores["p4"])
	}
	if scores["p1"] != 10 {
		t.Errorf("Expected 10 for two fooled voters, got %d", scores["p1"])
	}
}

func TestTwoTruths_OrderOfPlay(t *testing.T) {
	h, st := twoTruthsRound(t, 1, "p1", "p2", "p3")

	expectReject(t, h, st, "p2", game.Action{"vote": 0})
	expectReject(t, h, st, "p2", game.Action{"statements": sampleStatements, "lie": 1})
	expectReject(t, h, st, "p1", game.Action{"vote": 1})
	expectReject(t, h, st, "p1", game.Action{"statements": sampleStatements[:2], "lie": 0})
	expectReject(t, h, st, "p1", game.Action{"statements": sampleStatements, "lie": 3})
	expectReject(t, h, st, "p1", game.Action{
		"statements": []string{"one", "", "three"}, "lie": 0,
	})

	mustApply(t, h, st, "p1", game.Action{"statements": sampleStatements, "lie": 0})
	expectReject(t, h, st, "p1", game.Action{"statements": sampleStatements, "lie": 1})
	expectReject(t, h, st, "p2", game.Action{"vote": 3})

	mustApply(t, h, st, "p2", game.Action{"vote": 0})
	expectReject(t, h, st, "p2", game.Action{"vote": 1})
}

func TestTwoTruths_RotationAndHandoff(t *testing.T) {
	h, st := twoTruthsRound(t, 3, "p1", "p2", "p3", "p4")

	if got := dataString(st, "storyteller"); got != "p3" {
		t.Fatalf("Expected the seat to rotate to p3, got %q", got)
	}

	st.Players[2].Connected = false
	next := h.PlayerDisconnected(st, "p3")
	if next == nil {
		t.Fatal("Expected a storyteller handoff")
	}
	st.Data = next
	if got := dataString(st, "storyteller"); got != "p1" {
		t.Fatalf("Expected the handoff to reach p1, got %q", got)
	}

	mustApply(t, h, st, "p1", game.Action{"statements": sampleStatements, "lie": 1})
	if h.PlayerDisconnected(st, "p1") != nil {
		t.Error("No handoff once the statements are out")
	}
}

func TestTwoTruths_SilentRoundScoresNothing(t *testing.T) {
	h, st := twoTruthsRound(t, 1, "p1", "p2", "p3")

	for _, p := range st.Participants() {
		if _, ok := h.DefaultAction(st, p.ID); ok {
			t.Errorf("Expected no default for %s", p.ID)
		}
	}
	for pid, got := range h.RoundScores(st) {
		if got != 0 {
			t.Errorf("Expected 0 for %s in a silent round, got %d", pid, got)
		}
	}
}
