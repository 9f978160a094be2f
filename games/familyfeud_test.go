// games/familyfeud_test.go
package games

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/socialoop/partyhost/game"
)

func feudRound(t *testing.T, ids ...string) (*FamilyFeud, *game.State) {
	t.Helper()
	h := NewFamilyFeud(testContent(t))
	st := testState(1, 3, ids...)
	mustInit(t, h, st, 101)
	return h, st
}

func TestFamilyFeud_RevealCreditsTheFinder(t *testing.T) {
	h, st := feudRound(t, "p1", "p2", "p3", "p4")

	if dataString(st, "question") == "" {
		t.Fatal("Expected the survey question on the board")
	}
	top := h.board.Answers[0]

	mustApply(t, h, st, "p1", game.Action{"answer": "  " + strings.ToUpper(top.Text) + " "})
	revealed := dataMap(st, "revealed")
	slot, ok := revealed["0"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected slot 0 to be revealed")
	}
	if by, _ := stringEntry(slot, "by"); by != "p1" {
		t.Errorf("Expected slot 0 credited to p1, got %q", by)
	}

	// 重复报已翻开的格子只费机会不算分
	mustApply(t, h, st, "p2", game.Action{"answer": top.Text})
	slot, _ = dataMap(st, "revealed")["0"].(map[string]interface{})
	if by, _ := stringEntry(slot, "by"); by != "p1" {
		t.Errorf("Expected the credit to stay with p1, got %q", by)
	}
	if n, _ := intEntry(dataMap(st, "attempts"), "p2"); n != 1 {
		t.Errorf("Expected the duplicate to cost an attempt, got %d", n)
	}

	mustApply(t, h, st, "p3", game.Action{"answer": "not on the board"})

	scores := h.RoundScores(st)
	if scores["p1"] != top.Points {
		t.Errorf("Expected %d for p1, got %d", top.Points, scores["p1"])
	}
	if scores["p2"] != 0 || scores["p3"] != 0 {
		t.Errorf("Expected 0 for p2 and p3, got %d and %d", scores["p2"], scores["p3"])
	}
}

func TestFamilyFeud_AliasScoresTheSlot(t *testing.T) {
	h, st := feudRound(t, "p1", "p2", "p3", "p4")

	aliased := -1
	for i, a := range h.board.Answers {
		if len(a.Aliases) > 0 {
			aliased = i
			break
		}
	}
	if aliased < 0 {
		t.Fatal("Expected at least one aliased answer on every board")
	}

	mustApply(t, h, st, "p1", game.Action{"answer": h.board.Answers[aliased].Aliases[0]})
	slot, ok := dataMap(st, "revealed")[strconv.Itoa(aliased)].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected the alias to reveal slot %d", aliased)
	}
	if text, _ := stringEntry(slot, "text"); text != h.board.Answers[aliased].Text {
		t.Errorf("Expected the canonical text %q, got %q", h.board.Answers[aliased].Text, text)
	}
	if got := h.RoundScores(st)["p1"]; got != h.board.Answers[aliased].Points {
		t.Errorf("Expected %d via the alias, got %d", h.board.Answers[aliased].Points, got)
	}
}

func TestFamilyFeud_AttemptsAreCapped(t *testing.T) {
	h, st := feudRound(t, "p1", "p2", "p3", "p4")

	for j := 0; j < feudAttempts; j++ {
		mustApply(t, h, st, "p1", game.Action{"answer": fmt.Sprintf("miss p1 %d", j)})
	}
	expectReject(t, h, st, "p1", game.Action{"answer": "one more"})
	expectReject(t, h, st, "p1", game.Action{"answer": "  "})
	expectReject(t, h, st, "p1", game.Action{})
	if h.RoundComplete(st) {
		t.Fatal("Round complete with attempts left elsewhere")
	}

	for _, pid := range []string{"p2", "p3", "p4"} {
		for j := 0; j < feudAttempts; j++ {
			mustApply(t, h, st, pid, game.Action{"answer": fmt.Sprintf("miss %s %d", pid, j)})
		}
	}
	if !h.RoundComplete(st) {
		t.Fatal("Round should end once every attempt is spent")
	}
	for pid, got := range h.RoundScores(st) {
		if got != 0 {
			t.Errorf("Expected 0 for %s on a blank board, got %d", pid, got)
		}
	}
}

func TestFamilyFeud_ClearingTheBoardEndsTheRound(t *testing.T) {
	ids := []string{"p1", "p2", "p3", "p4"}
	h, st := feudRound(t, ids...)

	want := map[string]int{}
	for i, a := range h.board.Answers {
		pid := ids[i%len(ids)]
		mustApply(t, h, st, pid, game.Action{"answer": a.Text})
		want[pid] += a.Points
	}
	if !h.RoundComplete(st) {
		t.Fatal("Round should end when the board is clear")
	}

	scores := h.RoundScores(st)
	for _, pid := range ids {
		if scores[pid] != want[pid] {
			t.Errorf("Expected %d for %s, got %d", want[pid], pid, scores[pid])
		}
	}
}
