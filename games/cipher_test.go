// games/cipher_test.go
package games

import (
	"strings"
	"testing"

	"github.com/socialoop/partyhost/game"
)

func cipherRound(t *testing.T, ids ...string) (*Cipher, *game.State) {
	t.Helper()
	h := NewCipher(testContent(t))
	st := testState(1, 4, ids...)
	mustInit(t, h, st, 51)
	return h, st
}

func TestCipher_PlainStaysHidden(t *testing.T) {
	h, st := cipherRound(t, "p1", "p2")

	encoded := dataString(st, "encoded")
	if encoded == "" {
		t.Fatal("Expected an encoded phrase")
	}
	if normalize(encoded) == h.answer {
		t.Fatal("Encoded phrase equals the answer")
	}
	for _, key := range []string{"plain", "shift", "answer"} {
		if _, leaked := st.Data[key]; leaked {
			t.Errorf("Round data leaks %q", key)
		}
	}

	// 密文必须能由某个位移还原成明文
	decodable := false
	for s := 1; s < 26; s++ {
		if normalize(caesar(encoded, s)) == h.answer {
			decodable = true
			break
		}
	}
	if !decodable {
		t.Error("No shift decodes the phrase back to the answer")
	}
}

func TestCipher_FirstSolverGetsTheBonus(t *testing.T) {
	h, st := cipherRound(t, "p1", "p2", "p3")

	mustApply(t, h, st, "p1", game.Action{"solution": "definitely wrong"})
	mustApply(t, h, st, "p2", game.Action{"solution": h.answer})
	mustApply(t, h, st, "p1", game.Action{"solution": h.answer})
	if h.RoundComplete(st) {
		t.Fatal("Round complete with p3 still stuck")
	}

	scores := h.RoundScores(st)
	if scores["p2"] != 15 {
		t.Errorf("Expected 15 for the first solver, got %d", scores["p2"])
	}
	if scores["p1"] != 12 {
		t.Errorf("Expected 12 for a later solver, got %d", scores["p1"])
	}
	if scores["p3"] != 0 {
		t.Errorf("Expected 0 for an unsolved player, got %d", scores["p3"])
	}
}

func TestCipher_SolutionIsForgivingOnForm(t *testing.T) {
	h, st := cipherRound(t, "p1", "p2")

	sloppy := "  " + strings.ToUpper(h.answer) + "  "
	mustApply(t, h, st, "p1", game.Action{"solution": sloppy})
	if _, ok := dataMap(st, "solved")["p1"]; !ok {
		t.Fatal("Case and spacing should not matter")
	}

	mustApply(t, h, st, "p2", game.Action{"solution": h.answer})
	if !h.RoundComplete(st) {
		t.Error("Round should be complete once everyone solved it")
	}
}

func TestCipher_AttemptsAndRejections(t *testing.T) {
	h, st := cipherRound(t, "p1", "p2")

	expectReject(t, h, st, "p1", game.Action{})
	mustApply(t, h, st, "p1", game.Action{"solution": "guess one"})
	mustApply(t, h, st, "p1", game.Action{"solution": "guess two"})
	mustApply(t, h, st, "p1", game.Action{"solution": h.answer})
	expectReject(t, h, st, "p1", game.Action{"solution": h.answer})

	if n, _ := intEntry(dataMap(st, "attempts"), "p1"); n != 3 {
		t.Errorf("Expected 3 attempts on the board, got %d", n)
	}

	if _, ok := h.DefaultAction(st, "p2"); ok {
		t.Error("Expected no filler guesses")
	}
}
