// games/wheel.go
package games

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

var wheelWedges = []int{2, 3, 4, 5, 6, 8, 10}

// Wheel 转盘填词。轮流行动：报一个字母，命中按转盘倍率得分并保住
// 行动权，落空换人。随时可以直接报整句答案，报对拿大头。
// 谜底留在 handler 实例上，场上只见遮罩后的版式。
type Wheel struct {
	content *services.ContentService
	puzzles []models.Puzzle
	answer  string
	spins   []int
	spinIdx int
}

func NewWheel(content *services.ContentService) *Wheel {
	return &Wheel{content: content}
}

func (w *Wheel) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "wheel-of-fortune",
		Name:          "Wheel of Fortune",
		MinPlayers:    2,
		MaxPlayers:    6,
		DefaultRounds: 3,
	}
}

func (w *Wheel) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if w.puzzles == nil {
		set, err := w.content.PuzzleSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		w.puzzles = set
	}
	puzzle := w.puzzles[st.Round-1]
	w.answer = puzzle.Answer

	// 预滚整回合的转盘，出招时不再掷骰
	w.spins = make([]int, 40)
	for i := range w.spins {
		w.spins[i] = wheelWedges[rng.Intn(len(wheelWedges))]
	}
	w.spinIdx = 0

	seats := st.ActivePlayers()
	if len(seats) == 0 {
		seats = st.Participants()
	}

	return game.Data{
		"category":    puzzle.Category,
		"masked":      maskAnswer(puzzle.Answer, nil),
		"guessed":     []string{},
		"turn":        seats[(st.Round-1)%len(seats)].ID,
		"spin":        w.spins[0],
		"solvedBy":    "",
		"roundScores": map[string]interface{}{},
	}, nil
}

// maskAnswer 把尚未猜到的字母遮成下划线，空格和标点原样保留
func maskAnswer(answer string, guessed []string) string {
	seen := strings.Join(guessed, "")
	out := []rune(answer)
	for i, r := range out {
		if !unicode.IsLetter(r) {
			continue
		}
		if !strings.ContainsRune(seen, unicode.ToLower(r)) {
			out[i] = '_'
		}
	}
	return string(out)
}

func countLetter(answer string, letter rune) int {
	n := 0
	for _, r := range answer {
		if unicode.ToLower(r) == letter {
			n++
		}
	}
	return n
}

func (w *Wheel) ValidateAction(st *game.State, playerID string, act game.Action) error {
	if dataString(st, "solvedBy") != "" {
		return game.Rejectf("puzzle already solved")
	}
	if playerID != dataString(st, "turn") {
		return game.Rejectf("not your turn")
	}

	if raw, ok := act.String("letter"); ok {
		letter := strings.ToLower(strings.TrimSpace(raw))
		if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
			return game.Rejectf("letter must be a single a-z character")
		}
		for _, prev := range dataStrings(st, "guessed") {
			if prev == letter {
				return game.Rejectf("letter %q already called", letter)
			}
		}
		return nil
	}

	if sol, ok := act.String("solve"); ok {
		if normalize(sol) == "" {
			return game.Rejectf("empty solve attempt")
		}
		return nil
	}
	return game.Rejectf("expected a letter or a solve")
}

func (w *Wheel) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()

	if sol, ok := act.String("solve"); ok {
		if normalize(sol) == normalize(w.answer) {
			next["solvedBy"] = playerID
			next["masked"] = w.answer
			addScore(next, playerID, 25)
		} else {
			next["turn"] = nextTurn(st, playerID)
		}
		return next, nil
	}

	raw, _ := act.String("letter")
	letter := rune(strings.ToLower(strings.TrimSpace(raw))[0])

	guessed := append(next["guessed"].([]string), string(letter))
	next["guessed"] = guessed
	next["masked"] = maskAnswer(w.answer, guessed)

	wedge, _ := dataInt(st, "spin")
	w.spinIdx++
	next["spin"] = w.spins[w.spinIdx%len(w.spins)]

	if hits := countLetter(w.answer, letter); hits > 0 {
		addScore(next, playerID, wedge*hits)
	} else {
		next["turn"] = nextTurn(st, playerID)
	}
	return next, nil
}

func addScore(d game.Data, playerID string, points int) {
	scores := d["roundScores"].(map[string]interface{})
	n, _ := intEntry(scores, playerID)
	scores[playerID] = n + points
}

// nextTurn 沿入座顺序找下一个在线玩家，找不到就留在原地
func nextTurn(st *game.State, current string) string {
	parts := st.Participants()
	idx := -1
	for i, p := range parts {
		if p.ID == current {
			idx = i
		}
	}
	if idx == -1 {
		if active := st.ActivePlayers(); len(active) > 0 {
			return active[0].ID
		}
		return current
	}
	for off := 1; off <= len(parts); off++ {
		p := parts[(idx+off)%len(parts)]
		if p.Connected && p.ID != current {
			return p.ID
		}
	}
	return current
}

func (w *Wheel) RoundComplete(st *game.State) bool {
	return dataString(st, "solvedBy") != "" || len(dataStrings(st, "guessed")) >= 26
}

func (w *Wheel) RoundScores(st *game.State) map[string]int {
	scores := dataMap(st, "roundScores")
	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID], _ = intEntry(scores, p.ID)
	}
	return deltas
}

func (w *Wheel) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	// 轮到谁是谁的事，不代打
	return nil, false
}

func (w *Wheel) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 90 * time.Second,
		game.PhaseReveal:  8 * time.Second,
		game.PhaseScoring: 6 * time.Second,
	}
}

// PlayerDisconnected 行动权在手的人掉线时立即把轮次让出去
func (w *Wheel) PlayerDisconnected(st *game.State, playerID string) game.Data {
	if dataString(st, "turn") != playerID || dataString(st, "solvedBy") != "" {
		return nil
	}
	succ := nextTurn(st, playerID)
	if succ == playerID {
		return nil
	}
	next := st.Data.Clone()
	next["turn"] = succ
	return next
}

func (w *Wheel) PlayerReconnected(st *game.State, playerID string) game.Data {
	return nil
}
