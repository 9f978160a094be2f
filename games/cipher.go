// games/cipher.go
package games

import (
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

// Cipher 移位密码竞速。每回合一条凯撒加密的短语，谁先还原谁得分。
// 明文和位移量留在 handler 实例上，广播数据里只有密文和提示。
type Cipher struct {
	content *services.ContentService
	puzzles []models.Cipher
	answer  string // 当前回合明文的规整形式
}

func NewCipher(content *services.ContentService) *Cipher {
	return &Cipher{content: content}
}

func (c *Cipher) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "cipher",
		Name:          "Cipher Break",
		MinPlayers:    2,
		MaxPlayers:    8,
		DefaultRounds: 4,
		ScoreBoundary: game.ScoreOnReveal,
	}
}

func (c *Cipher) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if c.puzzles == nil {
		set, err := c.content.CipherSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		c.puzzles = set
	}
	puzzle := c.puzzles[st.Round-1]
	shift := 1 + rng.Intn(25)
	c.answer = normalize(puzzle.Plain)

	return game.Data{
		"encoded":  caesar(puzzle.Plain, shift),
		"hint":     puzzle.Hint,
		"solved":   map[string]interface{}{},
		"order":    []string{},
		"attempts": map[string]interface{}{},
	}, nil
}

func caesar(s string, shift int) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
			out[i] = 'a' + (r-'a'+rune(shift))%26
		case r >= 'A' && r <= 'Z':
			out[i] = 'A' + (r-'A'+rune(shift))%26
		}
	}
	return string(out)
}

func (c *Cipher) ValidateAction(st *game.State, playerID string, act game.Action) error {
	if _, ok := act.String("solution"); !ok {
		return game.Rejectf("missing solution")
	}
	if _, done := dataMap(st, "solved")[playerID]; done {
		return game.Rejectf("already solved")
	}
	return nil
}

func (c *Cipher) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()
	attempts := next["attempts"].(map[string]interface{})
	n, _ := intEntry(attempts, playerID)
	attempts[playerID] = n + 1

	text, _ := act.String("solution")
	if normalize(text) == c.answer {
		next["solved"].(map[string]interface{})[playerID] = true
		next["order"] = append(next["order"].([]string), playerID)
	}
	return next, nil
}

func (c *Cipher) RoundComplete(st *game.State) bool {
	solved := dataMap(st, "solved")
	for _, p := range st.ActivePlayers() {
		if _, ok := solved[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (c *Cipher) RoundScores(st *game.State) map[string]int {
	solved := dataMap(st, "solved")
	order := dataStrings(st, "order")

	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
		if _, ok := solved[p.ID]; ok {
			deltas[p.ID] = 12
		}
	}
	if len(order) > 0 {
		deltas[order[0]] += 3
	}
	return deltas
}

func (c *Cipher) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	// 没解出来就是没解出来
	return nil, false
}

func (c *Cipher) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 45 * time.Second,
		game.PhaseReveal:  8 * time.Second,
		game.PhaseScoring: 5 * time.Second,
	}
}
