// games/infiltrator.go
package games

import (
	"math/rand"
	"strings"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

// Infiltrator 卧底词游戏。全场拿同一个词，只有卧底拿近义的另一个词。
// 每人先给一条不暴露原词的线索，然后全体投票揪卧底。
type Infiltrator struct {
	content *services.ContentService
	pairs   []models.WordPair
}

func NewInfiltrator(content *services.ContentService) *Infiltrator {
	return &Infiltrator{content: content}
}

func (g *Infiltrator) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "infiltrator",
		Name:          "The Infiltrator",
		MinPlayers:    4,
		MaxPlayers:    10,
		DefaultRounds: 3,
	}
}

func (g *Infiltrator) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if g.pairs == nil {
		pairs, err := g.content.WordPairSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		g.pairs = pairs
	}
	pair := g.pairs[st.Round-1]

	seats := st.ActivePlayers()
	if len(seats) == 0 {
		seats = st.Participants()
	}
	infiltrator := seats[rng.Intn(len(seats))].ID

	words := map[string]interface{}{}
	for _, p := range st.Participants() {
		if p.ID == infiltrator {
			words[p.ID] = pair.Decoy
		} else {
			words[p.ID] = pair.Common
		}
	}

	return game.Data{
		"category":    pair.Category,
		"words":       words,
		"infiltrator": infiltrator,
		"clues":       map[string]interface{}{},
		"votes":       map[string]interface{}{},
		"revealed":    false,
	}, nil
}

func (g *Infiltrator) allClued(st *game.State) bool {
	clues := dataMap(st, "clues")
	for _, p := range st.ActivePlayers() {
		if _, ok := clues[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (g *Infiltrator) ValidateAction(st *game.State, playerID string, act game.Action) error {
	if clue, ok := act.String("clue"); ok {
		if _, done := dataMap(st, "clues")[playerID]; done {
			return game.Rejectf("clue already given")
		}
		if normalize(clue) == "" {
			return game.Rejectf("empty clue")
		}
		word, _ := stringEntry(dataMap(st, "words"), playerID)
		if word != "" && strings.Contains(normalize(clue), normalize(word)) {
			return game.Rejectf("clue gives the word away")
		}
		return nil
	}

	target, ok := act.String("vote")
	if !ok {
		return game.Rejectf("expected a clue or a vote")
	}
	if !g.allClued(st) {
		return game.Rejectf("voting opens after every clue is in")
	}
	if _, done := dataMap(st, "votes")[playerID]; done {
		return game.Rejectf("already voted")
	}
	if target == playerID {
		return game.Rejectf("cannot vote for yourself")
	}
	if _, seated := dataMap(st, "words")[target]; !seated {
		return game.Rejectf("unknown vote target %q", target)
	}
	return nil
}

func (g *Infiltrator) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()
	if clue, ok := act.String("clue"); ok {
		next["clues"].(map[string]interface{})[playerID] = clue
		return next, nil
	}
	target, _ := act.String("vote")
	next["votes"].(map[string]interface{})[playerID] = target
	return next, nil
}

func (g *Infiltrator) RoundComplete(st *game.State) bool {
	if revealed, _ := st.Data["revealed"].(bool); revealed {
		return true
	}
	if !g.allClued(st) {
		return false
	}
	votes := dataMap(st, "votes")
	for _, p := range st.ActivePlayers() {
		if _, ok := votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (g *Infiltrator) RoundScores(st *game.State) map[string]int {
	infiltrator := dataString(st, "infiltrator")
	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
	}

	if revealed, _ := st.Data["revealed"].(bool); revealed {
		// 卧底跑路，其余人白捡
		for pid := range deltas {
			if pid != infiltrator {
				deltas[pid] = 5
			}
		}
		return deltas
	}

	votes := dataMap(st, "votes")
	tally := make(map[string]int)
	for voter, v := range votes {
		target, _ := v.(string)
		if target == "" {
			continue
		}
		tally[target]++
		if target == infiltrator {
			deltas[voter] += 10
		}
	}

	infCount := tally[infiltrator]
	top := 0
	for _, n := range tally {
		if n > top {
			top = n
		}
	}
	topShared := false
	for pid, n := range tally {
		if n == top && pid != infiltrator {
			topShared = true
		}
	}

	switch {
	case infCount == 0 || infCount < top:
		deltas[infiltrator] += 15
	case topShared:
		deltas[infiltrator] += 10
	}
	return deltas
}

func (g *Infiltrator) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	if _, done := dataMap(st, "clues")[playerID]; !done {
		return game.Action{"clue": "..."}, true
	}
	// 弃权票不计入，不代投
	return nil, false
}

func (g *Infiltrator) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 60 * time.Second,
		game.PhaseReveal:  8 * time.Second,
		game.PhaseScoring: 6 * time.Second,
	}
}

// PlayerDisconnected 卧底掉线视同暴露，当回合直接收尾
func (g *Infiltrator) PlayerDisconnected(st *game.State, playerID string) game.Data {
	if playerID != dataString(st, "infiltrator") {
		return nil
	}
	if revealed, _ := st.Data["revealed"].(bool); revealed {
		return nil
	}
	next := st.Data.Clone()
	next["revealed"] = true
	return next
}

func (g *Infiltrator) PlayerReconnected(st *game.State, playerID string) game.Data {
	return nil
}
