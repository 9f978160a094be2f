// games/twotruths.go
package games

import (
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
)

// TwoTruths 两真一假。讲述人按入座顺序轮换，提交三条自述并标记
// 哪条是编的，其余人投票找假话。看穿的得分，被骗的给讲述人送分。
type TwoTruths struct{}

func NewTwoTruths() *TwoTruths {
	return &TwoTruths{}
}

func (g *TwoTruths) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "two-truths",
		Name:          "Two Truths and a Lie",
		MinPlayers:    3,
		MaxPlayers:    8,
		DefaultRounds: 5,
	}
}

func (g *TwoTruths) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	seats := st.ActivePlayers()
	if len(seats) == 0 {
		seats = st.Participants()
	}
	return game.Data{
		"storyteller": seats[(st.Round-1)%len(seats)].ID,
		"statements":  []string{},
		"lie":         -1,
		"votes":       map[string]interface{}{},
	}, nil
}

// statementList reads a string list out of an action payload. JSON
// delivers []interface{}, the defaults use []string.
func statementList(act game.Action, key string) []string {
	switch v := act[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

func (g *TwoTruths) storyOut(st *game.State) bool {
	return len(dataStrings(st, "statements")) == 3
}

func (g *TwoTruths) ValidateAction(st *game.State, playerID string, act game.Action) error {
	storyteller := dataString(st, "storyteller")

	if playerID == storyteller {
		if _, votes := act.Int("vote"); votes {
			return game.Rejectf("the storyteller cannot vote")
		}
		if g.storyOut(st) {
			return game.Rejectf("statements already in")
		}
		list := statementList(act, "statements")
		if len(list) != 3 {
			return game.Rejectf("exactly three statements required")
		}
		for _, s := range list {
			if normalize(s) == "" {
				return game.Rejectf("empty statement")
			}
		}
		if lie, ok := act.Int("lie"); !ok || lie < 0 || lie > 2 {
			return game.Rejectf("lie index must be 0, 1 or 2")
		}
		return nil
	}

	if statementList(act, "statements") != nil {
		return game.Rejectf("only the storyteller tells stories")
	}
	idx, ok := act.Int("vote")
	if !ok {
		return game.Rejectf("missing vote")
	}
	if !g.storyOut(st) {
		return game.Rejectf("wait for the statements")
	}
	if idx < 0 || idx > 2 {
		return game.Rejectf("vote index must be 0, 1 or 2")
	}
	if _, done := dataMap(st, "votes")[playerID]; done {
		return game.Rejectf("already voted")
	}
	return nil
}

func (g *TwoTruths) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()
	if playerID == dataString(st, "storyteller") {
		list := statementList(act, "statements")
		lie, _ := act.Int("lie")
		next["statements"] = append([]string(nil), list...)
		next["lie"] = lie
		return next, nil
	}

	idx, _ := act.Int("vote")
	next["votes"].(map[string]interface{})[playerID] = idx
	return next, nil
}

func (g *TwoTruths) RoundComplete(st *game.State) bool {
	if !g.storyOut(st) {
		return false
	}
	storyteller := dataString(st, "storyteller")
	votes := dataMap(st, "votes")
	for _, p := range st.ActivePlayers() {
		if p.ID == storyteller {
			continue
		}
		if _, ok := votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (g *TwoTruths) RoundScores(st *game.State) map[string]int {
	storyteller := dataString(st, "storyteller")
	lie, _ := dataInt(st, "lie")
	votes := dataMap(st, "votes")

	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
	}
	if !g.storyOut(st) {
		return deltas
	}
	for voter, v := range votes {
		idx, ok := asInt(v)
		if !ok {
			continue
		}
		if idx == lie {
			deltas[voter] += 8
		} else {
			deltas[storyteller] += 5
		}
	}
	return deltas
}

func (g *TwoTruths) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	// 代编故事和代投票都失真，到点就到点
	return nil, false
}

func (g *TwoTruths) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 60 * time.Second,
		game.PhaseReveal:  10 * time.Second,
		game.PhaseScoring: 5 * time.Second,
	}
}

// PlayerDisconnected 讲述人没开讲就掉线时换人，不让全桌干等
func (g *TwoTruths) PlayerDisconnected(st *game.State, playerID string) game.Data {
	if playerID != dataString(st, "storyteller") || g.storyOut(st) {
		return nil
	}
	for _, p := range st.ActivePlayers() {
		if p.ID == playerID {
			continue
		}
		next := st.Data.Clone()
		next["storyteller"] = p.ID
		return next
	}
	return nil
}

func (g *TwoTruths) PlayerReconnected(st *game.State, playerID string) game.Data {
	return nil
}
