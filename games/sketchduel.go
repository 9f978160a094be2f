// games/sketchduel.go
package games

import (
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/services"
)

// SketchDuel 你画我猜。画手按入座顺序轮换，拿到词后把笔画推给全场，
// 其余人抢猜。猜中越早分越高，画手按带出的猜中数拿提成。
type SketchDuel struct {
	content *services.ContentService
	words   []string
	answer  string
}

func NewSketchDuel(content *services.ContentService) *SketchDuel {
	return &SketchDuel{content: content}
}

func (g *SketchDuel) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:            "sketch-duel",
		Name:            "Sketch Duel",
		MinPlayers:      3,
		MaxPlayers:      10,
		DefaultRounds:   5,
		AllowSpectators: true,
	}
}

func (g *SketchDuel) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if g.words == nil {
		words, err := g.content.DrawWordSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		g.words = words
	}
	word := g.words[st.Round-1]
	g.answer = normalize(word)

	seats := st.ActivePlayers()
	if len(seats) == 0 {
		seats = st.Participants()
	}

	return game.Data{
		"artist":    seats[(st.Round-1)%len(seats)].ID,
		"word":      word,
		"canvas":    []interface{}{},
		"solved":    map[string]interface{}{},
		"order":     []string{},
		"misses":    map[string]interface{}{},
		"abandoned": false,
	}, nil
}

func (g *SketchDuel) ValidateAction(st *game.State, playerID string, act game.Action) error {
	_, clears := act["clear"].(bool)
	draws := act["stroke"] != nil || clears

	if playerID == dataString(st, "artist") {
		if _, ok := act.String("guess"); ok {
			return game.Rejectf("the artist cannot guess")
		}
		if !draws {
			return game.Rejectf("expected a stroke or a clear")
		}
		return nil
	}

	if draws {
		return game.Rejectf("only the artist draws")
	}
	guess, ok := act.String("guess")
	if !ok {
		return game.Rejectf("missing guess")
	}
	if normalize(guess) == "" {
		return game.Rejectf("empty guess")
	}
	if _, done := dataMap(st, "solved")[playerID]; done {
		return game.Rejectf("already solved")
	}
	return nil
}

func (g *SketchDuel) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()

	if playerID == dataString(st, "artist") {
		if clear, _ := act["clear"].(bool); clear {
			next["canvas"] = []interface{}{}
			return next, nil
		}
		next["canvas"] = append(next["canvas"].([]interface{}), act["stroke"])
		return next, nil
	}

	guess, _ := act.String("guess")
	if normalize(guess) == g.answer {
		next["solved"].(map[string]interface{})[playerID] = true
		next["order"] = append(next["order"].([]string), playerID)
	} else {
		misses := next["misses"].(map[string]interface{})
		n, _ := intEntry(misses, playerID)
		misses[playerID] = n + 1
	}
	return next, nil
}

func (g *SketchDuel) RoundComplete(st *game.State) bool {
	if abandoned, _ := st.Data["abandoned"].(bool); abandoned {
		return true
	}
	artist := dataString(st, "artist")
	solved := dataMap(st, "solved")
	for _, p := range st.ActivePlayers() {
		if p.ID == artist {
			continue
		}
		if _, ok := solved[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (g *SketchDuel) RoundScores(st *game.State) map[string]int {
	artist := dataString(st, "artist")
	order := dataStrings(st, "order")

	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
	}
	for i, pid := range order {
		switch i {
		case 0:
			deltas[pid] = 10
		case 1:
			deltas[pid] = 5
		default:
			deltas[pid] = 3
		}
	}
	deltas[artist] = 3 * len(order)
	return deltas
}

func (g *SketchDuel) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	// 画不了也猜不了，超时就超时
	return nil, false
}

func (g *SketchDuel) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 75 * time.Second,
		game.PhaseReveal:  6 * time.Second,
		game.PhaseScoring: 5 * time.Second,
	}
}

// PlayerDisconnected 画手掉线整回合作废收尾，已抢到的分保留
func (g *SketchDuel) PlayerDisconnected(st *game.State, playerID string) game.Data {
	if playerID != dataString(st, "artist") {
		return nil
	}
	if abandoned, _ := st.Data["abandoned"].(bool); abandoned {
		return nil
	}
	next := st.Data.Clone()
	next["abandoned"] = true
	return next
}

func (g *SketchDuel) PlayerReconnected(st *game.State, playerID string) game.Data {
	return nil
}
