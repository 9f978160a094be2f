// games/prediction.go
package games

import (
	"math"
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

// Prediction 数值估算。最接近真实值 +15，误差在一成以内 +5，
// 离谱王 -2。分数在进入公布阶段时就结算，公布页直接带着涨跌。
type Prediction struct {
	content   *services.ContentService
	estimates []models.Estimate
}

func NewPrediction(content *services.ContentService) *Prediction {
	return &Prediction{content: content}
}

func (p *Prediction) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:            "prediction",
		Name:            "Long Shot",
		MinPlayers:      2,
		MaxPlayers:      10,
		DefaultRounds:   4,
		ScoreBoundary:   game.ScoreOnReveal,
		AllowSpectators: true,
	}
}

func (p *Prediction) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if p.estimates == nil {
		es, err := p.content.EstimateSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		p.estimates = es
	}
	e := p.estimates[st.Round-1]

	return game.Data{
		"question": e.Text,
		"unit":     e.Unit,
		"answer":   e.Answer,
		"guesses":  map[string]interface{}{},
	}, nil
}

func (p *Prediction) ValidateAction(st *game.State, playerID string, act game.Action) error {
	if _, done := dataMap(st, "guesses")[playerID]; done {
		return game.Rejectf("already guessed this round")
	}
	if _, ok := act.Float("guess"); !ok {
		return game.Rejectf("missing numeric guess")
	}
	return nil
}

func (p *Prediction) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	guess, _ := act.Float("guess")

	next := st.Data.Clone()
	next["guesses"].(map[string]interface{})[playerID] = guess
	return next, nil
}

func (p *Prediction) RoundComplete(st *game.State) bool {
	guesses := dataMap(st, "guesses")
	for _, pl := range st.ActivePlayers() {
		if _, ok := guesses[pl.ID]; !ok {
			return false
		}
	}
	return true
}

func (p *Prediction) RoundScores(st *game.State) map[string]int {
	guesses := dataMap(st, "guesses")
	answer, _ := st.Data["answer"].(float64)

	deltas := make(map[string]int)
	best := math.Inf(1)
	worst := math.Inf(-1)
	guessers := 0
	for _, pl := range st.Participants() {
		deltas[pl.ID] = 0
		g, ok := floatEntry(guesses, pl.ID)
		if !ok {
			continue
		}
		guessers++
		diff := math.Abs(g - answer)
		if diff < best {
			best = diff
		}
		if diff > worst {
			worst = diff
		}
	}
	if guessers == 0 {
		return deltas
	}

	for _, pl := range st.Participants() {
		g, ok := floatEntry(guesses, pl.ID)
		if !ok {
			continue
		}
		diff := math.Abs(g - answer)
		if diff == best {
			deltas[pl.ID] += 15
		}
		if answer != 0 && diff <= math.Abs(answer)*0.1 {
			deltas[pl.ID] += 5
		}
		// 离谱王要有三人以上参与，且不能同时是最准的
		if guessers > 2 && diff == worst && worst > best {
			deltas[pl.ID] -= 2
		}
	}
	return deltas
}

func (p *Prediction) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	// 没猜就是没猜，不代填
	return nil, false
}

func (p *Prediction) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 25 * time.Second,
		game.PhaseReveal:  8 * time.Second,
		game.PhaseScoring: 5 * time.Second,
	}
}
