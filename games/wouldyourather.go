// games/wouldyourather.go
package games

import (
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

// WouldYouRather 两难抉择投票。站到多数那边得分，五五开则人人有份。
// 截止前可以反复改主意，只有最后的选择算数。
type WouldYouRather struct {
	content  *services.ContentService
	dilemmas []models.Dilemma
}

func NewWouldYouRather(content *services.ContentService) *WouldYouRather {
	return &WouldYouRather{content: content}
}

func (g *WouldYouRather) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:            "would-you-rather",
		Name:            "Would You Rather",
		MinPlayers:      3,
		MaxPlayers:      12,
		DefaultRounds:   5,
		AllowSpectators: true,
	}
}

func (g *WouldYouRather) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if g.dilemmas == nil {
		set, err := g.content.DilemmaSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		g.dilemmas = set
	}
	d := g.dilemmas[st.Round-1]

	return game.Data{
		"optionA": d.OptionA,
		"optionB": d.OptionB,
		"picks":   map[string]interface{}{},
	}, nil
}

func (g *WouldYouRather) ValidateAction(st *game.State, playerID string, act game.Action) error {
	pick, ok := act.String("pick")
	if !ok {
		return game.Rejectf("missing pick")
	}
	if side := normalize(pick); side != "a" && side != "b" {
		return game.Rejectf("pick must be a or b")
	}
	return nil
}

func (g *WouldYouRather) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	pick, _ := act.String("pick")
	next := st.Data.Clone()
	next["picks"].(map[string]interface{})[playerID] = normalize(pick)
	return next, nil
}

func (g *WouldYouRather) RoundComplete(st *game.State) bool {
	picks := dataMap(st, "picks")
	for _, p := range st.ActivePlayers() {
		if _, ok := picks[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (g *WouldYouRather) RoundScores(st *game.State) map[string]int {
	picks := dataMap(st, "picks")

	deltas := make(map[string]int)
	countA, countB := 0, 0
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
		switch side, _ := stringEntry(picks, p.ID); side {
		case "a":
			countA++
		case "b":
			countB++
		}
	}

	majority := ""
	switch {
	case countA > countB:
		majority = "a"
	case countB > countA:
		majority = "b"
	}

	for _, p := range st.Participants() {
		side, ok := stringEntry(picks, p.ID)
		if !ok {
			continue
		}
		if majority == "" {
			deltas[p.ID] = 2
		} else if side == majority {
			deltas[p.ID] = 5
		}
	}
	return deltas
}

func (g *WouldYouRather) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	// 立场不代选
	return nil, false
}

func (g *WouldYouRather) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 15 * time.Second,
		game.PhaseReveal:  6 * time.Second,
		game.PhaseScoring: 4 * time.Second,
	}
}
