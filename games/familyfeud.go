// games/familyfeud.go
package games

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

const feudAttempts = 3

// FamilyFeud 调查问卷竞猜。全场对同一块榜自由作答，每人最多三次
// 机会，猜中一格拿走该格的调查分。榜面内容藏在 handler 实例上，
// 场上只亮已翻开的格子。
type FamilyFeud struct {
	content *services.ContentService
	surveys []models.Survey
	board   models.Survey
}

func NewFamilyFeud(content *services.ContentService) *FamilyFeud {
	return &FamilyFeud{content: content}
}

func (g *FamilyFeud) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:            "family-feud",
		Name:            "Family Feud",
		MinPlayers:      4,
		MaxPlayers:      12,
		DefaultRounds:   3,
		AllowSpectators: true,
	}
}

func (g *FamilyFeud) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if g.surveys == nil {
		set, err := g.content.SurveySet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		g.surveys = set
	}
	g.board = g.surveys[st.Round-1]

	return game.Data{
		"question": g.board.Question,
		"slots":    len(g.board.Answers),
		"revealed": map[string]interface{}{},
		"attempts": map[string]interface{}{},
	}, nil
}

func (g *FamilyFeud) ValidateAction(st *game.State, playerID string, act game.Action) error {
	guess, ok := act.String("answer")
	if !ok {
		return game.Rejectf("missing answer")
	}
	if normalize(guess) == "" {
		return game.Rejectf("empty answer")
	}
	if n, _ := intEntry(dataMap(st, "attempts"), playerID); n >= feudAttempts {
		return game.Rejectf("no attempts left")
	}
	return nil
}

// matchSlot 在榜上找与作答规整后一致的格子，别名一并判同
func (g *FamilyFeud) matchSlot(guess string) int {
	want := normalize(guess)
	for i, a := range g.board.Answers {
		if normalize(a.Text) == want {
			return i
		}
		for _, alias := range a.Aliases {
			if normalize(alias) == want {
				return i
			}
		}
	}
	return -1
}

func (g *FamilyFeud) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()

	attempts := next["attempts"].(map[string]interface{})
	n, _ := intEntry(attempts, playerID)
	attempts[playerID] = n + 1

	guess, _ := act.String("answer")
	slot := g.matchSlot(guess)
	if slot < 0 {
		return next, nil
	}

	revealed := next["revealed"].(map[string]interface{})
	key := strconv.Itoa(slot)
	if _, taken := revealed[key]; taken {
		// 晚了一步，机会照扣
		return next, nil
	}
	revealed[key] = map[string]interface{}{
		"text":   g.board.Answers[slot].Text,
		"points": g.board.Answers[slot].Points,
		"by":     playerID,
	}
	return next, nil
}

func (g *FamilyFeud) RoundComplete(st *game.State) bool {
	slots, _ := dataInt(st, "slots")
	if len(dataMap(st, "revealed")) >= slots {
		return true
	}
	attempts := dataMap(st, "attempts")
	for _, p := range st.ActivePlayers() {
		if n, _ := intEntry(attempts, p.ID); n < feudAttempts {
			return false
		}
	}
	return true
}

func (g *FamilyFeud) RoundScores(st *game.State) map[string]int {
	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
	}
	for _, v := range dataMap(st, "revealed") {
		slot, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		by, _ := stringEntry(slot, "by")
		points, _ := intEntry(slot, "points")
		deltas[by] += points
	}
	return deltas
}

func (g *FamilyFeud) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	// 瞎蒙不如不蒙
	return nil, false
}

func (g *FamilyFeud) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 45 * time.Second,
		game.PhaseReveal:  10 * time.Second,
		game.PhaseScoring: 6 * time.Second,
	}
}
