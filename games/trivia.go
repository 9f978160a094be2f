// games/trivia.go
package games

import (
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

// Trivia 抢答选择题。每回合一道题，全员作答后提前公布；答对 +10，
// 全场最先答对的再 +5。
type Trivia struct {
	content   *services.ContentService
	questions []models.Question // 本局题目序列，首回合抽定
}

func NewTrivia(content *services.ContentService) *Trivia {
	return &Trivia{content: content}
}

func (t *Trivia) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "trivia",
		Name:          "Trivia Night",
		MinPlayers:    2,
		MaxPlayers:    8,
		DefaultRounds: 5,
	}
}

func (t *Trivia) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if t.questions == nil {
		qs, err := t.content.QuestionSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		t.questions = qs
	}
	q := t.questions[st.Round-1]

	return game.Data{
		"question": q.Text,
		"category": q.Category,
		"options":  append([]string(nil), q.Options...),
		"correct":  q.Correct,
		"answers":  map[string]interface{}{},
		"order":    []string{},
	}, nil
}

func (t *Trivia) ValidateAction(st *game.State, playerID string, act game.Action) error {
	if _, done := dataMap(st, "answers")[playerID]; done {
		return game.Rejectf("already answered this round")
	}
	idx, ok := act.Int("answer")
	if !ok {
		return game.Rejectf("missing answer")
	}
	if options := dataStrings(st, "options"); idx < 0 || idx >= len(options) {
		return game.Rejectf("option %d out of range", idx)
	}
	return nil
}

func (t *Trivia) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	idx, _ := act.Int("answer")

	next := st.Data.Clone()
	next["answers"].(map[string]interface{})[playerID] = idx
	// 缺省动作用 -1 占位，不进入抢答序列
	if idx >= 0 {
		next["order"] = append(next["order"].([]string), playerID)
	}
	return next, nil
}

func (t *Trivia) RoundComplete(st *game.State) bool {
	answers := dataMap(st, "answers")
	for _, p := range st.ActivePlayers() {
		if _, ok := answers[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (t *Trivia) RoundScores(st *game.State) map[string]int {
	answers := dataMap(st, "answers")
	correct, _ := dataInt(st, "correct")

	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
		if idx, ok := intEntry(answers, p.ID); ok && idx == correct {
			deltas[p.ID] = 10
		}
	}

	// 抢答奖励给最先答对的人
	for _, pid := range dataStrings(st, "order") {
		if idx, ok := intEntry(answers, pid); ok && idx == correct {
			deltas[pid] += 5
			break
		}
	}
	return deltas
}

func (t *Trivia) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	if _, done := dataMap(st, "answers")[playerID]; done {
		return nil, false
	}
	return game.Action{"answer": -1}, true
}

func (t *Trivia) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 20 * time.Second,
		game.PhaseReveal:  6 * time.Second,
		game.PhaseScoring: 6 * time.Second,
	}
}
