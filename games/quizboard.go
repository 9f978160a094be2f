// games/quizboard.go
package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

const boardCategories = 4

// QuizBoard 指答板。每回合由一名选题人（按入座顺序轮换）从板上
// 挑一格，随后全员抢答该格的题目：答对得格子分值，答错倒扣，
// 不答不扣。板面跨回合消耗，清空后重置重来。
type QuizBoard struct {
	content    *services.ContentService
	categories []models.BoardCategory
	used       map[string]bool // "分类|分值" -> 已消耗
}

func NewQuizBoard(content *services.ContentService) *QuizBoard {
	return &QuizBoard{content: content, used: make(map[string]bool)}
}

func (q *QuizBoard) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "quiz-board",
		Name:          "Quiz Board",
		MinPlayers:    2,
		MaxPlayers:    8,
		DefaultRounds: 6,
	}
}

func (q *QuizBoard) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if q.categories == nil {
		cats, err := q.content.BoardSet(rng, boardCategories)
		if err != nil {
			return nil, err
		}
		q.categories = cats
	}
	if q.remaining() == 0 {
		q.used = make(map[string]bool)
	}

	seats := st.ActivePlayers()
	if len(seats) == 0 {
		seats = st.Participants()
	}
	picker := seats[(st.Round-1)%len(seats)].ID

	return game.Data{
		"board":    q.boardView(),
		"picker":   picker,
		"category": "",
		"value":    0,
		"clue":     "",
		"answer":   "",
		"answers":  map[string]interface{}{},
	}, nil
}

func (q *QuizBoard) ValidateAction(st *game.State, playerID string, act game.Action) error {
	if dataString(st, "clue") == "" {
		if playerID != dataString(st, "picker") {
			return game.Rejectf("waiting for the pick")
		}
		name, ok := act.String("category")
		if !ok {
			return game.Rejectf("missing category")
		}
		value, ok := act.Int("value")
		if !ok {
			return game.Rejectf("missing value")
		}
		clue, key := q.findClue(name, value)
		if clue == nil {
			return game.Rejectf("no such square")
		}
		if q.used[key] {
			return game.Rejectf("that square is already gone")
		}
		return nil
	}

	text, ok := act.String("answer")
	if !ok || normalize(text) == "" {
		return game.Rejectf("missing answer")
	}
	if _, done := dataMap(st, "answers")[playerID]; done {
		return game.Rejectf("already answered this round")
	}
	return nil
}

func (q *QuizBoard) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()

	if dataString(st, "clue") == "" {
		name, _ := act.String("category")
		value, _ := act.Int("value")
		clue, key := q.findClue(name, value)
		if clue == nil {
			return nil, fmt.Errorf("square vanished between validate and apply: %s %d", name, value)
		}
		q.used[key] = true
		next["board"] = q.boardView()
		next["category"] = q.categoryName(name)
		next["value"] = clue.Value
		next["clue"] = clue.Clue
		next["answer"] = clue.Answer
		return next, nil
	}

	text, _ := act.String("answer")
	next["answers"].(map[string]interface{})[playerID] = text
	return next, nil
}

func (q *QuizBoard) RoundComplete(st *game.State) bool {
	if dataString(st, "clue") == "" {
		return false
	}
	answers := dataMap(st, "answers")
	for _, p := range st.ActivePlayers() {
		if _, ok := answers[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (q *QuizBoard) RoundScores(st *game.State) map[string]int {
	value, _ := dataInt(st, "value")
	want := normalize(dataString(st, "answer"))
	answers := dataMap(st, "answers")

	deltas := make(map[string]int)
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
		text, ok := stringEntry(answers, p.ID)
		if !ok {
			continue
		}
		if want != "" && normalize(text) == want {
			deltas[p.ID] = value
		} else {
			deltas[p.ID] = -value
		}
	}
	return deltas
}

func (q *QuizBoard) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	if dataString(st, "clue") == "" {
		if playerID != dataString(st, "picker") {
			return nil, false
		}
		// 选题人拖到超时就替他挑最便宜的一格
		name, value, ok := q.cheapest()
		if !ok {
			return nil, false
		}
		return game.Action{"category": name, "value": value}, true
	}
	// 不作答不扣分，缺席者不补答案
	return nil, false
}

func (q *QuizBoard) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 45 * time.Second,
		game.PhaseReveal:  8 * time.Second,
		game.PhaseScoring: 5 * time.Second,
	}
}

// PlayerDisconnected 选题人在挑格前掉线时移交选题权
func (q *QuizBoard) PlayerDisconnected(st *game.State, playerID string) game.Data {
	if playerID != dataString(st, "picker") || dataString(st, "clue") != "" {
		return nil
	}
	for _, p := range st.ActivePlayers() {
		if p.ID == playerID {
			continue
		}
		next := st.Data.Clone()
		next["picker"] = p.ID
		return next
	}
	return nil
}

func (q *QuizBoard) PlayerReconnected(st *game.State, playerID string) game.Data {
	return nil
}

func (q *QuizBoard) remaining() int {
	n := 0
	for _, cat := range q.categories {
		for _, clue := range cat.Clues {
			if !q.used[boardKey(cat.Name, clue.Value)] {
				n++
			}
		}
	}
	return n
}

// boardView 把剩余的格子铺成可广播的板面
func (q *QuizBoard) boardView() []interface{} {
	view := make([]interface{}, 0, len(q.categories))
	for _, cat := range q.categories {
		values := make([]interface{}, 0, len(cat.Clues))
		for _, clue := range cat.Clues {
			if !q.used[boardKey(cat.Name, clue.Value)] {
				values = append(values, clue.Value)
			}
		}
		view = append(view, map[string]interface{}{
			"name":   cat.Name,
			"values": values,
		})
	}
	return view
}

func (q *QuizBoard) findClue(name string, value int) (*models.BoardClue, string) {
	for _, cat := range q.categories {
		if normalize(cat.Name) != normalize(name) {
			continue
		}
		for i := range cat.Clues {
			if cat.Clues[i].Value == value {
				return &cat.Clues[i], boardKey(cat.Name, cat.Clues[i].Value)
			}
		}
	}
	return nil, ""
}

func (q *QuizBoard) categoryName(name string) string {
	for _, cat := range q.categories {
		if normalize(cat.Name) == normalize(name) {
			return cat.Name
		}
	}
	return name
}

func (q *QuizBoard) cheapest() (string, int, bool) {
	bestName := ""
	bestValue := 0
	for _, cat := range q.categories {
		for _, clue := range cat.Clues {
			if q.used[boardKey(cat.Name, clue.Value)] {
				continue
			}
			if bestName == "" || clue.Value < bestValue {
				bestName = cat.Name
				bestValue = clue.Value
			}
		}
	}
	return bestName, bestValue, bestName != ""
}

func boardKey(name string, value int) string {
	return fmt.Sprintf("%s|%d", name, value)
}
