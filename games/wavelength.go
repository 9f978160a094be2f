// games/wavelength.go
package games

import (
	"math/rand"
	"time"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/services"
)

// Wavelength 光谱猜位。每回合一名读谱人（按入座顺序轮换）看到
// 光谱上的隐藏刻度并给出一条线索，其余人按线索猜 0-100 的位置。
// 越接近得分越高，读谱人按带动的人数得分。
type Wavelength struct {
	content   *services.ContentService
	spectrums []models.Spectrum
	exactHits map[string]int // 精准命中次数，终局并列时裁定用
}

func NewWavelength(content *services.ContentService) *Wavelength {
	return &Wavelength{content: content, exactHits: make(map[string]int)}
}

func (w *Wavelength) Descriptor() game.Descriptor {
	return game.Descriptor{
		Type:          "wavelength",
		Name:          "Wavelength",
		MinPlayers:    3,
		MaxPlayers:    8,
		DefaultRounds: 4,
	}
}

func (w *Wavelength) InitRound(st *game.State, rng *rand.Rand) (game.Data, error) {
	if w.spectrums == nil {
		sp, err := w.content.SpectrumSet(rng, st.TotalRounds)
		if err != nil {
			return nil, err
		}
		w.spectrums = sp
	}
	card := w.spectrums[st.Round-1]

	seats := st.ActivePlayers()
	if len(seats) == 0 {
		seats = st.Participants()
	}
	psychic := seats[(st.Round-1)%len(seats)].ID

	return game.Data{
		"left":    card.Left,
		"right":   card.Right,
		"target":  rng.Intn(101),
		"psychic": psychic,
		"clue":    "",
		"guesses": map[string]interface{}{},
	}, nil
}

func (w *Wavelength) ValidateAction(st *game.State, playerID string, act game.Action) error {
	psychic := dataString(st, "psychic")
	clue := dataString(st, "clue")

	if playerID == psychic {
		if _, ok := act.String("clue"); !ok {
			return game.Rejectf("the psychic only gives a clue")
		}
		if clue != "" {
			return game.Rejectf("clue already given")
		}
		if text, _ := act.String("clue"); normalize(text) == "" {
			return game.Rejectf("empty clue")
		}
		return nil
	}

	pos, ok := act.Int("guess")
	if !ok {
		return game.Rejectf("missing guess")
	}
	if clue == "" {
		return game.Rejectf("wait for the clue")
	}
	if pos < 0 || pos > 100 {
		return game.Rejectf("guess must be between 0 and 100")
	}
	if _, done := dataMap(st, "guesses")[playerID]; done {
		return game.Rejectf("already guessed this round")
	}
	return nil
}

func (w *Wavelength) ApplyAction(st *game.State, playerID string, act game.Action) (game.Data, error) {
	next := st.Data.Clone()
	if text, ok := act.String("clue"); ok && playerID == dataString(st, "psychic") {
		next["clue"] = text
		return next, nil
	}

	pos, _ := act.Int("guess")
	next["guesses"].(map[string]interface{})[playerID] = pos
	return next, nil
}

func (w *Wavelength) RoundComplete(st *game.State) bool {
	if dataString(st, "clue") == "" {
		return false
	}
	psychic := dataString(st, "psychic")
	guesses := dataMap(st, "guesses")
	for _, p := range st.ActivePlayers() {
		if p.ID == psychic {
			continue
		}
		if _, ok := guesses[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (w *Wavelength) RoundScores(st *game.State) map[string]int {
	target, _ := dataInt(st, "target")
	psychic := dataString(st, "psychic")
	guesses := dataMap(st, "guesses")

	deltas := make(map[string]int)
	onWavelength := 0
	for _, p := range st.Participants() {
		deltas[p.ID] = 0
		if p.ID == psychic {
			continue
		}
		pos, ok := intEntry(guesses, p.ID)
		if !ok {
			continue
		}
		diff := pos - target
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= 3:
			deltas[p.ID] = 4
			w.exactHits[p.ID]++
		case diff <= 10:
			deltas[p.ID] = 3
		case diff <= 20:
			deltas[p.ID] = 2
		}
		if diff <= 10 {
			onWavelength++
		}
	}
	deltas[psychic] = onWavelength
	return deltas
}

func (w *Wavelength) DefaultAction(st *game.State, playerID string) (game.Action, bool) {
	if playerID == dataString(st, "psychic") {
		if dataString(st, "clue") == "" {
			return game.Action{"clue": "..."}, true
		}
		return nil, false
	}
	if _, done := dataMap(st, "guesses")[playerID]; done {
		return nil, false
	}
	// 没头绪就押光谱正中
	return game.Action{"guess": 50}, true
}

func (w *Wavelength) PhaseDurations() map[game.Phase]time.Duration {
	return map[game.Phase]time.Duration{
		game.PhasePlaying: 40 * time.Second,
		game.PhaseReveal:  8 * time.Second,
		game.PhaseScoring: 5 * time.Second,
	}
}

// PlayerDisconnected 读谱人在给出线索前掉线时移交读谱身份，
// 回合不至于干等到超时
func (w *Wavelength) PlayerDisconnected(st *game.State, playerID string) game.Data {
	if playerID != dataString(st, "psychic") || dataString(st, "clue") != "" {
		return nil
	}
	for _, p := range st.ActivePlayers() {
		if p.ID == playerID {
			continue
		}
		next := st.Data.Clone()
		next["psychic"] = p.ID
		return next
	}
	return nil
}

func (w *Wavelength) PlayerReconnected(st *game.State, playerID string) game.Data {
	return nil
}

// BreakTie 并列第一时把胜者判给精准命中更多的人
func (w *Wavelength) BreakTie(st *game.State, tied []string) string {
	winner := ""
	bestHits := 0
	for _, pid := range tied {
		if hits := w.exactHits[pid]; hits > bestHits {
			bestHits = hits
			winner = pid
		} else if hits == bestHits && winner != "" {
			// 精准命中也并列，交还给默认裁定
			winner = ""
		}
	}
	return winner
}
