package result

import (
	"sort"
	"time"

	"github.com/socialoop/partyhost/game"
)

// History 记录每个结算点之后的累计总分，用于并列名次的
// "先到先赢" 裁定
type History struct {
	rounds []map[string]int
}

func NewHistory() *History {
	return &History{}
}

// Record appends a snapshot of cumulative totals. Called once per
// score application, totals copied.
func (h *History) Record(totals map[string]int) {
	snapshot := make(map[string]int, len(totals))
	for id, score := range totals {
		snapshot[id] = score
	}
	h.rounds = append(h.rounds, snapshot)
}

func (h *History) Rounds() int {
	if h == nil {
		return 0
	}
	return len(h.rounds)
}

// FirstReached returns the 1-based snapshot index at which playerID's
// total first reached value. Zero means reached before any snapshot
// (value <= 0). Never reached maps past the end, so later reachers
// sort behind.
func (h *History) FirstReached(playerID string, value int) int {
	if value <= 0 {
		return 0
	}
	if h == nil {
		return 0
	}
	for i, totals := range h.rounds {
		if totals[playerID] >= value {
			return i + 1
		}
	}
	return len(h.rounds) + 1
}

// ScoreEntry 是最终榜单中的一行
type ScoreEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// GameResult 在进入 ended 时计算一次
type GameResult struct {
	Code        string       `json:"code"`
	GameType    string       `json:"gameType"`
	Rounds      int          `json:"rounds"`
	Winner      string       `json:"winner"`
	Faulted     bool         `json:"faulted,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	FinalScores []ScoreEntry `json:"finalScores"`
	EndedAt     time.Time    `json:"endedAt"`
}

// Aggregate computes the final ranking over the non-spectator seats.
// Ordering is score descending, equal scores ordered by who reached
// the value first, join order last. Ranks follow standard competition
// ranking: ties share a rank, the next distinct score resumes at
// previous rank + tied count.
//
// The winner is the first rank-1 entry. A handler implementing
// game.TieBreaker may pick a different winner among the rank-1 ties;
// picks outside the tied set are ignored.
func Aggregate(st *game.State, hist *History, breaker game.TieBreaker) *GameResult {
	participants := st.Participants()

	type row struct {
		info      game.PlayerInfo
		joinIndex int
		reachedAt int
	}
	rows := make([]row, 0, len(participants))
	for i, p := range participants {
		rows = append(rows, row{
			info:      p,
			joinIndex: i,
			reachedAt: hist.FirstReached(p.ID, p.Score),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].info.Score != rows[j].info.Score {
			return rows[i].info.Score > rows[j].info.Score
		}
		if rows[i].reachedAt != rows[j].reachedAt {
			return rows[i].reachedAt < rows[j].reachedAt
		}
		return rows[i].joinIndex < rows[j].joinIndex
	})

	entries := make([]ScoreEntry, len(rows))
	for i, r := range rows {
		rank := i + 1
		if i > 0 && r.info.Score == rows[i-1].info.Score {
			rank = entries[i-1].Rank
		}
		entries[i] = ScoreEntry{
			PlayerID: r.info.ID,
			Name:     r.info.Name,
			Score:    r.info.Score,
			Rank:     rank,
		}
	}

	res := &GameResult{
		Code:        st.Code,
		GameType:    st.GameType,
		Rounds:      st.Round,
		FinalScores: entries,
		EndedAt:     time.Now(),
	}

	if len(entries) == 0 {
		return res
	}

	res.Winner = entries[0].PlayerID
	if breaker != nil {
		tied := rankOneIDs(entries)
		if len(tied) > 1 {
			if pick := breaker.BreakTie(st, tied); contains(tied, pick) {
				res.Winner = pick
			}
		}
	}
	return res
}

func rankOneIDs(entries []ScoreEntry) []string {
	var ids []string
	for _, e := range entries {
		if e.Rank != 1 {
			break
		}
		ids = append(ids, e.PlayerID)
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
