package game

import (
	"math/rand"
	"time"
)

// Phase 表示房间在一局游戏中所处的生命周期阶段
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseReveal
	PhaseScoring
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlaying:
		return "playing"
	case PhaseReveal:
		return "reveal"
	case PhaseScoring:
		return "scoring"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ParsePhase 是 String 的逆映射，配置里的阶段名从这里进来
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "lobby":
		return PhaseLobby, true
	case "playing":
		return PhasePlaying, true
	case "reveal":
		return PhaseReveal, true
	case "scoring":
		return PhaseScoring, true
	case "ended":
		return PhaseEnded, true
	default:
		return 0, false
	}
}

// Terminal reports whether the phase accepts no further transitions.
func (p Phase) Terminal() bool {
	return p == PhaseEnded
}

// ScoreBoundary 声明回合分数在哪个阶段边界结算
type ScoreBoundary int

const (
	// ScoreOnScoring applies round deltas at the reveal→scoring boundary.
	ScoreOnScoring ScoreBoundary = iota
	// ScoreOnReveal applies round deltas at the playing→reveal boundary.
	ScoreOnReveal
)

// Descriptor 描述一种游戏类型的静态参数
type Descriptor struct {
	Type            string
	Name            string
	MinPlayers      int
	MaxPlayers      int
	DefaultRounds   int
	ScoreBoundary   ScoreBoundary
	AllowSpectators bool
}

// Data 是回合内游戏特定数据，由绑定的 Handler 独占维护
type Data map[string]interface{}

// Clone returns an independent copy. Nested maps and slices are copied
// so a handler can derive the next round payload without aliasing the
// one the room currently holds.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, inner := range val {
			m[k] = cloneValue(inner)
		}
		return m
	case Data:
		return val.Clone()
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, inner := range val {
			s[i] = cloneValue(inner)
		}
		return s
	case []string:
		s := make([]string, len(val))
		copy(s, val)
		return s
	case []int:
		s := make([]int, len(val))
		copy(s, val)
		return s
	default:
		return v
	}
}

// Action 是玩家提交的一次游戏操作载荷
type Action map[string]interface{}

// String reads a string field from the action payload.
func (a Action) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int reads a numeric field. JSON decoding produces float64, so both
// forms are accepted.
func (a Action) Int(key string) (int, bool) {
	switch v := a[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Float reads a numeric field as float64.
func (a Action) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// PlayerInfo 是 Handler 可见的玩家视图
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Score     int    `json:"score"`
	Ready     bool   `json:"ready"`
	Host      bool   `json:"host"`
	Connected bool   `json:"connected"`
	Spectator bool   `json:"spectator"`
}

// State 是一个房间的权威游戏状态。Handler 只读，不允许修改；
// 对 Data 的变更通过返回值交还给房间落地。
type State struct {
	Code        string       `json:"code"`
	GameType    string       `json:"gameType"`
	Phase       Phase        `json:"-"`
	Round       int          `json:"round"`
	TotalRounds int          `json:"totalRounds"`
	Players     []PlayerInfo `json:"players"`
	Data        Data         `json:"data,omitempty"`
}

// Player 按ID查找玩家视图
func (s *State) Player(id string) (PlayerInfo, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// ActivePlayers returns the connected non-spectator players in join order.
// Handlers use this set for quorum and turn math.
func (s *State) ActivePlayers() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Connected && !p.Spectator {
			out = append(out, p)
		}
	}
	return out
}

// Participants returns every non-spectator seat, connected or not.
// Scores and ranking cover this set.
func (s *State) Participants() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(s.Players))
	for _, p := range s.Players {
		if !p.Spectator {
			out = append(out, p)
		}
	}
	return out
}

// Handler 是游戏类型插件契约，每种玩法实现一份。
// 所有方法都在房间自己的 goroutine 里串行调用。
type Handler interface {
	// Descriptor returns the static parameters of the game type.
	Descriptor() Descriptor

	// InitRound produces the per-round payload (question, prompt, board)
	// for the current players and round number. It must be pure given
	// the injected rng so replays are reproducible.
	InitRound(st *State, rng *rand.Rand) (Data, error)

	// ValidateAction checks legality against the current phase and the
	// player's prior actions. Rejections never mutate state.
	ValidateAction(st *State, playerID string, act Action) error

	// ApplyAction returns the next round data with the action recorded.
	ApplyAction(st *State, playerID string, act Action) (Data, error)

	// RoundComplete reports whether every required participant has acted
	// or another deterministic completion condition holds. Drives early
	// advance ahead of the timer.
	RoundComplete(st *State) bool

	// RoundScores returns per-player score deltas for the finished round.
	// Applied exactly once, at the boundary the Descriptor declares.
	RoundScores(st *State) map[string]int

	// DefaultAction returns the no-answer filler applied to a
	// non-responding player on timer expiry. ok=false means the player
	// is left without an action.
	DefaultAction(st *State, playerID string) (Action, bool)

	// PhaseDurations returns the timer durations per phase. The engine
	// may override them.
	PhaseDurations() map[Phase]time.Duration
}

// TieBreaker 可选能力：并列第一时由玩法自行裁定胜者
type TieBreaker interface {
	BreakTie(st *State, tied []string) string
}

// PresenceObserver 可选能力：掉线/重连时通知玩法调整回合数据。
// 返回 nil 表示数据不变。
type PresenceObserver interface {
	PlayerDisconnected(st *State, playerID string) Data
	PlayerReconnected(st *State, playerID string) Data
}
