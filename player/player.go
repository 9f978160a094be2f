// player/player.go
package player

import (
	"time"

	"github.com/socialoop/partyhost/game"
)

// Player 是房间内的一个座位
type Player struct {
	ID        string
	Name      string
	AvatarURL string
	Score     int
	Ready     bool
	Host      bool
	Connected bool
	Spectator bool
	JoinIndex int // 加入顺序，跨回合稳定
	JoinedAt  time.Time
	LastSeen  time.Time
}

// Roster 维护一个房间的玩家表。它由房间自己的 goroutine 独占，
// 不做内部加锁。
type Roster struct {
	players map[string]*Player
	order   []string // join order
	nextIdx int
}

func NewRoster() *Roster {
	return &Roster{
		players: make(map[string]*Player),
	}
}

// Add seats a player. The first non-spectator seat becomes host.
// Capacity and phase checks happen before this is called.
func (r *Roster) Add(p *Player) {
	now := time.Now()
	p.JoinIndex = r.nextIdx
	p.JoinedAt = now
	p.LastSeen = now
	p.Connected = true
	r.nextIdx++

	r.players[p.ID] = p
	r.order = append(r.order, p.ID)

	if !p.Spectator {
		if _, ok := r.Host(); !ok {
			p.Host = true
		}
	}
}

// Remove drops a seat outright. Lobby leaves only; mid-game leaves go
// through MarkDisconnected so scores and quorum math survive.
func (r *Roster) Remove(id string) {
	p, exists := r.players[id]
	if !exists {
		return
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if p.Host {
		r.promoteNext()
	}
}

// MarkDisconnected keeps the seat but flags it offline. A disconnected
// host hands the role to the next connected player in join order.
func (r *Roster) MarkDisconnected(id string) {
	p, exists := r.players[id]
	if !exists {
		return
	}
	p.Connected = false
	p.LastSeen = time.Now()
	if p.Host {
		p.Host = false
		r.promoteNext()
		// 没有可提升的玩家时保留原主机，等待其重连
		if _, ok := r.Host(); !ok {
			p.Host = true
		}
	}
}

// MarkConnected restores a seat after reconnection. Score and a
// previously promoted host flag stay as they were; the role is not
// handed back to a returning original host.
func (r *Roster) MarkConnected(id string) bool {
	p, exists := r.players[id]
	if !exists {
		return false
	}
	p.Connected = true
	p.LastSeen = time.Now()
	return true
}

func (r *Roster) promoteNext() {
	for _, pid := range r.order {
		p := r.players[pid]
		if p.Connected && !p.Spectator {
			p.Host = true
			return
		}
	}
}

func (r *Roster) Get(id string) (*Player, bool) {
	p, exists := r.players[id]
	return p, exists
}

// Host returns the current host seat, if any.
func (r *Roster) Host() (*Player, bool) {
	for _, pid := range r.order {
		if p := r.players[pid]; p.Host {
			return p, true
		}
	}
	return nil, false
}

// Players returns every seat in join order.
func (r *Roster) Players() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, pid := range r.order {
		out = append(out, r.players[pid])
	}
	return out
}

func (r *Roster) Len() int {
	return len(r.players)
}

// ParticipantCount 统计非观战座位数，用于容量与最小人数判断
func (r *Roster) ParticipantCount() int {
	n := 0
	for _, p := range r.players {
		if !p.Spectator {
			n++
		}
	}
	return n
}

// ConnectedCount 统计在线座位数，观战者也计入
func (r *Roster) ConnectedCount() int {
	n := 0
	for _, p := range r.players {
		if p.Connected {
			n++
		}
	}
	return n
}

func (r *Roster) SetReady(id string, ready bool) bool {
	p, exists := r.players[id]
	if !exists {
		return false
	}
	p.Ready = ready
	return true
}

// AllReady reports whether every non-host, non-spectator seat is ready.
// The host is excluded from the readiness gate.
func (r *Roster) AllReady() bool {
	for _, p := range r.players {
		if p.Host || p.Spectator {
			continue
		}
		if !p.Ready {
			return false
		}
	}
	return true
}

func (r *Roster) AddScore(id string, delta int) {
	if p, exists := r.players[id]; exists {
		p.Score += delta
	}
}

// Infos projects the roster into the handler-visible view, join order
// preserved.
func (r *Roster) Infos() []game.PlayerInfo {
	out := make([]game.PlayerInfo, 0, len(r.order))
	for _, pid := range r.order {
		p := r.players[pid]
		out = append(out, game.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			Score:     p.Score,
			Ready:     p.Ready,
			Host:      p.Host,
			Connected: p.Connected,
			Spectator: p.Spectator,
		})
	}
	return out
}
