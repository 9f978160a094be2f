// engine/engine.go
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/socialoop/partyhost/broadcast"
	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/monitor"
	"github.com/socialoop/partyhost/room"
	"github.com/socialoop/partyhost/timer"
)

const (
	defaultGracePeriod  = 60 * time.Second
	defaultReapInterval = 10 * time.Second

	// 撞码重试上限。31^6 的码空间下连撞八次基本不可能。
	codeAttempts = 8
)

// Options 配置引擎，零值字段取默认
type Options struct {
	Registry    *game.Registry
	Scheduler   *timer.Scheduler
	Broadcaster broadcast.Broadcaster
	Monitor     *monitor.Monitor

	// MaxRooms 限制同时在线的房间数，0 表示不限
	MaxRooms int
	// GracePeriod 是空房和终局房间被回收前的保留时长
	GracePeriod time.Duration
	// ReapInterval 是回收巡检周期
	ReapInterval time.Duration
	// PhaseOverrides 统一覆盖所有房间的阶段时长，测试用来压缩时间
	PhaseOverrides map[game.Phase]time.Duration
}

// Event 是接入层递交的一条外部事件
type Event struct {
	RoomCode string                 `json:"roomCode"`
	PlayerID string                 `json:"playerId"`
	Type     string                 `json:"type"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}

// CreateParams 描述一次建房请求
type CreateParams struct {
	GameType string `json:"gameType"`
	Rounds   int    `json:"rounds"`
	Seed     int64  `json:"-"`
}

// Engine 驱动全部房间：建房、事件下发、超时回收。房间之间互不
// 阻塞，引擎自身不持有任何对局状态。
type Engine struct {
	registry *game.Registry
	rooms    *room.Manager
	sched    *timer.Scheduler
	bcast    broadcast.Broadcaster
	monitor  *monitor.Monitor

	maxRooms  int
	grace     time.Duration
	overrides map[game.Phase]time.Duration

	reaperID  int64
	ownSched  bool
	closeOnce sync.Once
}

func NewEngine(opts Options) *Engine {
	registry := opts.Registry
	if registry == nil {
		registry = game.NewRegistry()
	}

	sched := opts.Scheduler
	ownSched := false
	if sched == nil {
		sched = timer.NewScheduler()
		ownSched = true
	}

	bcast := opts.Broadcaster
	if bcast == nil {
		bcast = broadcast.Nop{}
	}

	grace := opts.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	reapInterval := opts.ReapInterval
	if reapInterval <= 0 {
		reapInterval = defaultReapInterval
	}

	e := &Engine{
		registry:  registry,
		rooms:     room.NewManager(),
		sched:     sched,
		bcast:     bcast,
		monitor:   opts.Monitor,
		maxRooms:  opts.MaxRooms,
		grace:     grace,
		overrides: opts.PhaseOverrides,
		ownSched:  ownSched,
	}
	e.reaperID = sched.Repeat(reapInterval, e.reap)
	return e
}

// CreateRoom 从注册表实例化 Handler，发码并登记房间。撞码时换码
// 重试，查重和登记在管理器里是一步原子操作。
func (e *Engine) CreateRoom(params CreateParams) (*room.Room, error) {
	if e.maxRooms > 0 && e.rooms.Len() >= e.maxRooms {
		return nil, game.ErrTooManyRooms
	}

	handler, err := e.registry.Create(params.GameType)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := GenerateCode()
		r := room.NewRoom(room.Options{
			Code:           code,
			GameType:       params.GameType,
			Rounds:         params.Rounds,
			Handler:        handler,
			Scheduler:      e.sched,
			Broadcaster:    e.bcast,
			Seed:           params.Seed,
			PhaseOverrides: e.overrides,
			Monitor:        e.monitor,
		})
		if !e.rooms.Reserve(code, r) {
			r.Stop()
			continue
		}

		e.monitor.IncRoomsCreated()
		e.monitor.SetActiveRooms(e.rooms.Len())
		logger.Log.Infow("Room created", "room", code, "gameType", params.GameType)
		return r, nil
	}
	return nil, fmt.Errorf("failed to allocate a room code after %d attempts", codeAttempts)
}

// Dispatch 把一条外部事件交给目标房间处理，同步返回结果
func (e *Engine) Dispatch(ev *Event) error {
	start := time.Now()
	err := e.dispatch(ev)

	e.monitor.IncEventsDispatched()
	e.monitor.ObserveDispatchLatency(time.Since(start))
	if err != nil {
		e.monitor.IncEventRejections()
	}
	return err
}

func (e *Engine) dispatch(ev *Event) error {
	r, exists := e.rooms.Get(ev.RoomCode)
	if !exists {
		e.sendRejection(ev, game.ErrRoomNotFound)
		return game.ErrRoomNotFound
	}

	rev, err := translate(ev)
	if err != nil {
		e.sendRejection(ev, err)
		return err
	}
	return r.Dispatch(rev)
}

// sendRejection 通知发起者一条进不了房间的事件被拒。进了房间的
// 事件由房间自己定向回报，这里不重复发。
func (e *Engine) sendRejection(ev *Event, err error) {
	if ev.PlayerID == "" {
		return
	}
	msg := &broadcast.Message{
		Type:     broadcast.MsgError,
		RoomCode: ev.RoomCode,
		PlayerID: ev.PlayerID,
		Payload: map[string]interface{}{
			"event":  ev.Type,
			"reason": game.ReasonCode(err),
			"detail": err.Error(),
		},
	}
	if berr := e.bcast.SendToPlayer(ev.RoomCode, ev.PlayerID, msg); berr != nil {
		logger.Log.Debugw("Failed to send rejection", "room", ev.RoomCode, "player", ev.PlayerID, "error", berr)
	}
}

// translate 把外部封包转成房间事件。timeout、disconnect 这类内部
// 事件不接受外部投递。
func translate(ev *Event) (*room.Event, error) {
	switch ev.Type {
	case room.EventJoin:
		return &room.Event{
			Type:      room.EventJoin,
			PlayerID:  ev.PlayerID,
			Name:      stringField(ev.Payload, "name"),
			AvatarURL: stringField(ev.Payload, "avatarUrl"),
			Spectator: boolField(ev.Payload, "spectator"),
		}, nil
	case room.EventReady:
		ready := true
		if v, ok := ev.Payload["ready"].(bool); ok {
			ready = v
		}
		return &room.Event{Type: room.EventReady, PlayerID: ev.PlayerID, Ready: ready}, nil
	case room.EventAction:
		return &room.Event{Type: room.EventAction, PlayerID: ev.PlayerID, Action: game.Action(ev.Payload)}, nil
	case room.EventLeave, room.EventStart, room.EventSkip, room.EventEndGame:
		return &room.Event{Type: ev.Type, PlayerID: ev.PlayerID}, nil
	default:
		return nil, game.Rejectf("unsupported event type %q", ev.Type)
	}
}

func stringField(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	v, _ := payload[key].(string)
	return v
}

func boolField(payload map[string]interface{}, key string) bool {
	if payload == nil {
		return false
	}
	v, _ := payload[key].(bool)
	return v
}

// NotifyDisconnect 由接入层在底层连接断开时调用
func (e *Engine) NotifyDisconnect(roomCode, playerID string) {
	r, exists := e.rooms.Get(roomCode)
	if !exists {
		return
	}
	if err := r.Post(&room.Event{Type: room.EventDisconnect, PlayerID: playerID}); err != nil {
		logger.Log.Debugw("Disconnect notice dropped", "room", roomCode, "player", playerID, "error", err)
	}
}

// ForceEnd 运维强制终局，房间保留到回收期满，结果照常可查
func (e *Engine) ForceEnd(roomCode, reason string) error {
	r, exists := e.rooms.Get(roomCode)
	if !exists {
		return game.ErrRoomNotFound
	}
	return r.Dispatch(&room.Event{Type: room.EventForceEnd, Reason: reason})
}

// RequestSnapshot 让房间给指定玩家定向重发一份状态快照
func (e *Engine) RequestSnapshot(roomCode, playerID string) error {
	r, exists := e.rooms.Get(roomCode)
	if !exists {
		return game.ErrRoomNotFound
	}
	return r.Dispatch(&room.Event{Type: room.EventSnapshot, PlayerID: playerID})
}

// Room 按房间码查找
func (e *Engine) Room(code string) (*room.Room, bool) {
	return e.rooms.Get(code)
}

// Rooms 返回当前全部房间
func (e *Engine) Rooms() []*room.Room {
	return e.rooms.Rooms()
}

func (e *Engine) RoomCount() int {
	return e.rooms.Len()
}

// GameTypes 返回已注册的游戏类型，字典序
func (e *Engine) GameTypes() []string {
	return e.registry.Types()
}

// Registry 暴露注册表，启动时由各玩法包登记自己
func (e *Engine) Registry() *game.Registry {
	return e.registry
}

// reap 回收超过保留期的空房和终局房间
func (e *Engine) reap() {
	now := time.Now()
	for _, r := range e.rooms.Rooms() {
		if !e.expired(r, now) {
			continue
		}
		if _, removed := e.rooms.Remove(r.Code); removed {
			logger.Log.Infow("Room reaped", "room", r.Code, "gameType", r.GameType)
		}
	}
	e.monitor.SetActiveRooms(e.rooms.Len())
}

func (e *Engine) expired(r *room.Room, now time.Time) bool {
	if endedAt := r.EndedAt(); !endedAt.IsZero() && now.Sub(endedAt) >= e.grace {
		return true
	}
	if emptySince := r.EmptySince(); !emptySince.IsZero() && now.Sub(emptySince) >= e.grace {
		return true
	}
	return false
}

// Close 停掉回收巡检和所有房间，进程退出时调用
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.sched.Cancel(e.reaperID)
		e.rooms.StopAll()
		if e.ownSched {
			e.sched.Stop()
		}
		e.monitor.SetActiveRooms(0)
	})
}
