// room/room.go
package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/socialoop/partyhost/broadcast"
	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/monitor"
	"github.com/socialoop/partyhost/player"
	"github.com/socialoop/partyhost/result"
	"github.com/socialoop/partyhost/timer"
)

// 阶段时长缺省值，Handler 和引擎都没给出时使用
var fallbackDurations = map[game.Phase]time.Duration{
	game.PhasePlaying: 30 * time.Second,
	game.PhaseReveal:  5 * time.Second,
	game.PhaseScoring: 5 * time.Second,
}

const defaultInboxSize = 64

// Options 聚合建房参数
type Options struct {
	Code        string
	GameType    string
	Rounds      int // 0 表示用 Descriptor 的默认回合数
	Handler     game.Handler
	Scheduler   *timer.Scheduler
	Broadcaster broadcast.Broadcaster
	// Seed drives the injected rng. Zero picks a random seed.
	Seed int64
	// PhaseOverrides replaces handler durations per phase.
	PhaseOverrides map[game.Phase]time.Duration
	InboxSize      int
	Monitor        *monitor.Monitor
}

// Room 是一局游戏会话。全部状态归房间自己的 goroutine 所有，
// 外部只通过事件队列交互。
type Room struct {
	Code      string
	GameType  string
	CreatedAt time.Time

	handler game.Handler
	desc    game.Descriptor
	roster  *player.Roster
	phase   game.Phase
	round   int
	total   int
	data    game.Data
	rng     *rand.Rand
	history *result.History
	scored  bool // 本回合分数是否已结算
	res     *result.GameResult

	sched        *timer.Scheduler
	durations    map[game.Phase]time.Duration
	pendingTimer int64
	timerSeq     int64
	deadline     time.Time

	broadcaster broadcast.Broadcaster
	monitor     *monitor.Monitor

	inbox    chan *Event
	done     chan struct{}
	stopOnce sync.Once

	// 供调度器、运维接口跨 goroutine 读取的元数据
	metaMutex  sync.RWMutex
	view       *Snapshot
	emptySince time.Time
	endedAt    time.Time
}

// NewRoom 创建房间并启动其事件循环
func NewRoom(opts Options) *Room {
	desc := opts.Handler.Descriptor()

	rounds := opts.Rounds
	if rounds <= 0 {
		rounds = desc.DefaultRounds
	}
	if rounds <= 0 {
		rounds = 1
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	inboxSize := opts.InboxSize
	if inboxSize <= 0 {
		inboxSize = defaultInboxSize
	}

	bcast := opts.Broadcaster
	if bcast == nil {
		bcast = broadcast.Nop{}
	}

	r := &Room{
		Code:        opts.Code,
		GameType:    opts.GameType,
		CreatedAt:   time.Now(),
		handler:     opts.Handler,
		desc:        desc,
		roster:      player.NewRoster(),
		phase:       game.PhaseLobby,
		total:       rounds,
		rng:         rand.New(rand.NewSource(seed)),
		history:     result.NewHistory(),
		sched:       opts.Scheduler,
		durations:   resolveDurations(desc, opts.Handler.PhaseDurations(), opts.PhaseOverrides),
		broadcaster: bcast,
		monitor:     opts.Monitor,
		inbox:       make(chan *Event, inboxSize),
		done:        make(chan struct{}),
	}
	r.publishView()
	// 新房间尚无人在线，从创建起计空置时长
	r.updateEmptyMark()

	go r.run()
	return r
}

func resolveDurations(desc game.Descriptor, declared, overrides map[game.Phase]time.Duration) map[game.Phase]time.Duration {
	out := make(map[game.Phase]time.Duration, len(fallbackDurations))
	for phase, d := range fallbackDurations {
		out[phase] = d
	}
	for phase, d := range declared {
		if d > 0 {
			out[phase] = d
		}
	}
	for phase, d := range overrides {
		if d > 0 {
			out[phase] = d
		}
	}
	return out
}

// Post 异步投递一条事件。房间停止后返回 ErrRoomEnded。
func (r *Room) Post(ev *Event) error {
	select {
	case r.inbox <- ev:
		return nil
	case <-r.done:
		return game.ErrRoomEnded
	}
}

// Dispatch 投递并等待处理结果
func (r *Room) Dispatch(ev *Event) error {
	ev.Reply = make(chan error, 1)
	if err := r.Post(ev); err != nil {
		return err
	}
	select {
	case err := <-ev.Reply:
		return err
	case <-r.done:
		return game.ErrRoomEnded
	}
}

// Stop 终止事件循环。由管理器在移除房间时调用。
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

func (r *Room) run() {
	for {
		select {
		case ev := <-r.inbox:
			r.dispatch(ev)
		case <-r.done:
			return
		}
	}
}

func (r *Room) dispatch(ev *Event) {
	err := r.handle(ev)

	// 拒绝只通知发起者，不广播
	if err != nil && ev.PlayerID != "" {
		r.sendError(ev.PlayerID, ev.Type, err)
	}
	if ev.Reply != nil {
		ev.Reply <- err
	}
}

func (r *Room) handle(ev *Event) error {
	if r.phase == game.PhaseEnded {
		return r.handleAfterEnd(ev)
	}

	switch ev.Type {
	case EventJoin:
		return r.handleJoin(ev)
	case EventLeave:
		return r.handleLeave(ev)
	case EventReady:
		return r.handleReady(ev)
	case EventStart:
		return r.handleStart(ev)
	case EventAction:
		return r.handleAction(ev)
	case EventSkip:
		return r.handleSkip(ev)
	case EventEndGame:
		return r.handleEndGame(ev)
	case EventTimeout:
		return r.handleTimeout(ev)
	case EventDisconnect:
		return r.handleDisconnect(ev)
	case EventSnapshot:
		r.sendSnapshot(ev.PlayerID)
		return nil
	case EventForceEnd:
		r.endGame(false, ev.Reason)
		return nil
	default:
		return game.Rejectf("unknown event type %q", ev.Type)
	}
}

// handleAfterEnd 处理终局之后仍然到达的事件
func (r *Room) handleAfterEnd(ev *Event) error {
	switch ev.Type {
	case EventTimeout:
		// 撤销竞态留下的到期事件，静默丢弃
		return nil
	case EventSnapshot:
		r.sendSnapshot(ev.PlayerID)
		return nil
	case EventDisconnect:
		r.roster.MarkDisconnected(ev.PlayerID)
		r.updateEmptyMark()
		return nil
	case EventEndGame, EventForceEnd:
		return nil
	default:
		return game.ErrRoomEnded
	}
}

func (r *Room) handleJoin(ev *Event) error {
	// 同ID重入视为重连，恢复原座位
	if _, exists := r.roster.Get(ev.PlayerID); exists {
		return r.handleReconnect(ev)
	}

	spectator := ev.Spectator
	if r.phase != game.PhaseLobby {
		if !r.desc.AllowSpectators {
			return game.ErrPhaseViolation
		}
		spectator = true
	}

	if !spectator && r.desc.MaxPlayers > 0 && r.roster.ParticipantCount() >= r.desc.MaxPlayers {
		return game.ErrCapacityExceeded
	}

	r.roster.Add(&player.Player{
		ID:        ev.PlayerID,
		Name:      ev.Name,
		AvatarURL: ev.AvatarURL,
		Spectator: spectator,
	})
	r.updateEmptyMark()
	r.broadcastState()
	r.sendSnapshot(ev.PlayerID)
	return nil
}

func (r *Room) handleReconnect(ev *Event) error {
	if !r.roster.MarkConnected(ev.PlayerID) {
		return game.ErrUnknownPlayer
	}
	r.updateEmptyMark()
	r.notifyPresence(ev.PlayerID, true)
	r.broadcastState()
	r.sendSnapshot(ev.PlayerID)
	return nil
}

func (r *Room) handleLeave(ev *Event) error {
	if _, exists := r.roster.Get(ev.PlayerID); !exists {
		return game.ErrUnknownPlayer
	}

	if r.phase == game.PhaseLobby {
		r.roster.Remove(ev.PlayerID)
	} else {
		// 进行中只标记掉线，保住分数和行动配额
		r.roster.MarkDisconnected(ev.PlayerID)
		r.notifyPresence(ev.PlayerID, false)
	}

	r.updateEmptyMark()
	r.broadcastState()

	// 缺席可能正好补齐行动配额
	if r.phase == game.PhasePlaying && r.guardRoundComplete() {
		r.advanceFromPlaying(false)
	}
	return nil
}

// handleDisconnect 与显式离开的区别：大厅阶段同样移除座位，
// 重连时按新加入处理
func (r *Room) handleDisconnect(ev *Event) error {
	if _, exists := r.roster.Get(ev.PlayerID); !exists {
		return nil
	}
	return r.handleLeave(&Event{Type: EventLeave, PlayerID: ev.PlayerID})
}

func (r *Room) handleReady(ev *Event) error {
	if r.phase != game.PhaseLobby {
		return game.ErrPhaseViolation
	}
	if !r.roster.SetReady(ev.PlayerID, ev.Ready) {
		return game.ErrUnknownPlayer
	}
	r.broadcastState()
	return nil
}

func (r *Room) handleStart(ev *Event) error {
	if r.phase != game.PhaseLobby {
		return game.ErrAlreadyStarted
	}
	if err := r.requireHost(ev.PlayerID); err != nil {
		return err
	}
	if r.roster.ParticipantCount() < r.desc.MinPlayers {
		return game.ErrNotEnoughPlayers
	}
	if !r.roster.AllReady() {
		return game.ErrPlayersNotReady
	}
	return r.startRound()
}

func (r *Room) handleEndGame(ev *Event) error {
	if err := r.requireHost(ev.PlayerID); err != nil {
		return err
	}
	r.endGame(false, "ended by host")
	return nil
}

func (r *Room) requireHost(playerID string) error {
	p, exists := r.roster.Get(playerID)
	if !exists {
		return game.ErrUnknownPlayer
	}
	if !p.Host {
		return game.ErrNotHost
	}
	return nil
}

func (r *Room) notifyPresence(playerID string, reconnected bool) {
	observer, ok := r.handler.(game.PresenceObserver)
	if !ok || r.phase == game.PhaseLobby {
		return
	}
	err := r.guard("PresenceObserver", func() error {
		var next game.Data
		if reconnected {
			next = observer.PlayerReconnected(r.snapshot(), playerID)
		} else {
			next = observer.PlayerDisconnected(r.snapshot(), playerID)
		}
		if next != nil {
			r.data = next
		}
		return nil
	})
	if err != nil {
		r.fault(err)
	}
}

// updateEmptyMark 维护空房时间戳，调度器据此回收
func (r *Room) updateEmptyMark() {
	r.metaMutex.Lock()
	defer r.metaMutex.Unlock()
	if r.roster.ConnectedCount() == 0 {
		if r.emptySince.IsZero() {
			r.emptySince = time.Now()
		}
	} else {
		r.emptySince = time.Time{}
	}
}

// EmptySince 返回房间全员离线的起点，零值表示仍有人在线
func (r *Room) EmptySince() time.Time {
	r.metaMutex.RLock()
	defer r.metaMutex.RUnlock()
	return r.emptySince
}

// EndedAt 返回进入终局的时间，零值表示尚未结束
func (r *Room) EndedAt() time.Time {
	r.metaMutex.RLock()
	defer r.metaMutex.RUnlock()
	return r.endedAt
}

func (r *Room) sendError(playerID, eventType string, err error) {
	msg := &broadcast.Message{
		Type:     broadcast.MsgError,
		RoomCode: r.Code,
		PlayerID: playerID,
		Payload: map[string]interface{}{
			"event":  eventType,
			"reason": game.ReasonCode(err),
			"detail": err.Error(),
		},
	}
	if berr := r.broadcaster.SendToPlayer(r.Code, playerID, msg); berr != nil {
		logger.Log.Warnw("Failed to send rejection", "room", r.Code, "player", playerID, "error", berr)
	}
}

func (r *Room) sendSnapshot(playerID string) {
	if playerID == "" {
		return
	}
	msg := &broadcast.Message{
		Type:     broadcast.MsgSnapshot,
		RoomCode: r.Code,
		PlayerID: playerID,
		Payload:  r.buildView(),
	}
	if err := r.broadcaster.SendToPlayer(r.Code, playerID, msg); err != nil {
		logger.Log.Warnw("Failed to send snapshot", "room", r.Code, "player", playerID, "error", err)
	}
	if res := r.Result(); res != nil {
		r.broadcaster.SendToPlayer(r.Code, playerID, &broadcast.Message{
			Type:     broadcast.MsgResult,
			RoomCode: r.Code,
			PlayerID: playerID,
			Payload:  res,
		})
	}
}
