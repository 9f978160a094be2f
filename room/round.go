// room/round.go
package room

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/socialoop/partyhost/broadcast"
	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/result"
)

// guard 包住 Handler 回调，把 panic 和返回的错误都转成 HandlerFault
func (r *Room) guard(op string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &game.HandlerFault{
				GameType: r.GameType,
				Op:       op,
				Err:      fmt.Errorf("panic: %v", rec),
			}
		}
	}()
	if callErr := fn(); callErr != nil {
		err = &game.HandlerFault{GameType: r.GameType, Op: op, Err: callErr}
	}
	return
}

// fault 记录故障并强制终局，只影响本房间
func (r *Room) fault(err error) {
	logger.Log.Errorw("Handler fault, forcing room to end",
		"room", r.Code,
		"gameType", r.GameType,
		"phase", r.phase.String(),
		"round", r.round,
		"error", err,
	)
	r.monitor.IncHandlerFaults()
	r.endGame(true, "internal error")
}

func (r *Room) handleAction(ev *Event) error {
	if r.phase != game.PhasePlaying {
		return game.ErrPhaseViolation
	}
	p, exists := r.roster.Get(ev.PlayerID)
	if !exists {
		return game.ErrUnknownPlayer
	}
	if p.Spectator {
		return game.Rejectf("spectators cannot act")
	}

	// 校验失败是拒绝不是故障；panic 仍按故障处理
	var verr error
	if gerr := r.guard("ValidateAction", func() error {
		verr = r.handler.ValidateAction(r.snapshot(), ev.PlayerID, ev.Action)
		return nil
	}); gerr != nil {
		r.fault(gerr)
		return gerr
	}
	if verr != nil {
		if !errors.Is(verr, game.ErrValidationRejected) && !errors.Is(verr, game.ErrPhaseViolation) {
			verr = fmt.Errorf("%w: %v", game.ErrValidationRejected, verr)
		}
		return verr
	}

	if gerr := r.guard("ApplyAction", func() error {
		next, aerr := r.handler.ApplyAction(r.snapshot(), ev.PlayerID, ev.Action)
		if aerr != nil {
			return aerr
		}
		r.data = next
		return nil
	}); gerr != nil {
		r.fault(gerr)
		return gerr
	}

	r.broadcastState()

	if r.guardRoundComplete() {
		r.advanceFromPlaying(false)
	}
	return nil
}

func (r *Room) handleSkip(ev *Event) error {
	if err := r.requireHost(ev.PlayerID); err != nil {
		return err
	}
	switch r.phase {
	case game.PhasePlaying:
		// 跳过走超时路径：先补缺省动作再推进
		r.advanceFromPlaying(true)
		return nil
	case game.PhaseScoring:
		r.advanceFromScoring()
		return nil
	default:
		// reveal 阶段固定时长，不允许提前结束
		return game.ErrPhaseViolation
	}
}

func (r *Room) handleTimeout(ev *Event) error {
	if ev.TimerSeq != r.timerSeq {
		// 撤销竞态留下的过期届次，丢弃
		return nil
	}
	r.pendingTimer = 0

	switch r.phase {
	case game.PhasePlaying:
		r.advanceFromPlaying(true)
	case game.PhaseReveal:
		r.advanceFromReveal()
	case game.PhaseScoring:
		r.advanceFromScoring()
	}
	return nil
}

func (r *Room) guardRoundComplete() bool {
	complete := false
	if err := r.guard("RoundComplete", func() error {
		complete = r.handler.RoundComplete(r.snapshot())
		return nil
	}); err != nil {
		r.fault(err)
		return false
	}
	return complete
}

// --- 回合推进 ---

func (r *Room) startRound() error {
	r.round++
	r.scored = false
	r.phase = game.PhasePlaying
	r.data = nil

	if err := r.guard("InitRound", func() error {
		data, ierr := r.handler.InitRound(r.snapshot(), r.rng)
		if ierr != nil {
			return ierr
		}
		r.data = data
		return nil
	}); err != nil {
		r.fault(err)
		return err
	}

	r.armPhaseTimer()
	r.broadcastState()
	return nil
}

func (r *Room) advanceFromPlaying(fillDefaults bool) {
	r.cancelTimer()
	if fillDefaults && !r.applyDefaults() {
		return
	}
	if r.desc.ScoreBoundary == game.ScoreOnReveal && !r.applyRoundScores(true) {
		return
	}
	r.phase = game.PhaseReveal
	r.armPhaseTimer()
	r.broadcastState()
}

func (r *Room) advanceFromReveal() {
	if r.desc.ScoreBoundary == game.ScoreOnScoring && !r.applyRoundScores(true) {
		return
	}
	r.phase = game.PhaseScoring
	r.armPhaseTimer()
	r.broadcastState()
}

func (r *Room) advanceFromScoring() {
	r.cancelTimer()
	if r.round < r.total {
		r.startRound()
		return
	}
	r.endGame(false, "")
}

// applyDefaults 给每个未行动的参与者补上 Handler 的缺省动作，
// 结算因此总能看到完整的动作集
func (r *Room) applyDefaults() bool {
	for _, seat := range r.snapshot().Participants() {
		pid := seat.ID

		var act game.Action
		var ok bool
		if err := r.guard("DefaultAction", func() error {
			act, ok = r.handler.DefaultAction(r.snapshot(), pid)
			return nil
		}); err != nil {
			r.fault(err)
			return false
		}
		if !ok {
			continue
		}

		if err := r.guard("ApplyAction", func() error {
			next, aerr := r.handler.ApplyAction(r.snapshot(), pid, act)
			if aerr != nil {
				return aerr
			}
			r.data = next
			return nil
		}); err != nil {
			r.fault(err)
			return false
		}
	}
	return true
}

// applyRoundScores 结算本回合的分数增量，每回合至多一次。
// strict 为假时（故障收尾路径）失败只记日志，不再递归终局。
func (r *Room) applyRoundScores(strict bool) bool {
	if r.scored {
		return true
	}

	var deltas map[string]int
	if err := r.guard("RoundScores", func() error {
		deltas = r.handler.RoundScores(r.snapshot())
		return nil
	}); err != nil {
		if strict {
			r.fault(err)
		} else {
			logger.Log.Warnw("Skipping score flush", "room", r.Code, "error", err)
		}
		return false
	}

	for id, delta := range deltas {
		if p, exists := r.roster.Get(id); exists && !p.Spectator {
			r.roster.AddScore(id, delta)
		}
	}
	r.scored = true
	r.history.Record(r.totals())
	return true
}

func (r *Room) totals() map[string]int {
	totals := make(map[string]int)
	for _, p := range r.roster.Players() {
		if !p.Spectator {
			totals[p.ID] = p.Score
		}
	}
	return totals
}

// endGame 进入终局：冲账未结算的回合，聚合名次并广播结果。
// 再次调用是空操作。
func (r *Room) endGame(faulted bool, reason string) {
	if r.phase == game.PhaseEnded {
		return
	}
	r.cancelTimer()

	// 中途结束时用已有的动作集结算部分回合
	if r.round >= 1 && !r.scored &&
		(r.phase == game.PhasePlaying || r.phase == game.PhaseReveal) {
		if faulted {
			r.applyRoundScores(false)
		} else if !r.applyRoundScores(true) {
			// 冲账触发了故障，递归的终局已经完成收尾
			return
		}
	}

	r.phase = game.PhaseEnded

	st := r.snapshot()
	breaker, _ := r.handler.(game.TieBreaker)
	res := r.aggregate(st, breaker)
	res.Faulted = faulted
	res.Reason = reason

	r.metaMutex.Lock()
	r.res = res
	r.endedAt = time.Now()
	r.metaMutex.Unlock()

	r.monitor.IncGamesCompleted()

	r.broadcastState()
	r.broadcaster.BroadcastToRoom(r.Code, &broadcast.Message{
		Type:     broadcast.MsgResult,
		RoomCode: r.Code,
		Payload:  res,
	})
	if faulted {
		r.broadcaster.BroadcastToRoom(r.Code, &broadcast.Message{
			Type:     broadcast.MsgError,
			RoomCode: r.Code,
			Payload: map[string]interface{}{
				"reason": "handler_fault",
				"detail": "game ended due to an internal error",
			},
		})
	}

	logger.Log.Infow("Room ended",
		"room", r.Code,
		"gameType", r.GameType,
		"rounds", r.round,
		"winner", res.Winner,
		"faulted", faulted,
	)
}

func (r *Room) aggregate(st *game.State, breaker game.TieBreaker) (res *result.GameResult) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Log.Errorw("Tie breaker panicked, falling back to default order",
				"room", r.Code, "panic", rec)
			res = result.Aggregate(st, r.history, nil)
		}
	}()
	return result.Aggregate(st, r.history, breaker)
}

// Result 返回终局结果，未结束时为 nil
func (r *Room) Result() *result.GameResult {
	r.metaMutex.RLock()
	defer r.metaMutex.RUnlock()
	return r.res
}

// --- 阶段定时器 ---

// armPhaseTimer 为当前阶段上弦，总是先撤掉前一个定时器
func (r *Room) armPhaseTimer() {
	r.cancelTimer()
	d, ok := r.durations[r.phase]
	if !ok || d <= 0 || r.sched == nil {
		return
	}

	r.timerSeq++
	seq := r.timerSeq
	r.deadline = time.Now().Add(d)
	r.pendingTimer = r.sched.After(d, func() {
		// 只投递事件，状态变更全部发生在房间 goroutine 里
		r.Post(&Event{Type: EventTimeout, TimerSeq: seq})
	})
}

func (r *Room) cancelTimer() {
	if r.pendingTimer != 0 && r.sched != nil {
		r.sched.Cancel(r.pendingTimer)
	}
	r.pendingTimer = 0
	r.timerSeq++ // 已在途的到期事件就此作废
	r.deadline = time.Time{}
}

// --- 状态视图 ---

// snapshot 构造 Handler 看到的只读状态
func (r *Room) snapshot() *game.State {
	return &game.State{
		Code:        r.Code,
		GameType:    r.GameType,
		Phase:       r.phase,
		Round:       r.round,
		TotalRounds: r.total,
		Players:     r.roster.Infos(),
		Data:        r.data,
	}
}

// Snapshot 是广播与运维接口使用的房间视图
type Snapshot struct {
	Code          string            `json:"code"`
	GameType      string            `json:"gameType"`
	Phase         string            `json:"phase"`
	Round         int               `json:"round"`
	TotalRounds   int               `json:"totalRounds"`
	TimeRemaining int               `json:"timeRemaining,omitempty"` // 秒
	Players       []game.PlayerInfo `json:"players"`
	Data          game.Data         `json:"data,omitempty"`
}

func (r *Room) buildView() *Snapshot {
	v := &Snapshot{
		Code:        r.Code,
		GameType:    r.GameType,
		Phase:       r.phase.String(),
		Round:       r.round,
		TotalRounds: r.total,
		Players:     r.roster.Infos(),
		Data:        r.data,
	}
	if !r.deadline.IsZero() {
		if remain := time.Until(r.deadline); remain > 0 {
			v.TimeRemaining = int(math.Ceil(remain.Seconds()))
		}
	}
	return v
}

func (r *Room) publishView() {
	v := r.buildView()
	r.metaMutex.Lock()
	r.view = v
	r.metaMutex.Unlock()
}

// View 返回最近发布的房间视图，任意 goroutine 可读
func (r *Room) View() *Snapshot {
	r.metaMutex.RLock()
	defer r.metaMutex.RUnlock()
	return r.view
}

func (r *Room) broadcastState() {
	r.publishView()
	r.broadcaster.BroadcastToRoom(r.Code, &broadcast.Message{
		Type:     broadcast.MsgState,
		RoomCode: r.Code,
		Payload:  r.View(),
	})
}
