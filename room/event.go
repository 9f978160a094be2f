// room/event.go
package room

import (
	"github.com/socialoop/partyhost/game"
)

// 事件类型。前七种来自外部玩家，其余由系统内部投递。
const (
	EventJoin    = "join"
	EventLeave   = "leave"
	EventReady   = "ready"
	EventStart   = "start"
	EventAction  = "action"
	EventSkip    = "skip"
	EventEndGame = "endGame"

	EventTimeout    = "timeout"    // 阶段定时器到期
	EventDisconnect = "disconnect" // 连接层报告掉线
	EventSnapshot   = "snapshot"   // 请求定向状态快照
	EventForceEnd   = "forceEnd"   // 运维强制结束
)

// Event 是投入房间队列的一条事件。同一房间的事件严格按到达
// 顺序处理。
type Event struct {
	Type     string
	PlayerID string

	// join
	Name      string
	AvatarURL string
	Spectator bool

	// ready
	Ready bool

	// action
	Action game.Action

	// timeout 的届次守卫，过期的到期事件被丢弃
	TimerSeq int64

	// forceEnd
	Reason string

	// Reply carries the processing outcome back to a synchronous
	// dispatcher. Buffered, may be nil.
	Reply chan error
}
