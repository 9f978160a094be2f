// broadcast/broadcast.go
package broadcast

// 出站消息类型
const (
	MsgState    = "state"    // 每次接受的变更后全房间推送
	MsgResult   = "result"   // 进入 ended 时推送一次
	MsgError    = "error"    // 定向：拒绝原因
	MsgSnapshot = "snapshot" // 定向：重连状态快照
)

// Message 是引擎产生的一条出站消息
type Message struct {
	Type     string      `json:"type"`
	RoomCode string      `json:"roomCode"`
	PlayerID string      `json:"playerId,omitempty"` // 定向消息的目标，空表示全房间
	Payload  interface{} `json:"payload,omitempty"`
}

// Broadcaster 把引擎出站消息送达玩家。实现不阻塞房间：
// 慢接收方由各实现自行丢弃或缓冲。
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msg *Message) error
	SendToPlayer(roomCode, playerID string, msg *Message) error
}

// Multi fans a message out to several sinks. Every sink is attempted;
// the first error is reported.
type Multi struct {
	sinks []Broadcaster
}

func NewMulti(sinks ...Broadcaster) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) BroadcastToRoom(roomCode string, msg *Message) error {
	var first error
	for _, sink := range m.sinks {
		if err := sink.BroadcastToRoom(roomCode, msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Multi) SendToPlayer(roomCode, playerID string, msg *Message) error {
	var first error
	for _, sink := range m.sinks {
		if err := sink.SendToPlayer(roomCode, playerID, msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Nop discards everything. Placeholder sink for tests and for rooms
// running without a delivery layer.
type Nop struct{}

func (Nop) BroadcastToRoom(roomCode string, msg *Message) error        { return nil }
func (Nop) SendToPlayer(roomCode, playerID string, msg *Message) error { return nil }
