// gateway/session.go
package gateway

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/socialoop/partyhost/broadcast"
	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/room"
)

const writeWait = 10 * time.Second

// Session 一条已升级的玩家连接。写入走互斥锁，随便哪个 goroutine
// 都可以安全推送。
type Session struct {
	PlayerID string

	conn      *websocket.Conn
	sendMutex sync.Mutex

	mutex      sync.RWMutex
	room       string
	createdAt  time.Time
	lastActive time.Time
}

func NewSession(playerID string, conn *websocket.Conn) *Session {
	now := time.Now()
	return &Session{
		PlayerID:   playerID,
		conn:       conn,
		createdAt:  now,
		lastActive: now,
	}
}

func (s *Session) Send(v interface{}) error {
	s.sendMutex.Lock()
	defer s.sendMutex.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

func (s *Session) ReadJSON(v interface{}) error {
	return s.conn.ReadJSON(v)
}

// SetHeartbeat 按心跳间隔顺延读超时，两个周期收不到帧判定掉线
func (s *Session) SetHeartbeat(interval time.Duration) {
	s.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

func (s *Session) SetRoom(code string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.room = code
}

func (s *Session) Room() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.room
}

func (s *Session) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *Session) Close() error {
	return s.conn.Close()
}

// Hub 按玩家和房间登记会话，同时作为 broadcast.Broadcaster 的本地
// 落点，把引擎出站消息写回对应连接。
type Hub struct {
	mutex    sync.RWMutex
	sessions map[string]*Session            // playerID -> session
	rooms    map[string]map[string]*Session // roomCode -> playerID -> session
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		rooms:    make(map[string]map[string]*Session),
	}
}

// Add 登记会话。同一玩家的旧连接被挤下线，重连走新连接。
func (h *Hub) Add(sess *Session) {
	h.mutex.Lock()
	prev := h.sessions[sess.PlayerID]
	h.sessions[sess.PlayerID] = sess
	h.mutex.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// Remove 注销会话。重连已经顶替过的旧会话不动表。
func (h *Hub) Remove(sess *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if current := h.sessions[sess.PlayerID]; current != sess {
		return
	}
	delete(h.sessions, sess.PlayerID)
	if code := sess.Room(); code != "" {
		h.dropMember(code, sess.PlayerID)
	}
}

func (h *Hub) Get(playerID string) (*Session, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	sess, exists := h.sessions[playerID]
	return sess, exists
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.sessions)
}

// JoinRoom 把会话挂进房间的派发名单
func (h *Hub) JoinRoom(code string, sess *Session) {
	key := room.Canonical(code)

	h.mutex.Lock()
	if prev := sess.Room(); prev != "" && prev != key {
		h.dropMember(prev, sess.PlayerID)
	}
	members, ok := h.rooms[key]
	if !ok {
		members = make(map[string]*Session)
		h.rooms[key] = members
	}
	members[sess.PlayerID] = sess
	h.mutex.Unlock()

	sess.SetRoom(key)
}

// LeaveRoom 把会话摘出派发名单
func (h *Hub) LeaveRoom(code string, sess *Session) {
	h.mutex.Lock()
	h.dropMember(room.Canonical(code), sess.PlayerID)
	h.mutex.Unlock()

	sess.SetRoom("")
}

// 调用方持锁
func (h *Hub) dropMember(code, playerID string) {
	members, ok := h.rooms[code]
	if !ok {
		return
	}
	delete(members, playerID)
	if len(members) == 0 {
		delete(h.rooms, code)
	}
}

// BroadcastToRoom 给房间名单上的每条连接推送。写失败的连接直接
// 关掉，由它的读循环收尾。
func (h *Hub) BroadcastToRoom(roomCode string, msg *broadcast.Message) error {
	h.mutex.RLock()
	members := make([]*Session, 0, len(h.rooms[room.Canonical(roomCode)]))
	for _, sess := range h.rooms[room.Canonical(roomCode)] {
		members = append(members, sess)
	}
	h.mutex.RUnlock()

	for _, sess := range members {
		if err := sess.Send(msg); err != nil {
			logger.Log.Debugw("Dropping unwritable connection",
				"room", roomCode, "player", sess.PlayerID, "error", err)
			sess.Close()
		}
	}
	return nil
}

// SendToPlayer 定向推送。玩家不在本实例上不算错误，可能由订阅
// NATS 的外部接入层送达。
func (h *Hub) SendToPlayer(roomCode, playerID string, msg *broadcast.Message) error {
	sess, exists := h.Get(playerID)
	if !exists {
		return nil
	}
	if err := sess.Send(msg); err != nil {
		sess.Close()
		return err
	}
	return nil
}
