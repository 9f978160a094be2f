// gateway/gateway.go
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/socialoop/partyhost/broadcast"
	"github.com/socialoop/partyhost/engine"
	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/monitor"
	"github.com/socialoop/partyhost/room"
)

const defaultHeartbeat = 30 * time.Second

// 连接层自有的帧类型，房间语义之外
const (
	FrameWelcome = "welcome"
	FramePing    = "ping"
	FramePong    = "pong"
)

// Frame 入站客户端帧。type 取房间事件名或 ping。
type Frame struct {
	Type    string                 `json:"type"`
	Room    string                 `json:"room,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

type Options struct {
	Addr    string
	Engine  *engine.Engine
	Monitor *monitor.Monitor

	// Hub 先于网关建好挂进引擎的广播链，这里注入同一个实例。
	// 不传则自建。
	Hub       *Hub
	Heartbeat time.Duration
}

// Gateway 是 WebSocket/HTTP 接入层：升级连接、收帧转事件、
// 把引擎的出站消息写回连接。
type Gateway struct {
	addr      string
	engine    *engine.Engine
	hub       *Hub
	monitor   *monitor.Monitor
	heartbeat time.Duration
	upgrader  websocket.Upgrader
	server    *http.Server
}

func NewGateway(opts Options) *Gateway {
	heartbeat := opts.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	hub := opts.Hub
	if hub == nil {
		hub = NewHub()
	}

	g := &Gateway{
		addr:      opts.Addr,
		engine:    opts.Engine,
		hub:       hub,
		monitor:   opts.Monitor,
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
	g.server = &http.Server{Addr: opts.Addr, Handler: g.Router()}
	return g
}

// Hub 暴露本地派发落点，组装广播链时挂进去
func (g *Gateway) Hub() *Hub {
	return g.hub
}

func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", g.handleHealth)
	r.Get("/ws", g.handleWebSocket)
	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", g.handleCreateRoom)
		r.Get("/", g.handleListRooms)
		r.Get("/{code}", g.handleRoomState)
	})
	return r
}

func (g *Gateway) Start() error {
	logger.Log.Infof("Gateway listening on %s", g.addr)
	err := g.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"reason": game.ReasonCode(err),
		"detail": err.Error(),
	})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"rooms":     g.engine.RoomCount(),
		"players":   g.hub.Count(),
		"gameTypes": g.engine.GameTypes(),
	})
}

func (g *Gateway) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var params engine.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, game.Rejectf("malformed request body"))
		return
	}

	created, err := g.engine.CreateRoom(params)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrUnknownGameType):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, game.ErrTooManyRooms):
			writeError(w, http.StatusServiceUnavailable, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, created.View())
}

func (g *Gateway) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := g.engine.Rooms()
	views := make([]*room.Snapshot, 0, len(rooms))
	for _, rm := range rooms {
		views = append(views, rm.View())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rooms": views})
}

func (g *Gateway) handleRoomState(w http.ResponseWriter, r *http.Request) {
	rm, exists := g.engine.Room(chi.URLParam(r, "code"))
	if !exists {
		writeError(w, http.StatusNotFound, game.ErrRoomNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rm.View())
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	// 重连的客户端带上自己原来的 id，新客户端这里发一个
	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		playerID = uuid.New().String()
	}

	sess := NewSession(playerID, conn)
	g.hub.Add(sess)
	g.monitor.IncConnectedPlayers()
	logger.Log.Infow("Player connected", "player", playerID, "remote", sess.RemoteAddr())

	sess.Send(&broadcast.Message{
		Type:     FrameWelcome,
		PlayerID: playerID,
		Payload: map[string]interface{}{
			"playerId":  playerID,
			"gameTypes": g.engine.GameTypes(),
		},
	})

	g.readLoop(sess)
}

func (g *Gateway) readLoop(sess *Session) {
	defer func() {
		if code := sess.Room(); code != "" {
			g.engine.NotifyDisconnect(code, sess.PlayerID)
		}
		g.hub.Remove(sess)
		g.monitor.DecConnectedPlayers()
		sess.Close()
		logger.Log.Infow("Player disconnected", "player", sess.PlayerID, "remote", sess.RemoteAddr())
	}()

	sess.SetHeartbeat(g.heartbeat)
	for {
		var frame Frame
		if err := sess.ReadJSON(&frame); err != nil {
			return
		}
		sess.SetHeartbeat(g.heartbeat)
		sess.Touch()
		g.handleFrame(sess, &frame)
	}
}

func (g *Gateway) handleFrame(sess *Session, frame *Frame) {
	if frame.Type == FramePing {
		sess.Send(&broadcast.Message{Type: FramePong})
		return
	}

	err := g.engine.Dispatch(&engine.Event{
		RoomCode: frame.Room,
		PlayerID: sess.PlayerID,
		Type:     frame.Type,
		Payload:  frame.Payload,
	})
	// 拒绝由引擎和房间定向回报，这里只维护派发名单
	if err != nil {
		return
	}

	switch frame.Type {
	case room.EventJoin:
		g.hub.JoinRoom(frame.Room, sess)
		// 入房广播先于名单登记，这里补一份定向快照
		g.engine.RequestSnapshot(frame.Room, sess.PlayerID)
	case room.EventLeave:
		g.hub.LeaveRoom(frame.Room, sess)
	}
}
