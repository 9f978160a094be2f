// rpc/rpc.go
package rpc

import (
	"encoding/gob"
	"net"
	"net/rpc"

	"github.com/socialoop/partyhost/engine"
	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/result"
	"github.com/socialoop/partyhost/room"
)

func init() {
	// Snapshot.Data 是任意嵌套的 JSON 形状，接口值过 gob 之前要登记
	gob.Register(game.Data{})
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
	gob.Register([]string{})
	gob.Register([]int{})
}

// Server manages the ops RPC listener.
type Server struct {
	listener net.Listener
	address  string
	server   *rpc.Server
}

// NewServer opens the listener and registers the ops service. Each
// Server carries its own rpc.Server so repeated construction does not
// trip the package-level registry.
func NewServer(addr string, eng *engine.Engine) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	server := rpc.NewServer()
	if err := server.Register(NewOpsService(eng)); err != nil {
		listener.Close()
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
		server:   server,
	}, nil
}

// Addr 返回实际监听地址，用 :0 启动时从这里取回端口
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.Addr())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.server.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// OpsService 暴露运维口：查房、看状态、强制终局。方法签名按
// net/rpc 的约定：导出方法、导出参数、第二个参数是指针、返回 error。
type OpsService struct {
	engine *engine.Engine
}

func NewOpsService(eng *engine.Engine) *OpsService {
	return &OpsService{engine: eng}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Rooms []*room.Snapshot
}

func (o *OpsService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	for _, r := range o.engine.Rooms() {
		reply.Rooms = append(reply.Rooms, r.View())
	}
	return nil
}

type RoomArgs struct {
	Code string
}

type RoomStateReply struct {
	Room *room.Snapshot
}

func (o *OpsService) RoomState(args *RoomArgs, reply *RoomStateReply) error {
	r, exists := o.engine.Room(args.Code)
	if !exists {
		return game.ErrRoomNotFound
	}
	reply.Room = r.View()
	return nil
}

type ResultReply struct {
	Result *result.GameResult
}

// RoomResult 返回终局结果，房间未结束时 Result 为 nil
func (o *OpsService) RoomResult(args *RoomArgs, reply *ResultReply) error {
	r, exists := o.engine.Room(args.Code)
	if !exists {
		return game.ErrRoomNotFound
	}
	reply.Result = r.Result()
	return nil
}

type ForceEndArgs struct {
	Code   string
	Reason string
}

type ForceEndReply struct {
	Ended bool
}

func (o *OpsService) ForceEnd(args *ForceEndArgs, reply *ForceEndReply) error {
	if err := o.engine.ForceEnd(args.Code, args.Reason); err != nil {
		return err
	}
	reply.Ended = true
	return nil
}

type StatsArgs struct{}

type StatsReply struct {
	Rooms     int
	GameTypes []string
}

func (o *OpsService) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.Rooms = o.engine.RoomCount()
	reply.GameTypes = o.engine.GameTypes()
	return nil
}
