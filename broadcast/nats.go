// broadcast/nats.go
package broadcast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/socialoop/partyhost/logger"
)

const DefaultSubjectPrefix = "partyhost"

// Connect 建立带重连的 NATS 连接
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Log.Warnw("Disconnected from NATS", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Log.Infow("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Log.Info("NATS connection closed")
		}),
		nats.Timeout(10 * time.Second),
	}
	return nats.Connect(url, opts...)
}

// NATSBroadcaster 把出站消息发布到 NATS，供外部 socket 层订阅。
// 房间消息发到 <prefix>.room.<code>，定向消息发到
// <prefix>.player.<code>.<playerId>。
type NATSBroadcaster struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSBroadcaster(nc *nats.Conn, prefix string) *NATSBroadcaster {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSBroadcaster{nc: nc, prefix: prefix}
}

func (b *NATSBroadcaster) BroadcastToRoom(roomCode string, msg *Message) error {
	return b.publish(fmt.Sprintf("%s.room.%s", b.prefix, roomCode), msg)
}

func (b *NATSBroadcaster) SendToPlayer(roomCode, playerID string, msg *Message) error {
	return b.publish(fmt.Sprintf("%s.player.%s.%s", b.prefix, roomCode, playerID), msg)
}

func (b *NATSBroadcaster) publish(subject string, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Errorw("Failed to marshal outbound message", "subject", subject, "error", err)
		return err
	}
	if err := b.nc.Publish(subject, data); err != nil {
		logger.Log.Errorw("Failed to publish to NATS", "subject", subject, "error", err)
		return err
	}
	return nil
}
