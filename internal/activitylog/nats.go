package activitylog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/crt-lab/chatproxy/internal/model"
	"github.com/crt-lab/chatproxy/pkg/logger"
)

// SubjectPrefix is the NATS subject prefix for mirrored events; the event
// role is appended (crt.events.user, crt.events.assistant, ...).
const SubjectPrefix = "crt.events."

// Mirror publishes every log event to NATS for live experiment monitoring.
// Publishes are fire-and-forget; a mirror failure never affects the primary
// recording path.
type Mirror struct {
	conn *nats.Conn
	log  *logger.Logger
}

// ConnectMirror establishes the NATS connection for the event mirror.
func ConnectMirror(url, token string, log *logger.Logger) (*Mirror, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Mirror{conn: conn, log: log}, nil
}

// Publish mirrors one event. Failures are diagnostic-only.
func (m *Mirror) Publish(event model.LogEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		m.log.Error("failed to marshal event for mirror", zap.Error(err))
		return
	}
	if err := m.conn.Publish(SubjectPrefix+event.Role, data); err != nil {
		m.log.Warn("event mirror publish failed", zap.Error(err))
	}
}

// Close closes the NATS connection.
func (m *Mirror) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
