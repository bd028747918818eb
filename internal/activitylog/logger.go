// Package activitylog records experiment telemetry with best-effort
// semantics: remote sink first, local file fallback second, diagnostics only
// after that. Nothing in this package ever returns an error to the caller.
package activitylog

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crt-lab/chatproxy/internal/model"
	"github.com/crt-lab/chatproxy/pkg/logger"
	"github.com/crt-lab/chatproxy/pkg/metrics"
)

// DefaultBackupFile receives comma-joined rows when the remote sink is
// unavailable.
const DefaultBackupFile = "sheet_log_backup.txt"

const timestampLayout = "2006-01-02T15:04:05"

// Sink is the remote append-only store for telemetry rows.
type Sink interface {
	AppendRow(ctx context.Context, row []string) error
}

// Option configures a Logger.
type Option func(*Logger)

// WithBackupFile overrides the local fallback file path.
func WithBackupFile(path string) Option {
	return func(l *Logger) { l.backupPath = path }
}

// WithMirror attaches a NATS event mirror for live monitoring.
func WithMirror(m *Mirror) Option {
	return func(l *Logger) { l.mirror = m }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// Logger records log events. Stateless per call; safe for concurrent use.
type Logger struct {
	sink       Sink
	mirror     *Mirror
	backupPath string
	log        *logger.Logger
	now        func() time.Time

	// serializes fallback-file appends
	mu sync.Mutex
}

// New creates a Logger. A nil sink is valid and routes every event straight
// to the fallback file.
func New(sink Sink, log *logger.Logger, opts ...Option) *Logger {
	l := &Logger{
		sink:       sink,
		backupPath: DefaultBackupFile,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records one event. It never fails from the caller's point of view;
// every failure mode degrades to the next recording channel.
func (l *Logger) Log(ctx context.Context, participantID, botID, role, content string) {
	event := model.LogEvent{
		Timestamp:     l.now().Format(timestampLayout),
		ParticipantID: participantID,
		BotID:         botID,
		Arm:           model.Arm,
		Role:          role,
		Content:       content,
	}

	if l.mirror != nil {
		l.mirror.Publish(event)
	}

	if l.sink == nil {
		l.log.Warn("logging sink not configured, using local backup")
		l.appendBackup(event)
		metrics.LogEventsTotal.WithLabelValues(role, "backup").Inc()
		return
	}

	if err := l.sink.AppendRow(ctx, event.Row()); err != nil {
		l.log.Error("sink append failed, using local backup",
			zap.String("participant_id", participantID),
			zap.String("bot_id", botID),
			zap.Error(err),
		)
		l.appendBackup(event)
		metrics.LogEventsTotal.WithLabelValues(role, "backup").Inc()
		return
	}

	l.log.Debug("event logged",
		zap.String("participant_id", participantID),
		zap.String("bot_id", botID),
		zap.String("role", role),
	)
	metrics.LogEventsTotal.WithLabelValues(role, "sink").Inc()
}

func (l *Logger) appendBackup(event model.LogEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.backupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.log.Error("backup logging failed", zap.Error(err))
		metrics.LogEventsTotal.WithLabelValues(event.Role, "lost").Inc()
		return
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(event.Row(), ", ") + "\n"); err != nil {
		l.log.Error("backup logging failed", zap.Error(err))
		metrics.LogEventsTotal.WithLabelValues(event.Role, "lost").Inc()
	}
}

// Configured reports whether a remote sink is attached.
func (l *Logger) Configured() bool {
	return l.sink != nil
}
