package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AuditLog is one operational event worth keeping: startup, shutdown, a sync
// engine giving up. Not to be confused with attendance events, which flow
// through the event publisher.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

// ZapAuditLogger writes audit entries through the global zap logger. A kiosk
// has no audit backend; stdout collected by the service manager is the trail.
type ZapAuditLogger struct{}

func NewZapAuditLogger() *ZapAuditLogger {
	return &ZapAuditLogger{}
}

func (l *ZapAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
