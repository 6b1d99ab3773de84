// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/spellhub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config controls where admin audit events go.
// Values: "all" (store + zap), "db" (store only), "log" (zap only), "off".
type Config struct {
	Admin string
}

// Logger records admin content mutations to the audit store and to
// structured logs. A nil *Logger is a no-op, which lets tests pass nil.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// NewNopLogger returns a logger that records nothing.
func NewNopLogger() *Logger {
	return &Logger{zapLog: zap.NewNop(), config: Config{Admin: "off"}}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_type", event.EventType),
		zap.String("entity_kind", event.EntityKind),
		zap.String("entity_id", event.EntityID),
		zap.Bool("success", event.Success),
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records one event per the configured destinations.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	setting := l.config.Admin
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}
	if event.Category == "" {
		event.Category = audit.CategoryAdmin
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			// The mutation itself already succeeded; losing the audit row
			// is worth a warning, not a failed request.
			l.zapLog.Warn("failed to write audit event",
				zap.String("event_type", event.EventType),
				zap.Error(err))
		}
	}
}

// AdminAction is shorthand for a successful admin mutation.
func (l *Logger) AdminAction(ctx context.Context, eventType, entityKind, entityID string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  eventType,
		EntityKind: entityKind,
		EntityID:   entityID,
		Success:    true,
		Details:    details,
	})
}
