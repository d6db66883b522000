// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/restok/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for signup/token events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for membership mutation events.
	// Values: "all", "db", "log", "off"
	Admin string
	// Billing controls logging for plan-change events.
	// Values: "all", "db", "log", "off"
	Billing string
}

// Logger routes audit events to MongoDB and/or the application log
// depending on the per-category mode.
type Logger struct {
	store *audit.Store
	log   *zap.Logger
	cfg   Config
}

// New creates an audit Logger. Unrecognized or empty mode strings behave
// as "all".
func New(store *audit.Store, logger *zap.Logger, cfg Config) *Logger {
	return &Logger{store: store, log: logger, cfg: cfg}
}

// Record routes an event by its Category. Events with an unknown category
// are treated as admin events.
func (l *Logger) Record(ctx context.Context, e audit.Event) {
	switch e.Category {
	case audit.CategoryAuth:
		l.write(ctx, e, l.cfg.Auth)
	case audit.CategoryBilling:
		l.write(ctx, e, l.cfg.Billing)
	default:
		e.Category = audit.CategoryAdmin
		l.write(ctx, e, l.cfg.Admin)
	}
}

func (l *Logger) write(ctx context.Context, e audit.Event, mode string) {
	toDB, toLog := true, true
	switch mode {
	case "db":
		toLog = false
	case "log":
		toDB = false
	case "off":
		return
	}

	if toDB {
		if err := l.store.Log(ctx, e); err != nil {
			// Audit persistence failure must not fail the operation; the
			// zap record below is the fallback trail.
			l.log.Error("audit event write failed",
				zap.String("event_type", e.EventType), zap.Error(err))
			toLog = true
		}
	}
	if toLog {
		fields := []zap.Field{
			zap.String("category", e.Category),
			zap.String("event_type", e.EventType),
			zap.Bool("success", e.Success),
		}
		if e.OrganizationID != "" {
			fields = append(fields, zap.String("organization_id", e.OrganizationID))
		}
		if e.UID != "" {
			fields = append(fields, zap.String("uid", e.UID))
		}
		if e.ActorID != "" {
			fields = append(fields, zap.String("actor_id", e.ActorID))
		}
		if e.FailureReason != "" {
			fields = append(fields, zap.String("failure_reason", e.FailureReason))
		}
		for k, v := range e.Details {
			fields = append(fields, zap.String("detail_"+k, v))
		}
		l.log.Info("audit", fields...)
	}
}
