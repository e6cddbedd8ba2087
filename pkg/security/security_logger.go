package security

import (
	"context"
	"encoding/json"
	"time"

	"ironforge-backend/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventCSRFViolation      EventType = "csrf_violation"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	Event     EventType              `json:"event"`
	IP        string                 `json:"ip,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Path      string                 `json:"path,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger writes security events as structured log lines so they can
// be filtered apart from the access log. A nil *SecurityLogger discards
// everything.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	environment string
}

// NewSecurityLogger derives a "security" child of log.
func NewSecurityLogger(log *zap.Logger, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   log.Named("security"),
		environment: environment,
	}
}

// Log logs a security event. The request id is taken from ctx when the
// event does not carry one.
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID, _ = ctx.Value(domain.KeyRequestID).(string)
	}

	fields := []zap.Field{
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.Time("event_time", event.Timestamp),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.Path != "" {
		fields = append(fields, zap.String("path", event.Path))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(levelFor(event.Event), string(event.Event), fields...)
}

// LogRateLimitTriggered logs when a client exceeds a rate limit scope
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, scope, ip, userAgent, path string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventRateLimitTriggered,
		IP:        ip,
		UserAgent: userAgent,
		Path:      path,
		Details:   map[string]interface{}{"scope": scope},
	})
}

// LogCSRFViolation logs a mutating request rejected by the CSRF guard
func (sl *SecurityLogger) LogCSRFViolation(ctx context.Context, reason, ip, userAgent, path string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventCSRFViolation,
		IP:        ip,
		UserAgent: userAgent,
		Path:      path,
		Details:   map[string]interface{}{"reason": reason},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	if sl == nil {
		return nil
	}
	return sl.zapLogger.Sync()
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventCSRFViolation:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
