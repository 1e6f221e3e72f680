// Package telemetry is the single choke point through which the rest of
// the module writes log output. Every field that might carry raw patient
// text passes through PatientField before it reaches logrus.
package telemetry

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config mirrors domain.LoggingConfig without importing it, keeping this
// package dependency-free of the domain model.
type Config struct {
	Level            string
	Format           string
	HIPAASafeLogging bool
}

// Logger wraps *logrus.Logger with request-id propagation and a
// HIPAA-safe field redaction pass.
type Logger struct {
	*logrus.Logger
	hipaaSafe bool
}

type ctxKey int

const requestIDKey ctxKey = iota

var sensitiveFieldPatterns = []string{
	"patient", "medical_query", "clinical_notes", "free_text", "dob",
	"date_of_birth", "ssn", "mrn", "address", "phone", "email",
}

// New builds a Logger from cfg. An unrecognized level falls back to info,
// matching the teacher's defensive ParseLevel handling.
func New(cfg Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	return &Logger{Logger: l, hipaaSafe: cfg.HIPAASafeLogging}
}

// WithRequestID returns a context carrying a fresh (or pre-existing)
// request id, and the id itself.
func WithRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return context.WithValue(ctx, requestIDKey, id), id
}

// RequestID extracts the request id stashed by WithRequestID, or "" if none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithContext returns an entry pre-populated with the request id.
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	return l.WithField("request_id", RequestID(ctx))
}

// PatientField redacts a field's value when HIPAA-safe logging is on and
// the key looks like it could carry patient-identifying text. Non-matching
// keys and short, non-sensitive values pass through unchanged.
func (l *Logger) PatientField(key string, value interface{}) interface{} {
	if !l.hipaaSafe {
		return value
	}
	lower := strings.ToLower(key)
	for _, pattern := range sensitiveFieldPatterns {
		if strings.Contains(lower, pattern) {
			return "[REDACTED]"
		}
	}
	if s, ok := value.(string); ok && len(s) > 500 {
		return s[:500] + "...[TRUNCATED]"
	}
	return value
}

// Fields builds a logrus.Fields map, running every value through
// PatientField. Use this instead of logrus.Fields{} directly whenever a
// field might originate from patient input.
func (l *Logger) Fields(raw map[string]interface{}) logrus.Fields {
	out := make(logrus.Fields, len(raw))
	for k, v := range raw {
		out[k] = l.PatientField(k, v)
	}
	return out
}
