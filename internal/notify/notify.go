// Package notify delivers user-facing notifications of claim attempts.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"go.uber.org/zap"
)

// DefaultSubjectPrefix is the NATS subject prefix used when none is configured.
const DefaultSubjectPrefix = "subnameclaim.notification"

type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// Logger writes notifications to a zap logger.
type Logger struct {
	logger *zap.Logger
}

// NewLogger creates a Logger notifier.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.Named("notify")}
}

func (l *Logger) Notify(_ context.Context, n model.Notification) error {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("description", n.Description)}
	if n.Severity == model.SeverityError {
		l.logger.Error("notification", fields...)
		return nil
	}
	l.logger.Info("notification", fields...)
	return nil
}

type payload struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Severity    model.Severity `json:"severity"`
	OccurredAt  int64          `json:"occurredAt"`
}

// Publisher publishes notifications as JSON on <prefix>.<severity>.
type Publisher struct {
	conn   Conn
	prefix string
	now    func() time.Time
}

// NewPublisher creates a Publisher on conn. An empty prefix uses the default subject.
func NewPublisher(conn Conn, prefix string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("nats connection is required")
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{conn: conn, prefix: prefix, now: time.Now}, nil
}

func (p *Publisher) Notify(ctx context.Context, n model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload{
		Title:       n.Title,
		Description: n.Description,
		Severity:    n.Severity,
		OccurredAt:  p.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	subject := fmt.Sprintf("%s.%s", p.prefix, n.Severity)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n model.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
