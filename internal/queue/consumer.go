package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AuditLog appends one human-friendly line per reservation event to a file.
type AuditLog struct {
	mu   sync.Mutex
	path string
}

// NewAuditLog returns an AuditLog writing to path.  The parent directory
// is created on first write.
func NewAuditLog(path string) *AuditLog {
	if path == "" {
		path = filepath.Join("logs", "reservations.log")
	}
	return &AuditLog{path: path}
}

// Path returns the file the log appends to.
func (a *AuditLog) Path() string { return a.path }

// Consumer listens to the reservation events queue and feeds every
// delivery into an AuditLog.
type Consumer struct {
	url   string
	audit *AuditLog
	log   *zap.Logger
}

// NewConsumer returns a Consumer for the broker at url.
func NewConsumer(url string, audit *AuditLog, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{url: url, audit: audit, log: log}
}

// Run connects to RabbitMQ, declares the reservation events queue (durable)
// and consumes until ctx is cancelled.  Lost connections are re-dialled
// with a doubling delay capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("reservation-consumer: failed to dial broker",
				zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("reservation-consumer: consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("reservation-consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(ReservationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(ReservationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.audit.HandleMessage(d.Body); err != nil {
				c.log.Error("reservation-consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event body and appends it to the log.
func (a *AuditLog) HandleMessage(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.ReservationID == 0 {
		return fmt.Errorf("incomplete event: %q", body)
	}
	return a.Append(ev)
}

// Append writes ev as a single line.
func (a *AuditLog) Append(ev ReservationEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev ReservationEvent) string {
	legs := fmt.Sprintf("[%d]", ev.LegOneID)
	if ev.LegTwoID > 0 {
		legs = fmt.Sprintf("[%d,%d]", ev.LegOneID, ev.LegTwoID)
	}
	line := fmt.Sprintf("[%s] %s | reservation_id=%d | user=%q | flights=%s | day=%d | price=%d",
		ev.OccurredAt, ev.Type, ev.ReservationID, ev.Username, legs, ev.DayOfMonth, ev.Price)
	switch ev.Type {
	case EventPaid:
		line += fmt.Sprintf(" | balance=%d", ev.Balance)
	case EventCanceled:
		line += fmt.Sprintf(" | refund=%d", ev.Refund)
	}
	return line + "\n"
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
