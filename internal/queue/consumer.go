package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/internal/services"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the activity queue into a Recorder, usually the database.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	rec      services.Recorder
}

func NewConsumer(url, queue string, prefetch int, rec services.Recorder) *Consumer {
	return &Consumer{url: url, queue: queue, prefetch: prefetch, rec: rec}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff
// capped at 30 seconds.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Printf("[amqp] activity consumer dial failed: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[amqp] activity consumer stopped: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
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

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if c.prefetch > 0 {
		if err := ch.Qos(c.prefetch, 0, false); err != nil {
			log.Printf("[amqp] set QoS failed: %v", err)
		}
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
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
			if err := c.Handle(ctx, d.Body); err != nil {
				log.Printf("[amqp] activity message rejected: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message and records it.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var entry models.ActivityLog
	if err := json.Unmarshal(body, &entry); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if entry.EventType == "" || entry.Module == "" || entry.Action == "" {
		return errors.New("incomplete activity entry")
	}
	entry.ID = 0
	return c.rec.Record(ctx, &entry)
}
