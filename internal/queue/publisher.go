package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// ErrBrokerBackoff is returned while the publisher waits before redialing a
// broker that just failed.
var ErrBrokerBackoff = errors.New("rabbitmq: broker unavailable, retry pending")

const (
	defaultDialTimeout = 2 * time.Second
	defaultRetryDelay  = 15 * time.Second
)

// Publisher sends CatalogEvents to CatalogQueue. The connection is opened on
// first use and reopened after it drops. A failed dial is not retried before
// RetryDelay passes, so an unreachable broker costs at most one DialTimeout
// per RetryDelay.
type Publisher struct {
	url string

	DialTimeout time.Duration
	RetryDelay  time.Duration

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
	now     func() time.Time
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{
		url:         url,
		DialTimeout: defaultDialTimeout,
		RetryDelay:  defaultRetryDelay,
		now:         time.Now,
	}
}

func (p *Publisher) dial() (*amqp.Connection, error) {
	if now := p.now(); now.Before(p.retryAt) {
		return nil, ErrBrokerBackoff
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.DialTimeout),
	})
	if err != nil {
		p.retryAt = p.now().Add(p.RetryDelay)
		return nil, errors.Wrap(err, "rabbitmq: dial")
	}
	p.retryAt = time.Time{}
	return conn, nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := p.dial()
		if err != nil {
			return nil, err
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "rabbitmq: channel open")
	}
	if _, err := ch.QueueDeclare(CatalogQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "rabbitmq: queue declare")
	}
	p.ch = ch
	return ch, nil
}

// Publish sends ev as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev CatalogEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "rabbitmq: marshal event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", CatalogQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
	return errors.Wrap(err, "rabbitmq: publish")
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn, p.ch = nil, nil
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}

// LogPublisher publishes nothing and logs events instead. It stands in when
// no broker is reachable.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev CatalogEvent) error {
	log.WithFields(log.Fields{"type": ev.Type, "id": ev.ID}).Debug("catalog event (no broker)")
	return nil
}
