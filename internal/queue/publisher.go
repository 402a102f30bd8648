package queue

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/movie-catalog/internal/logger"
)

// Publisher sends catalog events.  Implementations must be safe for
// concurrent use.
type Publisher interface {
    Publish(ctx context.Context, ev CatalogChangedEvent) error
}

// AMQPPublisher dials the broker per publish.  Catalog writes are rare
// enough that a long-lived channel is not worth its reconnect logic.
type AMQPPublisher struct {
    URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// Publish sends ev to QueueName as a persistent JSON message.  Errors are
// logged and returned so the caller can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev CatalogChangedEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        logger.Warn("rabbitmq: dial failed", "err", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        logger.Warn("rabbitmq: channel open failed", "err", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent; durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
        logger.Warn("rabbitmq: queue declare failed", "err", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
        logger.Warn("rabbitmq: publish failed", "err", err)
        return err
    }
    return nil
}

// Nop discards events.  It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, CatalogChangedEvent) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
    mu     sync.Mutex
    events []CatalogChangedEvent
}

func (r *Recorder) Publish(_ context.Context, ev CatalogChangedEvent) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.events = append(r.events, ev)
    return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []CatalogChangedEvent {
    r.mu.Lock()
    defer r.mu.Unlock()
    return append([]CatalogChangedEvent(nil), r.events...)
}

// PublishAsync publishes in the background with its own timeout so a slow
// broker never delays the HTTP response.
func PublishAsync(p Publisher, ev CatalogChangedEvent) {
    if p == nil {
        return
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if err := p.Publish(ctx, ev); err != nil {
            logger.Warn("catalog event dropped", "resource", ev.Resource, "action", ev.Action, "id", ev.ID, "err", err)
        }
    }()
}
