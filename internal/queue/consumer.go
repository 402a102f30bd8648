package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/movie-catalog/internal/logger"
)

// AuditLogName is the file the consumer appends to inside its log dir.
const AuditLogName = "catalog.log"

// StartAuditConsumer connects to RabbitMQ, declares the catalog.changed
// queue (durable) and appends one line per event to <logDir>/catalog.log.
// It reconnects with exponential backoff and returns only when ctx is done.
func StartAuditConsumer(ctx context.Context, url, logDir string) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            logger.Warn("audit-consumer: dial failed", "err", err, "retry_in", backoff.String())
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, logDir)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        logger.Warn("audit-consumer: consume loop ended; reconnecting", "err", err)
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(2 * time.Second):
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logger.Warn("audit-consumer: set QoS failed", "err", err)
    }
    if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
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
            if err := handleMessage(logDir, d.Body); err != nil {
                logger.Error("audit-consumer: handle message failed", "err", err)
                _ = d.Nack(false, false) // do not requeue poison messages
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleMessage(logDir string, body []byte) error {
    var ev CatalogChangedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    return appendLine(logDir, formatLine(ev))
}

// formatLine renders one audit log line.
func formatLine(ev CatalogChangedEvent) string {
    return fmt.Sprintf("[%s] %s %s | id=%s | user_id=%s\n",
        ev.At.UTC().Format(time.RFC3339), ev.Resource, ev.Action, ev.ID, ev.UserID)
}

func appendLine(logDir, line string) error {
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, AuditLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
