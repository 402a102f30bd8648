// Package queue defines the catalog change events exchanged over RabbitMQ,
// the publisher used by the HTTP handlers and the audit consumer.
package queue

import "time"

// QueueName is the durable queue every catalog change is published to.
const QueueName = "catalog.changed"

// Actions carried by CatalogChangedEvent.
const (
    ActionCreated = "created"
    ActionUpdated = "updated"
    ActionDeleted = "deleted"
)

// CatalogChangedEvent is published after a director, actor or movie was
// created, updated or deleted.  It carries ids only; consumers that need
// the record must fetch it with the owner's credentials.
type CatalogChangedEvent struct {
    Resource string    `json:"resource"` // directors | actors | movies
    Action   string    `json:"action"`
    ID       string    `json:"id"`
    UserID   string    `json:"user_id"`
    At       time.Time `json:"at"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(resource, action, id, userID string) CatalogChangedEvent {
    return CatalogChangedEvent{Resource: resource, Action: action, ID: id, UserID: userID, At: time.Now().UTC()}
}
