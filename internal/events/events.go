// Package events publishes inventory changes for downstream consumers.
package events

import (
	"context"
	"time"
)

// Event types.
const (
	TypePurchaseCompleted = "purchase.completed"
	TypeSweetRestocked    = "sweet.restocked"
	TypeSweetCreated      = "sweet.created"
	TypeSweetUpdated      = "sweet.updated"
	TypeSweetDeleted      = "sweet.deleted"
)

// Event describes a committed change to the catalog or the ledger.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SweetID    int64     `json:"sweetId"`
	AccountID  int64     `json:"accountId,omitempty"`
	PurchaseID int64     `json:"purchaseId,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher sends events. Publish is called after the change is committed,
// so a failure never undoes the change.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
