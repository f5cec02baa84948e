// Package events publishes notifications about committed ledger postings.
// Publishing happens after commit; a failed publish never undoes a posting.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/seatfund/backend/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultTopic is used for both the redis channel and the kafka topic.
const DefaultTopic = "ledger.posted"

// LedgerPosted is emitted once per committed workflow.
type LedgerPosted struct {
	EventType  string               `json:"eventType"`
	SourceID   string               `json:"sourceId"`
	MemberID   string               `json:"memberId,omitempty"`
	Amount     decimal.Decimal      `json:"amount"`
	Entries    []models.LedgerEntry `json:"entries"`
	OccurredAt time.Time            `json:"occurredAt"`
}

// Publisher delivers LedgerPosted events.
type Publisher interface {
	Publish(ctx context.Context, event LedgerPosted) error
	Close() error
}

func encode(event LedgerPosted) ([]byte, error) {
	return json.Marshal(event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LedgerPosted) error { return nil }
func (NopPublisher) Close() error                                { return nil }

var _ Publisher = NopPublisher{}
