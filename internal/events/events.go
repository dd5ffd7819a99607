// Package events publishes bill lifecycle notifications for downstream consumers.
package events

import (
	"context"
	"time"
)

const (
	TypeBillCreated = "bill.created"
	TypeBillPaid    = "bill.paid"
)

// Event is the envelope written to the bus. Key partitions events so a
// customer's bills stay ordered.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type noopPublisher struct{}

// NewNoopPublisher discards every event.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) error { return nil }

// BillPayload describes a bill in both lifecycle events. Amounts are
// rendered with two decimals.
type BillPayload struct {
	BillID      string `json:"bill_id"`
	CustomerID  string `json:"customer_id"`
	TariffType  string `json:"tariff_type"`
	PeriodYear  int    `json:"period_year"`
	PeriodMonth int    `json:"period_month"`
	Amount      string `json:"amount"`
	BillNumber  string `json:"bill_number,omitempty"`
	ReceiptID   string `json:"receipt_id,omitempty"`
}
