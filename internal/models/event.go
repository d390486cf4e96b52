package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEventType string

const (
	LedgerEventSplitProcessed LedgerEventType = "LEDGER_SPLIT_PROCESSED"
	LedgerEventSplitReversed  LedgerEventType = "LEDGER_SPLIT_REVERSED"
	LedgerEventPayoutRecorded LedgerEventType = "LEDGER_PAYOUT_RECORDED"
	LedgerEventBalanceFixed   LedgerEventType = "LEDGER_BALANCE_FIXED"
)

// LedgerEvent is published to the ledger events topic after a unit of work commits.
type LedgerEvent struct {
	ID         string          `json:"id"`
	Type       LedgerEventType `json:"type"`
	PaymentID  string          `json:"paymentId,omitempty"`
	ProjectID  *string         `json:"projectId,omitempty"`
	UserID     *string         `json:"userId,omitempty"`
	Currency   Currency        `json:"currency,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Entries    []LedgerEntry   `json:"entries,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Key is the partition key. Events for one payment stay ordered.
func (e LedgerEvent) Key() string {
	if e.PaymentID != "" {
		return e.PaymentID
	}
	if e.UserID != nil {
		return *e.UserID
	}
	return e.ID
}
