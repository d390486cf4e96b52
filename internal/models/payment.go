package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentKind string

const (
	PaymentKindPayment PaymentKind = "PAYMENT"
	// PaymentKindPayout marks the synthetic negative payment written by a manual payout.
	// Payouts carry no project.
	PaymentKindPayout PaymentKind = "PAYOUT"
)

type Payment struct {
	ID        string              `json:"id" example:"4b0c1d9e-8a6f-4e59-9d7b-0f3b2d6f1a22"`
	Kind      PaymentKind         `json:"kind" example:"PAYMENT"`
	ProjectID *string             `json:"projectId"`
	Currency  Currency            `json:"currency" example:"BDT"`
	AmountBDT decimal.NullDecimal `json:"amountBDT" swaggertype:"string" example:"10000"`
	AmountUSD decimal.NullDecimal `json:"amountUSD" swaggertype:"string"`
	Note      string              `json:"note"`
	PaidAt    time.Time           `json:"paidAt"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func (p Payment) Amounts() CurrencyAmounts {
	return CurrencyAmounts{BDT: p.AmountBDT, USD: p.AmountUSD}
}

// SplittableAmount returns the amount a split runs on. It requires a regular payment whose
// only populated currency column matches Currency and holds a positive value.
func (p Payment) SplittableAmount() (decimal.Decimal, bool) {
	if p.Kind != PaymentKindPayment {
		return decimal.Zero, false
	}
	c, amount, ok := p.Amounts().Active()
	if !ok || c != p.Currency || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// PaymentRequest is the body of both payment create and update.
type PaymentRequest struct {
	ProjectID string          `json:"projectId" validate:"required,uuid" example:"f1b2c3d4-0000-4000-8000-000000000001"`
	Currency  string          `json:"currency" validate:"required,oneof=BDT USD" example:"BDT"`
	Amount    decimal.Decimal `json:"amount" validate:"decimalGreaterThan=0,moneyScale" swaggertype:"string" example:"10000"`
	Note      string          `json:"note" validate:"max=500"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
}

// Apply copies the request onto p. The currency column that is not selected is cleared.
// An omitted paidAt keeps the stored one and defaults to now for a new payment.
func (r PaymentRequest) Apply(p *Payment, now time.Time) {
	projectID := r.ProjectID
	currency := Currency(r.Currency)
	amounts := NewCurrencyAmounts(currency, r.Amount)

	p.Kind = PaymentKindPayment
	p.ProjectID = &projectID
	p.Currency = currency
	p.AmountBDT = amounts.BDT
	p.AmountUSD = amounts.USD
	p.Note = r.Note
	switch {
	case r.PaidAt != nil:
		p.PaidAt = r.PaidAt.UTC()
	case p.PaidAt.IsZero():
		p.PaidAt = now
	}
	p.UpdatedAt = now
}

type PaymentFilter struct {
	ProjectID string
	Currency  string
	Kind      string
	PaidFrom  *time.Time
	PaidTo    *time.Time
	Limit     int
	Offset    int
}

type PaymentWithEntries struct {
	Payment Payment       `json:"payment"`
	Entries []LedgerEntry `json:"entries"`
}

// PaymentWithSplit is the outcome of a create or update. Split is nil when the payment was
// saved but could not be split.
type PaymentWithSplit struct {
	Payment Payment      `json:"payment"`
	Split   *SplitResult `json:"split,omitempty"`
}
