package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeCompanyFund EntryType = "COMPANY_FUND"
	EntryTypeFinderFee   EntryType = "FINDER_FEE"
	EntryTypeExecution   EntryType = "EXECUTION"
)

type LedgerEntry struct {
	ID        string              `json:"id"`
	PaymentID string              `json:"paymentId"`
	UserID    *string             `json:"userId"`
	Type      EntryType           `json:"type" example:"EXECUTION"`
	AmountBDT decimal.NullDecimal `json:"amountBDT" swaggertype:"string" example:"3500"`
	AmountUSD decimal.NullDecimal `json:"amountUSD" swaggertype:"string"`
	CreatedAt time.Time           `json:"createdAt"`
}

func (e LedgerEntry) Amounts() CurrencyAmounts {
	return CurrencyAmounts{BDT: e.AmountBDT, USD: e.AmountUSD}
}

type EntryFilter struct {
	UserID    string
	PaymentID string
	Limit     int
	Offset    int
}

// SplitResult reports what a split wrote.
type SplitResult struct {
	PaymentID        string        `json:"paymentId"`
	EntriesGenerated int           `json:"entriesGenerated"`
	Entries          []LedgerEntry `json:"entries"`
	// PoolRedirected is set when the project had no members and the execution pool went
	// to the company fund.
	PoolRedirected bool `json:"poolRedirected"`
}
