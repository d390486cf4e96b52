package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type LedgerBalance struct {
	UserID    string          `json:"userId"`
	TotalBDT  decimal.Decimal `json:"totalBDT" swaggertype:"string" example:"3500"`
	TotalUSD  decimal.Decimal `json:"totalUSD" swaggertype:"string" example:"0"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BalanceDelta is a relative change applied to one user's balance row.
type BalanceDelta struct {
	UserID string
	BDT    decimal.Decimal
	USD    decimal.Decimal
}

func (d BalanceDelta) IsZero() bool {
	return d.BDT.IsZero() && d.USD.IsZero()
}

func (d BalanceDelta) Neg() BalanceDelta {
	return BalanceDelta{UserID: d.UserID, BDT: d.BDT.Neg(), USD: d.USD.Neg()}
}

// AggregateDeltas sums entry amounts per user, skipping company-fund entries that carry
// no user. The result is ordered by user id so concurrent writers lock balance rows in the
// same order.
func AggregateDeltas(entries []LedgerEntry) []BalanceDelta {
	byUser := make(map[string]*BalanceDelta)
	for _, e := range entries {
		if e.UserID == nil {
			continue
		}
		d, ok := byUser[*e.UserID]
		if !ok {
			d = &BalanceDelta{UserID: *e.UserID}
			byUser[*e.UserID] = d
		}
		if e.AmountBDT.Valid {
			d.BDT = d.BDT.Add(e.AmountBDT.Decimal)
		}
		if e.AmountUSD.Valid {
			d.USD = d.USD.Add(e.AmountUSD.Decimal)
		}
	}

	deltas := make([]BalanceDelta, 0, len(byUser))
	for _, d := range byUser {
		deltas = append(deltas, *d)
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].UserID < deltas[j].UserID })

	return deltas
}

type BalanceFilter struct {
	UserIDs []string
	Limit   int
	Offset  int
}

type UserLedger struct {
	Balance LedgerBalance `json:"balance"`
	Entries []LedgerEntry `json:"entries"`
}

// EntryTotals is the per-user sum recomputed from ledger entries.
type EntryTotals struct {
	UserID   string
	TotalBDT decimal.Decimal
	TotalUSD decimal.Decimal
}

type BalanceDrift struct {
	UserID      string          `json:"userId"`
	ExpectedBDT decimal.Decimal `json:"expectedBDT" swaggertype:"string"`
	ActualBDT   decimal.Decimal `json:"actualBDT" swaggertype:"string"`
	ExpectedUSD decimal.Decimal `json:"expectedUSD" swaggertype:"string"`
	ActualUSD   decimal.Decimal `json:"actualUSD" swaggertype:"string"`
}

// Correction is the delta that moves the stored balance to the expected one.
func (d BalanceDrift) Correction() BalanceDelta {
	return BalanceDelta{
		UserID: d.UserID,
		BDT:    d.ExpectedBDT.Sub(d.ActualBDT),
		USD:    d.ExpectedUSD.Sub(d.ActualUSD),
	}
}

type ReconReport struct {
	CheckedUsers int            `json:"checkedUsers"`
	Drifts       []BalanceDrift `json:"drifts"`
	Fixed        bool           `json:"fixed"`
}
