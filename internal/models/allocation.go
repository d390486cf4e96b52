package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberAllocation is one member's cut of the execution pool.
type MemberAllocation struct {
	UserID string
	Amount decimal.Decimal
}

// Allocation is the computed split of one payment. CompanyFund, FinderFee and the member
// amounts sum to Amount exactly.
type Allocation struct {
	Currency      Currency
	Amount        decimal.Decimal
	CompanyFund   decimal.Decimal
	FinderID      string
	FinderFee     decimal.Decimal
	ExecutionPool decimal.Decimal
	Members       []MemberAllocation
	// PoolRedirected is set when there were no members and ExecutionPool was folded into
	// CompanyFund.
	PoolRedirected bool
}

func (a Allocation) Total() decimal.Decimal {
	total := a.CompanyFund.Add(a.FinderFee)
	for _, m := range a.Members {
		total = total.Add(m.Amount)
	}
	return total
}

// Entries turns the allocation into ledger rows for paymentID: company fund, finder fee,
// then one execution entry per member in member order.
func (a Allocation) Entries(paymentID string, newID func() string, at time.Time) []LedgerEntry {
	entries := make([]LedgerEntry, 0, 2+len(a.Members))

	entry := func(userID *string, t EntryType, amount decimal.Decimal) LedgerEntry {
		amounts := NewCurrencyAmounts(a.Currency, amount)
		return LedgerEntry{
			ID:        newID(),
			PaymentID: paymentID,
			UserID:    userID,
			Type:      t,
			AmountBDT: amounts.BDT,
			AmountUSD: amounts.USD,
			CreatedAt: at,
		}
	}

	finderID := a.FinderID
	entries = append(entries,
		entry(nil, EntryTypeCompanyFund, a.CompanyFund),
		entry(&finderID, EntryTypeFinderFee, a.FinderFee),
	)
	for _, m := range a.Members {
		userID := m.UserID
		entries = append(entries, entry(&userID, EntryTypeExecution, m.Amount))
	}

	return entries
}
