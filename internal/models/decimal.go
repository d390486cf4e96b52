package models

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of sub-unit digits kept for both BDT and USD.
const MoneyScale int32 = 2

func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

func NullMoney(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(RoundMoney(d))
}

// CurrencyAmounts is the pair of mutually exclusive currency columns shared by payments and
// ledger entries.
type CurrencyAmounts struct {
	BDT decimal.NullDecimal
	USD decimal.NullDecimal
}

func NewCurrencyAmounts(c Currency, amount decimal.Decimal) CurrencyAmounts {
	switch c {
	case CurrencyBDT:
		return CurrencyAmounts{BDT: NullMoney(amount)}
	case CurrencyUSD:
		return CurrencyAmounts{USD: NullMoney(amount)}
	default:
		return CurrencyAmounts{}
	}
}

// Active returns the single populated column. ok is false when neither or both are set.
func (a CurrencyAmounts) Active() (c Currency, amount decimal.Decimal, ok bool) {
	switch {
	case a.BDT.Valid && !a.USD.Valid:
		return CurrencyBDT, a.BDT.Decimal, true
	case a.USD.Valid && !a.BDT.Valid:
		return CurrencyUSD, a.USD.Decimal, true
	default:
		return "", decimal.Zero, false
	}
}
