package models

import "github.com/shopspring/decimal"

type CreatePayoutRequest struct {
	UserID   string          `json:"userId" validate:"required,max=64"`
	Currency string          `json:"currency" validate:"required,oneof=BDT USD" example:"BDT"`
	Amount   decimal.Decimal `json:"amount" validate:"decimalGreaterThan=0,moneyScale" swaggertype:"string" example:"2000"`
	Note     string          `json:"note" validate:"max=500"`
}

type Payout struct {
	Payment Payment       `json:"payment"`
	Entry   LedgerEntry   `json:"entry"`
	Balance LedgerBalance `json:"balance"`
}
