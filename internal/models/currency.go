package models

import (
	"fmt"
	"strings"
)

type Currency string

const (
	CurrencyBDT Currency = "BDT"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyBDT || c == CurrencyUSD
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", s)
	}
	return c, nil
}
