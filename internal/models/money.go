package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// amountLimit is the smallest value that no longer fits NUMERIC(15, 2).
var amountLimit = decimal.New(1, 13)

// ValidAmount reports whether d is positive, carries at most two decimal
// places and fits the amount columns. Amounts are never rounded on write.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThan(amountLimit)
}

// IsID reports whether s is a record id in canonical UUID form.
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
