package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID           string          `json:"id" db:"id"`
	Description  string          `json:"description" db:"description"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	CategoryID   *string         `json:"categoryId,omitempty" db:"category_id"`
	ExpenseDate  time.Time       `json:"expenseDate" db:"expense_date"`
	ApprovedByID string          `json:"approvedById" db:"approved_by_id"`
	ReceiptURL   *string         `json:"receiptUrl,omitempty" db:"receipt_url"`
	Notes        *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time      `json:"deletedAt,omitempty" db:"deleted_at"`
}
