package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named bucket for ledger entries. It is not stored as its own row.
type Account string

const (
	AccountCash               Account = "CASH"
	AccountMemberContribution Account = "MEMBER_CONTRIBUTION"
	AccountMemberPayout       Account = "MEMBER_PAYOUT"
	AccountSeatFund           Account = "SEAT_FUND"
	AccountExpense            Account = "EXPENSE"
)

// Accounts lists the closed set of ledger accounts in reporting order.
var Accounts = []Account{
	AccountCash,
	AccountMemberContribution,
	AccountMemberPayout,
	AccountSeatFund,
	AccountExpense,
}

// Valid reports whether a belongs to the closed account set.
func (a Account) Valid() bool {
	for _, known := range Accounts {
		if a == known {
			return true
		}
	}
	return false
}

// EntryType is the accounting side of a ledger entry.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// Apply returns the running balance after an entry of this side for amount.
func (e EntryType) Apply(previous, amount decimal.Decimal) decimal.Decimal {
	if e == EntryDebit {
		return previous.Add(amount)
	}
	return previous.Sub(amount)
}

// LedgerEntry is one half of a double-entry record. Field order follows the
// persisted column order used for audit reconstruction.
type LedgerEntry struct {
	ID             string          `json:"id" db:"id"`
	TransactionID  *string         `json:"transactionId,omitempty" db:"transaction_id"`
	ExpenseID      *string         `json:"expenseId,omitempty" db:"expense_id"`
	EntryType      EntryType       `json:"entryType" db:"entry_type"`
	Account        Account         `json:"account" db:"account"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	RunningBalance decimal.Decimal `json:"runningBalance" db:"running_balance"`
	Description    string          `json:"description" db:"description"`
	EntryDate      time.Time       `json:"entryDate" db:"entry_date"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// AccountPair is the fixed debit/credit routing of a money movement.
type AccountPair struct {
	Debit  Account
	Credit Account
}

// AccountBalance is the latest running balance of an account.
type AccountBalance struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}
