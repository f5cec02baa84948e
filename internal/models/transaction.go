package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the closed set of member transaction kinds.
type TransactionKind uint8

const (
	KindCashIn TransactionKind = iota
	KindCashOut
	KindSeatPayment
	KindExpense
	numTransactionKinds
)

var transactionKindNames = [...]string{
	KindCashIn:      "CASH_IN",
	KindCashOut:     "CASH_OUT",
	KindSeatPayment: "SEAT_PAYMENT",
	KindExpense:     "EXPENSE",
}

// ledgerAccounts routes every kind to its debit and credit account.
var ledgerAccounts = [...]AccountPair{
	KindCashIn:      {Debit: AccountCash, Credit: AccountMemberContribution},
	KindCashOut:     {Debit: AccountMemberPayout, Credit: AccountCash},
	KindSeatPayment: {Debit: AccountCash, Credit: AccountSeatFund},
	KindExpense:     {Debit: AccountExpense, Credit: AccountCash},
}

// Compile-time checks: exactly one name and one account pair per kind.
var (
	_ = [1]struct{}{}[len(transactionKindNames)-int(numTransactionKinds)]
	_ = [1]struct{}{}[len(ledgerAccounts)-int(numTransactionKinds)]
)

// TransactionKinds returns every kind in declaration order.
func TransactionKinds() []TransactionKind {
	kinds := make([]TransactionKind, 0, numTransactionKinds)
	for k := TransactionKind(0); k < numTransactionKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseTransactionKind maps a stored or requested name to its kind.
func ParseTransactionKind(name string) (TransactionKind, error) {
	for k, n := range transactionKindNames {
		if n == name {
			return TransactionKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown transaction kind %q", name)
}

func (k TransactionKind) Valid() bool {
	return k < numTransactionKinds
}

func (k TransactionKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("TransactionKind(%d)", uint8(k))
	}
	return transactionKindNames[k]
}

// LedgerAccounts returns the fixed debit/credit pair for the kind.
func (k TransactionKind) LedgerAccounts() AccountPair {
	return ledgerAccounts[k]
}

// ApplyToBalance moves a member balance: CASH_IN and SEAT_PAYMENT add,
// CASH_OUT and EXPENSE subtract.
func (k TransactionKind) ApplyToBalance(balance, amount decimal.Decimal) decimal.Decimal {
	switch k {
	case KindCashIn, KindSeatPayment:
		return balance.Add(amount)
	default:
		return balance.Sub(amount)
	}
}

func (k TransactionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown transaction kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *TransactionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTransactionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TransactionType is a registered transaction kind row.
type TransactionType struct {
	ID          string          `json:"id" db:"id"`
	Name        TransactionKind `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
}

// Transaction is a member money movement with the member's balance snapshot.
type Transaction struct {
	ID              string          `json:"id" db:"id"`
	MemberID        string          `json:"memberId" db:"member_id"`
	TypeID          string          `json:"typeId" db:"type_id"`
	Kind            TransactionKind `json:"transactionType" db:"-"`
	CategoryID      *string         `json:"categoryId,omitempty" db:"category_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Description     *string         `json:"description,omitempty" db:"description"`
	TransactionDate time.Time       `json:"transactionDate" db:"transaction_date"`
	ReferenceNumber *string         `json:"referenceNumber,omitempty" db:"reference_number"`
	RunningBalance  decimal.Decimal `json:"runningBalance" db:"running_balance"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
	DeletedAt       *time.Time      `json:"deletedAt,omitempty" db:"deleted_at"`
}
