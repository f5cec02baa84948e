package repository

import (
	"context"
	"errors"
	"time"

	"github.com/seatfund/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ledgerColumns are in audit reconstruction order.
var ledgerColumns = []string{
	"id", "transaction_id", "expense_id", "entry_type", "account",
	"amount", "running_balance", "description", "entry_date", "created_at",
}

// LedgerFilter narrows a ledger listing. Zero values are ignored.
type LedgerFilter struct {
	Account   models.Account
	EntryType models.EntryType
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// LedgerRepository stores append-only ledger entries.
type LedgerRepository struct {
	store Store
}

func (r *LedgerRepository) Create(ctx context.Context, e *models.LedgerEntry) error {
	return r.store.Insert(ctx, EntityLedgerEntry, []Field{
		{"id", e.ID},
		{"transaction_id", e.TransactionID},
		{"expense_id", e.ExpenseID},
		{"entry_type", e.EntryType},
		{"account", e.Account},
		{"amount", e.Amount},
		{"running_balance", e.RunningBalance},
		{"description", e.Description},
		{"entry_date", e.EntryDate},
		{"created_at", e.CreatedAt},
	})
}

// LatestRunningBalance returns the running balance of the most recently
// created entry for account, or zero when the account has no entries.
func (r *LedgerRepository) LatestRunningBalance(ctx context.Context, account models.Account) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.store.FindFirst(ctx, Query{
		Entity:  EntityLedgerEntry,
		Columns: []string{"running_balance"},
		Where:   []Condition{Eq("account", account)},
		OrderBy: "seq DESC",
	}).Scan(&balance)
	if errors.Is(notFound(err), ErrNotFound) {
		return decimal.Zero, nil
	}
	return balance, err
}

// List returns entries newest first with the total matching count.
func (r *LedgerRepository) List(ctx context.Context, f LedgerFilter) ([]models.LedgerEntry, int64, error) {
	var where []Condition
	if f.Account != "" {
		where = append(where, Eq("account", f.Account))
	}
	if f.EntryType != "" {
		where = append(where, Eq("entry_type", f.EntryType))
	}
	if f.StartDate != nil {
		where = append(where, Gte("entry_date", *f.StartDate))
	}
	if f.EndDate != nil {
		where = append(where, Lte("entry_date", *f.EndDate))
	}

	return list(ctx, r.store, Query{
		Entity:  EntityLedgerEntry,
		Columns: ledgerColumns,
		Where:   where,
		OrderBy: "seq DESC",
		Limit:   f.Limit,
		Offset:  f.Offset,
	}, scanLedgerEntry)
}

// ListByTransaction returns the entries posted for a transaction in the order
// they were written.
func (r *LedgerRepository) ListByTransaction(ctx context.Context, transactionID string) ([]models.LedgerEntry, error) {
	return r.listBySource(ctx, Eq("transaction_id", transactionID))
}

// ListByExpense returns the entries posted for an expense in the order they
// were written.
func (r *LedgerRepository) ListByExpense(ctx context.Context, expenseID string) ([]models.LedgerEntry, error) {
	return r.listBySource(ctx, Eq("expense_id", expenseID))
}

func (r *LedgerRepository) listBySource(ctx context.Context, source Condition) ([]models.LedgerEntry, error) {
	return all(ctx, r.store, Query{
		Entity:  EntityLedgerEntry,
		Columns: ledgerColumns,
		Where:   []Condition{source},
		OrderBy: "seq ASC",
	}, scanLedgerEntry)
}

func scanLedgerEntry(s scanner) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := s.Scan(
		&e.ID, &e.TransactionID, &e.ExpenseID, &e.EntryType, &e.Account,
		&e.Amount, &e.RunningBalance, &e.Description, &e.EntryDate, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
