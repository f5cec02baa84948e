package repository

import (
	"context"
	"errors"
	"time"

	"github.com/seatfund/backend/internal/models"
	"github.com/shopspring/decimal"
)

var transactionColumns = []string{
	"id", "member_id", "type_id", "category_id", "amount", "description", "transaction_date",
	"reference_number", "running_balance", "created_at", "updated_at", "deleted_at",
}

// TransactionFilter narrows a transaction listing. Zero values are ignored.
type TransactionFilter struct {
	MemberID  string
	TypeID    string
	StartDate *time.Time
	EndDate   *time.Time
	Page
}

type TransactionRepository struct {
	store Store
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	return r.store.Insert(ctx, EntityTransaction, []Field{
		{"id", t.ID},
		{"member_id", t.MemberID},
		{"type_id", t.TypeID},
		{"category_id", t.CategoryID},
		{"amount", t.Amount},
		{"description", t.Description},
		{"transaction_date", t.TransactionDate},
		{"reference_number", t.ReferenceNumber},
		{"running_balance", t.RunningBalance},
		{"created_at", t.CreatedAt},
		{"updated_at", t.UpdatedAt},
	})
}

// LatestRunningBalance returns the balance snapshot of the member's most
// recently created live transaction, or zero when there is none.
func (r *TransactionRepository) LatestRunningBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.store.FindFirst(ctx, Query{
		Entity:  EntityTransaction,
		Columns: []string{"running_balance"},
		Where:   []Condition{Eq("member_id", memberID)},
		OrderBy: "seq DESC",
	}).Scan(&balance)
	if errors.Is(notFound(err), ErrNotFound) {
		return decimal.Zero, nil
	}
	return balance, err
}

// FindByID returns a live transaction. Kind is left for the caller to resolve
// from TypeID.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	t, err := scanTransaction(r.store.FindFirst(ctx, Query{
		Entity:  EntityTransaction,
		Columns: transactionColumns,
		Where:   []Condition{Eq("id", id)},
	}))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// List returns live transactions newest first with the total matching count.
func (r *TransactionRepository) List(ctx context.Context, f TransactionFilter) ([]models.Transaction, int64, error) {
	var where []Condition
	if f.MemberID != "" {
		where = append(where, Eq("member_id", f.MemberID))
	}
	if f.TypeID != "" {
		where = append(where, Eq("type_id", f.TypeID))
	}
	if f.StartDate != nil {
		where = append(where, Gte("transaction_date", *f.StartDate))
	}
	if f.EndDate != nil {
		where = append(where, Lte("transaction_date", *f.EndDate))
	}

	return list(ctx, r.store, Query{
		Entity:  EntityTransaction,
		Columns: transactionColumns,
		Where:   where,
		OrderBy: "seq DESC",
		Limit:   f.Limit,
		Offset:  f.Offset,
	}, scanTransaction)
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	var t models.Transaction
	err := s.Scan(
		&t.ID, &t.MemberID, &t.TypeID, &t.CategoryID, &t.Amount, &t.Description, &t.TransactionDate,
		&t.ReferenceNumber, &t.RunningBalance, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
