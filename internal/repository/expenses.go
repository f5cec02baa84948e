package repository

import (
	"context"
	"time"

	"github.com/seatfund/backend/internal/models"
)

var expenseColumns = []string{
	"id", "description", "amount", "category_id", "expense_date", "approved_by_id",
	"receipt_url", "notes", "created_at", "updated_at", "deleted_at",
}

// ExpenseFilter narrows an expense listing. Zero values are ignored.
type ExpenseFilter struct {
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
	Page
}

type ExpenseRepository struct {
	store Store
}

func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	return r.store.Insert(ctx, EntityExpense, []Field{
		{"id", e.ID},
		{"description", e.Description},
		{"amount", e.Amount},
		{"category_id", e.CategoryID},
		{"expense_date", e.ExpenseDate},
		{"approved_by_id", e.ApprovedByID},
		{"receipt_url", e.ReceiptURL},
		{"notes", e.Notes},
		{"created_at", e.CreatedAt},
		{"updated_at", e.UpdatedAt},
	})
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*models.Expense, error) {
	e, err := scanExpense(r.store.FindFirst(ctx, Query{
		Entity:  EntityExpense,
		Columns: expenseColumns,
		Where:   []Condition{Eq("id", id)},
	}))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// List returns live expenses, latest expense date first.
func (r *ExpenseRepository) List(ctx context.Context, f ExpenseFilter) ([]models.Expense, int64, error) {
	var where []Condition
	if f.CategoryID != "" {
		where = append(where, Eq("category_id", f.CategoryID))
	}
	if f.StartDate != nil {
		where = append(where, Gte("expense_date", *f.StartDate))
	}
	if f.EndDate != nil {
		where = append(where, Lte("expense_date", *f.EndDate))
	}

	return list(ctx, r.store, Query{
		Entity:  EntityExpense,
		Columns: expenseColumns,
		Where:   where,
		OrderBy: "expense_date DESC, created_at DESC",
		Limit:   f.Limit,
		Offset:  f.Offset,
	}, scanExpense)
}

func scanExpense(s scanner) (*models.Expense, error) {
	var e models.Expense
	err := s.Scan(
		&e.ID, &e.Description, &e.Amount, &e.CategoryID, &e.ExpenseDate, &e.ApprovedByID,
		&e.ReceiptURL, &e.Notes, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
