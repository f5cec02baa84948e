package repository

import (
	"context"

	"github.com/seatfund/backend/internal/models"
)

var transactionTypeColumns = []string{"id", "name", "description"}

// TransactionTypeRepository looks up the registered transaction kinds.
type TransactionTypeRepository struct {
	store Store
}

func (r *TransactionTypeRepository) Create(ctx context.Context, t *models.TransactionType) error {
	return r.store.Insert(ctx, EntityTransactionType, []Field{
		{"id", t.ID},
		{"name", t.Name.String()},
		{"description", t.Description},
	})
}

// FindByKind returns ErrNotFound when kind is not registered.
func (r *TransactionTypeRepository) FindByKind(ctx context.Context, kind models.TransactionKind) (*models.TransactionType, error) {
	t, err := scanTransactionType(r.store.FindFirst(ctx, Query{
		Entity:  EntityTransactionType,
		Columns: transactionTypeColumns,
		Where:   []Condition{Eq("name", kind.String())},
	}))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// List returns every registered kind.
func (r *TransactionTypeRepository) List(ctx context.Context) ([]models.TransactionType, error) {
	return all(ctx, r.store, Query{Entity: EntityTransactionType, Columns: transactionTypeColumns, OrderBy: "name ASC"}, scanTransactionType)
}

func scanTransactionType(s scanner) (*models.TransactionType, error) {
	var (
		t    models.TransactionType
		name string
	)
	if err := s.Scan(&t.ID, &name, &t.Description); err != nil {
		return nil, err
	}
	kind, err := models.ParseTransactionKind(name)
	if err != nil {
		return nil, err
	}
	t.Name = kind
	return &t, nil
}
