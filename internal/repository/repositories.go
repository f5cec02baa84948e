package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a lookup matches no live row.
var ErrNotFound = errors.New("record not found")

type scanner interface {
	Scan(dest ...any) error
}

// Repositories bundles the typed repositories over one Store so a workflow
// can rebind all of them to its transaction at once.
type Repositories struct {
	store Store

	Users            *UserRepository
	Members          *MemberRepository
	Categories       *CategoryRepository
	TransactionTypes *TransactionTypeRepository
	Transactions     *TransactionRepository
	Seats            *SeatRepository
	Contributions    *ContributionRepository
	Expenses         *ExpenseRepository
	Ledger           *LedgerRepository
}

// New builds the repositories over db with the soft-delete policy applied.
func New(db DBTX) *Repositories {
	return newRepositories(NewSoftDelete(NewSQLStore(db)))
}

func newRepositories(store Store) *Repositories {
	return &Repositories{
		store:            store,
		Users:            &UserRepository{store: store},
		Members:          &MemberRepository{store: store},
		Categories:       &CategoryRepository{store: store},
		TransactionTypes: &TransactionTypeRepository{store: store},
		Transactions:     &TransactionRepository{store: store},
		Seats:            &SeatRepository{store: store},
		Contributions:    &ContributionRepository{store: store},
		Expenses:         &ExpenseRepository{store: store},
		Ledger:           &LedgerRepository{store: store},
	}
}

// WithTx rebinds every repository to tx.
func (r *Repositories) WithTx(tx *sql.Tx) *Repositories {
	return newRepositories(r.store.WithTx(tx))
}

// Delete removes the live row id of entity. For soft-deletable entities the
// row is kept and stamped with a deletion time.
func (r *Repositories) Delete(ctx context.Context, entity Entity, id string) error {
	n, err := r.store.Count(ctx, Query{Entity: entity, Where: []Condition{Eq("id", id)}})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	_, err = r.store.Delete(ctx, entity, id)
	return err
}

// Page bounds a listing. A zero Limit reads every match.
type Page struct {
	Limit  int
	Offset int
}

// list counts the rows q matches, then reads the requested page of them.
func list[T any](ctx context.Context, store Store, q Query, scan func(scanner) (*T, error)) ([]T, int64, error) {
	total, err := store.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := all(ctx, store, q, scan)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// all reads every row q matches.
func all[T any](ctx context.Context, store Store, q Query, scan func(scanner) (*T, error)) ([]T, error) {
	rows, err := store.FindMany(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
