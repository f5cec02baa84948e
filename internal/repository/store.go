// Package repository is the data-access layer. Every entity read and write
// goes through a Store; the store handed out by New is the raw SQL store
// wrapped once in the soft-delete decorator.
package repository

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Entity names a table.
type Entity string

const (
	EntityUser             Entity = "users"
	EntityMember           Entity = "members"
	EntityCategory         Entity = "categories"
	EntityTransaction      Entity = "transactions"
	EntitySeat             Entity = "seats"
	EntitySeatContribution Entity = "seat_contributions"
	EntityExpense          Entity = "expenses"
	EntityLedgerEntry      Entity = "ledger_entries"
	EntityTransactionType  Entity = "transaction_types"
)

// Op is a comparison operator usable in a Condition.
type Op string

const (
	OpEq        Op = "="
	OpGte       Op = ">="
	OpLte       Op = "<="
	OpIsNull    Op = "IS NULL"
	OpIsNotNull Op = "IS NOT NULL"
)

// Condition is one AND-ed predicate of a WHERE clause.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Condition  { return Condition{Column: column, Op: OpEq, Value: value} }
func Gte(column string, value any) Condition { return Condition{Column: column, Op: OpGte, Value: value} }
func Lte(column string, value any) Condition { return Condition{Column: column, Op: OpLte, Value: value} }
func IsNull(column string) Condition         { return Condition{Column: column, Op: OpIsNull} }
func IsNotNull(column string) Condition      { return Condition{Column: column, Op: OpIsNotNull} }

// Field is a column assignment for inserts and updates.
type Field struct {
	Column string
	Value  any
}

// Query describes a read against a single entity.
type Query struct {
	Entity  Entity
	Columns []string
	Where   []Condition
	OrderBy string
	Limit   int
	Offset  int

	// ForUpdate locks the selected rows for the rest of the transaction.
	ForUpdate bool

	// IncludeDeleted returns logically deleted rows alongside live ones.
	IncludeDeleted bool
}

// Store is the raw data-access interface shared by the SQL implementation and
// its decorators.
type Store interface {
	FindFirst(ctx context.Context, q Query) *sql.Row
	FindMany(ctx context.Context, q Query) (*sql.Rows, error)
	Count(ctx context.Context, q Query) (int64, error)
	Insert(ctx context.Context, entity Entity, fields []Field) error
	Update(ctx context.Context, entity Entity, set []Field, where []Condition) (int64, error)
	Delete(ctx context.Context, entity Entity, id string) (int64, error)
	DeleteMany(ctx context.Context, entity Entity, where []Condition) (int64, error)

	// WithTx returns the same store bound to tx.
	WithTx(tx *sql.Tx) Store
}
