package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// psql renders PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SQLStore renders queries with squirrel and runs them on its DBTX.
type SQLStore struct {
	db DBTX
}

func NewSQLStore(db DBTX) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) WithTx(tx *sql.Tx) Store {
	return &SQLStore{db: tx}
}

func (s *SQLStore) FindFirst(ctx context.Context, q Query) *sql.Row {
	q.Limit = 1
	q.Offset = 0
	// selectBuilder always sets a table and at least one column.
	query, args := selectBuilder(q).MustSql()
	return s.db.QueryRowContext(ctx, query, args...)
}

func (s *SQLStore) FindMany(ctx context.Context, q Query) (*sql.Rows, error) {
	query, args, err := selectBuilder(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Entity, err)
	}
	return s.db.QueryContext(ctx, query, args...)
}

func (s *SQLStore) Count(ctx context.Context, q Query) (int64, error) {
	query, args, err := where(psql.Select("COUNT(*)").From(string(q.Entity)), q.Where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Entity, err)
	}

	var count int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *SQLStore) Insert(ctx context.Context, entity Entity, fields []Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("insert into %s: no fields", entity)
	}

	columns := make([]string, len(fields))
	values := make([]any, len(fields))
	for i, f := range fields {
		columns[i] = f.Column
		values[i] = f.Value
	}

	query, args, err := psql.Insert(string(entity)).Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("insert into %s: %w", entity, err)
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLStore) Update(ctx context.Context, entity Entity, set []Field, conditions []Condition) (int64, error) {
	if len(set) == 0 {
		return 0, fmt.Errorf("update %s: no fields", entity)
	}

	b := psql.Update(string(entity))
	for _, f := range set {
		b = b.Set(f.Column, f.Value)
	}
	for _, c := range conditions {
		b = b.Where(predicate(c))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", entity, err)
	}
	return rowsAffected(s.db.ExecContext(ctx, query, args...))
}

func (s *SQLStore) Delete(ctx context.Context, entity Entity, id string) (int64, error) {
	return s.DeleteMany(ctx, entity, []Condition{Eq("id", id)})
}

func (s *SQLStore) DeleteMany(ctx context.Context, entity Entity, conditions []Condition) (int64, error) {
	b := psql.Delete(string(entity))
	for _, c := range conditions {
		b = b.Where(predicate(c))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", entity, err)
	}
	return rowsAffected(s.db.ExecContext(ctx, query, args...))
}

func rowsAffected(result sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func selectBuilder(q Query) sq.SelectBuilder {
	columns := q.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	b := where(psql.Select(columns...).From(string(q.Entity)), q.Where)
	if q.OrderBy != "" {
		b = b.OrderBy(q.OrderBy)
	}
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		b = b.Offset(uint64(q.Offset))
	}
	if q.ForUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	return b
}

// where ANDs the conditions in order.
func where(b sq.SelectBuilder, conditions []Condition) sq.SelectBuilder {
	for _, c := range conditions {
		b = b.Where(predicate(c))
	}
	return b
}

func predicate(c Condition) sq.Sqlizer {
	switch c.Op {
	case OpIsNull:
		return sq.Eq{c.Column: nil}
	case OpIsNotNull:
		return sq.NotEq{c.Column: nil}
	case OpGte:
		return sq.GtOrEq{c.Column: c.Value}
	case OpLte:
		return sq.LtOrEq{c.Column: c.Value}
	default:
		return sq.Eq{c.Column: c.Value}
	}
}

var _ Store = (*SQLStore)(nil)
