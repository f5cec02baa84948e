package repository

import (
	"context"
	"database/sql"
	"time"
)

// DeletedAtColumn holds the logical deletion timestamp.
const DeletedAtColumn = "deleted_at"

// softDeleteEntities are the entities that are never physically deleted.
// Ledger entries and transaction types are deliberately absent.
var softDeleteEntities = map[Entity]bool{
	EntityUser:             true,
	EntityMember:           true,
	EntityCategory:         true,
	EntityTransaction:      true,
	EntitySeat:             true,
	EntitySeatContribution: true,
	EntityExpense:          true,
}

// IsSoftDeletable reports whether deletes of entity are logical.
func IsSoftDeletable(entity Entity) bool {
	return softDeleteEntities[entity]
}

// SoftDelete decorates a Store so that deletes of soft-deletable entities
// become timestamp updates and reads skip deleted rows unless the query asks
// for them.
type SoftDelete struct {
	next Store
	now  func() time.Time
}

func NewSoftDelete(next Store) *SoftDelete {
	return &SoftDelete{next: next, now: time.Now}
}

func (s *SoftDelete) WithTx(tx *sql.Tx) Store {
	return &SoftDelete{next: s.next.WithTx(tx), now: s.now}
}

func (s *SoftDelete) FindFirst(ctx context.Context, q Query) *sql.Row {
	return s.next.FindFirst(ctx, s.scope(q))
}

func (s *SoftDelete) FindMany(ctx context.Context, q Query) (*sql.Rows, error) {
	return s.next.FindMany(ctx, s.scope(q))
}

func (s *SoftDelete) Count(ctx context.Context, q Query) (int64, error) {
	return s.next.Count(ctx, s.scope(q))
}

func (s *SoftDelete) Insert(ctx context.Context, entity Entity, fields []Field) error {
	return s.next.Insert(ctx, entity, fields)
}

func (s *SoftDelete) Update(ctx context.Context, entity Entity, set []Field, where []Condition) (int64, error) {
	return s.next.Update(ctx, entity, set, where)
}

func (s *SoftDelete) Delete(ctx context.Context, entity Entity, id string) (int64, error) {
	if !IsSoftDeletable(entity) {
		return s.next.Delete(ctx, entity, id)
	}
	return s.next.Update(ctx, entity, s.markDeleted(), []Condition{Eq("id", id)})
}

func (s *SoftDelete) DeleteMany(ctx context.Context, entity Entity, where []Condition) (int64, error) {
	if !IsSoftDeletable(entity) {
		return s.next.DeleteMany(ctx, entity, where)
	}
	return s.next.Update(ctx, entity, s.markDeleted(), where)
}

func (s *SoftDelete) markDeleted() []Field {
	return []Field{{Column: DeletedAtColumn, Value: s.now()}}
}

// scope adds the deletion filter unless the caller already constrained the
// deletion marker or opted into deleted rows.
func (s *SoftDelete) scope(q Query) Query {
	if !IsSoftDeletable(q.Entity) || q.IncludeDeleted {
		return q
	}
	for _, c := range q.Where {
		if c.Column == DeletedAtColumn {
			return q
		}
	}

	where := make([]Condition, 0, len(q.Where)+1)
	where = append(where, q.Where...)
	q.Where = append(where, IsNull(DeletedAtColumn))
	return q
}

var _ Store = (*SoftDelete)(nil)
