package repository

import (
	"context"
	"time"

	"github.com/seatfund/backend/internal/models"
)

var memberColumns = []string{"id", "name", "phone", "email", "status", "notes", "created_at", "updated_at", "deleted_at"}

type MemberRepository struct {
	store Store
}

func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	return r.store.Insert(ctx, EntityMember, []Field{
		{"id", m.ID},
		{"name", m.Name},
		{"phone", m.Phone},
		{"email", m.Email},
		{"status", m.Status},
		{"notes", m.Notes},
		{"created_at", m.CreatedAt},
		{"updated_at", m.UpdatedAt},
	})
}

// FindByID returns a live member.
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*models.Member, error) {
	return r.find(ctx, Query{Entity: EntityMember, Columns: memberColumns, Where: []Condition{Eq("id", id)}})
}

// FindByIDWithDeleted returns the member even when it is logically deleted.
func (r *MemberRepository) FindByIDWithDeleted(ctx context.Context, id string) (*models.Member, error) {
	return r.find(ctx, Query{Entity: EntityMember, Columns: memberColumns, Where: []Condition{Eq("id", id)}, IncludeDeleted: true})
}

func (r *MemberRepository) find(ctx context.Context, q Query) (*models.Member, error) {
	var m models.Member
	err := r.store.FindFirst(ctx, q).Scan(
		&m.ID, &m.Name, &m.Phone, &m.Email, &m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}
