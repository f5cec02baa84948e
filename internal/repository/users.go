package repository

import (
	"context"
	"time"

	"github.com/seatfund/backend/internal/models"
)

var userColumns = []string{"id", "email", "password_hash", "first_name", "last_name", "role", "is_active", "created_at", "updated_at", "deleted_at"}

type UserRepository struct {
	store Store
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	return r.store.Insert(ctx, EntityUser, []Field{
		{"id", u.ID},
		{"email", u.Email},
		{"password_hash", u.PasswordHash},
		{"first_name", u.FirstName},
		{"last_name", u.LastName},
		{"role", u.Role},
		{"is_active", u.IsActive},
		{"created_at", u.CreatedAt},
		{"updated_at", u.UpdatedAt},
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.store.FindFirst(ctx, Query{Entity: EntityUser, Columns: userColumns, Where: []Condition{Eq("email", email)}}).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
