package repository

import (
	"context"
	"time"

	"github.com/seatfund/backend/internal/models"
)

var categoryColumns = []string{"id", "name", "description", "is_active", "created_at", "updated_at", "deleted_at"}

type CategoryRepository struct {
	store Store
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	return r.store.Insert(ctx, EntityCategory, []Field{
		{"id", c.ID},
		{"name", c.Name},
		{"description", c.Description},
		{"is_active", c.IsActive},
		{"created_at", c.CreatedAt},
		{"updated_at", c.UpdatedAt},
	})
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return r.find(ctx, Eq("id", id))
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.find(ctx, Eq("name", name))
}

// List returns live categories by name. activeOnly drops inactive ones.
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var where []Condition
	if activeOnly {
		where = append(where, Eq("is_active", true))
	}
	return all(ctx, r.store, Query{Entity: EntityCategory, Columns: categoryColumns, Where: where, OrderBy: "name ASC"}, scanCategory)
}

func (r *CategoryRepository) find(ctx context.Context, cond Condition) (*models.Category, error) {
	c, err := scanCategory(r.store.FindFirst(ctx, Query{Entity: EntityCategory, Columns: categoryColumns, Where: []Condition{cond}}))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func scanCategory(s scanner) (*models.Category, error) {
	var c models.Category
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
