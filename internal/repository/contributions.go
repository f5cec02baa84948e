package repository

import (
	"context"
	"time"

	"github.com/seatfund/backend/internal/models"
)

var contributionColumns = []string{
	"id", "seat_id", "member_id", "amount", "contribution_date", "notes", "created_at", "updated_at", "deleted_at",
}

// ContributionFilter narrows a contribution listing. Zero values are ignored.
type ContributionFilter struct {
	SeatID   string
	MemberID string
	Page
}

type ContributionRepository struct {
	store Store
}

func (r *ContributionRepository) Create(ctx context.Context, c *models.SeatContribution) error {
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	return r.store.Insert(ctx, EntitySeatContribution, []Field{
		{"id", c.ID},
		{"seat_id", c.SeatID},
		{"member_id", c.MemberID},
		{"amount", c.Amount},
		{"contribution_date", c.ContributionDate},
		{"notes", c.Notes},
		{"created_at", c.CreatedAt},
		{"updated_at", c.UpdatedAt},
	})
}

func (r *ContributionRepository) FindByID(ctx context.Context, id string) (*models.SeatContribution, error) {
	c, err := scanContribution(r.store.FindFirst(ctx, Query{
		Entity:  EntitySeatContribution,
		Columns: contributionColumns,
		Where:   []Condition{Eq("id", id)},
	}))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// List returns live contributions, latest contribution date first.
func (r *ContributionRepository) List(ctx context.Context, f ContributionFilter) ([]models.SeatContribution, int64, error) {
	var where []Condition
	if f.SeatID != "" {
		where = append(where, Eq("seat_id", f.SeatID))
	}
	if f.MemberID != "" {
		where = append(where, Eq("member_id", f.MemberID))
	}

	return list(ctx, r.store, Query{
		Entity:  EntitySeatContribution,
		Columns: contributionColumns,
		Where:   where,
		OrderBy: "contribution_date DESC, created_at DESC",
		Limit:   f.Limit,
		Offset:  f.Offset,
	}, scanContribution)
}

func scanContribution(s scanner) (*models.SeatContribution, error) {
	var c models.SeatContribution
	err := s.Scan(
		&c.ID, &c.SeatID, &c.MemberID, &c.Amount, &c.ContributionDate, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
