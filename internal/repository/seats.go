package repository

import (
	"context"
	"time"

	"github.com/seatfund/backend/internal/models"
)

var seatColumns = []string{"id", "seat_number", "member_id", "total_amount", "paid_amount", "status", "start_date", "end_date", "created_at", "updated_at", "deleted_at"}

type SeatRepository struct {
	store Store
}

func (r *SeatRepository) Create(ctx context.Context, s *models.Seat) error {
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	if s.Status == "" {
		s.Status = models.SeatOpen
	}
	return r.store.Insert(ctx, EntitySeat, []Field{
		{"id", s.ID},
		{"seat_number", s.SeatNumber},
		{"member_id", s.MemberID},
		{"total_amount", s.TotalAmount},
		{"paid_amount", s.PaidAmount},
		{"status", s.Status},
		{"start_date", s.StartDate},
		{"end_date", s.EndDate},
		{"created_at", s.CreatedAt},
		{"updated_at", s.UpdatedAt},
	})
}

func (r *SeatRepository) FindByID(ctx context.Context, id string) (*models.Seat, error) {
	return r.find(ctx, Query{Entity: EntitySeat, Columns: seatColumns, Where: []Condition{Eq("id", id)}})
}

// FindByIDForUpdate reads the live seat and locks its row until the
// surrounding transaction ends.
func (r *SeatRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Seat, error) {
	return r.find(ctx, Query{Entity: EntitySeat, Columns: seatColumns, Where: []Condition{Eq("id", id)}, ForUpdate: true})
}

// UpdatePaidAmount persists the seat's paid amount and status.
func (r *SeatRepository) UpdatePaidAmount(ctx context.Context, s *models.Seat) error {
	s.UpdatedAt = time.Now()
	n, err := r.store.Update(ctx, EntitySeat, []Field{
		{"paid_amount", s.PaidAmount},
		{"status", s.Status},
		{"updated_at", s.UpdatedAt},
	}, []Condition{Eq("id", s.ID)})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Update persists the administrative fields of a seat along with its status.
func (r *SeatRepository) Update(ctx context.Context, s *models.Seat) error {
	s.UpdatedAt = time.Now()
	n, err := r.store.Update(ctx, EntitySeat, []Field{
		{"member_id", s.MemberID},
		{"total_amount", s.TotalAmount},
		{"status", s.Status},
		{"start_date", s.StartDate},
		{"end_date", s.EndDate},
		{"updated_at", s.UpdatedAt},
	}, []Condition{Eq("id", s.ID)})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SeatRepository) find(ctx context.Context, q Query) (*models.Seat, error) {
	var s models.Seat
	err := r.store.FindFirst(ctx, q).Scan(
		&s.ID, &s.SeatNumber, &s.MemberID, &s.TotalAmount, &s.PaidAmount, &s.Status,
		&s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}
