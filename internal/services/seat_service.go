package services

import (
	"context"
	"errors"
	"time"

	"github.com/seatfund/backend/internal/audit"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeatUpdate is an administrative seat edit. Nil fields are left unchanged.
// Only CANCELLED is stored as given; any other status reinstates the seat and
// the stored status is derived from the paid and total amounts.
type SeatUpdate struct {
	MemberID    *string
	TotalAmount *decimal.Decimal
	Status      *models.SeatStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateSeat applies an administrative edit under the seat's row lock so it
// cannot interleave with a contribution to the same seat. Paid amounts are
// never edited here.
func (s *TransactionService) UpdateSeat(ctx context.Context, id string, in SeatUpdate) (*models.Seat, error) {
	if !models.IsID(id) {
		return nil, notFoundError("seat", id)
	}
	if in.TotalAmount != nil && !models.ValidAmount(*in.TotalAmount) {
		return nil, validationError("totalAmount must be positive with at most two decimal places")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, validationError("unknown seat status %q", *in.Status)
	}
	if in.MemberID != nil {
		if _, err := s.requireMember(ctx, *in.MemberID); err != nil {
			return nil, err
		}
	}

	var (
		seat     *models.Seat
		previous models.SeatStatus
	)
	err := s.inTx(ctx, func(scope *repository.Repositories) error {
		locked, err := scope.Seats.FindByIDForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("seat", id)
		}
		if err != nil {
			return storageError("lock seat", err)
		}
		previous = locked.Status

		if in.Status != nil {
			if *in.Status == models.SeatCancelled && locked.Status == models.SeatCompleted {
				return preconditionError("seat", "seat #%d is already %s", locked.SeatNumber, locked.Status)
			}
			locked.Status = *in.Status
		}
		if in.MemberID != nil {
			locked.MemberID = in.MemberID
		}
		if in.TotalAmount != nil {
			locked.TotalAmount = *in.TotalAmount
		}
		if in.StartDate != nil {
			locked.StartDate = in.StartDate
		}
		if in.EndDate != nil {
			locked.EndDate = in.EndDate
		}
		locked.Reconcile()

		if err := scope.Seats.Update(ctx, locked); err != nil {
			return storageError("update seat", err)
		}
		seat = locked
		return nil
	})
	if err != nil {
		s.audit.LogError(audit.EventSeatUpdate, id, err)
		return nil, err
	}

	s.logger.Info("seat updated",
		zap.String("seat_id", seat.ID),
		zap.Int("seat_number", seat.SeatNumber),
		zap.String("previous_status", string(previous)),
		zap.String("seat_status", string(seat.Status)),
		zap.String("total_amount", seat.TotalAmount.StringFixed(2)),
	)
	s.audit.LogSeatUpdate(seat, previous)
	return seat, nil
}
