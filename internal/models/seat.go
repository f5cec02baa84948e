package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatOpen      SeatStatus = "OPEN"
	SeatActive    SeatStatus = "ACTIVE"
	SeatCompleted SeatStatus = "COMPLETED"
	SeatCancelled SeatStatus = "CANCELLED"
)

// AcceptsContributions is false once a seat is completed or cancelled.
func (s SeatStatus) AcceptsContributions() bool {
	return s != SeatCompleted && s != SeatCancelled
}

func (s SeatStatus) Valid() bool {
	switch s {
	case SeatOpen, SeatActive, SeatCompleted, SeatCancelled:
		return true
	}
	return false
}

// Seat is a fixed-value slot funded incrementally by contributions.
type Seat struct {
	ID          string          `json:"id" db:"id"`
	SeatNumber  int             `json:"seatNumber" db:"seat_number"`
	MemberID    *string         `json:"memberId,omitempty" db:"member_id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount" db:"paid_amount"`
	Status      SeatStatus      `json:"status" db:"status"`
	StartDate   *time.Time      `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time      `json:"endDate,omitempty" db:"end_date"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty" db:"deleted_at"`
}

// ApplyContribution adds amount to the paid total and recomputes the status.
func (s *Seat) ApplyContribution(amount decimal.Decimal) {
	s.PaidAmount = s.PaidAmount.Add(amount)
	s.Reconcile()
}

// Reconcile derives the status from the paid and total amounts: COMPLETED
// once the total is reached, ACTIVE while partly paid, OPEN before any
// payment. A cancelled seat stays cancelled.
func (s *Seat) Reconcile() {
	switch {
	case s.Status == SeatCancelled:
	case s.PaidAmount.GreaterThanOrEqual(s.TotalAmount):
		s.Status = SeatCompleted
	case s.PaidAmount.IsPositive():
		s.Status = SeatActive
	default:
		s.Status = SeatOpen
	}
}

type SeatContribution struct {
	ID               string          `json:"id" db:"id"`
	SeatID           string          `json:"seatId" db:"seat_id"`
	MemberID         string          `json:"memberId" db:"member_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	ContributionDate time.Time       `json:"contributionDate" db:"contribution_date"`
	Notes            *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
	DeletedAt        *time.Time      `json:"deletedAt,omitempty" db:"deleted_at"`
}
