package audit

import (
	"time"

	"github.com/seatfund/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Event types.
const (
	EventTransaction      = "TRANSACTION"
	EventSeatContribution = "SEAT_CONTRIBUTION"
	EventExpense          = "EXPENSE"
	EventSeatUpdate       = "SEAT_UPDATE"
	EventError            = "ERROR"
)

type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	SourceID  string            `json:"source_id"`
	MemberID  string            `json:"member_id,omitempty"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    string            `json:"status"`
	Details   map[string]string `json:"details,omitempty"`
}

// AuditLogger writes one structured line per posting or failure.
type AuditLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{logger: logger.Named("audit"), now: time.Now}
}

// LogPosting records a committed workflow and the ledger pair it wrote.
func (a *AuditLogger) LogPosting(eventType, sourceID, memberID string, amount decimal.Decimal, debit, credit *models.LedgerEntry) {
	details := map[string]string{}
	if debit != nil {
		details["debit_account"] = string(debit.Account)
		details["debit_balance"] = debit.RunningBalance.StringFixed(2)
	}
	if credit != nil {
		details["credit_account"] = string(credit.Account)
		details["credit_balance"] = credit.RunningBalance.StringFixed(2)
	}

	a.log(AuditEvent{
		Timestamp: a.now(),
		EventType: eventType,
		SourceID:  sourceID,
		MemberID:  memberID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details:   details,
	})
}

// LogSeatUpdate records an administrative seat edit. Amount is the seat total.
func (a *AuditLogger) LogSeatUpdate(seat *models.Seat, previous models.SeatStatus) {
	a.log(AuditEvent{
		Timestamp: a.now(),
		EventType: EventSeatUpdate,
		SourceID:  seat.ID,
		Amount:    seat.TotalAmount,
		Status:    "SUCCESS",
		Details: map[string]string{
			"previous_status": string(previous),
			"seat_status":     string(seat.Status),
			"paid_amount":     seat.PaidAmount.StringFixed(2),
		},
	})
}

// LogError records a workflow that was rolled back.
func (a *AuditLogger) LogError(eventType, sourceID string, err error) {
	a.log(AuditEvent{
		Timestamp: a.now(),
		EventType: EventError,
		SourceID:  sourceID,
		Status:    "FAILED",
		Details: map[string]string{
			"workflow": eventType,
			"error":    err.Error(),
		},
	})
}

func (a *AuditLogger) log(event AuditEvent) {
	fields := []zap.Field{
		zap.Time("timestamp", event.Timestamp),
		zap.String("event_type", event.EventType),
		zap.String("source_id", event.SourceID),
		zap.String("amount", event.Amount.StringFixed(2)),
		zap.String("status", event.Status),
	}
	if event.MemberID != "" {
		fields = append(fields, zap.String("member_id", event.MemberID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	if event.Status == "FAILED" {
		a.logger.Warn("AUDIT", fields...)
		return
	}
	a.logger.Info("AUDIT", fields...)
}
