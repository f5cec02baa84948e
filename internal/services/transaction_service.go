package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/seatfund/backend/internal/audit"
	"github.com/seatfund/backend/internal/events"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionInput records one member money movement.
type TransactionInput struct {
	MemberID        string
	Kind            models.TransactionKind
	CategoryID      *string
	Amount          decimal.Decimal
	Description     *string
	TransactionDate time.Time
	ReferenceNumber *string
}

// ContributionInput records a payment towards a seat.
type ContributionInput struct {
	SeatID           string
	MemberID         string
	Amount           decimal.Decimal
	ContributionDate time.Time
	Notes            *string
}

// ExpenseInput records a fund expense approved by ApprovedByID.
type ExpenseInput struct {
	Description  string
	Amount       decimal.Decimal
	CategoryID   *string
	ExpenseDate  time.Time
	ApprovedByID string
	ReceiptURL   *string
	Notes        *string
}

// TransactionService runs the money-moving workflows. Each workflow validates
// its references, then persists the primary row, the balance snapshot and the
// ledger pair inside one database transaction.
type TransactionService struct {
	db        *sql.DB
	repos     *repository.Repositories
	balances  *BalanceResolver
	ledger    *DoubleLedgerService
	audit     *audit.AuditLogger
	publisher events.Publisher
	logger    *zap.Logger
	isolation sql.IsolationLevel
	newID     func() string
	now       func() time.Time
}

type TransactionServiceOption func(*TransactionService)

func WithLogger(logger *zap.Logger) TransactionServiceOption {
	return func(s *TransactionService) { s.logger = logger }
}

func WithPublisher(p events.Publisher) TransactionServiceOption {
	return func(s *TransactionService) { s.publisher = p }
}

// WithIsolation overrides the isolation level of every unit of work.
// Anything weaker than serializable lets concurrent workflows read the same
// latest balance.
func WithIsolation(level sql.IsolationLevel) TransactionServiceOption {
	return func(s *TransactionService) { s.isolation = level }
}

func NewTransactionService(db *sql.DB, repos *repository.Repositories, opts ...TransactionServiceOption) *TransactionService {
	s := &TransactionService{
		db:        db,
		repos:     repos,
		publisher: events.NopPublisher{},
		logger:    zap.NewNop(),
		isolation: sql.LevelSerializable,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("ledger")
	s.audit = audit.NewAuditLogger(s.logger)
	s.balances = NewBalanceResolver(repos)
	s.ledger = NewDoubleLedgerService(s.balances)
	return s
}

// Balances exposes the resolver over the service's repositories.
func (s *TransactionService) Balances() *BalanceResolver {
	return s.balances
}

// RecordTransaction stores a member transaction with the member's new
// balance and the kind's ledger pair.
func (s *TransactionService) RecordTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	if !in.Kind.Valid() {
		return nil, validationError("unknown transaction type %d", uint8(in.Kind))
	}
	if in.MemberID == "" {
		return nil, validationError("memberId is required")
	}
	if !models.ValidAmount(in.Amount) {
		return nil, validationError("amount must be positive with at most two decimal places")
	}

	txType, err := s.repos.TransactionTypes.FindByKind(ctx, in.Kind)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, validationError("transaction type %s is not registered", in.Kind)
	}
	if err != nil {
		return nil, storageError("find transaction type", err)
	}
	if _, err := s.requireMember(ctx, in.MemberID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	transactionDate := in.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = s.now()
	}

	description := "Transaction"
	if in.Description != nil && *in.Description != "" {
		description = *in.Description
	}

	txn := &models.Transaction{
		ID:              s.newID(),
		MemberID:        in.MemberID,
		TypeID:          txType.ID,
		Kind:            in.Kind,
		CategoryID:      in.CategoryID,
		Amount:          in.Amount,
		Description:     in.Description,
		TransactionDate: transactionDate,
		ReferenceNumber: in.ReferenceNumber,
	}

	var debit, credit *models.LedgerEntry
	err = s.inTx(ctx, func(scope *repository.Repositories) error {
		balance, err := s.balances.LatestMemberBalance(ctx, scope, in.MemberID)
		if err != nil {
			return err
		}
		txn.RunningBalance = in.Kind.ApplyToBalance(balance, in.Amount)

		if err := scope.Transactions.Create(ctx, txn); err != nil {
			return storageError("create transaction", err)
		}

		debit, credit, err = s.ledger.AppendPairedEntries(ctx, scope, PairedEntryInput{
			TransactionID: &txn.ID,
			Accounts:      in.Kind.LedgerAccounts(),
			Amount:        in.Amount,
			Description:   fmt.Sprintf("%s: %s", in.Kind, description),
			EntryDate:     transactionDate,
		})
		return err
	})
	if err != nil {
		s.audit.LogError(audit.EventTransaction, txn.ID, err)
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.String("transaction_id", txn.ID),
		zap.String("member_id", txn.MemberID),
		zap.Stringer("type", in.Kind),
		zap.String("amount", in.Amount.StringFixed(2)),
		zap.String("running_balance", txn.RunningBalance.StringFixed(2)),
	)
	s.announce(ctx, audit.EventTransaction, txn.ID, txn.MemberID, in.Amount, debit, credit)
	return txn, nil
}

// RecordSeatContribution stores a contribution, advances the seat and, when
// SEAT_PAYMENT is registered, records the matching member transaction and
// ledger pair. Without SEAT_PAYMENT the contribution is still recorded.
func (s *TransactionService) RecordSeatContribution(ctx context.Context, in ContributionInput) (*models.SeatContribution, error) {
	if in.SeatID == "" || in.MemberID == "" {
		return nil, validationError("seatId and memberId are required")
	}
	if !models.ValidAmount(in.Amount) {
		return nil, validationError("amount must be positive with at most two decimal places")
	}

	if !models.IsID(in.SeatID) {
		return nil, notFoundError("seat", in.SeatID)
	}
	seat, err := s.repos.Seats.FindByID(ctx, in.SeatID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("seat", in.SeatID)
	}
	if err != nil {
		return nil, storageError("find seat", err)
	}
	member, err := s.requireMember(ctx, in.MemberID)
	if err != nil {
		return nil, err
	}
	if !seat.Status.AcceptsContributions() {
		return nil, preconditionError("seat", "seat #%d is %s", seat.SeatNumber, seat.Status)
	}

	contributionDate := in.ContributionDate
	if contributionDate.IsZero() {
		contributionDate = s.now()
	}

	contribution := &models.SeatContribution{
		ID:               s.newID(),
		SeatID:           in.SeatID,
		MemberID:         in.MemberID,
		Amount:           in.Amount,
		ContributionDate: contributionDate,
		Notes:            in.Notes,
	}

	var (
		txnID         string
		debit, credit *models.LedgerEntry
	)
	err = s.inTx(ctx, func(scope *repository.Repositories) error {
		locked, err := scope.Seats.FindByIDForUpdate(ctx, in.SeatID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("seat", in.SeatID)
		}
		if err != nil {
			return storageError("lock seat", err)
		}
		if !locked.Status.AcceptsContributions() {
			return preconditionError("seat", "seat #%d is %s", locked.SeatNumber, locked.Status)
		}

		if err := scope.Contributions.Create(ctx, contribution); err != nil {
			return storageError("create contribution", err)
		}

		locked.ApplyContribution(in.Amount)
		if err := scope.Seats.UpdatePaidAmount(ctx, locked); err != nil {
			return storageError("update seat", err)
		}
		seat = locked

		txType, err := scope.TransactionTypes.FindByKind(ctx, models.KindSeatPayment)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("SEAT_PAYMENT type not registered, skipping ledger posting",
				zap.String("contribution_id", contribution.ID))
			return nil
		}
		if err != nil {
			return storageError("find transaction type", err)
		}

		balance, err := s.balances.LatestMemberBalance(ctx, scope, in.MemberID)
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Seat #%d contribution", locked.SeatNumber)
		txn := &models.Transaction{
			ID:              s.newID(),
			MemberID:        in.MemberID,
			TypeID:          txType.ID,
			Kind:            models.KindSeatPayment,
			Amount:          in.Amount,
			Description:     &description,
			TransactionDate: contributionDate,
			RunningBalance:  models.KindSeatPayment.ApplyToBalance(balance, in.Amount),
		}
		if err := scope.Transactions.Create(ctx, txn); err != nil {
			return storageError("create transaction", err)
		}
		txnID = txn.ID

		debit, credit, err = s.ledger.AppendPairedEntries(ctx, scope, PairedEntryInput{
			TransactionID: &txn.ID,
			Accounts:      models.KindSeatPayment.LedgerAccounts(),
			Amount:        in.Amount,
			Description:   fmt.Sprintf("Seat #%d contribution by %s", locked.SeatNumber, member.Name),
			EntryDate:     contributionDate,
		})
		return err
	})
	if err != nil {
		s.audit.LogError(audit.EventSeatContribution, contribution.ID, err)
		return nil, err
	}

	s.logger.Info("seat contribution recorded",
		zap.String("contribution_id", contribution.ID),
		zap.Int("seat_number", seat.SeatNumber),
		zap.String("member", member.Name),
		zap.String("amount", in.Amount.StringFixed(2)),
		zap.String("paid_amount", seat.PaidAmount.StringFixed(2)),
		zap.String("seat_status", string(seat.Status)),
		zap.String("transaction_id", txnID),
	)
	s.announce(ctx, audit.EventSeatContribution, contribution.ID, in.MemberID, in.Amount, debit, credit)
	return contribution, nil
}

// RecordExpense stores an expense and its EXPENSE/CASH ledger pair.
func (s *TransactionService) RecordExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if in.Description == "" {
		return nil, validationError("description is required")
	}
	if in.ApprovedByID == "" {
		return nil, validationError("approver is required")
	}
	if !models.IsID(in.ApprovedByID) {
		return nil, validationError("approver %q is not a user id", in.ApprovedByID)
	}
	if !models.ValidAmount(in.Amount) {
		return nil, validationError("amount must be positive with at most two decimal places")
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	expenseDate := in.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = s.now()
	}

	expense := &models.Expense{
		ID:           s.newID(),
		Description:  in.Description,
		Amount:       in.Amount,
		CategoryID:   in.CategoryID,
		ExpenseDate:  expenseDate,
		ApprovedByID: in.ApprovedByID,
		ReceiptURL:   in.ReceiptURL,
		Notes:        in.Notes,
	}

	var debit, credit *models.LedgerEntry
	err := s.inTx(ctx, func(scope *repository.Repositories) error {
		if err := scope.Expenses.Create(ctx, expense); err != nil {
			return storageError("create expense", err)
		}

		var err error
		debit, credit, err = s.ledger.AppendPairedEntries(ctx, scope, PairedEntryInput{
			ExpenseID:   &expense.ID,
			Accounts:    models.KindExpense.LedgerAccounts(),
			Amount:      in.Amount,
			Description: "Expense: " + in.Description,
			EntryDate:   expenseDate,
		})
		return err
	})
	if err != nil {
		s.audit.LogError(audit.EventExpense, expense.ID, err)
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("expense_id", expense.ID),
		zap.String("approved_by", expense.ApprovedByID),
		zap.String("amount", in.Amount.StringFixed(2)),
	)
	s.announce(ctx, audit.EventExpense, expense.ID, "", in.Amount, debit, credit)
	return expense, nil
}

// inTx runs fn in one database transaction bound to a fresh repository scope.
// Any error from fn rolls everything back.
func (s *TransactionService) inTx(ctx context.Context, fn func(scope *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: s.isolation})
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(s.repos.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit transaction", err)
	}
	return nil
}

func (s *TransactionService) requireMember(ctx context.Context, id string) (*models.Member, error) {
	if !models.IsID(id) {
		return nil, notFoundError("member", id)
	}
	member, err := s.repos.Members.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("member", id)
	}
	if err != nil {
		return nil, storageError("find member", err)
	}
	return member, nil
}

func (s *TransactionService) requireCategory(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if !models.IsID(*id) {
		return notFoundError("category", *id)
	}
	_, err := s.repos.Categories.FindByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError("category", *id)
	}
	if err != nil {
		return storageError("find category", err)
	}
	return nil
}

// announce runs after commit. Failures here are logged only.
func (s *TransactionService) announce(ctx context.Context, eventType, sourceID, memberID string, amount decimal.Decimal, debit, credit *models.LedgerEntry) {
	s.audit.LogPosting(eventType, sourceID, memberID, amount, debit, credit)

	event := events.LedgerPosted{
		EventType:  eventType,
		SourceID:   sourceID,
		MemberID:   memberID,
		Amount:     amount,
		Entries:    []models.LedgerEntry{},
		OccurredAt: s.now(),
	}
	if debit != nil && credit != nil {
		event.Entries = append(event.Entries, *debit, *credit)
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish ledger event",
			zap.String("event_type", eventType),
			zap.String("source_id", sourceID),
			zap.Error(err),
		)
	}
}
