package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// EntryInput describes a single ledger line. At least one source id is set.
type EntryInput struct {
	TransactionID *string
	ExpenseID     *string
	EntryType     models.EntryType
	Account       models.Account
	Amount        decimal.Decimal
	Description   string
	EntryDate     time.Time
}

// PairedEntryInput describes a balanced debit/credit movement.
type PairedEntryInput struct {
	TransactionID *string
	ExpenseID     *string
	Accounts      models.AccountPair
	Amount        decimal.Decimal
	Description   string
	EntryDate     time.Time
}

// DoubleLedgerService appends double-entry lines. It never opens its own
// transaction: every append runs in the scope handed in by the caller.
type DoubleLedgerService struct {
	balances *BalanceResolver
	newID    func() string
	now      func() time.Time
}

func NewDoubleLedgerService(balances *BalanceResolver) *DoubleLedgerService {
	return &DoubleLedgerService{
		balances: balances,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// AppendEntry writes one line whose running balance continues from the
// account's most recent entry in scope.
func (s *DoubleLedgerService) AppendEntry(ctx context.Context, scope *repository.Repositories, in EntryInput) (*models.LedgerEntry, error) {
	if in.TransactionID == nil && in.ExpenseID == nil {
		return nil, validationError("ledger entry needs a source transaction or expense")
	}
	if in.EntryType != models.EntryDebit && in.EntryType != models.EntryCredit {
		return nil, validationError("unknown entry type %q", in.EntryType)
	}
	if !models.ValidAmount(in.Amount) {
		return nil, validationError("amount must be positive with at most two decimal places")
	}

	previous, err := s.balances.LatestAccountBalance(ctx, scope, in.Account)
	if err != nil {
		return nil, err
	}

	return s.createLedgerEntry(ctx, scope, in, in.EntryType.Apply(previous, in.Amount))
}

// AppendPairedEntries writes the DEBIT line then the CREDIT line for the same
// source. Any error must abort the caller's unit of work.
func (s *DoubleLedgerService) AppendPairedEntries(ctx context.Context, scope *repository.Repositories, in PairedEntryInput) (*models.LedgerEntry, *models.LedgerEntry, error) {
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = s.now()
	}

	debit, err := s.AppendEntry(ctx, scope, EntryInput{
		TransactionID: in.TransactionID,
		ExpenseID:     in.ExpenseID,
		EntryType:     models.EntryDebit,
		Account:       in.Accounts.Debit,
		Amount:        in.Amount,
		Description:   in.Description,
		EntryDate:     entryDate,
	})
	if err != nil {
		return nil, nil, err
	}

	credit, err := s.AppendEntry(ctx, scope, EntryInput{
		TransactionID: in.TransactionID,
		ExpenseID:     in.ExpenseID,
		EntryType:     models.EntryCredit,
		Account:       in.Accounts.Credit,
		Amount:        in.Amount,
		Description:   in.Description,
		EntryDate:     entryDate,
	})
	if err != nil {
		return nil, nil, err
	}

	return debit, credit, nil
}

func (s *DoubleLedgerService) createLedgerEntry(ctx context.Context, scope *repository.Repositories, in EntryInput, balance decimal.Decimal) (*models.LedgerEntry, error) {
	now := s.now()
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = now
	}

	entry := &models.LedgerEntry{
		ID:             s.newID(),
		TransactionID:  in.TransactionID,
		ExpenseID:      in.ExpenseID,
		EntryType:      in.EntryType,
		Account:        in.Account,
		Amount:         in.Amount,
		RunningBalance: balance,
		Description:    in.Description,
		EntryDate:      entryDate,
		CreatedAt:      now,
	}
	if err := scope.Ledger.Create(ctx, entry); err != nil {
		return nil, storageError("create ledger entry", err)
	}
	return entry, nil
}
