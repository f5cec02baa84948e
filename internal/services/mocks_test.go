package services

import (
	"context"
	"database/sql/driver"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/seatfund/backend/internal/events"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.LedgerPosted) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// decimalArg matches a driver value holding the same decimal amount,
// regardless of trailing zeros.
type decimalArg string

func (d decimalArg) Match(v driver.Value) bool {
	var got decimal.Decimal
	if err := got.Scan(v); err != nil {
		return false
	}
	return decimal.RequireFromString(string(d)).Equal(got)
}

const (
	memberID          = "7f1c2a9e-3b4d-4c5e-8f60-718293a4b5c6"
	goneMemberID      = "0d9e8f7a-6b5c-4d3e-9f21-0a1b2c3d4e5f"
	seatID            = "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
	cancelledSeatID   = "9c8b7a6f-5e4d-4c3b-a2a1-0f9e8d7c6b5a"
	payoutCategoryID  = "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f"
	unknownCategoryID = "e1f2a3b4-c5d6-4e7f-9a8b-7c6d5e4f3a2b"
	approverID        = "2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e"
	missingID         = "ffffffff-ffff-4fff-bfff-ffffffffffff"
)

var testNow = time.Date(2024, 1, 20, 8, 30, 0, 0, time.UTC)

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestService(t *testing.T, opts ...TransactionServiceOption) (*TransactionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewTransactionService(db, repository.New(db), opts...)
	s.newID = sequence("rec")
	s.now = func() time.Time { return testNow }
	s.ledger.newID = sequence("entry")
	s.ledger.now = s.now
	return s, mock
}

const (
	memberSelect        = "SELECT id, name, phone, email, status, notes, created_at, updated_at, deleted_at FROM members WHERE id = $1 AND deleted_at IS NULL LIMIT 1"
	categorySelect      = "SELECT id, name, description, is_active, created_at, updated_at, deleted_at FROM categories WHERE id = $1 AND deleted_at IS NULL LIMIT 1"
	seatSelect          = "SELECT id, seat_number, member_id, total_amount, paid_amount, status, start_date, end_date, created_at, updated_at, deleted_at FROM seats WHERE id = $1 AND deleted_at IS NULL LIMIT 1"
	transactionTypeSQL  = "SELECT id, name, description FROM transaction_types WHERE name = $1 LIMIT 1"
	memberBalanceSQL    = "SELECT running_balance FROM transactions WHERE member_id = $1 AND deleted_at IS NULL ORDER BY seq DESC LIMIT 1"
	accountBalanceSQL   = "SELECT running_balance FROM ledger_entries WHERE account = $1 ORDER BY seq DESC LIMIT 1"
	insertTransaction   = "INSERT INTO transactions (id,member_id,type_id,category_id,amount,description,transaction_date,reference_number,running_balance,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)"
	insertLedgerEntry   = "INSERT INTO ledger_entries (id,transaction_id,expense_id,entry_type,account,amount,running_balance,description,entry_date,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)"
	insertContribution  = "INSERT INTO seat_contributions (id,seat_id,member_id,amount,contribution_date,notes,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)"
	insertExpense       = "INSERT INTO expenses (id,description,amount,category_id,expense_date,approved_by_id,receipt_url,notes,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)"
	updateSeatPaid      = "UPDATE seats SET paid_amount = $1, status = $2, updated_at = $3 WHERE id = $4"
	seatSelectForUpdate = seatSelect + " FOR UPDATE"
)

var seatRowColumns = []string{"id", "seat_number", "member_id", "total_amount", "paid_amount", "status", "start_date", "end_date", "created_at", "updated_at", "deleted_at"}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func expectTransactionType(m sqlmock.Sqlmock, kind models.TransactionKind, id string) {
	rows := sqlmock.NewRows([]string{"id", "name", "description"})
	if id != "" {
		rows.AddRow(id, kind.String(), kind.String())
	}
	m.ExpectQuery(q(transactionTypeSQL)).WithArgs(kind.String()).WillReturnRows(rows)
}

func expectMember(m sqlmock.Sqlmock, id, name string) {
	rows := sqlmock.NewRows([]string{"id", "name", "phone", "email", "status", "notes", "created_at", "updated_at", "deleted_at"})
	if name != "" {
		rows.AddRow(id, name, nil, nil, "ACTIVE", nil, testNow, testNow, nil)
	}
	m.ExpectQuery(q(memberSelect)).WithArgs(id).WillReturnRows(rows)
}

func seatRow(id string, number int, total, paid string, status models.SeatStatus) *sqlmock.Rows {
	return sqlmock.NewRows(seatRowColumns).
		AddRow(id, number, nil, total, paid, string(status), nil, nil, testNow, testNow, nil)
}

func expectBalance(m sqlmock.Sqlmock, sql, key, balance string) {
	rows := sqlmock.NewRows([]string{"running_balance"})
	if balance != "" {
		rows.AddRow(balance)
	}
	m.ExpectQuery(q(sql)).WithArgs(key).WillReturnRows(rows)
}

// ledgerLine is one expected ledger insert; previous is the account's
// latest running balance before the insert, empty for none.
type ledgerLine struct {
	entryType models.EntryType
	account   models.Account
	previous  string
	balance   string
}

func expectLedgerPair(m sqlmock.Sqlmock, transactionID, expenseID any, amount, description string, entryDate time.Time, debit, credit ledgerLine) {
	for _, line := range []ledgerLine{debit, credit} {
		expectBalance(m, accountBalanceSQL, string(line.account), line.previous)
		m.ExpectExec(q(insertLedgerEntry)).
			WithArgs(sqlmock.AnyArg(), transactionID, expenseID, string(line.entryType), string(line.account),
				decimalArg(amount), decimalArg(line.balance), description, entryDate, testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
}
