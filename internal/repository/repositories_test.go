package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/seatfund/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectLiveMember    = "SELECT id, name, phone, email, status, notes, created_at, updated_at, deleted_at FROM members WHERE id = $1 AND deleted_at IS NULL LIMIT 1"
	selectAnyMember     = "SELECT id, name, phone, email, status, notes, created_at, updated_at, deleted_at FROM members WHERE id = $1 LIMIT 1"
	selectLatestAccount = "SELECT running_balance FROM ledger_entries WHERE account = $1 ORDER BY seq DESC LIMIT 1"
	selectLatestMember  = "SELECT running_balance FROM transactions WHERE member_id = $1 AND deleted_at IS NULL ORDER BY seq DESC LIMIT 1"
)

var memberRowColumns = []string{"id", "name", "phone", "email", "status", "notes", "created_at", "updated_at", "deleted_at"}

func TestRepositories_DeleteMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)
	created := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	deleted := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM members WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET deleted_at = $1 WHERE id = $2")).
		WithArgs(sqlmock.AnyArg(), "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repos.Delete(ctx, EntityMember, "m1"))

	// Default reads no longer see the member.
	mock.ExpectQuery(regexp.QuoteMeta(selectLiveMember)).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows(memberRowColumns))

	_, err = repos.Members.FindByID(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)

	// The row itself is still there, stamped.
	mock.ExpectQuery(regexp.QuoteMeta(selectAnyMember)).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows(memberRowColumns).
			AddRow("m1", "Ada", nil, nil, "ACTIVE", nil, created, created, deleted))

	m, err := repos.Members.FindByIDWithDeleted(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", m.Name)
	assert.Equal(t, models.MemberActive, m.Status)
	require.NotNil(t, m.DeletedAt)
	assert.True(t, m.DeletedAt.Equal(deleted))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositories_DeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM seats WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err = New(db).Delete(context.Background(), EntitySeat, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_LatestRunningBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("empty account is zero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(selectLatestAccount)).
			WithArgs("SEAT_FUND").
			WillReturnRows(sqlmock.NewRows([]string{"running_balance"}))

		balance, err := New(db).Ledger.LatestRunningBalance(ctx, models.AccountSeatFund)
		assert.NoError(t, err)
		assert.True(t, balance.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("latest entry wins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(selectLatestAccount)).
			WithArgs("CASH").
			WillReturnRows(sqlmock.NewRows([]string{"running_balance"}).AddRow("130.00"))

		balance, err := New(db).Ledger.LatestRunningBalance(ctx, models.AccountCash)
		assert.NoError(t, err)
		assert.True(t, decimal.RequireFromString("130").Equal(balance))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_LatestRunningBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectLatestMember)).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"running_balance"}).AddRow("70"))

	balance, err := New(db).Transactions.LatestRunningBalance(context.Background(), "m1")
	assert.NoError(t, err)
	assert.Equal(t, "70", balance.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, seat_number, member_id, total_amount, paid_amount, status, start_date, end_date, created_at, updated_at, deleted_at FROM seats WHERE id = $1 AND deleted_at IS NULL LIMIT 1 FOR UPDATE")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number", "member_id", "total_amount", "paid_amount", "status", "start_date", "end_date", "created_at", "updated_at", "deleted_at"}).
			AddRow("s1", 3, nil, "100", "40", "ACTIVE", nil, nil, time.Now(), time.Now(), nil))

	seat, err := repos.Seats.FindByIDForUpdate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, seat.SeatNumber)
	assert.Equal(t, models.SeatActive, seat.Status)

	seat.ApplyContribution(decimal.NewFromInt(60))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats SET paid_amount = $1, status = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("100", "COMPLETED", sqlmock.AnyArg(), "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repos.Seats.UpdatePaidAmount(ctx, seat))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionTypeRepository_FindByKind(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)
	query := regexp.QuoteMeta("SELECT id, name, description FROM transaction_types WHERE name = $1 LIMIT 1")

	mock.ExpectQuery(query).
		WithArgs("CASH_OUT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow("tt2", "CASH_OUT", "Cash withdrawal"))

	tt, err := repos.TransactionTypes.FindByKind(ctx, models.KindCashOut)
	require.NoError(t, err)
	assert.Equal(t, models.KindCashOut, tt.Name)

	mock.ExpectQuery(query).
		WithArgs("SEAT_PAYMENT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))

	_, err = repos.TransactionTypes.FindByKind(ctx, models.KindSeatPayment)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)
	memberID := "7f1c2a9e-3b4d-4c5e-8f60-718293a4b5c6"
	seat := &models.Seat{ID: "s1", MemberID: &memberID, TotalAmount: decimal.NewFromInt(8000), PaidAmount: decimal.NewFromInt(8000)}
	seat.Reconcile()

	update := regexp.QuoteMeta("UPDATE seats SET member_id = $1, total_amount = $2, status = $3, start_date = $4, end_date = $5, updated_at = $6 WHERE id = $7")
	mock.ExpectExec(update).
		WithArgs(memberID, "8000", "COMPLETED", nil, nil, sqlmock.AnyArg(), "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Seats.Update(ctx, seat))

	mock.ExpectExec(update).
		WithArgs(memberID, "8000", "COMPLETED", nil, nil, sqlmock.AnyArg(), "s1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repos.Seats.Update(ctx, seat), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "member_id", "type_id", "category_id", "amount", "description", "transaction_date", "reference_number", "running_balance", "created_at", "updated_at", "deleted_at"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions WHERE member_id = $1 AND transaction_date >= $2 AND transaction_date <= $3 AND deleted_at IS NULL")).
		WithArgs("m1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, member_id, type_id, category_id, amount, description, transaction_date, reference_number, running_balance, created_at, updated_at, deleted_at FROM transactions WHERE member_id = $1 AND transaction_date >= $2 AND transaction_date <= $3 AND deleted_at IS NULL ORDER BY seq DESC LIMIT 5 OFFSET 10")).
		WithArgs("m1", from, to).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("t11", "m1", "tt1", nil, "20.00", nil, from, "REF-11", "220.00", from, from, nil).
			AddRow("t12", "m1", "tt2", "c1", "5.50", "Snacks", from, nil, "214.50", from, from, nil))

	txns, total, err := repos.Transactions.List(ctx, TransactionFilter{
		MemberID:  "m1",
		StartDate: &from,
		EndDate:   &to,
		Page:      Page{Limit: 5, Offset: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, txns, 2)
	require.NotNil(t, txns[0].ReferenceNumber)
	assert.Equal(t, "REF-11", *txns[0].ReferenceNumber)
	require.NotNil(t, txns[1].CategoryID)
	assert.True(t, txns[1].RunningBalance.Equal(decimal.RequireFromString("214.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFinders_HideDeletedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE id = $1 AND deleted_at IS NULL LIMIT 1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repos.Transactions.FindByID(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("FROM expenses WHERE id = $1 AND deleted_at IS NULL LIMIT 1")).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repos.Expenses.FindByID(ctx, "e1")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("FROM seat_contributions WHERE id = $1 AND deleted_at IS NULL LIMIT 1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repos.Contributions.FindByID(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionAndExpenseLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)
	day := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM seat_contributions WHERE seat_id = $1 AND member_id = $2 AND deleted_at IS NULL")).
		WithArgs("s1", "m1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM seat_contributions WHERE seat_id = $1 AND member_id = $2 AND deleted_at IS NULL ORDER BY contribution_date DESC, created_at DESC")).
		WithArgs("s1", "m1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	contributions, total, err := repos.Contributions.List(ctx, ContributionFilter{SeatID: "s1", MemberID: "m1"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, contributions)
	assert.Empty(t, contributions)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM expenses WHERE expense_date <= $1 AND deleted_at IS NULL")).
		WithArgs(day).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM expenses WHERE expense_date <= $1 AND deleted_at IS NULL ORDER BY expense_date DESC, created_at DESC")).
		WithArgs(day).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "amount", "category_id", "expense_date", "approved_by_id", "receipt_url", "notes", "created_at", "updated_at", "deleted_at"}).
			AddRow("e1", "Chairs", "80.00", nil, day, "u1", "https://receipts.example/e1", nil, day, day, nil))

	expenses, total, err := repos.Expenses.List(ctx, ExpenseFilter{EndDate: &day})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, expenses, 1)
	require.NotNil(t, expenses[0].ReceiptURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ListBySource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)
	at := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "transaction_id", "expense_id", "entry_type", "account", "amount", "running_balance", "description", "entry_date", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, transaction_id, expense_id, entry_type, account, amount, running_balance, description, entry_date, created_at FROM ledger_entries WHERE expense_id = $1 ORDER BY seq ASC")).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("le1", nil, "e1", "DEBIT", "EXPENSE", "80.00", "80.00", "Expense: Chairs", at, at).
			AddRow("le2", nil, "e1", "CREDIT", "CASH", "80.00", "920.00", "Expense: Chairs", at, at))

	entries, err := repos.Ledger.ListByExpense(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.EntryDebit, entries[0].EntryType)
	assert.Equal(t, models.AccountCash, entries[1].Account)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryAndTypeLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repos := New(db)
	at := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, is_active, created_at, updated_at, deleted_at FROM categories WHERE deleted_at IS NULL ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "is_active", "created_at", "updated_at", "deleted_at"}).
			AddRow("c1", "Catering", nil, true, at, at, nil).
			AddRow("c2", "Printing", nil, false, at, at, nil))

	categories, err := repos.Categories.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.False(t, categories[1].IsActive)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM transaction_types ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow("tt1", "CASH_IN", "Cash deposit").
			AddRow("tt9", "BOGUS", "Unknown"))

	_, err = repos.TransactionTypes.List(ctx)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
