package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/seatfund/backend/internal/middleware"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/seatfund/backend/internal/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Recorder runs the money-moving workflows.
type Recorder interface {
	RecordTransaction(ctx context.Context, in services.TransactionInput) (*models.Transaction, error)
	RecordSeatContribution(ctx context.Context, in services.ContributionInput) (*models.SeatContribution, error)
	RecordExpense(ctx context.Context, in services.ExpenseInput) (*models.Expense, error)
}

// BalanceReader reports current account balances.
type BalanceReader interface {
	AccountBalances(ctx context.Context) ([]models.AccountBalance, error)
}

// RetryPolicy bounds caller-level retries of conflicting workflows.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

type LedgerHandler struct {
	recorder  Recorder
	balances  BalanceReader
	ledger    *repository.LedgerRepository
	retry     RetryPolicy
	validator *services.ValidationHelper
	logger    *zap.Logger
}

func NewLedgerHandler(recorder Recorder, balances BalanceReader, ledger *repository.LedgerRepository, retry RetryPolicy, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{
		recorder:  recorder,
		balances:  balances,
		ledger:    ledger,
		retry:     retry,
		validator: services.NewValidationHelper(),
		logger:    logger.Named("handlers"),
	}
}

type createTransactionRequest struct {
	MemberID        string          `json:"memberId" validate:"required,uuid"`
	TransactionType string          `json:"transactionType" validate:"required,oneof=CASH_IN CASH_OUT SEAT_PAYMENT EXPENSE"`
	CategoryID      *string         `json:"categoryId,omitempty" validate:"omitempty,uuid"`
	Amount          decimal.Decimal `json:"amount"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	TransactionDate time.Time       `json:"transactionDate"`
	ReferenceNumber *string         `json:"referenceNumber,omitempty" validate:"omitempty,max=100"`
}

type createContributionRequest struct {
	SeatID           string          `json:"seatId" validate:"required,uuid"`
	MemberID         string          `json:"memberId" validate:"required,uuid"`
	Amount           decimal.Decimal `json:"amount"`
	ContributionDate time.Time       `json:"contributionDate"`
	Notes            *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type createExpenseRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  *string         `json:"categoryId,omitempty" validate:"omitempty,uuid"`
	ExpenseDate time.Time       `json:"expenseDate"`
	ReceiptURL  *string         `json:"receiptUrl,omitempty" validate:"omitempty,url"`
	Notes       *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CreateTransaction records a member transaction
// @Summary Record member transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Transaction
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /transactions [post]
func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	kind, err := models.ParseTransactionKind(req.TransactionType)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	var txn *models.Transaction
	err = services.RetryOnConflict(r.Context(), h.retry.Attempts, h.retry.BaseDelay, func(ctx context.Context) error {
		var err error
		txn, err = h.recorder.RecordTransaction(ctx, services.TransactionInput{
			MemberID:        req.MemberID,
			Kind:            kind,
			CategoryID:      req.CategoryID,
			Amount:          req.Amount,
			Description:     req.Description,
			TransactionDate: req.TransactionDate,
			ReferenceNumber: req.ReferenceNumber,
		})
		return err
	})
	if err != nil {
		h.fail(w, "record transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, txn)
}

// CreateSeatContribution records a contribution towards a seat
// @Summary Record seat contribution
// @Tags seat-contributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.SeatContribution
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse
// @Router /seat-contributions [post]
func (h *LedgerHandler) CreateSeatContribution(w http.ResponseWriter, r *http.Request) {
	var req createContributionRequest
	if !h.decode(w, r, &req) {
		return
	}

	var contribution *models.SeatContribution
	err := services.RetryOnConflict(r.Context(), h.retry.Attempts, h.retry.BaseDelay, func(ctx context.Context) error {
		var err error
		contribution, err = h.recorder.RecordSeatContribution(ctx, services.ContributionInput{
			SeatID:           req.SeatID,
			MemberID:         req.MemberID,
			Amount:           req.Amount,
			ContributionDate: req.ContributionDate,
			Notes:            req.Notes,
		})
		return err
	})
	if err != nil {
		h.fail(w, "record seat contribution", err)
		return
	}

	writeJSON(w, http.StatusCreated, contribution)
}

// CreateExpense records an expense approved by the caller
// @Summary Record expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Expense
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /expenses [post]
func (h *LedgerHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req createExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}

	var expense *models.Expense
	err := services.RetryOnConflict(r.Context(), h.retry.Attempts, h.retry.BaseDelay, func(ctx context.Context) error {
		var err error
		expense, err = h.recorder.RecordExpense(ctx, services.ExpenseInput{
			Description:  req.Description,
			Amount:       req.Amount,
			CategoryID:   req.CategoryID,
			ExpenseDate:  req.ExpenseDate,
			ApprovedByID: userID,
			ReceiptURL:   req.ReceiptURL,
			Notes:        req.Notes,
		})
		return err
	})
	if err != nil {
		h.fail(w, "record expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

// GetBalances returns the latest balance of every ledger account
// @Summary Account balances
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AccountBalance
// @Router /ledger/balances [get]
func (h *LedgerHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.balances.AccountBalances(r.Context())
	if err != nil {
		h.fail(w, "account balances", err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

// ListEntries pages through ledger entries, newest first
// @Summary List ledger entries
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param account query string false "Account"
// @Param entryType query string false "DEBIT or CREDIT"
// @Param startDate query string false "RFC3339 lower bound"
// @Param endDate query string false "RFC3339 upper bound"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, at most 100"
// @Router /ledger [get]
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.LedgerFilter{
		Account:   models.Account(query.Get("account")),
		EntryType: models.EntryType(query.Get("entryType")),
	}
	if filter.Account != "" && !filter.Account.Valid() {
		services.SendErrorResponse(w, "Unknown account", http.StatusBadRequest, nil)
		return
	}
	if filter.EntryType != "" && filter.EntryType != models.EntryDebit && filter.EntryType != models.EntryCredit {
		services.SendErrorResponse(w, "Unknown entry type", http.StatusBadRequest, nil)
		return
	}

	var ok bool
	if filter.StartDate, filter.EndDate, ok = dateRange(w, query); !ok {
		return
	}

	page, limit := pageParams(query)
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	entries, total, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list ledger entries", err)
		return
	}

	writePage(w, entries, total, page, limit)
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := services.DecodeJSON(w, r, dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := h.validator.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

func (h *LedgerHandler) fail(w http.ResponseWriter, op string, err error) {
	sendError(h.logger, w, op, err)
}

// sendError logs err at a level matching its status and writes the error body.
func sendError(logger *zap.Logger, w http.ResponseWriter, op string, err error) {
	if services.StatusCode(err) >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	} else {
		logger.Info(op+" rejected", zap.Error(err))
	}
	services.SendLedgerError(w, err)
}

// dateRange reads the optional RFC3339 startDate and endDate parameters. It
// answers 400 itself when either is malformed.
func dateRange(w http.ResponseWriter, query url.Values) (start, end *time.Time, ok bool) {
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"startDate", &start}, {"endDate", &end}} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			services.SendErrorResponse(w, "Invalid "+p.name, http.StatusBadRequest, nil)
			return nil, nil, false
		}
		*p.dst = &parsed
	}
	return start, end, true
}

// idParam reads an optional id filter. It answers 400 itself when the value
// is not a record id.
func idParam(w http.ResponseWriter, query url.Values, name string) (string, bool) {
	id := query.Get(name)
	if id != "" && !models.IsID(id) {
		services.SendErrorResponse(w, "Invalid "+name, http.StatusBadRequest, nil)
		return "", false
	}
	return id, true
}

func pageParams(query url.Values) (page, limit int) {
	return queryInt(query.Get("page"), 1, 1, 1<<20), queryInt(query.Get("limit"), 20, 1, 100)
}

func writePage(w http.ResponseWriter, data any, total int64, page, limit int) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{"total": total, "page": page, "limit": limit},
	})
}

func queryInt(raw string, def, min, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
