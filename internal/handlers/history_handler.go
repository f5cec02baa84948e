package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/seatfund/backend/internal/services"
	"go.uber.org/zap"
)

// HistoryHandler serves read-only views of recorded transactions, expenses
// and seat contributions. Every read goes through the soft-delete layer.
type HistoryHandler struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewHistoryHandler(repos *repository.Repositories, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{repos: repos, logger: logger.Named("handlers")}
}

// TransactionDetail is a transaction with the ledger pair it posted.
type TransactionDetail struct {
	*models.Transaction
	LedgerEntries []models.LedgerEntry `json:"ledgerEntries"`
}

// ExpenseDetail is an expense with the ledger pair it posted.
type ExpenseDetail struct {
	*models.Expense
	LedgerEntries []models.LedgerEntry `json:"ledgerEntries"`
}

// ListTransactions pages through member transactions, newest first
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param memberId query string false "Member ID"
// @Param type query string false "CASH_IN, CASH_OUT, SEAT_PAYMENT or EXPENSE"
// @Param startDate query string false "RFC3339 lower bound"
// @Param endDate query string false "RFC3339 upper bound"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, at most 100"
// @Router /transactions [get]
func (h *HistoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		filter repository.TransactionFilter
		ok     bool
	)
	if filter.MemberID, ok = idParam(w, query, "memberId"); !ok {
		return
	}
	if filter.StartDate, filter.EndDate, ok = dateRange(w, query); !ok {
		return
	}
	page, limit := pageParams(query)
	filter.Page = repository.Page{Limit: limit, Offset: (page - 1) * limit}

	if raw := query.Get("type"); raw != "" {
		kind, err := models.ParseTransactionKind(raw)
		if err != nil {
			services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
			return
		}
		txType, err := h.repos.TransactionTypes.FindByKind(r.Context(), kind)
		if errors.Is(err, repository.ErrNotFound) {
			writePage(w, []models.Transaction{}, 0, page, limit)
			return
		}
		if err != nil {
			h.storageFailure(w, "find transaction type", err)
			return
		}
		filter.TypeID = txType.ID
	}

	txns, total, err := h.repos.Transactions.List(r.Context(), filter)
	if err != nil {
		h.storageFailure(w, "list transactions", err)
		return
	}
	if err := h.resolveKinds(r.Context(), txns); err != nil {
		h.storageFailure(w, "list transaction types", err)
		return
	}

	writePage(w, txns, total, page, limit)
}

// GetTransaction returns a transaction with its ledger entries
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionDetail
// @Failure 404 {object} services.ErrorResponse
// @Router /transactions/{id} [get]
func (h *HistoryHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.IsID(id) {
		services.SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
		return
	}

	txn, err := h.repos.Transactions.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		services.SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.storageFailure(w, "get transaction", err)
		return
	}

	txns := []models.Transaction{*txn}
	if err := h.resolveKinds(r.Context(), txns); err != nil {
		h.storageFailure(w, "list transaction types", err)
		return
	}
	entries, err := h.repos.Ledger.ListByTransaction(r.Context(), id)
	if err != nil {
		h.storageFailure(w, "list ledger entries", err)
		return
	}

	writeJSON(w, http.StatusOK, TransactionDetail{Transaction: &txns[0], LedgerEntries: entries})
}

// ListExpenses pages through expenses, latest expense date first
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param categoryId query string false "Category ID"
// @Param startDate query string false "RFC3339 lower bound"
// @Param endDate query string false "RFC3339 upper bound"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, at most 100"
// @Router /expenses [get]
func (h *HistoryHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		filter repository.ExpenseFilter
		ok     bool
	)
	if filter.CategoryID, ok = idParam(w, query, "categoryId"); !ok {
		return
	}
	if filter.StartDate, filter.EndDate, ok = dateRange(w, query); !ok {
		return
	}
	page, limit := pageParams(query)
	filter.Page = repository.Page{Limit: limit, Offset: (page - 1) * limit}

	expenses, total, err := h.repos.Expenses.List(r.Context(), filter)
	if err != nil {
		h.storageFailure(w, "list expenses", err)
		return
	}

	writePage(w, expenses, total, page, limit)
}

// GetExpense returns an expense with its ledger entries
// @Summary Get expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseDetail
// @Failure 404 {object} services.ErrorResponse
// @Router /expenses/{id} [get]
func (h *HistoryHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.IsID(id) {
		services.SendErrorResponse(w, "Expense not found", http.StatusNotFound, nil)
		return
	}

	expense, err := h.repos.Expenses.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		services.SendErrorResponse(w, "Expense not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.storageFailure(w, "get expense", err)
		return
	}

	entries, err := h.repos.Ledger.ListByExpense(r.Context(), id)
	if err != nil {
		h.storageFailure(w, "list ledger entries", err)
		return
	}

	writeJSON(w, http.StatusOK, ExpenseDetail{Expense: expense, LedgerEntries: entries})
}

// ListContributions pages through seat contributions, latest first
// @Summary List seat contributions
// @Tags seat-contributions
// @Produce json
// @Security BearerAuth
// @Param seatId query string false "Seat ID"
// @Param memberId query string false "Member ID"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, at most 100"
// @Router /seat-contributions [get]
func (h *HistoryHandler) ListContributions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		filter repository.ContributionFilter
		ok     bool
	)
	if filter.SeatID, ok = idParam(w, query, "seatId"); !ok {
		return
	}
	if filter.MemberID, ok = idParam(w, query, "memberId"); !ok {
		return
	}
	page, limit := pageParams(query)
	filter.Page = repository.Page{Limit: limit, Offset: (page - 1) * limit}

	contributions, total, err := h.repos.Contributions.List(r.Context(), filter)
	if err != nil {
		h.storageFailure(w, "list seat contributions", err)
		return
	}

	writePage(w, contributions, total, page, limit)
}

// GetContribution returns a seat contribution
// @Summary Get seat contribution
// @Tags seat-contributions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contribution ID"
// @Success 200 {object} models.SeatContribution
// @Failure 404 {object} services.ErrorResponse
// @Router /seat-contributions/{id} [get]
func (h *HistoryHandler) GetContribution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.IsID(id) {
		services.SendErrorResponse(w, "Seat contribution not found", http.StatusNotFound, nil)
		return
	}

	contribution, err := h.repos.Contributions.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		services.SendErrorResponse(w, "Seat contribution not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.storageFailure(w, "get seat contribution", err)
		return
	}

	writeJSON(w, http.StatusOK, contribution)
}

// resolveKinds fills Kind from each transaction's type id.
func (h *HistoryHandler) resolveKinds(ctx context.Context, txns []models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	types, err := h.repos.TransactionTypes.List(ctx)
	if err != nil {
		return err
	}
	kinds := make(map[string]models.TransactionKind, len(types))
	for _, t := range types {
		kinds[t.ID] = t.Name
	}
	for i := range txns {
		txns[i].Kind = kinds[txns[i].TypeID]
	}
	return nil
}

func (h *HistoryHandler) storageFailure(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", zap.Error(err))
	services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
}
