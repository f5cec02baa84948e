package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/seatfund/backend/internal/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// deletableEntities maps URL path segments to soft-deletable tables.
// Ledger entries and transaction types are not exposed.
var deletableEntities = map[string]repository.Entity{
	"users":              repository.EntityUser,
	"members":            repository.EntityMember,
	"categories":         repository.EntityCategory,
	"transactions":       repository.EntityTransaction,
	"seats":              repository.EntitySeat,
	"seat-contributions": repository.EntitySeatContribution,
	"expenses":           repository.EntityExpense,
}

// SeatUpdater applies administrative seat edits.
type SeatUpdater interface {
	UpdateSeat(ctx context.Context, id string, in services.SeatUpdate) (*models.Seat, error)
}

// RecordHandler serves member, seat and category records and record deletion.
type RecordHandler struct {
	repos     *repository.Repositories
	seats     SeatUpdater
	validator *services.ValidationHelper
	logger    *zap.Logger
	newID     func() string
}

func NewRecordHandler(repos *repository.Repositories, seats SeatUpdater, logger *zap.Logger) *RecordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordHandler{
		repos:     repos,
		seats:     seats,
		validator: services.NewValidationHelper(),
		logger:    logger.Named("handlers"),
		newID:     uuid.NewString,
	}
}

type createMemberRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type createSeatRequest struct {
	SeatNumber  int             `json:"seatNumber" validate:"required,min=1"`
	MemberID    *string         `json:"memberId,omitempty" validate:"omitempty,uuid"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
}

type updateSeatRequest struct {
	MemberID    *string          `json:"memberId,omitempty" validate:"omitempty,uuid"`
	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
	Status      *string          `json:"status,omitempty" validate:"omitempty,oneof=OPEN ACTIVE COMPLETED CANCELLED"`
	StartDate   *time.Time       `json:"startDate,omitempty"`
	EndDate     *time.Time       `json:"endDate,omitempty"`
}

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// CreateMember registers a member
// @Summary Create member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Member
// @Failure 400 {object} services.ErrorResponse
// @Router /members [post]
func (h *RecordHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	member := &models.Member{
		ID:     h.newID(),
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
		Status: models.MemberActive,
		Notes:  req.Notes,
	}
	if err := h.repos.Members.Create(r.Context(), member); err != nil {
		h.logger.Error("create member failed", zap.Error(err))
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

// GetMember returns a member. Logically deleted members are only returned
// when includeDeleted=true.
// @Summary Get member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param includeDeleted query bool false "Include deleted"
// @Success 200 {object} models.Member
// @Failure 404 {object} services.ErrorResponse
// @Router /members/{id} [get]
func (h *RecordHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.IsID(id) {
		services.SendErrorResponse(w, "Member not found", http.StatusNotFound, nil)
		return
	}
	includeDeleted, _ := strconv.ParseBool(r.URL.Query().Get("includeDeleted"))

	find := h.repos.Members.FindByID
	if includeDeleted {
		find = h.repos.Members.FindByIDWithDeleted
	}

	member, err := find(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		services.SendErrorResponse(w, "Member not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.logger.Error("get member failed", zap.String("member_id", id), zap.Error(err))
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// CreateSeat opens a seat
// @Summary Create seat
// @Tags seats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Seat
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /seats [post]
func (h *RecordHandler) CreateSeat(w http.ResponseWriter, r *http.Request) {
	var req createSeatRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}
	if !models.ValidAmount(req.TotalAmount) {
		services.SendErrorResponse(w, "Total amount must be positive with at most two decimal places", http.StatusBadRequest, nil)
		return
	}

	if req.MemberID != nil {
		_, err := h.repos.Members.FindByID(r.Context(), *req.MemberID)
		if errors.Is(err, repository.ErrNotFound) {
			services.SendErrorResponse(w, "Member not found", http.StatusNotFound, nil)
			return
		}
		if err != nil {
			h.logger.Error("seat member lookup failed", zap.Error(err))
			services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
			return
		}
	}

	seat := &models.Seat{
		ID:          h.newID(),
		SeatNumber:  req.SeatNumber,
		MemberID:    req.MemberID,
		TotalAmount: req.TotalAmount,
		PaidAmount:  decimal.Zero,
		Status:      models.SeatOpen,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.repos.Seats.Create(r.Context(), seat); err != nil {
		h.logger.Error("create seat failed", zap.Error(err))
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusCreated, seat)
}

// UpdateSeat edits a seat's assignment, total, dates or cancellation
// @Summary Update seat
// @Tags seats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Seat ID"
// @Success 200 {object} models.Seat
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse
// @Router /seats/{id} [patch]
func (h *RecordHandler) UpdateSeat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.IsID(id) {
		services.SendErrorResponse(w, "Seat not found", http.StatusNotFound, nil)
		return
	}

	var req updateSeatRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	update := services.SeatUpdate{
		MemberID:    req.MemberID,
		TotalAmount: req.TotalAmount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Status != nil {
		status := models.SeatStatus(*req.Status)
		update.Status = &status
	}

	seat, err := h.seats.UpdateSeat(r.Context(), id, update)
	if err != nil {
		sendError(h.logger, w, "update seat", err)
		return
	}

	writeJSON(w, http.StatusOK, seat)
}

// CreateCategory registers a transaction or expense category
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Category
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /categories [post]
func (h *RecordHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := services.DecodeJSON(w, r, &req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	_, err := h.repos.Categories.FindByName(r.Context(), req.Name)
	if err == nil {
		services.SendErrorResponse(w, "Category already exists", http.StatusConflict, nil)
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		h.logger.Error("category lookup failed", zap.Error(err))
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	category := &models.Category{
		ID:          h.newID(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := h.repos.Categories.Create(r.Context(), category); err != nil {
		h.logger.Error("create category failed", zap.Error(err))
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// ListCategories returns live categories by name
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param activeOnly query bool false "Only active categories"
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *RecordHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	categories, err := h.repos.Categories.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// DeleteRecord logically deletes a record. Ledger entries written for it
// are left untouched.
// @Summary Delete record
// @Tags records
// @Security BearerAuth
// @Param entity path string true "members, seats, transactions, ..."
// @Param id path string true "Record ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Router /{entity}/{id} [delete]
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	entity, ok := deletableEntities[chi.URLParam(r, "entity")]
	if !ok {
		services.SendErrorResponse(w, "Unknown resource", http.StatusNotFound, nil)
		return
	}
	id := chi.URLParam(r, "id")
	if !models.IsID(id) {
		services.SendErrorResponse(w, "Record not found", http.StatusNotFound, nil)
		return
	}

	err := h.repos.Delete(r.Context(), entity, id)
	if errors.Is(err, repository.ErrNotFound) {
		services.SendErrorResponse(w, "Record not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.logger.Error("delete failed", zap.String("entity", string(entity)), zap.String("id", id), zap.Error(err))
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	h.logger.Info("record deleted", zap.String("entity", string(entity)), zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
