package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/seatfund/backend/internal/services"
	"go.uber.org/zap"
)

var transactionTypes = []struct {
	kind        models.TransactionKind
	description string
}{
	{models.KindCashIn, "Money received / contribution"},
	{models.KindCashOut, "Money paid out / withdrawal"},
	{models.KindSeatPayment, "Payment towards a seat"},
	{models.KindExpense, "Expense deduction"},
}

var categories = []struct {
	name        string
	description string
}{
	{"Monthly Contribution", "Regular monthly member contribution"},
	{"Seat Payment", "Payment towards a contribution seat"},
	{"Payout", "Money paid out to a member"},
	{"Administrative", "Administrative expenses"},
	{"Miscellaneous", "Uncategorized transactions"},
	{"Penalty", "Late payment or rule violation penalties"},
	{"Interest", "Interest earned or charged"},
}

type seeder struct {
	repos  *repository.Repositories
	logger *zap.Logger
	newID  func() string
}

func newSeeder(repos *repository.Repositories, logger *zap.Logger) *seeder {
	return &seeder{repos: repos, logger: logger, newID: uuid.NewString}
}

// run inserts the reference rows that are missing. Existing rows are left as they are.
func (s *seeder) run(ctx context.Context, adminEmail, adminPassword string) error {
	if err := s.admin(ctx, adminEmail, adminPassword); err != nil {
		return err
	}

	for _, tt := range transactionTypes {
		_, err := s.repos.TransactionTypes.FindByKind(ctx, tt.kind)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup transaction type %s: %w", tt.kind, err)
		}
		if err := s.repos.TransactionTypes.Create(ctx, &models.TransactionType{
			ID:          s.newID(),
			Name:        tt.kind,
			Description: tt.description,
		}); err != nil {
			return fmt.Errorf("create transaction type %s: %w", tt.kind, err)
		}
	}
	s.logger.Info("Transaction types seeded", zap.Int("count", len(transactionTypes)))

	for _, cat := range categories {
		_, err := s.repos.Categories.FindByName(ctx, cat.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup category %q: %w", cat.name, err)
		}
		description := cat.description
		if err := s.repos.Categories.Create(ctx, &models.Category{
			ID:          s.newID(),
			Name:        cat.name,
			Description: &description,
			IsActive:    true,
		}); err != nil {
			return fmt.Errorf("create category %q: %w", cat.name, err)
		}
	}
	s.logger.Info("Categories seeded", zap.Int("count", len(categories)))

	return nil
}

func (s *seeder) admin(ctx context.Context, email, password string) error {
	_, err := s.repos.Users.FindByEmail(ctx, email)
	if err == nil {
		s.logger.Info("Admin user exists", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if err := s.repos.Users.Create(ctx, &models.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("Admin user created", zap.String("email", email))
	return nil
}
