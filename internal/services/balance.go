package services

import (
	"context"

	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// BalanceResolver reads stored running balances. It never writes.
type BalanceResolver struct {
	repos *repository.Repositories
}

func NewBalanceResolver(repos *repository.Repositories) *BalanceResolver {
	return &BalanceResolver{repos: repos}
}

// LatestAccountBalance returns the running balance of the most recent entry
// for account in scope, or zero. A nil scope reads outside any transaction.
func (b *BalanceResolver) LatestAccountBalance(ctx context.Context, scope *repository.Repositories, account models.Account) (decimal.Decimal, error) {
	if !account.Valid() {
		return decimal.Zero, validationError("unknown account %q", account)
	}
	balance, err := b.scope(scope).Ledger.LatestRunningBalance(ctx, account)
	if err != nil {
		return decimal.Zero, storageError("read account balance", err)
	}
	return balance, nil
}

// LatestMemberBalance returns the balance snapshot of the member's most
// recent live transaction, or zero.
func (b *BalanceResolver) LatestMemberBalance(ctx context.Context, scope *repository.Repositories, memberID string) (decimal.Decimal, error) {
	balance, err := b.scope(scope).Transactions.LatestRunningBalance(ctx, memberID)
	if err != nil {
		return decimal.Zero, storageError("read member balance", err)
	}
	return balance, nil
}

// AccountBalances returns the current balance of every account.
func (b *BalanceResolver) AccountBalances(ctx context.Context) ([]models.AccountBalance, error) {
	balances := make([]models.AccountBalance, 0, len(models.Accounts))
	for _, account := range models.Accounts {
		balance, err := b.LatestAccountBalance(ctx, nil, account)
		if err != nil {
			return nil, err
		}
		balances = append(balances, models.AccountBalance{Account: account, Balance: balance})
	}
	return balances, nil
}

func (b *BalanceResolver) scope(scope *repository.Repositories) *repository.Repositories {
	if scope != nil {
		return scope
	}
	return b.repos
}
