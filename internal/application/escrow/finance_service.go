package escrow

import (
	"context"

	"github.com/worklane/backend/internal/application/access"
	"github.com/worklane/backend/internal/domain/escrow"
	"github.com/worklane/backend/internal/domain/identity"
	"go.uber.org/zap"
)

const latestTransactionLimit = 50

// FinanceService exposes the ledger: per-user history for everyone, the
// platform-wide summary for administrators
type FinanceService struct {
	transactionRepo escrow.TransactionRepository
	guard           *access.Guard
	logger          *zap.Logger
}

// NewFinanceService creates a new finance service
func NewFinanceService(transactionRepo escrow.TransactionRepository, guard *access.Guard, logger *zap.Logger) *FinanceService {
	return &FinanceService{
		transactionRepo: transactionRepo,
		guard:           guard,
		logger:          logger,
	}
}

// MyTransactions returns the caller's ledger entries, newest first
func (s *FinanceService) MyTransactions(ctx context.Context, principal identity.Principal) ([]TransactionResponse, error) {
	if err := s.guard.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(transactions), nil
}

// Stats returns the platform ledger summary. Net revenue is deposits minus
// payouts, which equals the retained fees plus funds still held in escrow.
func (s *FinanceService) Stats(ctx context.Context, principal identity.Principal) (*FinanceStatsResponse, error) {
	if err := s.guard.RequireAdmin(principal); err != nil {
		return nil, err
	}

	totals, err := s.transactionRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.transactionRepo.FindLatest(ctx, latestTransactionLimit)
	if err != nil {
		return nil, err
	}

	return &FinanceStatsResponse{
		TotalDeposits: totals.TotalDeposits.StringFixed(2),
		TotalPayouts:  totals.TotalPayouts.StringFixed(2),
		NetRevenue:    totals.TotalDeposits.Sub(totals.TotalPayouts).StringFixed(2),
		Latest:        toTransactionResponses(latest),
	}, nil
}
