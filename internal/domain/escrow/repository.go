package escrow

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MilestoneRepository defines the interface for milestone persistence
type MilestoneRepository interface {
	// FindByID finds a milestone by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Milestone, error)

	// FindByProject finds all milestones for a project, oldest first
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Milestone, error)

	// Create persists a new milestone
	Create(ctx context.Context, milestone *Milestone) error

	// FundWithDeposit moves the milestone pending -> funded and appends the
	// deposit ledger entry in one database transaction. The status update
	// carries a conditional "status = pending" guard; when another caller won
	// the race the update matches no rows, nothing is written, and
	// shared.ErrInvalidState is returned.
	FundWithDeposit(ctx context.Context, milestone *Milestone, deposit *Transaction) error

	// ReleaseWithPayout moves the milestone funded -> paid and, when payout is
	// non-nil, appends the payout ledger entry in the same database
	// transaction. A nil payout commits the status change alone, which covers
	// releasing a milestone on a project with no assignee. The guard and
	// error semantics match FundWithDeposit.
	ReleaseWithPayout(ctx context.Context, milestone *Milestone, payout *Transaction) error
}

// FinanceTotals aggregates the ledger for the platform finance view
type FinanceTotals struct {
	TotalDeposits decimal.Decimal
	TotalPayouts  decimal.Decimal
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Create appends a ledger entry
	Create(ctx context.Context, transaction *Transaction) error

	// FindByUser finds a user's ledger entries, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Transaction, error)

	// FindLatest finds the most recent ledger entries across all users
	FindLatest(ctx context.Context, limit int) ([]Transaction, error)

	// SumByType totals successful entries of the given type
	SumByType(ctx context.Context, txType TransactionType) (decimal.Decimal, error)

	// Totals aggregates deposits and payouts in one pass
	Totals(ctx context.Context) (FinanceTotals, error)
}
