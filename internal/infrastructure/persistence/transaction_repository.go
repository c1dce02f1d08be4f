package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/escrow"
	"gorm.io/gorm"
)

// GormTransactionRepository implements the append-only ledger using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *escrow.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// FindByUser finds a user's ledger entries, newest first
func (r *GormTransactionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]escrow.Transaction, error) {
	var transactions []escrow.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindLatest finds the most recent ledger entries across all users
func (r *GormTransactionRepository) FindLatest(ctx context.Context, limit int) ([]escrow.Transaction, error) {
	var transactions []escrow.Transaction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// SumByType totals successful entries of the given type
func (r *GormTransactionRepository) SumByType(ctx context.Context, txType escrow.TransactionType) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&escrow.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("type = ? AND status = ?", txType, escrow.TransactionStatusSuccess).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Totals aggregates deposits and payouts in one pass
func (r *GormTransactionRepository) Totals(ctx context.Context) (escrow.FinanceTotals, error) {
	deposits, err := r.SumByType(ctx, escrow.TransactionTypeDeposit)
	if err != nil {
		return escrow.FinanceTotals{}, err
	}
	payouts, err := r.SumByType(ctx, escrow.TransactionTypePayout)
	if err != nil {
		return escrow.FinanceTotals{}, err
	}
	return escrow.FinanceTotals{TotalDeposits: deposits, TotalPayouts: payouts}, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ escrow.TransactionRepository = (*GormTransactionRepository)(nil)
