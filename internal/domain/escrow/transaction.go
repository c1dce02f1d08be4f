package escrow

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/shared"
)

// TransactionType distinguishes money entering escrow from money leaving it
type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "deposit"
	TransactionTypePayout  TransactionType = "payout"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypePayout
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionStatus represents settlement state of a ledger entry.
// Everything in scope settles immediately as success; pending is reserved
// for asynchronous settlement.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
)

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// Transaction is an append-only ledger entry. It is only ever created after
// the state transition that justifies it has committed, and never mutated.
type Transaction struct {
	shared.BaseEntity
	Amount      decimal.Decimal
	Type        TransactionType
	Status      TransactionStatus
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	MilestoneID *uuid.UUID `gorm:"type:uuid;index"`
}

// NewDeposit creates a successful deposit ledger entry for a funded milestone
func NewDeposit(userID, milestoneID uuid.UUID, amount decimal.Decimal) (*Transaction, error) {
	return newTransaction(TransactionTypeDeposit, userID, milestoneID, amount)
}

// NewPayout creates a successful payout ledger entry for a paid milestone
func NewPayout(userID, milestoneID uuid.UUID, amount decimal.Decimal) (*Transaction, error) {
	return newTransaction(TransactionTypePayout, userID, milestoneID, amount)
}

func newTransaction(txType TransactionType, userID, milestoneID uuid.UUID, amount decimal.Decimal) (*Transaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "User ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}

	tx := &Transaction{
		BaseEntity: shared.NewBaseEntity(),
		Amount:     amount,
		Type:       txType,
		Status:     TransactionStatusSuccess,
		UserID:     userID,
	}
	if milestoneID != uuid.Nil {
		tx.MilestoneID = &milestoneID
	}
	return tx, nil
}
