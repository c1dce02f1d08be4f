package escrow

import (
	"time"

	"github.com/worklane/backend/internal/domain/escrow"
)

// CreateMilestoneRequest carries the fields for adding a milestone to a project
type CreateMilestoneRequest struct {
	Title   string `json:"title" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
	DueDate string `json:"due_date"`
}

// MilestoneResponse is the read model for a milestone
type MilestoneResponse struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	Amount    string     `json:"amount"`
	Status    string     `json:"status"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toMilestoneResponse(m *escrow.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:        m.ID.String(),
		ProjectID: m.ProjectID.String(),
		Title:     m.Title,
		Amount:    m.Amount.StringFixed(2),
		Status:    m.Status.String(),
		DueDate:   m.DueDate,
		CreatedAt: m.CreatedAt,
	}
}

// FundMilestoneResponse returns the funded milestone together with the
// amount actually charged, amount plus platform fee
type FundMilestoneResponse struct {
	Milestone MilestoneResponse `json:"milestone"`
	Charged   string            `json:"charged"`
}

// TransactionResponse is the read model for one ledger entry
type TransactionResponse struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	MilestoneID *string   `json:"milestone_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResponse(t *escrow.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        t.ID.String(),
		Amount:    t.Amount.StringFixed(2),
		Type:      t.Type.String(),
		Status:    t.Status.String(),
		UserID:    t.UserID.String(),
		CreatedAt: t.CreatedAt,
	}
	if t.MilestoneID != nil {
		id := t.MilestoneID.String()
		resp.MilestoneID = &id
	}
	return resp
}

func toTransactionResponses(transactions []escrow.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = toTransactionResponse(&t)
	}
	return responses
}

// FinanceStatsResponse is the platform-wide ledger summary for administrators
type FinanceStatsResponse struct {
	TotalDeposits string                `json:"total_deposits"`
	TotalPayouts  string                `json:"total_payouts"`
	NetRevenue    string                `json:"net_revenue"`
	Latest        []TransactionResponse `json:"latest"`
}
