package marketplace

import (
	"time"

	"github.com/worklane/backend/internal/domain/marketplace"
)

// CreateProjectRequest carries the fields for posting a new project
type CreateProjectRequest struct {
	Title    string `json:"title" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Budget   string `json:"budget" binding:"required"`
	Deadline string `json:"deadline" binding:"required"`
	Details  string `json:"details"`
}

// UpdateProjectRequest carries the editable project fields
type UpdateProjectRequest struct {
	Title    string `json:"title" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Budget   string `json:"budget" binding:"required"`
	Deadline string `json:"deadline" binding:"required"`
	Details  string `json:"details"`
}

// ProjectResponse is the read model for a project
type ProjectResponse struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	Title      string    `json:"title"`
	Service    string    `json:"service"`
	Budget     string    `json:"budget"`
	Deadline   string    `json:"deadline"`
	Details    string    `json:"details"`
	Status     string    `json:"status"`
	AssignedTo *string   `json:"assigned_to,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProjectResponse(p *marketplace.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:        p.ID.String(),
		ClientID:  p.ClientID.String(),
		Title:     p.Title,
		Service:   p.Service,
		Budget:    p.Budget,
		Deadline:  p.Deadline,
		Details:   p.Details,
		Status:    p.Status.String(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.AssignedTo != nil {
		assignee := p.AssignedTo.String()
		resp.AssignedTo = &assignee
	}
	return resp
}

func toProjectResponses(projects []marketplace.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = toProjectResponse(&p)
	}
	return responses
}

// SubmitProposalRequest carries a freelancer's bid on a project
type SubmitProposalRequest struct {
	Price       string `json:"price" binding:"required"`
	CoverLetter string `json:"cover_letter" binding:"required"`
}

// DecideProposalRequest carries the client's decision on a proposal
type DecideProposalRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

// ProposalResponse is the read model for a proposal
type ProposalResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	FreelancerID string    `json:"freelancer_id"`
	Price        string    `json:"price"`
	CoverLetter  string    `json:"cover_letter"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toProposalResponse(p *marketplace.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:           p.ID.String(),
		ProjectID:    p.ProjectID.String(),
		FreelancerID: p.FreelancerID.String(),
		Price:        p.Price.StringFixed(2),
		CoverLetter:  p.CoverLetter,
		Status:       p.Status.String(),
		CreatedAt:    p.CreatedAt,
	}
}
