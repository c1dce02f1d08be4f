package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appmarketplace "github.com/worklane/backend/internal/application/marketplace"
	"github.com/worklane/backend/internal/interfaces/http/middleware"
	"github.com/worklane/backend/internal/interfaces/http/router"
)

// ProposalHandler handles proposal endpoints
type ProposalHandler struct {
	BaseHandler
	proposalService *appmarketplace.ProposalService
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(proposalService *appmarketplace.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// RegisterRoutes registers proposal routes
func (h *ProposalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/proposals", middleware.RequireAuth(), h.Submit)
	rg.GET("/projects/:id/proposals", middleware.RequireAuth(), h.ListByProject)
	rg.PATCH("/proposals/:id/status", middleware.RequireAuth(), h.Decide)
}

// Submit handles POST /projects/:id/proposals
func (h *ProposalHandler) Submit(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var req appmarketplace.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proposalService.SubmitProposal(c.Request.Context(), middleware.GetPrincipal(c), projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListByProject handles GET /projects/:id/proposals
func (h *ProposalHandler) ListByProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	resp, err := h.proposalService.ListByProject(c.Request.Context(), middleware.GetPrincipal(c), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Decide handles PATCH /proposals/:id/status
func (h *ProposalHandler) Decide(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	var req appmarketplace.DecideProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proposalService.Decide(c.Request.Context(), middleware.GetPrincipal(c), proposalID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

var _ router.RouteRegistrar = (*ProposalHandler)(nil)
