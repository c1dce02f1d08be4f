package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appescrow "github.com/worklane/backend/internal/application/escrow"
	"github.com/worklane/backend/internal/interfaces/http/middleware"
	"github.com/worklane/backend/internal/interfaces/http/router"
)

// MilestoneHandler handles milestone escrow endpoints
type MilestoneHandler struct {
	BaseHandler
	escrowService *appescrow.Service
}

// NewMilestoneHandler creates a new MilestoneHandler
func NewMilestoneHandler(escrowService *appescrow.Service) *MilestoneHandler {
	return &MilestoneHandler{escrowService: escrowService}
}

// RegisterRoutes registers milestone routes. The list endpoint stays open to
// anonymous callers; they receive an empty list.
func (h *MilestoneHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/milestones", middleware.RequireAuth(), h.Create)
	rg.GET("/projects/:id/milestones", h.ListByProject)

	milestones := rg.Group("/milestones", middleware.RequireAuth())
	{
		milestones.POST("/:id/fund", h.Fund)
		milestones.POST("/:id/release", h.Release)
		milestones.POST("/:id/request-release", h.RequestRelease)
	}
}

// Create handles POST /projects/:id/milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var req appescrow.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.escrowService.CreateMilestone(c.Request.Context(), middleware.GetPrincipal(c), projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListByProject handles GET /projects/:id/milestones
func (h *MilestoneHandler) ListByProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	resp, err := h.escrowService.GetProjectMilestones(c.Request.Context(), middleware.GetPrincipal(c), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Fund handles POST /milestones/:id/fund
func (h *MilestoneHandler) Fund(c *gin.Context) {
	milestoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid milestone ID")
		return
	}

	resp, err := h.escrowService.FundMilestone(c.Request.Context(), middleware.GetPrincipal(c), milestoneID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Release handles POST /milestones/:id/release
func (h *MilestoneHandler) Release(c *gin.Context) {
	milestoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid milestone ID")
		return
	}

	resp, err := h.escrowService.ReleaseMilestone(c.Request.Context(), middleware.GetPrincipal(c), milestoneID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RequestRelease handles POST /milestones/:id/request-release
func (h *MilestoneHandler) RequestRelease(c *gin.Context) {
	milestoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid milestone ID")
		return
	}

	if err := h.escrowService.RequestRelease(c.Request.Context(), middleware.GetPrincipal(c), milestoneID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

var _ router.RouteRegistrar = (*MilestoneHandler)(nil)
