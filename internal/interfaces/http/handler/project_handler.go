package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appmarketplace "github.com/worklane/backend/internal/application/marketplace"
	"github.com/worklane/backend/internal/interfaces/http/middleware"
	"github.com/worklane/backend/internal/interfaces/http/router"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *appmarketplace.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *appmarketplace.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// RegisterRoutes registers project routes
func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	{
		projects.GET("/open", h.ListOpen)
		projects.GET("/:id", h.Get)
		projects.POST("", middleware.RequireAuth(), h.Create)
		projects.GET("/mine", middleware.RequireAuth(), h.ListMine)
		projects.GET("/tasks", middleware.RequireAuth(), h.ListTasks)
		projects.PUT("/:id", middleware.RequireAuth(), h.Update)
	}
}

// Create handles POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req appmarketplace.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.CreateProject(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	resp, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListOpen handles GET /projects/open
func (h *ProjectHandler) ListOpen(c *gin.Context) {
	resp, err := h.projectService.ListOpenProjects(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMine handles GET /projects/mine
func (h *ProjectHandler) ListMine(c *gin.Context) {
	resp, err := h.projectService.ListMyProjects(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTasks handles GET /projects/tasks
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	resp, err := h.projectService.ListAssignedProjects(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var req appmarketplace.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.UpdateProject(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

var _ router.RouteRegistrar = (*ProjectHandler)(nil)
