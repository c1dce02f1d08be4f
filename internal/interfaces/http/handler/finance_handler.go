package handler

import (
	"github.com/gin-gonic/gin"
	appescrow "github.com/worklane/backend/internal/application/escrow"
	"github.com/worklane/backend/internal/interfaces/http/middleware"
	"github.com/worklane/backend/internal/interfaces/http/router"
)

// FinanceHandler handles ledger endpoints
type FinanceHandler struct {
	BaseHandler
	financeService *appescrow.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *appescrow.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance", middleware.RequireAuth())
	{
		finance.GET("/stats", h.Stats)
		finance.GET("/transactions", h.MyTransactions)
	}
}

// Stats handles GET /finance/stats (admin only; enforced by the service)
func (h *FinanceHandler) Stats(c *gin.Context) {
	resp, err := h.financeService.Stats(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MyTransactions handles GET /finance/transactions
func (h *FinanceHandler) MyTransactions(c *gin.Context) {
	resp, err := h.financeService.MyTransactions(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

var _ router.RouteRegistrar = (*FinanceHandler)(nil)
