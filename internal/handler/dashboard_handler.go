package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/response"
)

// DashboardHandler serves the aggregated registrar dashboard.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Overview godoc
// @Summary Registrar dashboard counts
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}
