package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/response"
)

// LookupHandler serves the reference tables backing registration forms.
type LookupHandler struct {
	service *service.LookupService
}

// NewLookupHandler creates a new handler.
func NewLookupHandler(svc *service.LookupService) *LookupHandler {
	return &LookupHandler{service: svc}
}

// Strands godoc
// @Summary List academic strands
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/strands [get]
func (h *LookupHandler) Strands(c *gin.Context) {
	strands, err := h.service.Strands(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, strands, nil)
}

// GradeLevels godoc
// @Summary List grade levels
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/grade-levels [get]
func (h *LookupHandler) GradeLevels(c *gin.Context) {
	levels, err := h.service.GradeLevels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels, nil)
}

// Departments godoc
// @Summary List departments
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/departments [get]
func (h *LookupHandler) Departments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}
