package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/response"
)

// GuardianHandler wires HTTP endpoints to the guardian linkage service.
type GuardianHandler struct {
	service *service.GuardianService
}

// NewGuardianHandler creates a new handler.
func NewGuardianHandler(svc *service.GuardianService) *GuardianHandler {
	return &GuardianHandler{service: svc}
}

// Add godoc
// @Summary Attach a guardian to a student
// @Tags Guardians
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.AddGuardianRequest true "Guardian payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/guardians [post]
func (h *GuardianHandler) Add(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	var req service.AddGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guardian payload"))
		return
	}

	detail, err := h.service.Add(c.Request.Context(), actorID(c), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, detail)
}

// ListByStudent godoc
// @Summary List a student's guardians
// @Tags Guardians
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/guardians [get]
func (h *GuardianHandler) ListByStudent(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	guardians, err := h.service.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, guardians, nil)
}

// Get godoc
// @Summary Get a guardian
// @Tags Guardians
// @Produce json
// @Param id path int true "Guardian ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guardians/{id} [get]
func (h *GuardianHandler) Get(c *gin.Context) {
	parentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid guardian id"))
		return
	}

	detail, err := h.service.Get(c.Request.Context(), parentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Update a guardian
// @Tags Guardians
// @Accept json
// @Produce json
// @Param id path int true "Guardian ID"
// @Param payload body models.GuardianUpdate true "Guardian update"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guardians/{id} [put]
func (h *GuardianHandler) Update(c *gin.Context) {
	parentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid guardian id"))
		return
	}

	var req models.GuardianUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guardian update"))
		return
	}

	if err := h.service.Update(c.Request.Context(), actorID(c), parentID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Remove godoc
// @Summary Detach a guardian from a student
// @Description Removes the linkage; a guardian with no remaining linkages is
// deleted while their person record is kept.
// @Tags Guardians
// @Produce json
// @Param id path int true "Linkage ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guardians/links/{id} [delete]
func (h *GuardianHandler) Remove(c *gin.Context) {
	linkageID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid linkage id"))
		return
	}

	if err := h.service.Remove(c.Request.Context(), actorID(c), linkageID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
