package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/response"
)

// PersonHandler wires HTTP endpoints to the shared person record service.
type PersonHandler struct {
	service *service.PersonService
}

// NewPersonHandler creates a new handler.
func NewPersonHandler(svc *service.PersonService) *PersonHandler {
	return &PersonHandler{service: svc}
}

// Create godoc
// @Summary Create a standalone person record
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body models.PersonFields true "Person payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /persons [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var fields models.PersonFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person payload"))
		return
	}

	id, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": id})
}

// Get godoc
// @Summary Fetch one person record
// @Tags Persons
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /persons/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid person id"))
		return
	}

	person, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, person, nil)
}

// Update godoc
// @Summary Update a person record
// @Description Rewrites only the provided fields.
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path int true "Person ID"
// @Param payload body models.PersonUpdate true "Person update"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /persons/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid person id"))
		return
	}

	var upd models.PersonUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person update"))
		return
	}

	if err := h.service.Update(c.Request.Context(), id, upd); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
