package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/response"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/storage"
)

// StudentHandler wires HTTP endpoints to the enrollment service.
type StudentHandler struct {
	service   *service.StudentService
	dashboard *service.DashboardService
	metrics   *service.MetricsService
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	maxUpload int64
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService, dashboard *service.DashboardService, metrics *service.MetricsService, store *storage.LocalStorage, signer *storage.SignedURLSigner, maxUpload int64) *StudentHandler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &StudentHandler{service: svc, dashboard: dashboard, metrics: metrics, store: store, signer: signer, maxUpload: maxUpload}
}

// Register godoc
// @Summary Register a new student
// @Description Accepts a multipart form with a "payload" JSON part and one
// file part per document, named after the document type presented to the
// applicant. The student always starts in pending status.
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param payload formData string true "Registration payload JSON"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Register(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart form"))
		return
	}

	var req service.RegisterStudentRequest
	if err := json.Unmarshal([]byte(c.PostForm("payload")), &req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	var uploads []service.DocumentUpload
	var closers []io.Closer
	defer func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}()

	form := c.Request.MultipartForm
	for field, headers := range form.File {
		for _, header := range headers {
			if header.Size > h.maxUpload {
				response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("document %q exceeds the size limit", field)))
				return
			}
			file, err := header.Open()
			if err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable document upload"))
				return
			}
			closers = append(closers, file)
			uploads = append(uploads, service.DocumentUpload{Name: field, Content: file})
		}
	}

	detail, err := h.service.Register(c.Request.Context(), actorID(c), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordRegistration()
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}

	response.Created(c, detail)
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search in first or last name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param sort query string false "Sort order, asc or desc"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Search:    c.Query("search"),
		SortOrder: c.Query("sort"),
	}
	if status := c.Query("status"); status != "" {
		s := models.StudentStatus(status)
		filter.Status = &s
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Fetch one student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Update a student
// @Description Rewrites only the provided fields across the student and their
// person record.
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Student update"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student update"))
		return
	}

	if err := h.service.Update(c.Request.Context(), actorID(c), id, req); err != nil {
		response.Error(c, err)
		return
	}

	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
	response.NoContent(c)
}

// Counts godoc
// @Summary Enrollment aggregates by status
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/counts [get]
func (h *StudentHandler) Counts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// Documents godoc
// @Summary List a student's documents with signed download URLs
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/documents [get]
func (h *StudentHandler) Documents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	docs, err := h.service.Documents(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	type documentWithURL struct {
		models.Document
		DownloadToken string    `json:"download_token,omitempty"`
		ExpiresAt     time.Time `json:"expires_at,omitempty"`
	}
	out := make([]documentWithURL, 0, len(docs))
	for _, doc := range docs {
		entry := documentWithURL{Document: doc}
		if h.signer != nil {
			if token, expiresAt, err := h.signer.Generate(doc.ID, doc.FilePath); err == nil {
				entry.DownloadToken = token
				entry.ExpiresAt = expiresAt
			}
		}
		out = append(out, entry)
	}

	response.JSON(c, http.StatusOK, out, nil)
}

// Download godoc
// @Summary Download a document via signed token
// @Tags Students
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /documents/download [get]
func (h *StudentHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing download token"))
		return
	}

	docID, relPath, _, err := h.signer.Parse(token)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, "invalid or expired download token"))
		return
	}

	doc, err := h.service.Document(c.Request.Context(), docID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if doc.FilePath != relPath {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "token does not match document"))
		return
	}

	path, err := h.store.Path(doc.FilePath)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document path"))
		return
	}
	c.FileAttachment(path, doc.FilePath)
}
