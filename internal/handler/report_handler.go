package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/response"
)

// ReportHandler wires HTTP endpoints to registrar reports.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Students godoc
// @Summary Master list of students
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/students [get]
func (h *ReportHandler) Students(c *gin.Context) {
	rows, err := h.service.AllStudents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// StudentsCSV godoc
// @Summary Master list of students as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /reports/students.csv [get]
func (h *ReportHandler) StudentsCSV(c *gin.Context) {
	payload, err := h.service.ExportStudentsCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("students-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

// EnrollmentByStrand godoc
// @Summary Enrollment aggregates per strand
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/enrollment-by-strand [get]
func (h *ReportHandler) EnrollmentByStrand(c *gin.Context) {
	rows, err := h.service.EnrollmentByStrand(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Registrations godoc
// @Summary Daily registration counts within a date range
// @Tags Reports
// @Produce json
// @Param from query string false "Range start (RFC3339 date)"
// @Param to query string false "Range end (RFC3339 date)"
// @Success 200 {object} response.Envelope
// @Router /reports/registrations [get]
func (h *ReportHandler) Registrations(c *gin.Context) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date"))
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date"))
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	rows, err := h.service.Registrations(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Pending godoc
// @Summary Students awaiting enrollment
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/pending [get]
func (h *ReportHandler) Pending(c *gin.Context) {
	rows, err := h.service.PendingApplications(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Staff godoc
// @Summary Staff directory
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/staff [get]
func (h *ReportHandler) Staff(c *gin.Context) {
	rows, err := h.service.StaffDirectory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// StaffCSV godoc
// @Summary Staff directory as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /reports/staff.csv [get]
func (h *ReportHandler) StaffCSV(c *gin.Context) {
	payload, err := h.service.ExportStaffCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("staff-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

// AuditTrail godoc
// @Summary Recent audit log entries
// @Tags Reports
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /reports/audit [get]
func (h *ReportHandler) AuditTrail(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.service.AuditTrail(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
