package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bgarcia-dev/shs-registrar-api/internal/dto"
	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/export"
)

type reportRepository interface {
	AllStudents(ctx context.Context) ([]dto.StudentReportRow, error)
	EnrollmentByStrand(ctx context.Context) ([]dto.StrandEnrollmentRow, error)
	RegistrationsBetween(ctx context.Context, from, to time.Time) ([]dto.RegistrationTrendRow, error)
	PendingApplications(ctx context.Context) ([]dto.StudentReportRow, error)
	StaffDirectory(ctx context.Context) ([]dto.StaffReportRow, error)
	AuditTrail(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// ReportService builds registrar reports and their CSV exports.
type ReportService struct {
	repo         reportRepository
	exporter     *export.CSVExporter
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewReportService constructs a ReportService instance.
func NewReportService(repo reportRepository, exporter *export.CSVExporter, logger *zap.Logger, queryTimeout time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewCSVExporter()
	}
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	return &ReportService{repo: repo, exporter: exporter, logger: logger, queryTimeout: queryTimeout}
}

// AllStudents returns the master list rows.
func (s *ReportService) AllStudents(ctx context.Context) ([]dto.StudentReportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.AllStudents(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to build student report")
	}
	return rows, nil
}

// EnrollmentByStrand returns per-strand enrollment aggregates.
func (s *ReportService) EnrollmentByStrand(ctx context.Context) ([]dto.StrandEnrollmentRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.EnrollmentByStrand(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to build strand report")
	}
	return rows, nil
}

// Registrations returns per-day registration counts within a range. A zero
// "to" defaults to now; a zero "from" defaults to thirty days before "to".
func (s *ReportService) Registrations(ctx context.Context, from, to time.Time) ([]dto.RegistrationTrendRow, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range start must precede its end")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.RegistrationsBetween(ctx, from, to)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to build registration report")
	}
	return rows, nil
}

// PendingApplications returns students still awaiting enrollment.
func (s *ReportService) PendingApplications(ctx context.Context) ([]dto.StudentReportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.PendingApplications(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to build pending report")
	}
	return rows, nil
}

// StaffDirectory returns the staff listing.
func (s *ReportService) StaffDirectory(ctx context.Context) ([]dto.StaffReportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.StaffDirectory(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to build staff report")
	}
	return rows, nil
}

// AuditTrail returns recent audit log entries.
func (s *ReportService) AuditTrail(ctx context.Context, limit int) ([]models.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	logs, err := s.repo.AuditTrail(ctx, limit)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to list audit trail")
	}
	return logs, nil
}

// ExportStudentsCSV renders the master list as CSV bytes.
func (s *ReportService) ExportStudentsCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.AllStudents(ctx)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "First Name", "Middle Name", "Last Name", "Email", "Phone", "Strand", "Grade Level", "Type", "Status", "Registered At"},
	}
	for _, row := range rows {
		registered := ""
		if row.RegisteredAt != nil {
			registered = row.RegisteredAt.Format(time.RFC3339)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":            fmt.Sprintf("%d", row.StudentID),
			"First Name":    row.FirstName,
			"Middle Name":   deref(row.MiddleName),
			"Last Name":     row.LastName,
			"Email":         deref(row.Email),
			"Phone":         deref(row.PhoneNumber),
			"Strand":        deref(row.Strand),
			"Grade Level":   deref(row.GradeLevel),
			"Type":          row.StudentType,
			"Status":        row.Status,
			"Registered At": registered,
		})
	}

	payload, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

// ExportStaffCSV renders the staff directory as CSV bytes.
func (s *ReportService) ExportStaffCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.StaffDirectory(ctx)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Username", "Role", "Status", "First Name", "Last Name", "Department"},
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":         fmt.Sprintf("%d", row.UserID),
			"Username":   row.Username,
			"Role":       row.Role,
			"Status":     row.Status,
			"First Name": deref(row.FirstName),
			"Last Name":  deref(row.LastName),
			"Department": deref(row.Department),
		})
	}

	payload, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
