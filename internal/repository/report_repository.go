package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bgarcia-dev/shs-registrar-api/internal/dto"
	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
)

// ReportRepository runs the read-only projections behind registrar reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AllStudents returns the master list of registered students.
func (r *ReportRepository) AllStudents(ctx context.Context) ([]dto.StudentReportRow, error) {
	const query = `SELECT s.id AS student_id, pi.first_name, pi.middle_name, pi.last_name, pi.email, pi.phone_number,
		st.strand_name AS strand, gl.level AS grade_level, s.student_type, s.status, s.registered_at
		FROM students s
		JOIN personal_information pi ON pi.id = s.personal_info_id
		LEFT JOIN strands st ON st.id = s.strand_id
		LEFT JOIN grade_levels gl ON gl.id = s.grade_level_id
		ORDER BY pi.last_name, pi.first_name`
	var rows []dto.StudentReportRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("report all students: %w", err)
	}
	return rows, nil
}

// EnrollmentByStrand aggregates student counts per strand and status.
func (r *ReportRepository) EnrollmentByStrand(ctx context.Context) ([]dto.StrandEnrollmentRow, error) {
	const query = `SELECT COALESCE(st.strand_name, 'Unassigned') AS strand,
		COUNT(*) FILTER (WHERE s.status = 'enrolled') AS enrolled,
		COUNT(*) FILTER (WHERE s.status = 'pending') AS pending,
		COUNT(*) FILTER (WHERE s.status = 'cancelled') AS cancelled,
		COUNT(*) AS total
		FROM students s
		LEFT JOIN strands st ON st.id = s.strand_id
		GROUP BY COALESCE(st.strand_name, 'Unassigned')
		ORDER BY total DESC`
	var rows []dto.StrandEnrollmentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("report enrollment by strand: %w", err)
	}
	return rows, nil
}

// RegistrationsBetween counts new registrations per day within a range.
func (r *ReportRepository) RegistrationsBetween(ctx context.Context, from, to time.Time) ([]dto.RegistrationTrendRow, error) {
	const query = `SELECT DATE_TRUNC('day', registered_at) AS day, COUNT(*) AS count
		FROM students
		WHERE registered_at >= $1 AND registered_at < $2
		GROUP BY DATE_TRUNC('day', registered_at)
		ORDER BY day`
	var rows []dto.RegistrationTrendRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("report registrations: %w", err)
	}
	return rows, nil
}

// PendingApplications lists students still awaiting enrollment.
func (r *ReportRepository) PendingApplications(ctx context.Context) ([]dto.StudentReportRow, error) {
	const query = `SELECT s.id AS student_id, pi.first_name, pi.middle_name, pi.last_name, pi.email, pi.phone_number,
		st.strand_name AS strand, gl.level AS grade_level, s.student_type, s.status, s.registered_at
		FROM students s
		JOIN personal_information pi ON pi.id = s.personal_info_id
		LEFT JOIN strands st ON st.id = s.strand_id
		LEFT JOIN grade_levels gl ON gl.id = s.grade_level_id
		WHERE s.status = 'pending'
		ORDER BY s.registered_at`
	var rows []dto.StudentReportRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("report pending applications: %w", err)
	}
	return rows, nil
}

// StaffDirectory lists all staff accounts with their department.
func (r *ReportRepository) StaffDirectory(ctx context.Context) ([]dto.StaffReportRow, error) {
	const query = `SELECT u.id AS user_id, u.username, u.role, u.status,
		pi.first_name, pi.last_name, d.name AS department
		FROM users u
		LEFT JOIN personal_information pi ON pi.id = u.personal_info_id
		LEFT JOIN departments d ON d.id = u.department_id
		ORDER BY u.username`
	var rows []dto.StaffReportRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("report staff directory: %w", err)
	}
	return rows, nil
}

// CountByStrand returns headcounts per strand for the dashboard.
func (r *ReportRepository) CountByStrand(ctx context.Context) ([]dto.StrandCount, error) {
	const query = `SELECT COALESCE(st.strand_name, 'Unassigned') AS strand, COUNT(*) AS count
		FROM students s
		LEFT JOIN strands st ON st.id = s.strand_id
		GROUP BY COALESCE(st.strand_name, 'Unassigned')
		ORDER BY count DESC`
	var rows []dto.StrandCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count by strand: %w", err)
	}
	return rows, nil
}

// AuditTrail returns recent audit log entries, newest first.
func (r *ReportRepository) AuditTrail(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const query = `SELECT id, user_id, action, object_type, object_id, details, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
