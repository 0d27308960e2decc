package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
)

// StudentRepository manages persistence for student enrollment records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// DocumentParams describes an attachment persisted alongside a new student.
type DocumentParams struct {
	DocType  models.DocumentType
	FilePath string
	Notes    *string
}

// CreateStudentParams bundles everything written during student creation.
type CreateStudentParams struct {
	Person         models.PersonFields
	StrandName     *string
	GradeLevelName *string
	StudentType    models.StudentType
	CreatedBy      *int64
	Documents      []DocumentParams
}

// StudentUpdate carries a joined partial update across person and student rows.
// Nil fields preserve existing values.
type StudentUpdate struct {
	FirstName   *string
	MiddleName  *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Address     *string
	Status      *models.StudentStatus
}

// Create writes the person, student and document rows as one transaction.
// Strand and grade-level names are resolved to their surrogate keys inside the
// same transaction; unknown names resolve to NULL rather than failing. The new
// student always starts in pending status regardless of caller intent.
func (r *StudentRepository) Create(ctx context.Context, params CreateStudentParams) (studentID int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin student transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	personID, err := insertPerson(ctx, tx, params.Person)
	if err != nil {
		return 0, err
	}

	strandID, err := resolveLookup(ctx, tx, "SELECT id FROM strands WHERE strand_name = $1", params.StrandName)
	if err != nil {
		return 0, fmt.Errorf("resolve strand: %w", err)
	}
	gradeLevelID, err := resolveLookup(ctx, tx, "SELECT id FROM grade_levels WHERE level = $1", params.GradeLevelName)
	if err != nil {
		return 0, fmt.Errorf("resolve grade level: %w", err)
	}

	const insertStudent = `INSERT INTO students (personal_info_id, strand_id, grade_level_id, student_type, status, created_by)
		VALUES ($1, $2, $3, $4, 'pending', $5)
		RETURNING id`
	if err = tx.GetContext(ctx, &studentID, insertStudent, personID, strandID, gradeLevelID, params.StudentType, params.CreatedBy); err != nil {
		return 0, fmt.Errorf("insert student: %w", err)
	}

	const insertDocument = `INSERT INTO documents (student_id, doc_type, file_path, uploaded_by, notes)
		VALUES ($1, $2, $3, $4, $5)`
	for _, doc := range params.Documents {
		if _, err = tx.ExecContext(ctx, insertDocument, studentID, doc.DocType, doc.FilePath, params.CreatedBy, doc.Notes); err != nil {
			return 0, fmt.Errorf("insert document: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit student transaction: %w", err)
	}
	return studentID, nil
}

// resolveLookup maps a lookup name to its surrogate key. A missing name is a
// soft reference: it yields NULL, not an error.
func resolveLookup(ctx context.Context, q sqlx.ExtContext, query string, name *string) (*int64, error) {
	if name == nil || *name == "" {
		return nil, nil
	}
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, query, *name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

// Update rewrites person fields and student status together in one transaction.
func (r *StudentRepository) Update(ctx context.Context, studentID int64, upd StudentUpdate) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updatePerson = `UPDATE personal_information pi SET
		first_name = COALESCE($2, pi.first_name),
		middle_name = COALESCE($3, pi.middle_name),
		last_name = COALESCE($4, pi.last_name),
		email = COALESCE($5, pi.email),
		phone_number = COALESCE($6, pi.phone_number),
		address = COALESCE($7, pi.address)
		FROM students s
		WHERE s.personal_info_id = pi.id AND s.id = $1`
	res, err := tx.ExecContext(ctx, updatePerson, studentID, upd.FirstName, upd.MiddleName, upd.LastName, upd.Email, upd.PhoneNumber, upd.Address)
	if err != nil {
		return fmt.Errorf("update student person: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update student %d: %w", studentID, sql.ErrNoRows)
	}

	const updateStatus = `UPDATE students SET status = COALESCE($2, status) WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateStatus, studentID, upd.Status); err != nil {
		return fmt.Errorf("update student status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit student update: %w", err)
	}
	return nil
}

// Delete removes a student row. The owning person record is intentionally left
// in place; documents and guardian linkages disappear through FK cascade.
func (r *StudentRepository) Delete(ctx context.Context, studentID int64) error {
	const query = `DELETE FROM students WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, studentID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("delete student %d: %w", studentID, sql.ErrNoRows)
	}
	return nil
}

const studentDetailColumns = `s.id, s.personal_info_id, pi.first_name, pi.middle_name, pi.last_name, pi.suffix, pi.sex,
		pi.nationality, pi.place_of_birth, pi.email, pi.phone_number, pi.date_of_birth, pi.address,
		st.strand_name AS strand, gl.level AS grade_level, s.student_type, s.status, s.registered_at,
		u.username AS created_by_name`

const studentDetailJoins = `FROM students s
		JOIN personal_information pi ON pi.id = s.personal_info_id
		LEFT JOIN strands st ON st.id = s.strand_id
		LEFT JOIN grade_levels gl ON gl.id = s.grade_level_id
		LEFT JOIN users u ON u.id = s.created_by`

// List returns students matching the provided filters ordered by identifier.
// An invalid sort direction silently falls back to descending.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := studentDetailJoins
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(pi.first_name) LIKE $%d OR LOWER(pi.last_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.id %s LIMIT %d OFFSET %d", studentDetailColumns, base, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.id = $1", studentDetailColumns, studentDetailJoins)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Counts aggregates enrollment statistics in one round trip.
func (r *StudentRepository) Counts(ctx context.Context) (*models.StudentStatusCounts, error) {
	const query = `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'enrolled') AS enrolled,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM students`
	var counts models.StudentStatusCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	return &counts, nil
}

// ListDocuments returns the attachments stored for a student.
func (r *StudentRepository) ListDocuments(ctx context.Context, studentID int64) ([]models.Document, error) {
	const query = `SELECT id, student_id, doc_type, file_path, uploaded_by, uploaded_at, notes
		FROM documents WHERE student_id = $1 ORDER BY uploaded_at`
	var docs []models.Document
	if err := r.db.SelectContext(ctx, &docs, query, studentID); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// FindDocument fetches a single attachment record.
func (r *StudentRepository) FindDocument(ctx context.Context, id int64) (*models.Document, error) {
	const query = `SELECT id, student_id, doc_type, file_path, uploaded_by, uploaded_at, notes
		FROM documents WHERE id = $1 LIMIT 1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	return &doc, nil
}
