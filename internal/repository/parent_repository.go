package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
)

// ParentRepository manages guardian records and their student linkages.
type ParentRepository struct {
	db *sqlx.DB
}

// NewParentRepository constructs a ParentRepository.
func NewParentRepository(db *sqlx.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// AddGuardianParams bundles the rows written when attaching a guardian.
type AddGuardianParams struct {
	StudentID    int64
	Person       models.PersonFields
	Relationship models.Relationship
	Occupation   *string
	IsPrimary    bool
}

// Add creates the guardian's person and parent rows and links them to the
// student, all in one transaction.
func (r *ParentRepository) Add(ctx context.Context, params AddGuardianParams) (parentID int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin guardian transaction: %w", err)
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

	const insertParent = `INSERT INTO parents (personal_info_id, relationship, occupation)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err = tx.GetContext(ctx, &parentID, insertParent, personID, params.Relationship, params.Occupation); err != nil {
		return 0, fmt.Errorf("insert parent: %w", err)
	}

	const insertLinkage = `INSERT INTO student_parents (student_id, parents_id, is_primary) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, insertLinkage, params.StudentID, parentID, params.IsPrimary); err != nil {
		return 0, fmt.Errorf("insert guardian linkage: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit guardian transaction: %w", err)
	}
	return parentID, nil
}

const guardianDetailColumns = `sp.id AS linkage_id, sp.is_primary, p.id AS parent_id, pi.first_name, pi.middle_name, pi.last_name,
		pi.email, pi.phone_number, pi.address, p.relationship, p.occupation`

// ListByStudent returns the guardians linked to a student.
func (r *ParentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.GuardianDetail, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM student_parents sp
		JOIN parents p ON p.id = sp.parents_id
		JOIN personal_information pi ON pi.id = p.personal_info_id
		WHERE sp.student_id = $1
		ORDER BY sp.id`, guardianDetailColumns)
	var guardians []models.GuardianDetail
	if err := r.db.SelectContext(ctx, &guardians, query, studentID); err != nil {
		return nil, fmt.Errorf("list guardians: %w", err)
	}
	return guardians, nil
}

// FindParent fetches a guardian detail by parent identifier.
func (r *ParentRepository) FindParent(ctx context.Context, parentID int64) (*models.GuardianDetail, error) {
	const query = `SELECT 0 AS linkage_id, FALSE AS is_primary, p.id AS parent_id, pi.first_name, pi.middle_name, pi.last_name,
		pi.email, pi.phone_number, pi.address, p.relationship, p.occupation
		FROM parents p
		JOIN personal_information pi ON pi.id = p.personal_info_id
		WHERE p.id = $1 LIMIT 1`
	var guardian models.GuardianDetail
	if err := r.db.GetContext(ctx, &guardian, query, parentID); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// Update rewrites guardian person fields and parent attributes together.
// Nil fields preserve existing values.
func (r *ParentRepository) Update(ctx context.Context, parentID int64, upd models.GuardianUpdate) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin guardian update: %w", err)
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
		FROM parents p
		WHERE p.personal_info_id = pi.id AND p.id = $1`
	res, err := tx.ExecContext(ctx, updatePerson, parentID, upd.FirstName, upd.MiddleName, upd.LastName, upd.Email, upd.PhoneNumber, upd.Address)
	if err != nil {
		return fmt.Errorf("update guardian person: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update guardian %d: %w", parentID, sql.ErrNoRows)
	}

	const updateParent = `UPDATE parents SET
		relationship = COALESCE($2, relationship),
		occupation = COALESCE($3, occupation)
		WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateParent, parentID, upd.Relationship, upd.Occupation); err != nil {
		return fmt.Errorf("update guardian: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit guardian update: %w", err)
	}
	return nil
}

// RemoveLinkage detaches a guardian from a student. When the removed linkage
// was the guardian's last, the parent row is deleted as well; the underlying
// person record always survives.
func (r *ParentRepository) RemoveLinkage(ctx context.Context, linkageID int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin linkage removal: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var parentID int64
	if err = tx.GetContext(ctx, &parentID, "SELECT parents_id FROM student_parents WHERE id = $1", linkageID); err != nil {
		return fmt.Errorf("find linkage %d: %w", linkageID, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM student_parents WHERE id = $1", linkageID); err != nil {
		return fmt.Errorf("delete linkage: %w", err)
	}

	var remaining int
	if err = tx.GetContext(ctx, &remaining, "SELECT COUNT(*) FROM student_parents WHERE parents_id = $1", parentID); err != nil {
		return fmt.Errorf("count linkages: %w", err)
	}
	if remaining == 0 {
		if _, err = tx.ExecContext(ctx, "DELETE FROM parents WHERE id = $1", parentID); err != nil {
			return fmt.Errorf("delete parent: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit linkage removal: %w", err)
	}
	return nil
}
