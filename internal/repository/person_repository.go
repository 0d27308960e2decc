package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
)

// PersonRepository manages persistence for shared biographical records.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

const insertPersonQuery = `INSERT INTO personal_information
	(first_name, middle_name, last_name, suffix, sex, nationality, place_of_birth, email, phone_number, date_of_birth, address)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id`

// insertPerson writes a person row on the given executor so compound writes can
// run it inside their own transaction.
func insertPerson(ctx context.Context, q sqlx.ExtContext, f models.PersonFields) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, q, &id, insertPersonQuery,
		f.FirstName, f.MiddleName, f.LastName, f.Suffix, f.Sex,
		f.Nationality, f.PlaceOfBirth, f.Email, f.PhoneNumber, f.DateOfBirth, f.Address)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}
	return id, nil
}

// Create inserts a standalone person record and returns its identifier.
func (r *PersonRepository) Create(ctx context.Context, fields models.PersonFields) (int64, error) {
	return insertPerson(ctx, r.db, fields)
}

// FindByID fetches a person by identifier.
func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*models.Person, error) {
	const query = `SELECT id, first_name, middle_name, last_name, suffix, sex, nationality, place_of_birth,
		email, phone_number, date_of_birth, address, profile_picture_path, created_at
		FROM personal_information WHERE id = $1 LIMIT 1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// Update rewrites only the supplied fields; nil values leave the stored column
// untouched.
func (r *PersonRepository) Update(ctx context.Context, id int64, upd models.PersonUpdate) error {
	const query = `UPDATE personal_information SET
		first_name = COALESCE($2, first_name),
		middle_name = COALESCE($3, middle_name),
		last_name = COALESCE($4, last_name),
		email = COALESCE($5, email),
		phone_number = COALESCE($6, phone_number),
		address = COALESCE($7, address)
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, upd.FirstName, upd.MiddleName, upd.LastName, upd.Email, upd.PhoneNumber, upd.Address)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update person %d: %w", id, sql.ErrNoRows)
	}
	return nil
}
