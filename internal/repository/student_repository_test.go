package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
)

func TestCreateStudentTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	strand := "STEM"
	grade := "Grade 13"
	createdBy := int64(4)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO personal_information").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery("SELECT id FROM strands WHERE strand_name = \\$1").
		WithArgs(strand).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	// unknown grade level resolves to NULL, not an error
	mock.ExpectQuery("SELECT id FROM grade_levels WHERE level = \\$1").
		WithArgs(grade).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO students").
		WithArgs(int64(21), int64(2), nil, string(models.TypeNew), createdBy).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec("INSERT INTO documents").
		WithArgs(int64(9), string(models.DocPSABirth), "uploads/psa_ab12cd34.pdf", createdBy, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), CreateStudentParams{
		Person:         models.PersonFields{FirstName: "Juan", LastName: "Dela Cruz"},
		StrandName:     &strand,
		GradeLevelName: &grade,
		StudentType:    models.TypeNew,
		CreatedBy:      &createdBy,
		Documents: []DocumentParams{
			{DocType: models.DocPSABirth, FilePath: "uploads/psa_ab12cd34.pdf"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	strand := "STEM"
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO personal_information").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery("SELECT id FROM strands WHERE strand_name = \\$1").
		WithArgs(strand).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), CreateStudentParams{
		Person:      models.PersonFields{FirstName: "Juan", LastName: "Dela Cruz"},
		StrandName:  &strand,
		StudentType: models.TypeNew,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStudentJoined(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	status := models.StudentEnrolled

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE personal_information pi SET").
		WithArgs(int64(9), nil, nil, nil, strPtr("new@example.com"), nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE students SET status = COALESCE").
		WithArgs(int64(9), string(status)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 9, StudentUpdate{
		Email:  strPtr("new@example.com"),
		Status: &status,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStudentMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE personal_information pi SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), 404, StudentUpdate{FirstName: strPtr("Ana")})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudentsNormalizesSort(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "personal_info_id", "first_name", "middle_name", "last_name", "suffix", "sex",
		"nationality", "place_of_birth", "email", "phone_number", "date_of_birth", "address",
		"strand", "grade_level", "student_type", "status", "registered_at", "created_by_name"}).
		AddRow(9, 21, "Juan", nil, "Dela Cruz", nil, nil, nil, nil, nil, nil, nil, nil,
			"STEM", "11", string(models.TypeNew), string(models.StudentPending), now, nil)
	mock.ExpectQuery(`(?s)SELECT .* FROM students s.*ORDER BY s\.id DESC LIMIT 20 OFFSET 0`).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students s").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{SortOrder: "sideways"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.StudentPending, students[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"total", "enrolled", "pending", "cancelled"}).AddRow(10, 6, 3, 1)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, counts.Total)
	assert.Equal(t, 3, counts.Pending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
