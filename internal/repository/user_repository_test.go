package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

func TestFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "personal_info_id", "department_id", "username", "password_hash", "role", "status", "created_at"}).
		AddRow(1, nil, nil, "registrar01", "hash", string(models.RoleStaff), string(models.StatusActive), now)
	mock.ExpectQuery("SELECT .* FROM users WHERE username = \\$1 LIMIT 1").
		WithArgs("registrar01").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "registrar01")
	require.NoError(t, err)
	assert.Equal(t, "registrar01", user.Username)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsernameMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .* FROM users WHERE username = \\$1 LIMIT 1").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserReturnsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("registrar01", "hash", string(models.RoleStaff), string(models.StatusActive), nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), &models.User{
		Username:     "registrar01",
		PasswordHash: "hash",
		Role:         models.RoleStaff,
		Status:       models.StatusActive,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserWithPersonSharesTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO personal_information").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("registrar01", "hash", string(models.RoleStaff), string(models.StatusActive), int64(21), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	user := &models.User{
		Username:     "registrar01",
		PasswordHash: "hash",
		Role:         models.RoleStaff,
		Status:       models.StatusActive,
	}
	id, err := repo.Create(context.Background(), user, &models.PersonFields{FirstName: "Bea", LastName: "Garcia"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	require.NotNil(t, user.PersonalInfoID)
	assert.Equal(t, int64(21), *user.PersonalInfoID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserRollsBackPersonOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO personal_information").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &models.User{Username: "registrar01"},
		&models.PersonFields{FirstName: "Bea", LastName: "Garcia"})
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(appErrors.FromDBError(err, "create account"), appErrors.ErrDuplicateKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateClassification(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &models.User{Username: "registrar01"}, nil)
	require.Error(t, err)

	classified := appErrors.FromDBError(err, "create account")
	assert.True(t, appErrors.IsKind(classified, appErrors.ErrDuplicateKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersAppliesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	role := models.RoleStaff
	rows := sqlmock.NewRows([]string{"id", "personal_info_id", "department_id", "username", "password_hash", "role", "status", "created_at",
		"first_name", "middle_name", "last_name", "email", "department_name"}).
		AddRow(1, nil, nil, "registrar01", "hash", string(role), string(models.StatusActive), now, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`(?s)SELECT u\.id, .*FROM users u`).
		WithArgs(string(role)).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users u").
		WithArgs(string(role)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserStatusMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET status").
		WithArgs(int64(42), string(models.StatusInactive)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 42, models.StatusInactive)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"total_users", "total_staff", "active_staff", "inactive_staff"}).
		AddRow(6, 5, 4, 1)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, counts.TotalUsers)
	assert.Equal(t, 5, counts.TotalStaff)
	assert.Equal(t, 4, counts.ActiveStaff)
	assert.Equal(t, 1, counts.InactiveStaff)
	assert.NoError(t, mock.ExpectationsWereMet())
}
