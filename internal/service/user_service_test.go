package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

type mockUserRepo struct {
	existing      map[string]bool
	created       *models.User
	createdPerson *models.PersonFields
	createErr     error
	users         []models.UserDetail
	statusSet     *models.UserStatus
	auditLogs     []*models.AuditLog
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.created != nil && m.created.ID == id {
		return m.created, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.existing[username], nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User, person *models.PersonFields) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if person != nil {
		personID := int64(21)
		user.PersonalInfoID = &personID
		m.createdPerson = person
	}
	m.created = user
	return 11, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error) {
	return m.users, len(m.users), nil
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	m.statusSet = &status
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, role *models.UserRole, departmentID, personalInfoID *int64) error {
	return nil
}

func (m *mockUserRepo) Counts(ctx context.Context) (*models.StaffCounts, error) {
	return &models.StaffCounts{TotalUsers: len(m.users)}, nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := &mockUserRepo{existing: map[string]bool{}}
	svc := NewUserService(repo, nil, nil, 0)

	user, err := svc.Create(context.Background(), 1, CreateUserRequest{
		Username: "registrar01",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.ID)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestCreateUserRejectsTakenUsername(t *testing.T) {
	repo := &mockUserRepo{existing: map[string]bool{"registrar01": true}}
	svc := NewUserService(repo, nil, nil, 0)

	_, err := svc.Create(context.Background(), 1, CreateUserRequest{
		Username: "registrar01",
		Password: "s3cret-pass",
		Role:     models.RoleStaff,
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrDuplicateKey))
	assert.Nil(t, repo.created)
}

func TestCreateUserLinksPersonRecord(t *testing.T) {
	repo := &mockUserRepo{existing: map[string]bool{}}
	svc := NewUserService(repo, nil, nil, 0)

	user, err := svc.Create(context.Background(), 1, CreateUserRequest{
		Username: "registrar01",
		Password: "s3cret-pass",
		Role:     models.RoleAdmin,
		Person:   &models.PersonFields{FirstName: "Bea", LastName: "Garcia"},
	})
	require.NoError(t, err)
	require.NotNil(t, user.PersonalInfoID)
	assert.Equal(t, int64(21), *user.PersonalInfoID)
	require.NotNil(t, repo.createdPerson)
	assert.Equal(t, "Bea", repo.createdPerson.FirstName)
}

func TestSetStatusValidatesValue(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, nil, nil, 0)

	err := svc.SetStatus(context.Background(), 1, 11, "suspended")
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrValidation))
	assert.Nil(t, repo.statusSet)

	err = svc.SetStatus(context.Background(), 1, 11, models.StatusInactive)
	require.NoError(t, err)
	require.NotNil(t, repo.statusSet)
	assert.Equal(t, models.StatusInactive, *repo.statusSet)
}
