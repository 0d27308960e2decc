package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

type mockAuthRepo struct {
	user              *models.User
	findErr           error
	updatePasswordErr error
	auditLogs         []*models.AuditLog
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	if m.user != nil && m.user.ID == id {
		m.user.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "registrar-api",
	})
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{user: &models.User{
		ID:           1,
		Username:     "registrar01",
		PasswordHash: hashOf(t, "s3cret-pass"),
		Role:         models.RoleStaff,
		Status:       models.StatusActive,
	}}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar01", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "registrar01", resp.User.Username)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

// Unknown usernames, wrong passwords and inactive accounts must all produce
// the same error so responses do not reveal which check failed.
func TestLoginFailureShapeIsUniform(t *testing.T) {
	cases := map[string]*mockAuthRepo{
		"unknown username": {findErr: sql.ErrNoRows},
		"wrong password": {user: &models.User{
			ID:           1,
			Username:     "registrar01",
			PasswordHash: hashOf(t, "other-pass"),
			Status:       models.StatusActive,
		}},
		"inactive account": {user: &models.User{
			ID:           1,
			Username:     "registrar01",
			PasswordHash: hashOf(t, "s3cret-pass"),
			Status:       models.StatusInactive,
		}},
	}

	for name, repo := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newAuthService(repo)
			_, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar01", Password: "s3cret-pass"})
			require.Error(t, err)
			assert.True(t, appErrors.IsKind(err, appErrors.ErrInvalidCredentials))

			appErr := appErrors.FromError(err)
			assert.Equal(t, "invalid username or password", appErr.Message)
		})
	}
}

func TestLoginRejectsEmptyPayload(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})
	_, err := svc.Login(context.Background(), models.LoginRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrValidation))
}

func TestChangePasswordVerifiesOldCredential(t *testing.T) {
	repo := &mockAuthRepo{user: &models.User{
		ID:           1,
		Username:     "registrar01",
		PasswordHash: hashOf(t, "old-pass-123"),
		Status:       models.StatusActive,
	}}
	svc := newAuthService(repo)

	err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{
		OldPassword: "wrong-pass-1",
		NewPassword: "new-pass-456",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrInvalidCredentials))

	err = svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{
		OldPassword: "old-pass-123",
		NewPassword: "new-pass-456",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.user.PasswordHash), []byte("new-pass-456")))
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := &mockAuthRepo{user: &models.User{
		ID:           1,
		Username:     "registrar01",
		PasswordHash: hashOf(t, "s3cret-pass"),
		Status:       models.StatusActive,
	}}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "registrar01", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrUnauthorized))
}
