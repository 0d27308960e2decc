package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/service"
)

type fakeAuthRepo struct {
	user *models.User
}

func (f *fakeAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.user == nil || f.user.Username != username {
		return nil, sql.ErrNoRows
	}
	return f.user, nil
}

func (f *fakeAuthRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return f.user, nil
}

func (f *fakeAuthRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (f *fakeAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return nil
}

func newTestAuthHandler(t *testing.T, user *models.User) *AuthHandler {
	t.Helper()
	svc := service.NewAuthService(&fakeAuthRepo{user: user}, nil, nil, service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "registrar-api",
	})
	return NewAuthHandler(svc)
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           1,
		Username:     "registrar01",
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
		Status:       models.StatusActive,
	}
}

func TestLoginEndpointSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestAuthHandler(t, activeUser(t, "s3cret-pass"))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"registrar01","password":"s3cret-pass"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestLoginEndpointUniformFailureBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	payloads := map[string]string{
		"unknown username": `{"username":"nobody","password":"s3cret-pass"}`,
		"wrong password":   `{"username":"registrar01","password":"wrong-pass-1"}`,
	}

	var bodies []string
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			handler := newTestAuthHandler(t, activeUser(t, "s3cret-pass"))

			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(payload))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.Login(c)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			bodies = append(bodies, rec.Body.String())
		})
	}

	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
}

func TestMeRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestAuthHandler(t, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
