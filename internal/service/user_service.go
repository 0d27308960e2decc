package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User, person *models.PersonFields) (int64, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error)
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error
	UpdateProfile(ctx context.Context, id int64, role *models.UserRole, departmentID, personalInfoID *int64) error
	Counts(ctx context.Context) (*models.StaffCounts, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateUserRequest is the payload for registering a staff account.
type CreateUserRequest struct {
	Username     string               `json:"username" validate:"required,min=3,max=50"`
	Password     string               `json:"password" validate:"required,min=8"`
	Role         models.UserRole      `json:"role" validate:"required,oneof=admin staff"`
	DepartmentID *int64               `json:"department_id"`
	Person       *models.PersonFields `json:"person"`
}

// UpdateUserRequest carries a partial account update.
type UpdateUserRequest struct {
	Role         *models.UserRole `json:"role" validate:"omitempty,oneof=admin staff"`
	DepartmentID *int64           `json:"department_id"`
}

// UserService provides account management use cases.
type UserService struct {
	repo         userRepository
	validator    *validator.Validate
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger, queryTimeout time.Duration) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &UserService{repo: repo, validator: validate, logger: logger, queryTimeout: queryTimeout}
}

// Create registers a new staff account. The username must be unused; a taken
// one surfaces as a duplicate-key error whether caught by the pre-check or by
// the unique constraint.
func (s *UserService) Create(ctx context.Context, actorID int64, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	taken, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to check username")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if req.Person != nil {
		if err := s.validator.Struct(req.Person); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
		}
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       models.StatusActive,
		DepartmentID: req.DepartmentID,
	}
	id, err := s.repo.Create(ctx, user, req.Person)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to create account")
	}
	user.ID = id

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionUserCreate,
		ObjectID: &id,
	}); err != nil {
		s.logger.Warn("failed to record account audit log", zap.Error(err))
	}

	s.logger.Info("account created", zap.Int64("user_id", id), zap.String("role", string(user.Role)))
	return user, nil
}

// Get returns a single account by identifier.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.FromDBError(err, "failed to fetch account")
	}
	return user, nil
}

// List returns accounts matching the filter with pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, *models.Pagination, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromDBError(err, "failed to list accounts")
	}
	return users, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// SetStatus activates or deactivates an account.
func (s *UserService) SetStatus(ctx context.Context, actorID, id int64, status models.UserStatus) error {
	if status != models.StatusActive && status != models.StatusInactive {
		return appErrors.Clone(appErrors.ErrValidation, "status must be active or inactive")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.FromDBError(err, "failed to update account status")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionUserStatus,
		ObjectID: &id,
	}); err != nil {
		s.logger.Warn("failed to record status audit log", zap.Error(err))
	}
	return nil
}

// Update applies a partial account profile change.
func (s *UserService) Update(ctx context.Context, actorID, id int64, req UpdateUserRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account update")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.UpdateProfile(ctx, id, req.Role, req.DepartmentID, nil); err != nil {
		return appErrors.FromDBError(err, "failed to update account")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionUserUpdate,
		ObjectID: &id,
	}); err != nil {
		s.logger.Warn("failed to record account audit log", zap.Error(err))
	}
	return nil
}

// Counts returns staff headcount aggregates.
func (s *UserService) Counts(ctx context.Context) (*models.StaffCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to count staff")
	}
	return counts, nil
}
