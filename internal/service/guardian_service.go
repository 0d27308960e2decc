package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/repository"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

type parentRepository interface {
	Add(ctx context.Context, params repository.AddGuardianParams) (int64, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.GuardianDetail, error)
	FindParent(ctx context.Context, parentID int64) (*models.GuardianDetail, error)
	Update(ctx context.Context, parentID int64, upd models.GuardianUpdate) error
	RemoveLinkage(ctx context.Context, linkageID int64) error
}

// AddGuardianRequest is the payload for attaching a guardian to a student.
type AddGuardianRequest struct {
	Person       models.PersonFields `json:"person" validate:"required"`
	Relationship models.Relationship `json:"relationship" validate:"required,oneof=father mother guardian"`
	Occupation   *string             `json:"occupation"`
	IsPrimary    bool                `json:"is_primary"`
}

// GuardianService provides guardian linkage use cases.
type GuardianService struct {
	repo         parentRepository
	audit        auditWriter
	validator    *validator.Validate
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewGuardianService constructs a GuardianService instance.
func NewGuardianService(repo parentRepository, audit auditWriter, validate *validator.Validate, logger *zap.Logger, queryTimeout time.Duration) *GuardianService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &GuardianService{repo: repo, audit: audit, validator: validate, logger: logger, queryTimeout: queryTimeout}
}

// Add attaches a new guardian to a student, creating the person and parent
// rows in the same transaction as the linkage.
func (s *GuardianService) Add(ctx context.Context, actorID, studentID int64, req AddGuardianRequest) (*models.GuardianDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian payload")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	parentID, err := s.repo.Add(ctx, repository.AddGuardianParams{
		StudentID:    studentID,
		Person:       req.Person,
		Relationship: req.Relationship,
		Occupation:   req.Occupation,
		IsPrimary:    req.IsPrimary,
	})
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to add guardian")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionGuardianAdd,
		ObjectID: &parentID,
	}); err != nil {
		s.logger.Warn("failed to record guardian audit log", zap.Error(err))
	}

	detail, err := s.repo.FindParent(ctx, parentID)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to load guardian")
	}
	return detail, nil
}

// Get returns a single guardian by parent identifier.
func (s *GuardianService) Get(ctx context.Context, parentID int64) (*models.GuardianDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	detail, err := s.repo.FindParent(ctx, parentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guardian not found")
		}
		return nil, appErrors.FromDBError(err, "failed to load guardian")
	}
	return detail, nil
}

// ListByStudent returns the guardians attached to a student.
func (s *GuardianService) ListByStudent(ctx context.Context, studentID int64) ([]models.GuardianDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	guardians, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to list guardians")
	}
	return guardians, nil
}

// Update applies a joined partial update to a guardian and their person record.
func (s *GuardianService) Update(ctx context.Context, actorID, parentID int64, req models.GuardianUpdate) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian update")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Update(ctx, parentID, req); err != nil {
		return appErrors.FromDBError(err, "failed to update guardian")
	}
	return nil
}

// Remove detaches a guardian from a student. The guardian record itself is
// deleted once its last linkage is removed; the person record survives.
func (s *GuardianService) Remove(ctx context.Context, actorID, linkageID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.RemoveLinkage(ctx, linkageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "guardian linkage not found")
		}
		return appErrors.FromDBError(err, "failed to remove guardian")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionGuardianDrop,
		ObjectID: &linkageID,
	}); err != nil {
		s.logger.Warn("failed to record guardian audit log", zap.Error(err))
	}
	return nil
}
