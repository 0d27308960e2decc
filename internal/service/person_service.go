package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

type personRepository interface {
	Create(ctx context.Context, fields models.PersonFields) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Person, error)
	Update(ctx context.Context, id int64, upd models.PersonUpdate) error
}

// PersonService provides use cases for shared biographical records.
type PersonService struct {
	repo         personRepository
	validator    *validator.Validate
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewPersonService constructs a PersonService instance.
func NewPersonService(repo personRepository, validate *validator.Validate, logger *zap.Logger, queryTimeout time.Duration) *PersonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &PersonService{repo: repo, validator: validate, logger: logger, queryTimeout: queryTimeout}
}

// Create stores a standalone person record and returns its identifier.
func (s *PersonService) Create(ctx context.Context, fields models.PersonFields) (int64, error) {
	if err := s.validator.Struct(fields); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	id, err := s.repo.Create(ctx, fields)
	if err != nil {
		return 0, appErrors.FromDBError(err, "failed to create person record")
	}
	return id, nil
}

// Get returns a person record by identifier.
func (s *PersonService) Get(ctx context.Context, id int64) (*models.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.FromDBError(err, "failed to fetch person")
	}
	return person, nil
}

// Update applies a partial change; absent fields keep their stored values.
func (s *PersonService) Update(ctx context.Context, id int64, upd models.PersonUpdate) error {
	if err := s.validator.Struct(upd); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person update")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Update(ctx, id, upd); err != nil {
		return appErrors.FromDBError(err, "failed to update person")
	}
	return nil
}
