package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

type lookupRepository interface {
	Strands(ctx context.Context) ([]models.Strand, error)
	GradeLevels(ctx context.Context) ([]models.GradeLevel, error)
	Departments(ctx context.Context) ([]models.Department, error)
}

// LookupService serves the reference tables used by registration forms.
type LookupService struct {
	repo         lookupRepository
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewLookupService constructs a LookupService instance.
func NewLookupService(repo lookupRepository, logger *zap.Logger, queryTimeout time.Duration) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &LookupService{repo: repo, logger: logger, queryTimeout: queryTimeout}
}

// Strands lists all academic strands.
func (s *LookupService) Strands(ctx context.Context) ([]models.Strand, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	strands, err := s.repo.Strands(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to list strands")
	}
	return strands, nil
}

// GradeLevels lists all grade levels.
func (s *LookupService) GradeLevels(ctx context.Context) ([]models.GradeLevel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	levels, err := s.repo.GradeLevels(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to list grade levels")
	}
	return levels, nil
}

// Departments lists all departments.
func (s *LookupService) Departments(ctx context.Context) ([]models.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	departments, err := s.repo.Departments(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to list departments")
	}
	return departments, nil
}
