package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bgarcia-dev/shs-registrar-api/internal/dto"
	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:overview"

type dashboardStudentCounter interface {
	Counts(ctx context.Context) (*models.StudentStatusCounts, error)
}

type dashboardStaffCounter interface {
	Counts(ctx context.Context) (*models.StaffCounts, error)
}

type dashboardStrandCounter interface {
	CountByStrand(ctx context.Context) ([]dto.StrandCount, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DashboardService aggregates headline counts for the registrar landing page.
// Results are cached briefly so the landing page does not hammer the database.
type DashboardService struct {
	students dashboardStudentCounter
	staff    dashboardStaffCounter
	strands  dashboardStrandCounter
	cache    dashboardCache
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(students dashboardStudentCounter, staff dashboardStaffCounter, strands dashboardStrandCounter, cache dashboardCache, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{students: students, staff: staff, strands: strands, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

// Overview returns the aggregated dashboard payload, from cache when fresh.
func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.cache != nil {
		var cached dto.DashboardResponse
		err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	studentCounts, err := s.students.Counts(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to count students")
	}
	staffCounts, err := s.staff.Counts(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to count staff")
	}
	strandCounts, err := s.strands.CountByStrand(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to count by strand")
	}

	resp := &dto.DashboardResponse{
		Students: dto.StudentsSection{
			Total:     studentCounts.Total,
			Enrolled:  studentCounts.Enrolled,
			Pending:   studentCounts.Pending,
			Cancelled: studentCounts.Cancelled,
		},
		Staff: dto.StaffSection{
			Total:    staffCounts.TotalStaff,
			Active:   staffCounts.ActiveStaff,
			Inactive: staffCounts.InactiveStaff,
		},
		ByStrand: strandCounts,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, resp, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// Invalidate drops the cached overview, typically after a write that changes
// the counts.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
