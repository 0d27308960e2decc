package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgarcia-dev/shs-registrar-api/internal/dto"
	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
)

type mockStudentCounter struct {
	calls int
}

func (m *mockStudentCounter) Counts(ctx context.Context) (*models.StudentStatusCounts, error) {
	m.calls++
	return &models.StudentStatusCounts{Total: 10, Enrolled: 6, Pending: 3, Cancelled: 1}, nil
}

type mockStaffCounter struct{}

func (m *mockStaffCounter) Counts(ctx context.Context) (*models.StaffCounts, error) {
	return &models.StaffCounts{TotalUsers: 6, TotalStaff: 5, ActiveStaff: 4, InactiveStaff: 1}, nil
}

type mockStrandCounter struct{}

func (m *mockStrandCounter) CountByStrand(ctx context.Context) ([]dto.StrandCount, error) {
	return []dto.StrandCount{{Strand: "STEM", Count: 6}}, nil
}

type mapCache struct {
	values map[string][]byte
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.values == nil {
		c.values = make(map[string][]byte)
	}
	c.values[key] = raw
	return nil
}

func (c *mapCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.values = nil
	return nil
}

func TestOverviewAggregatesCounts(t *testing.T) {
	students := &mockStudentCounter{}
	svc := NewDashboardService(students, &mockStaffCounter{}, &mockStrandCounter{}, &mapCache{}, nil, nil, 0)

	resp, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Students.Total)
	assert.Equal(t, 3, resp.Students.Pending)
	assert.Equal(t, 5, resp.Staff.Total)
	assert.Equal(t, 4, resp.Staff.Active)
	assert.Equal(t, 1, resp.Staff.Inactive)
	require.Len(t, resp.ByStrand, 1)
	assert.Equal(t, "STEM", resp.ByStrand[0].Strand)
}

func TestOverviewServesFromCache(t *testing.T) {
	students := &mockStudentCounter{}
	cache := &mapCache{}
	svc := NewDashboardService(students, &mockStaffCounter{}, &mockStrandCounter{}, cache, nil, nil, time.Minute)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	_, err = svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, students.calls)
}

func TestOverviewRecordsCacheMetrics(t *testing.T) {
	students := &mockStudentCounter{}
	metrics := NewMetricsService()
	svc := NewDashboardService(students, &mockStaffCounter{}, &mockStrandCounter{}, &mapCache{}, metrics, nil, time.Minute)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))

	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
}

func TestInvalidateDropsCache(t *testing.T) {
	students := &mockStudentCounter{}
	cache := &mapCache{}
	svc := NewDashboardService(students, &mockStaffCounter{}, &mockStrandCounter{}, cache, nil, nil, time.Minute)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, students.calls)
}
