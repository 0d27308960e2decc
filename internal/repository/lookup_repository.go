package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
)

// LookupRepository serves the small reference tables used by forms.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository constructs a LookupRepository.
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// Strands lists all academic strands.
func (r *LookupRepository) Strands(ctx context.Context) ([]models.Strand, error) {
	const query = `SELECT id, strand_name, created_at FROM strands ORDER BY strand_name`
	var strands []models.Strand
	if err := r.db.SelectContext(ctx, &strands, query); err != nil {
		return nil, fmt.Errorf("list strands: %w", err)
	}
	return strands, nil
}

// GradeLevels lists all grade levels.
func (r *LookupRepository) GradeLevels(ctx context.Context) ([]models.GradeLevel, error) {
	const query = `SELECT id, level, created_at FROM grade_levels ORDER BY level`
	var levels []models.GradeLevel
	if err := r.db.SelectContext(ctx, &levels, query); err != nil {
		return nil, fmt.Errorf("list grade levels: %w", err)
	}
	return levels, nil
}

// Departments lists all departments.
func (r *LookupRepository) Departments(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name, description, created_at FROM departments ORDER BY name`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}
