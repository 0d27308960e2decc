package models

import "time"

// Strand is a static academic-track lookup entry (STEM, HUMSS, ...).
type Strand struct {
	ID         int64     `db:"id" json:"id"`
	StrandName string    `db:"strand_name" json:"strand_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// GradeLevel is a static year-level lookup entry ('11', '12').
type GradeLevel struct {
	ID        int64     `db:"id" json:"id"`
	Level     string    `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Department groups staff accounts.
type Department struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
