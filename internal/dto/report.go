package dto

import "time"

// StudentReportRow is one line of the registrar's master list export.
type StudentReportRow struct {
	StudentID    int64      `db:"student_id" json:"studentId"`
	FirstName    string     `db:"first_name" json:"firstName"`
	MiddleName   *string    `db:"middle_name" json:"middleName,omitempty"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        *string    `db:"email" json:"email,omitempty"`
	PhoneNumber  *string    `db:"phone_number" json:"phoneNumber,omitempty"`
	Strand       *string    `db:"strand" json:"strand,omitempty"`
	GradeLevel   *string    `db:"grade_level" json:"gradeLevel,omitempty"`
	StudentType  string     `db:"student_type" json:"studentType"`
	Status       string     `db:"status" json:"status"`
	RegisteredAt *time.Time `db:"registered_at" json:"registeredAt,omitempty"`
}

// StrandEnrollmentRow aggregates enrollment per strand.
type StrandEnrollmentRow struct {
	Strand    string `db:"strand" json:"strand"`
	Enrolled  int    `db:"enrolled" json:"enrolled"`
	Pending   int    `db:"pending" json:"pending"`
	Cancelled int    `db:"cancelled" json:"cancelled"`
	Total     int    `db:"total" json:"total"`
}

// RegistrationTrendRow counts registrations per calendar day.
type RegistrationTrendRow struct {
	Day   time.Time `db:"day" json:"day"`
	Count int       `db:"count" json:"count"`
}

// StaffReportRow is one line of the staff directory export.
type StaffReportRow struct {
	UserID     int64   `db:"user_id" json:"userId"`
	Username   string  `db:"username" json:"username"`
	Role       string  `db:"role" json:"role"`
	Status     string  `db:"status" json:"status"`
	FirstName  *string `db:"first_name" json:"firstName,omitempty"`
	LastName   *string `db:"last_name" json:"lastName,omitempty"`
	Department *string `db:"department" json:"department,omitempty"`
}
