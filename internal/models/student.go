package models

import "time"

// StudentType tags how a student entered the school system.
type StudentType string

const (
	TypeNew        StudentType = "new"
	TypeReturnee   StudentType = "returnee"
	TypeALS        StudentType = "als"
	TypePEPT       StudentType = "pept"
	TypeTransferee StudentType = "transferee"
)

// StudentStatus represents the enrollment state.
type StudentStatus string

const (
	StudentPending   StudentStatus = "pending"
	StudentEnrolled  StudentStatus = "enrolled"
	StudentCancelled StudentStatus = "cancelled"
)

// Student represents an enrollment record bound to a person.
type Student struct {
	ID             int64         `db:"id" json:"id"`
	PersonalInfoID int64         `db:"personal_info_id" json:"personal_info_id"`
	StrandID       *int64        `db:"strand_id" json:"strand_id,omitempty"`
	GradeLevelID   *int64        `db:"grade_level_id" json:"grade_level_id,omitempty"`
	StudentType    StudentType   `db:"student_type" json:"student_type"`
	Status         StudentStatus `db:"status" json:"status"`
	CreatedBy      *int64        `db:"created_by" json:"created_by,omitempty"`
	RegisteredAt   time.Time     `db:"registered_at" json:"registered_at"`
}

// StudentDetail is the joined projection returned by list and get operations.
type StudentDetail struct {
	ID              int64         `db:"id" json:"id"`
	PersonalInfoID  int64         `db:"personal_info_id" json:"personal_info_id"`
	FirstName       string        `db:"first_name" json:"first_name"`
	MiddleName      *string       `db:"middle_name" json:"middle_name,omitempty"`
	LastName        string        `db:"last_name" json:"last_name"`
	Suffix          *string       `db:"suffix" json:"suffix,omitempty"`
	Sex             *string       `db:"sex" json:"sex,omitempty"`
	Nationality     *string       `db:"nationality" json:"nationality,omitempty"`
	PlaceOfBirth    *string       `db:"place_of_birth" json:"place_of_birth,omitempty"`
	Email           *string       `db:"email" json:"email,omitempty"`
	PhoneNumber     *string       `db:"phone_number" json:"phone_number,omitempty"`
	DateOfBirth     *time.Time    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address         *string       `db:"address" json:"address,omitempty"`
	Strand          *string       `db:"strand" json:"strand,omitempty"`
	GradeLevel      *string       `db:"grade_level" json:"grade_level,omitempty"`
	StudentType     StudentType   `db:"student_type" json:"student_type"`
	Status          StudentStatus `db:"status" json:"status"`
	RegisteredAt    time.Time     `db:"registered_at" json:"registered_at"`
	CreatedByName   *string       `db:"created_by_name" json:"created_by_name,omitempty"`
}

// StudentFilter captures list parameters. Sort order is normalized to a default
// when invalid rather than rejected.
type StudentFilter struct {
	Status    *StudentStatus
	Search    string
	Page      int
	PageSize  int
	SortOrder string
}

// StudentStatusCounts aggregates enrollment statistics for the dashboard.
type StudentStatusCounts struct {
	Total     int `db:"total" json:"total"`
	Enrolled  int `db:"enrolled" json:"enrolled"`
	Pending   int `db:"pending" json:"pending"`
	Cancelled int `db:"cancelled" json:"cancelled"`
}
