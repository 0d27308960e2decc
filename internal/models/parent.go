package models

import "time"

// Relationship tags how a parent/guardian relates to a student.
type Relationship string

const (
	RelFather   Relationship = "father"
	RelMother   Relationship = "mother"
	RelGuardian Relationship = "guardian"
)

// Parent represents a guardian record bound to a person. Parents exist only
// while at least one student linkage references them.
type Parent struct {
	ID             int64        `db:"id" json:"id"`
	PersonalInfoID int64        `db:"personal_info_id" json:"personal_info_id"`
	Relationship   Relationship `db:"relationship" json:"relationship"`
	Occupation     *string      `db:"occupation" json:"occupation,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// StudentParent is the join record connecting a student to a parent.
type StudentParent struct {
	ID        int64 `db:"id" json:"id"`
	StudentID int64 `db:"student_id" json:"student_id"`
	ParentsID int64 `db:"parents_id" json:"parents_id"`
	IsPrimary bool  `db:"is_primary" json:"is_primary"`
}

// GuardianDetail is the joined projection of a linkage, parent and person.
type GuardianDetail struct {
	LinkageID    int64        `db:"linkage_id" json:"linkage_id"`
	ParentID     int64        `db:"parent_id" json:"parent_id"`
	Relationship Relationship `db:"relationship" json:"relationship"`
	Occupation   *string      `db:"occupation" json:"occupation,omitempty"`
	IsPrimary    bool         `db:"is_primary" json:"is_primary"`
	FirstName    string       `db:"first_name" json:"first_name"`
	MiddleName   *string      `db:"middle_name" json:"middle_name,omitempty"`
	LastName     string       `db:"last_name" json:"last_name"`
	Email        *string      `db:"email" json:"email,omitempty"`
	PhoneNumber  *string      `db:"phone_number" json:"phone_number,omitempty"`
	Address      *string      `db:"address" json:"address,omitempty"`
}

// GuardianUpdate carries a joined partial update across person and parent rows.
type GuardianUpdate struct {
	FirstName    *string       `json:"first_name"`
	MiddleName   *string       `json:"middle_name"`
	LastName     *string       `json:"last_name"`
	Email        *string       `json:"email" validate:"omitempty,email"`
	PhoneNumber  *string       `json:"phone_number"`
	Address      *string       `json:"address"`
	Relationship *Relationship `json:"relationship" validate:"omitempty,oneof=father mother guardian"`
	Occupation   *string       `json:"occupation"`
}
