package models

import "time"

// Person is the shared biographical record referenced by users, students and
// parents. Only first and last name are required; every other field is optional
// and stored as NULL when absent.
type Person struct {
	ID                 int64      `db:"id" json:"id"`
	FirstName          string     `db:"first_name" json:"first_name"`
	MiddleName         *string    `db:"middle_name" json:"middle_name,omitempty"`
	LastName           string     `db:"last_name" json:"last_name"`
	Suffix             *string    `db:"suffix" json:"suffix,omitempty"`
	Sex                *string    `db:"sex" json:"sex,omitempty"`
	Nationality        *string    `db:"nationality" json:"nationality,omitempty"`
	PlaceOfBirth       *string    `db:"place_of_birth" json:"place_of_birth,omitempty"`
	Email              *string    `db:"email" json:"email,omitempty"`
	PhoneNumber        *string    `db:"phone_number" json:"phone_number,omitempty"`
	DateOfBirth        *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address            *string    `db:"address" json:"address,omitempty"`
	ProfilePicturePath *string    `db:"profile_picture_path" json:"profile_picture_path,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// PersonFields carries the writable attributes for creating a person record.
type PersonFields struct {
	FirstName    string     `json:"first_name" validate:"required"`
	MiddleName   *string    `json:"middle_name"`
	LastName     string     `json:"last_name" validate:"required"`
	Suffix       *string    `json:"suffix"`
	Sex          *string    `json:"sex" validate:"omitempty,oneof=M F Other"`
	Nationality  *string    `json:"nationality"`
	PlaceOfBirth *string    `json:"place_of_birth"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	PhoneNumber  *string    `json:"phone_number"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Address      *string    `json:"address"`
}

// PersonUpdate carries a partial update; nil fields are left untouched.
type PersonUpdate struct {
	FirstName   *string `json:"first_name"`
	MiddleName  *string `json:"middle_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
}
