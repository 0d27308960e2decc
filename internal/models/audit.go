package models

import "time"

// Audit actions recorded by the services.
const (
	AuditActionLogin          = "auth.login"
	AuditActionPasswordChange = "auth.password_change"
	AuditActionUserCreate     = "users.create"
	AuditActionUserUpdate     = "users.update"
	AuditActionUserStatus     = "users.status"
	AuditActionStudentCreate  = "students.create"
	AuditActionStudentUpdate  = "students.update"
	AuditActionStudentDelete  = "students.delete"
	AuditActionGuardianAdd    = "guardians.add"
	AuditActionGuardianDrop   = "guardians.remove"
)

// AuditLog records who did what to which object.
type AuditLog struct {
	ID         int64     `db:"id" json:"id"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	ObjectType *string   `db:"object_type" json:"object_type,omitempty"`
	ObjectID   *int64    `db:"object_id" json:"object_id,omitempty"`
	Details    *string   `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
