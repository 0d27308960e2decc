package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
)

// UserRepository provides database access for account management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, personal_info_id, department_id, username, password_hash, role, status, created_at"

// FindByUsername returns an account by login identifier. The lookup is
// case-sensitive, matching how usernames are stored.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE username = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns an account by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ExistsByUsername reports whether a username is already taken. This is only a
// fast-path hint for friendlier errors; the unique constraint on the column is
// the source of truth under concurrent writers.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const query = "SELECT 1 FROM users WHERE username = $1 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check username: %w", err)
	}
	return true, nil
}

// Create inserts a new account, together with its person record when one is
// supplied, in a single transaction. A failed account insert rolls back the
// person row so no orphan biography is left behind. The created person's
// identifier is written back to user.PersonalInfoID.
func (r *UserRepository) Create(ctx context.Context, user *models.User, person *models.PersonFields) (id int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if person != nil {
		var personID int64
		personID, err = insertPerson(ctx, tx, *person)
		if err != nil {
			return 0, err
		}
		user.PersonalInfoID = &personID
	}

	const query = `INSERT INTO users (username, password_hash, role, status, personal_info_id, department_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err = tx.GetContext(ctx, &id, query,
		user.Username, user.PasswordHash, user.Role, user.Status, user.PersonalInfoID, user.DepartmentID); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit user transaction: %w", err)
	}
	return id, nil
}

// List returns accounts joined with their person and department rows.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error) {
	baseQuery := `FROM users u
		LEFT JOIN personal_information pi ON pi.id = u.personal_info_id
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("u.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.username) LIKE $%d OR LOWER(pi.last_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT u.id, u.personal_info_id, u.department_id, u.username, u.password_hash, u.role, u.status, u.created_at,
		pi.first_name, pi.middle_name, pi.last_name, pi.email, d.name AS department_name
		%s ORDER BY u.created_at %s LIMIT %d OFFSET %d`, baseQuery, sortOrder, pageSize, offset)

	var users []models.UserDetail
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// UpdateStatus flips an account between active and inactive.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	const query = `UPDATE users SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update user status %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// UpdatePassword replaces the stored credential digest.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update password %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// UpdateProfile rewrites only the supplied account fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, role *models.UserRole, departmentID, personalInfoID *int64) error {
	const query = `UPDATE users SET
		role = COALESCE($2, role),
		department_id = COALESCE($3, department_id),
		personal_info_id = COALESCE($4, personal_info_id)
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, role, departmentID, personalInfoID)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update user profile %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Counts aggregates account statistics in one round trip.
func (r *UserRepository) Counts(ctx context.Context) (*models.StaffCounts, error) {
	const query = `SELECT
		COUNT(*) AS total_users,
		COUNT(*) FILTER (WHERE role = 'staff') AS total_staff,
		COUNT(*) FILTER (WHERE role = 'staff' AND status = 'active') AS active_staff,
		COUNT(*) FILTER (WHERE role = 'staff' AND status <> 'active') AS inactive_staff
		FROM users`
	var counts models.StaffCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &counts, nil
}

// CreateAuditLog stores an audit trail entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	const query = `INSERT INTO audit_logs (user_id, action, object_type, object_id, details)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, log.UserID, log.Action, log.ObjectType, log.ObjectID, log.Details); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
