package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, organization_id, email, password_hash, name, role, is_super_admin, is_active,
		email_verified, last_login, profile_picture, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.OrganizationID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.IsSuperAdmin,
		&u.IsActive,
		&u.EmailVerified,
		&u.LastLogin,
		&u.ProfilePicture,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (organization_id, email, password_hash, name, role, is_super_admin, is_active, email_verified, profile_picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.OrganizationID,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Name,
		newUser.Role,
		newUser.IsSuperAdmin,
		newUser.IsActive,
		newUser.EmailVerified,
		newUser.ProfilePicture,
	))
	if err != nil {
		return user.User{}, mapPostgresError(err)
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	found, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		return user.User{}, notFoundOr(err, user.ErrUserNotFound)
	}
	return found, nil
}

// GetByIDScoped implements user.UserRepository.
func (r *userRepositoryImpl) GetByIDScoped(ctx context.Context, scope tenant.Scope, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{id}
	cond, args := scopeCondition(scope, "organization_id", args)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND ` + cond

	found, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		return user.User{}, notFoundOr(err, user.ErrUserNotFound)
	}
	return found, nil
}

// FindActiveByEmailAndRole implements user.UserRepository. The lookup spans every organization.
func (r *userRepositoryImpl) FindActiveByEmailAndRole(ctx context.Context, email string, role user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND role = $2 AND is_active = TRUE AND is_super_admin = FALSE
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, email, role)
	if err != nil {
		return nil, fmt.Errorf("find users by email and role: %w", err)
	}
	return collectUsers(rows)
}

// GetActiveSuperAdminByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetActiveSuperAdminByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND is_super_admin = TRUE AND is_active = TRUE
		LIMIT 1
	`

	found, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		return user.User{}, notFoundOr(err, user.ErrUserNotFound)
	}
	return found, nil
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, scope tenant.Scope, filter user.ListFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	var args []interface{}
	cond, args := scopeCondition(scope, "organization_id", args)
	where := []string{cond}

	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	params := filter.Params.Normalize()
	args = append(args, params.Limit, params.Offset())
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountMembers implements user.UserRepository.
func (r *userRepositoryImpl) CountMembers(ctx context.Context, organizationID string) (user.MemberCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE role = 'employee'),
			COUNT(*) FILTER (WHERE role = 'admin' AND is_active),
			COUNT(*) FILTER (WHERE role = 'employee' AND is_active)
		FROM users
		WHERE organization_id = $1 AND is_super_admin = FALSE
	`

	var counts user.MemberCounts
	err := q.QueryRow(ctx, query, organizationID).Scan(&counts.Admins, &counts.Employees, &counts.ActiveAdmins, &counts.ActiveEmployees)
	if err != nil {
		return user.MemberCounts{}, fmt.Errorf("count members of organization %s: %w", organizationID, err)
	}
	return counts, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	tag, err := q.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return notFoundOr(err, user.ErrUserNotFound)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateStatus implements user.UserRepository.
func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, scope tenant.Scope, id string, isActive bool) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{isActive, id}
	cond, args := scopeCondition(scope, "organization_id", args)
	query := `
		UPDATE users
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2 AND ` + cond + `
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		return user.User{}, notFoundOr(err, user.ErrUserNotFound)
	}
	return updated, nil
}

// UpdateLastLogin implements user.UserRepository.
func (r *userRepositoryImpl) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("update last login for user %s: %w", id, err)
	}
	return nil
}
