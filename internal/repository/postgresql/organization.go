package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const organizationColumns = `id, name, email, phone, address, COALESCE(industry, ''), logo, website, tax_id,
		registered_date, subscription_plan, is_active, employee_limit, settings, admin_id, created_at, updated_at`

type organizationRepositoryImpl struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) organization.OrganizationRepository {
	return &organizationRepositoryImpl{db: db}
}

func scanOrganization(row pgx.Row) (organization.Organization, error) {
	var o organization.Organization
	err := row.Scan(
		&o.ID,
		&o.Name,
		&o.Email,
		&o.Phone,
		&o.Address,
		&o.Industry,
		&o.Logo,
		&o.Website,
		&o.TaxID,
		&o.RegisteredDate,
		&o.SubscriptionPlan,
		&o.IsActive,
		&o.EmployeeLimit,
		&o.Settings,
		&o.AdminID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// GetByID implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`

	found, err := scanOrganization(q.QueryRow(ctx, query, id))
	if err != nil {
		return organization.Organization{}, notFoundOr(err, organization.ErrOrganizationNotFound)
	}
	return found, nil
}

// GetByEmail implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) GetByEmail(ctx context.Context, email string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE email = $1`

	found, err := scanOrganization(q.QueryRow(ctx, query, email))
	if err != nil {
		return organization.Organization{}, notFoundOr(err, organization.ErrOrganizationNotFound)
	}
	return found, nil
}

// LockByID implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) LockByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1 FOR UPDATE`

	found, err := scanOrganization(q.QueryRow(ctx, query, id))
	if err != nil {
		return organization.Organization{}, notFoundOr(err, organization.ErrOrganizationNotFound)
	}
	return found, nil
}

// List implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) List(ctx context.Context, scope tenant.Scope, filter organization.ListFilter) ([]organization.Organization, int64, error) {
	q := GetQuerier(ctx, r.db)

	var args []interface{}
	cond, args := scopeCondition(scope, "id", args)
	where := []string{cond}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR industry ILIKE $%d)", n, n, n))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM organizations WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}

	params := filter.Params.Normalize()
	args = append(args, params.Limit, params.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM organizations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, organizationColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	orgs := []organization.Organization{}
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

// Create implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) Create(ctx context.Context, newOrganization organization.Organization) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO organizations (
			name, email, phone, address, industry, logo, website, tax_id,
			subscription_plan, is_active, employee_limit, settings
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + organizationColumns

	created, err := scanOrganization(q.QueryRow(ctx, query,
		newOrganization.Name,
		newOrganization.Email,
		newOrganization.Phone,
		newOrganization.Address,
		newOrganization.Industry,
		newOrganization.Logo,
		newOrganization.Website,
		newOrganization.TaxID,
		newOrganization.SubscriptionPlan,
		newOrganization.IsActive,
		newOrganization.EmployeeLimit,
		newOrganization.Settings,
	))
	if err != nil {
		return organization.Organization{}, mapPostgresError(err)
	}
	return created, nil
}

// Update implements organization.OrganizationRepository. Every mutable column is written from org.
func (r *organizationRepositoryImpl) Update(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE organizations
		SET name = $1, email = $2, phone = $3, address = $4, industry = NULLIF($5, ''), logo = $6,
			website = $7, tax_id = $8, subscription_plan = $9, employee_limit = $10, settings = $11,
			updated_at = NOW()
		WHERE id = $12
		RETURNING ` + organizationColumns

	updated, err := scanOrganization(q.QueryRow(ctx, query,
		org.Name,
		org.Email,
		org.Phone,
		org.Address,
		org.Industry,
		org.Logo,
		org.Website,
		org.TaxID,
		org.SubscriptionPlan,
		org.EmployeeLimit,
		org.Settings,
		org.ID,
	))
	if err != nil {
		return organization.Organization{}, notFoundOr(err, organization.ErrOrganizationNotFound)
	}
	return updated, nil
}

// SetAdmin implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) SetAdmin(ctx context.Context, id string, adminID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE organizations SET admin_id = $1, updated_at = NOW() WHERE id = $2`, adminID, id)
	if err != nil {
		return notFoundOr(err, organization.ErrOrganizationNotFound)
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrOrganizationNotFound
	}
	return nil
}

// UpdateStatus implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) UpdateStatus(ctx context.Context, id string, isActive bool) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE organizations
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + organizationColumns

	updated, err := scanOrganization(q.QueryRow(ctx, query, isActive, id))
	if err != nil {
		return organization.Organization{}, notFoundOr(err, organization.ErrOrganizationNotFound)
	}
	return updated, nil
}
