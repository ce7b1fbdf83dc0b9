package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, organization_id, user_id, employee_id, name, email, phone,
		COALESCE(department, ''), COALESCE(position, ''), join_date, salary, status, address,
		emergency_contact, date_of_birth, hire_date, termination_date, manager_id, profile_picture,
		created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.OrganizationID, &emp.UserID, &emp.EmployeeID, &emp.Name, &emp.Email, &emp.Phone,
		&emp.Department, &emp.Position, &emp.JoinDate, &emp.Salary, &emp.Status, &emp.Address,
		&emp.EmergencyContact, &emp.DateOfBirth, &emp.HireDate, &emp.TerminationDate, &emp.ManagerID,
		&emp.ProfilePicture, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			organization_id, user_id, employee_id, name, email, phone, department, position,
			join_date, salary, status, address, emergency_contact, date_of_birth, hire_date,
			termination_date, manager_id, profile_picture
		) VALUES (
			$1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''),
			$9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.OrganizationID, newEmployee.UserID, newEmployee.EmployeeID, newEmployee.Name,
		newEmployee.Email, newEmployee.Phone, newEmployee.Department, newEmployee.Position,
		newEmployee.JoinDate, newEmployee.Salary, newEmployee.Status, newEmployee.Address,
		newEmployee.EmergencyContact, newEmployee.DateOfBirth, newEmployee.HireDate,
		newEmployee.TerminationDate, newEmployee.ManagerID, newEmployee.ProfilePicture,
	))
	if err != nil {
		return employee.Employee{}, mapPostgresError(err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, scope tenant.Scope, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	args := []interface{}{id}
	cond, args := scopeCondition(scope, "organization_id", args)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND ` + cond

	found, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		return employee.Employee{}, notFoundOr(err, employee.ErrEmployeeNotFound)
	}
	return found, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, scope tenant.Scope, filter employee.ListFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	var args []interface{}
	cond, args := scopeCondition(scope, "organization_id", args)
	where := []string{cond}

	if filter.Department != "" {
		args = append(args, filter.Department)
		where = append(where, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR employee_id ILIKE $%d OR position ILIKE $%d)", n, n, n, n))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	params := filter.Params.Normalize()
	args = append(args, params.Limit, params.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// ListByManager implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByManager(ctx context.Context, scope tenant.Scope, managerID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	args := []interface{}{managerID}
	cond, args := scopeCondition(scope, "organization_id", args)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE manager_id = $1 AND ` + cond + ` ORDER BY name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subordinates of %s: %w", managerID, err)
	}
	return collectEmployees(rows)
}

// Update implements employee.EmployeeRepository. Every mutable column is written from emp.
func (e *employeeRepositoryImpl) Update(ctx context.Context, scope tenant.Scope, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	args := []interface{}{
		emp.UserID, emp.Name, emp.Email, emp.Phone, emp.Department, emp.Position, emp.JoinDate,
		emp.Salary, emp.Status, emp.Address, emp.EmergencyContact, emp.DateOfBirth, emp.HireDate,
		emp.TerminationDate, emp.ManagerID, emp.ProfilePicture, emp.ID,
	}
	cond, args := scopeCondition(scope, "organization_id", args)
	query := `
		UPDATE employees
		SET user_id = $1, name = $2, email = $3, phone = $4, department = NULLIF($5, ''),
			position = NULLIF($6, ''), join_date = $7, salary = $8, status = $9, address = $10,
			emergency_contact = $11, date_of_birth = $12, hire_date = $13, termination_date = $14,
			manager_id = $15, profile_picture = $16, updated_at = NOW()
		WHERE id = $17 AND ` + cond + `
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		return employee.Employee{}, notFoundOr(err, employee.ErrEmployeeNotFound)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	q := GetQuerier(ctx, e.db)

	args := []interface{}{id}
	cond, args := scopeCondition(scope, "organization_id", args)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1 AND `+cond, args...)
	if err != nil {
		return notFoundOr(err, employee.ErrEmployeeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CountByOrganization implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	q := GetQuerier(ctx, e.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE organization_id = $1`, organizationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees of organization %s: %w", organizationID, err)
	}
	return count, nil
}

// ExistsByEmployeeID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByEmployeeID(ctx context.Context, organizationID, employeeID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE organization_id = $1 AND employee_id = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, organizationID, employeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, organizationID, email, excludeID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM employees
			WHERE organization_id = $1 AND email = $2 AND ($3 = '' OR id::text <> $3)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, organizationID, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
