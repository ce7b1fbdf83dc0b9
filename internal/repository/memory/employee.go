package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/google/uuid"
)

type employeeRepository struct {
	s *Store
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUniqueLocked(newEmployee); err != nil {
		return employee.Employee{}, err
	}
	if newEmployee.ManagerID != nil {
		if m, ok := r.s.employees[*newEmployee.ManagerID]; !ok || m.OrganizationID != newEmployee.OrganizationID {
			return employee.Employee{}, employee.ErrManagerNotFound
		}
	}

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.NewString()
	}
	now := r.s.stamp()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.s.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, scope tenant.Scope, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	emp, ok := r.s.employees[id]
	if !ok || !scope.Allows(emp.OrganizationID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeRepository) List(ctx context.Context, scope tenant.Scope, filter employee.ListFilter) ([]employee.Employee, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matches []employee.Employee
	for _, emp := range r.s.employees {
		if !scope.Allows(emp.OrganizationID) {
			continue
		}
		if filter.Department != "" && emp.Department != filter.Department {
			continue
		}
		if filter.Status != "" && emp.Status != filter.Status {
			continue
		}
		if filter.Search != "" &&
			!containsFold(emp.Name, filter.Search) &&
			!containsFold(emp.Email, filter.Search) &&
			!containsFold(emp.EmployeeID, filter.Search) &&
			!containsFold(emp.Position, filter.Search) {
			continue
		}
		matches = append(matches, emp)
	}

	total := int64(len(matches))
	return page(matches, func(e employee.Employee) time.Time { return e.CreatedAt }, filter.Params), total, nil
}

func (r *employeeRepository) ListByManager(ctx context.Context, scope tenant.Scope, managerID string) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subordinates := []employee.Employee{}
	for _, emp := range r.s.employees {
		if emp.ManagerID != nil && *emp.ManagerID == managerID && scope.Allows(emp.OrganizationID) {
			subordinates = append(subordinates, emp)
		}
	}
	sort.Slice(subordinates, func(i, j int) bool { return subordinates[i].Name < subordinates[j].Name })
	return subordinates, nil
}

func (r *employeeRepository) Update(ctx context.Context, scope tenant.Scope, emp employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.employees[emp.ID]
	if !ok || !scope.Allows(existing.OrganizationID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	emp.OrganizationID = existing.OrganizationID
	emp.EmployeeID = existing.EmployeeID
	if err := r.checkUniqueLocked(emp); err != nil {
		return employee.Employee{}, err
	}
	if emp.ManagerID != nil {
		if m, ok := r.s.employees[*emp.ManagerID]; !ok || m.OrganizationID != emp.OrganizationID {
			return employee.Employee{}, employee.ErrManagerNotFound
		}
	}

	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = r.s.now()
	r.s.employees[emp.ID] = emp
	return emp, nil
}

// Delete detaches subordinates like ON DELETE SET NULL does.
func (r *employeeRepository) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	emp, ok := r.s.employees[id]
	if !ok || !scope.Allows(emp.OrganizationID) {
		return employee.ErrEmployeeNotFound
	}
	delete(r.s.employees, id)

	for subID, sub := range r.s.employees {
		if sub.ManagerID != nil && *sub.ManagerID == id {
			sub.ManagerID = nil
			r.s.employees[subID] = sub
		}
	}
	return nil
}

func (r *employeeRepository) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, emp := range r.s.employees {
		if emp.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

func (r *employeeRepository) ExistsByEmployeeID(ctx context.Context, organizationID, employeeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, emp := range r.s.employees {
		if emp.OrganizationID == organizationID && emp.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, organizationID, email, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, emp := range r.s.employees {
		if emp.OrganizationID == organizationID && emp.Email == email && emp.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *employeeRepository) checkUniqueLocked(candidate employee.Employee) error {
	for _, emp := range r.s.employees {
		if emp.ID == candidate.ID || emp.OrganizationID != candidate.OrganizationID {
			continue
		}
		if emp.EmployeeID == candidate.EmployeeID {
			return employee.ErrEmployeeIDExists
		}
		if emp.Email == candidate.Email {
			return employee.ErrEmailExists
		}
	}
	return nil
}
