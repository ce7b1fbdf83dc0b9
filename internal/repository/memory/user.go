package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func sameOrganization(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func scopeAllowsUser(scope tenant.Scope, u user.User) bool {
	if scope.IsUnrestricted() {
		return true
	}
	return u.OrganizationID != nil && scope.Allows(*u.OrganizationID)
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == newUser.Email && sameOrganization(existing.OrganizationID, newUser.OrganizationID) {
			return user.User{}, user.ErrUserEmailExists
		}
	}

	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	now := r.s.stamp()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByIDScoped(ctx context.Context, scope tenant.Scope, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok || !scopeAllowsUser(scope, u) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) FindActiveByEmailAndRole(ctx context.Context, email string, role user.Role) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := []user.User{}
	for _, u := range r.s.users {
		if u.Email == email && u.Role == role && u.IsActive && !u.IsSuperAdmin {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

func (r *userRepository) GetActiveSuperAdminByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email && u.IsSuperAdmin && u.IsActive {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) List(ctx context.Context, scope tenant.Scope, filter user.ListFilter) ([]user.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matches []user.User
	for _, u := range r.s.users {
		if !scopeAllowsUser(scope, u) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Search != "" && !containsFold(u.Name, filter.Search) && !containsFold(u.Email, filter.Search) {
			continue
		}
		matches = append(matches, u)
	}

	total := int64(len(matches))
	return page(matches, func(u user.User) time.Time { return u.CreatedAt }, filter.Params), total, nil
}

func (r *userRepository) CountMembers(ctx context.Context, organizationID string) (user.MemberCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var counts user.MemberCounts
	for _, u := range r.s.users {
		if u.IsSuperAdmin || !u.BelongsTo(organizationID) {
			continue
		}
		switch u.Role {
		case user.RoleAdmin:
			counts.Admins++
			if u.IsActive {
				counts.ActiveAdmins++
			}
		case user.RoleEmployee:
			counts.Employees++
			if u.IsActive {
				counts.ActiveEmployees++
			}
		}
	}
	return counts, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, scope tenant.Scope, id string, isActive bool) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || !scopeAllowsUser(scope, u) {
		return user.User{}, user.ErrUserNotFound
	}
	u.IsActive = isActive
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return u, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.LastLogin = &at
	r.s.users[id] = u
	return nil
}
