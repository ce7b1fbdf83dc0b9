package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/google/uuid"
)

type organizationRepository struct {
	s *Store
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	org, ok := r.s.organizations[id]
	if !ok {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	return org, nil
}

func (r *organizationRepository) GetByEmail(ctx context.Context, email string) (organization.Organization, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, org := range r.s.organizations {
		if org.Email == email {
			return org, nil
		}
	}
	return organization.Organization{}, organization.ErrOrganizationNotFound
}

// LockByID has nothing to lock here; callers already hold the store's transaction mutex.
func (r *organizationRepository) LockByID(ctx context.Context, id string) (organization.Organization, error) {
	return r.GetByID(ctx, id)
}

func (r *organizationRepository) List(ctx context.Context, scope tenant.Scope, filter organization.ListFilter) ([]organization.Organization, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matches []organization.Organization
	for _, org := range r.s.organizations {
		if !scope.Allows(org.ID) {
			continue
		}
		if filter.Search != "" &&
			!containsFold(org.Name, filter.Search) &&
			!containsFold(org.Email, filter.Search) &&
			!containsFold(org.Industry, filter.Search) {
			continue
		}
		matches = append(matches, org)
	}

	total := int64(len(matches))
	return page(matches, func(o organization.Organization) time.Time { return o.CreatedAt }, filter.Params), total, nil
}

func (r *organizationRepository) Create(ctx context.Context, newOrganization organization.Organization) (organization.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTakenLocked(newOrganization.Email, "") {
		return organization.Organization{}, organization.ErrEmailExists
	}

	if newOrganization.ID == "" {
		newOrganization.ID = uuid.NewString()
	}
	now := r.s.stamp()
	if newOrganization.RegisteredDate.IsZero() {
		newOrganization.RegisteredDate = now
	}
	newOrganization.CreatedAt = now
	newOrganization.UpdatedAt = now
	r.s.organizations[newOrganization.ID] = newOrganization
	return newOrganization, nil
}

func (r *organizationRepository) Update(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.organizations[org.ID]
	if !ok {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	if r.emailTakenLocked(org.Email, org.ID) {
		return organization.Organization{}, organization.ErrEmailExists
	}

	org.RegisteredDate = existing.RegisteredDate
	org.IsActive = existing.IsActive
	org.AdminID = existing.AdminID
	org.CreatedAt = existing.CreatedAt
	org.UpdatedAt = r.s.now()
	r.s.organizations[org.ID] = org
	return org, nil
}

func (r *organizationRepository) SetAdmin(ctx context.Context, id string, adminID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	org, ok := r.s.organizations[id]
	if !ok {
		return organization.ErrOrganizationNotFound
	}
	org.AdminID = &adminID
	r.s.organizations[id] = org
	return nil
}

func (r *organizationRepository) UpdateStatus(ctx context.Context, id string, isActive bool) (organization.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	org, ok := r.s.organizations[id]
	if !ok {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	org.IsActive = isActive
	org.UpdatedAt = r.s.now()
	r.s.organizations[id] = org
	return org, nil
}

func (r *organizationRepository) emailTakenLocked(email, excludeID string) bool {
	for _, org := range r.s.organizations {
		if org.Email == email && org.ID != excludeID {
			return true
		}
	}
	return false
}
