// Package memory implements the repositories in process memory. It backs the service and
// handler tests and honours the same uniqueness and tenant rules as the postgres store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
)

type Store struct {
	mu sync.RWMutex

	organizations map[string]organization.Organization
	users         map[string]user.User
	employees     map[string]employee.Employee
	refreshTokens map[string]refreshTokenRecord // token hash -> record

	// txMu serializes units of work the way row locks do in postgres.
	txMu sync.Mutex

	now       func() time.Time
	lastStamp time.Time
}

func NewStore() *Store {
	return &Store{
		organizations: make(map[string]organization.Organization),
		users:         make(map[string]user.User),
		employees:     make(map[string]employee.Employee),
		refreshTokens: make(map[string]refreshTokenRecord),
		now:           time.Now,
	}
}

func (s *Store) Users() user.UserRepository {
	return &userRepository{s: s}
}

func (s *Store) Organizations() organization.OrganizationRepository {
	return &organizationRepository{s: s}
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (s *Store) RefreshTokens() auth.RefreshTokenRepository {
	return &refreshTokenRepository{s: s}
}

// stamp returns a creation time strictly after the previous one so listings have a total order.
// Callers hold s.mu.
func (s *Store) stamp() time.Time {
	t := s.now()
	if !t.After(s.lastStamp) {
		t = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = t
	return t
}

type txKey struct{}

// WithinTransaction implements database.Transactor. It does not roll back; it only makes
// check-then-write sequences atomic with respect to each other.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// page sorts newest first and cuts one page out of items.
func page[T any](items []T, createdAt func(T) time.Time, params pagination.Params) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})

	params = params.Normalize()
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
