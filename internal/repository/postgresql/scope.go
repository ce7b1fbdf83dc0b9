package postgresql

import (
	"fmt"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

// scopeCondition returns the predicate restricting column to the scope's organization,
// appending its argument to args. Unrestricted scopes yield TRUE, a scope without an
// organization yields FALSE.
func scopeCondition(scope tenant.Scope, column string, args []interface{}) (string, []interface{}) {
	orgID, restricted := scope.OrganizationFilter()
	if !restricted {
		return "TRUE", args
	}
	if orgID == "" {
		return "FALSE", args
	}
	args = append(args, orgID)
	return fmt.Sprintf("%s = $%d", column, len(args)), args
}
