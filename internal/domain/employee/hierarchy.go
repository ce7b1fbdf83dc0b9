package employee

import "context"

// ManagerLookup returns the manager id of an employee, nil at the top of the chain.
type ManagerLookup func(ctx context.Context, employeeID string) (*string, error)

// CheckManagerChain walks upward from managerID and fails with ErrManagerCycle if the chain
// reaches employeeID. Stored data is not trusted to be acyclic: a chain that revisits a node
// ends the walk.
func CheckManagerChain(ctx context.Context, employeeID, managerID string, lookup ManagerLookup) error {
	if managerID == employeeID {
		return ErrManagerCycle
	}

	visited := map[string]struct{}{}
	current := managerID
	for current != "" {
		if current == employeeID {
			return ErrManagerCycle
		}
		if _, seen := visited[current]; seen {
			return nil
		}
		visited[current] = struct{}{}

		next, err := lookup(ctx, current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		current = *next
	}
	return nil
}
