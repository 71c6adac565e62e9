package kernel

import (
	"fmt"
)

// runSafely executes fn and converts panics into returned errors tagged with scope.
// Every call into host-supplied code goes through it.
func runSafely(scope string, fn func() error) (err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		err = fmt.Errorf("%s: panic recovered: %v", scope, recovered)
	}()

	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", scope, err)
	}

	return nil
}
