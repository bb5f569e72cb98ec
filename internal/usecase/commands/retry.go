package commands

import (
	"gamezone-booking/internal/infra"
)

// withVersionRetry re-runs fn while it loses optimistic version checks, so
// concurrent transitions on one record serialize instead of overwriting.
func withVersionRetry(retries int, fn func() error) error {
	if retries < 1 {
		retries = 1
	}
	var err error
	for attempt := 0; attempt < retries; attempt++ {
		err = fn()
		if !infra.IsKind(err, infra.KindStaleVersion) {
			return err
		}
	}
	return ErrConcurrentUpdate
}
