// Package lock guards migration runs that may be started concurrently from
// several nodes. The migrator works without a lock; deployments that run
// migrations from more than one process plug one in to avoid duplicate
// add-column races.
package lock

import "context"

// Locker serializes access to a named resource. Acquire blocks until the
// lock is held or ctx is done; the returned release frees it.
type Locker interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}
