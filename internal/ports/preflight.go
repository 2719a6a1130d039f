package ports

import "context"

// Preflight verifies that the environment can run the pipeline at all.
type Preflight interface {
	Check(ctx context.Context) error
}
