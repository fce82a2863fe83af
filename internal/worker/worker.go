package worker

import (
	"context"
)

// Worker is the contract every background worker implements.
type Worker interface {
	// Start runs the worker until the context is cancelled or Stop is
	// called.
	Start(ctx context.Context) error

	// Stop signals the worker to finish its current item and exit.
	Stop() error

	// Name returns the worker name for logging.
	Name() string
}
