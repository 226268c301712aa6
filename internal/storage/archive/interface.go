// Package archive persists rendered backtest artifacts (reports, series
// exports) outside the engine, keyed by run and artifact name.
package archive

import "context"

// Storage defines the interface for archive backends.
type Storage interface {
	// Store writes an artifact under the given run
	Store(ctx context.Context, run, name string, data []byte) error

	// Load retrieves an artifact of the given run
	Load(ctx context.Context, run, name string) ([]byte, error)

	// List returns the artifact names stored under the run
	List(ctx context.Context, run string) ([]string, error)

	// Exists checks whether the run holds the named artifact
	Exists(ctx context.Context, run, name string) (bool, error)
}
