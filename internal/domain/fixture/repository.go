package fixture

import (
	"context"
	"time"
)

// Repository exposes the fixture persistence operations the sync workflow
// needs.
type Repository interface {
	// Upsert writes one fixture keyed by its provider identifier.
	Upsert(ctx context.Context, f Fixture) error

	// ListFinishedBefore returns live fixtures in a finished status whose
	// kickoff is older than cutoff.
	ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]Fixture, error)

	// Archive copies the fixture and its AI summary (when present) into the
	// archive tables and deletes the live rows, all inside one transaction.
	// The copy is skipped when an archive row already exists; the deletes
	// always run, so re-archiving a half-moved fixture is safe. The returned
	// flag reports whether a fresh archive copy was written.
	Archive(ctx context.Context, f Fixture, archivedAt time.Time) (bool, error)
}
