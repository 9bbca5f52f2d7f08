package aisummary

import "time"

// Summary is the generated match analysis attached one-to-one to a fixture.
// The sync workflow never produces summaries; it only moves them into the
// archive in lockstep with their owning fixture.
type Summary struct {
	FixtureID  int64
	Headline   string
	Analysis   string
	KeyMoments string
	CreatedAt  time.Time
}

// Archived is the append-only copy kept after the live summary is deleted.
type Archived struct {
	Summary
	ArchivedAt time.Time
}
