package fixture

import (
	"strings"
	"time"
)

const (
	StatusNotStarted     = "not-started"
	StatusFirstHalf      = "first-half"
	StatusHalfTime       = "half-time"
	StatusSecondHalf     = "second-half"
	StatusExtraTime      = "extra-time"
	StatusPenaltyShoot   = "penalties-live"
	StatusLive           = "live"
	StatusFullTime       = "full-time"
	StatusAfterExtraTime = "after-extra-time"
	StatusPenalties      = "penalties"
	StatusPostponed      = "postponed"
	StatusCancelled      = "cancelled"
)

// Fixture is one scheduled or completed match. The identifier is the external
// provider's fixture ID and stays stable across syncs, so upserts use it as
// the conflict key.
type Fixture struct {
	ID         int64
	LeagueID   int64
	Season     int
	HomeTeamID int64
	AwayTeamID int64
	KickoffAt  time.Time
	Venue      string
	Status     string
	GoalsHome  *int
	GoalsAway  *int
	Statistics map[string]any
	UpdatedAt  time.Time
}

// Archived is the append-only copy of a fixture kept after the live row is
// deleted.
type Archived struct {
	Fixture
	ArchivedAt time.Time
}

// FinishedStatuses lists the terminal statuses that make a fixture eligible
// for archival once the grace period has passed.
func FinishedStatuses() []string {
	return []string{StatusFullTime, StatusAfterExtraTime, StatusPenalties}
}

func IsFinished(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFullTime, StatusAfterExtraTime, StatusPenalties:
		return true
	default:
		return false
	}
}

func IsLive(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusPenaltyShoot, StatusLive:
		return true
	default:
		return false
	}
}

// NormalizeStatus maps a status value to its canonical form. Provider short
// codes (API-Football "FT", "1H", ...) are translated; already-canonical
// values pass through unchanged.
func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	switch status {
	case "", "ns", "tbd":
		return StatusNotStarted
	case "1h":
		return StatusFirstHalf
	case "ht":
		return StatusHalfTime
	case "2h":
		return StatusSecondHalf
	case "et", "bt":
		return StatusExtraTime
	case "p":
		return StatusPenaltyShoot
	case "susp", "int":
		return StatusLive
	case "ft", "awd", "wo":
		return StatusFullTime
	case "aet":
		return StatusAfterExtraTime
	case "pen":
		return StatusPenalties
	case "pst":
		return StatusPostponed
	case "canc", "abd":
		return StatusCancelled
	}
	return status
}
