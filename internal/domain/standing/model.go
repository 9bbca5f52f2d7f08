package standing

// Standing is one league-table row. Identity is the composite
// (league, season, team); each sync fully replaces the row's statistics.
type Standing struct {
	LeagueID       int64
	Season         int
	TeamID         int64
	TeamName       string
	Rank           int
	Points         int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
}
