package topscorer

// TopScorer is one row of a league's top-scorers chart for a season.
// Identity is (league, season, player name, team); at most a bounded top-N
// is persisted per league per sync, in the provider's goal-descending order.
type TopScorer struct {
	LeagueID    int64
	Season      int
	Rank        int
	PlayerName  string
	TeamID      int64
	TeamName    string
	Goals       int
	Assists     int
	Appearances int
}
