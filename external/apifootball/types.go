package apifootball

// API-Football v3 wraps every answer in the same envelope:
// {"get":"...","parameters":{...},"errors":[],"results":N,"response":[...]}.
// Only the response member is decoded; the rest carries no information the
// sync needs.

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID    int64  `json:"id"`
		Date  string `json:"date"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64 `json:"id"`
		Season int   `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type statisticsEnvelope struct {
	Response []teamStatisticsItem `json:"response"`
}

type teamStatisticsItem struct {
	Team       teamRef `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

type teamsEnvelope struct {
	Response []teamItem `json:"response"`
}

type teamItem struct {
	Team struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Founded *int   `json:"founded"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
}

type standingsEnvelope struct {
	Response []struct {
		League struct {
			Standings [][]standingItem `json:"standings"`
		} `json:"league"`
	} `json:"response"`
}

type standingItem struct {
	Rank      int     `json:"rank"`
	Team      teamRef `json:"team"`
	Points    int     `json:"points"`
	GoalsDiff int     `json:"goalsDiff"`
	Form      string  `json:"form"`
	All       struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
		Goals  struct {
			For     int `json:"for"`
			Against int `json:"against"`
		} `json:"goals"`
	} `json:"all"`
}

type topScorersEnvelope struct {
	Response []topScorerItem `json:"response"`
}

type topScorerItem struct {
	Player struct {
		Name string `json:"name"`
	} `json:"player"`
	Statistics []struct {
		Team  teamRef `json:"team"`
		Goals struct {
			Total   *int `json:"total"`
			Assists *int `json:"assists"`
		} `json:"goals"`
		Games struct {
			Appearences *int `json:"appearences"`
		} `json:"games"`
	} `json:"statistics"`
}
