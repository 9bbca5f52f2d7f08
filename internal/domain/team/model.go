package team

import "fmt"

// Team holds the metadata synced for clubs that appear in at least one
// fixture. Teams are populated lazily, never enumerated from the provider.
type Team struct {
	ID      int64
	Name    string
	LogoURL string
	Country string
	Venue   string
	Founded *int
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
