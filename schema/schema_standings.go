package schema

import "strings"

// DriverKey is the identity of a driver within one standings list.
type DriverKey struct {
	GivenName  string
	FamilyName string
}

// DriverStanding is one row of a season's drivers championship.
type DriverStanding struct {
	Position     string    `json:"position"`
	PositionText string    `json:"position_text"`
	Points       string    `json:"points"`
	Wins         string    `json:"wins"`
	DriverID     string    `json:"driver_id"`
	Code         string    `json:"code"`
	Number       string    `json:"permanent_number"`
	GivenName    string    `json:"given_name"`
	FamilyName   string    `json:"family_name"`
	DateOfBirth  string    `json:"date_of_birth"`
	Nationality  string    `json:"nationality"`
	URL          string    `json:"url"`
	TeamNames    []string  `json:"team_names"`
	Image        *ImageRef `json:"image,omitempty"`
}

// Key returns the identity used for dedup.
func (d DriverStanding) Key() DriverKey {
	return DriverKey{GivenName: d.GivenName, FamilyName: d.FamilyName}
}

// FullName returns "Given Family".
func (d DriverStanding) FullName() string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}

// Teams returns the display string of every team the driver raced for.
func (d DriverStanding) Teams() string {
	return FormatTeams(d.TeamNames)
}

// ConstructorStanding is one row of a season's constructors championship.
type ConstructorStanding struct {
	Position      string    `json:"position"`
	PositionText  string    `json:"position_text"`
	Points        string    `json:"points"`
	Wins          string    `json:"wins"`
	ConstructorID string    `json:"constructor_id"`
	Name          string    `json:"name"`
	Nationality   string    `json:"nationality"`
	URL           string    `json:"url"`
	Image         *ImageRef `json:"image,omitempty"`
}
