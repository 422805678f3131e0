package schema

import "strconv"

// Podium label constants.
const (
	LeaderLabel = "Leader"
	PodiumLabel = "Podium"
	PointsLabel = "Points"
	FieldLabel  = "Field"
)

// GetPositionLabel returns a plain text label for a championship or race position.
// Non-numeric positions (retirements, "unknown") fall into the field.
func GetPositionLabel(position string) string {
	p, err := strconv.Atoi(position)
	if err != nil || p <= 0 {
		return FieldLabel
	}
	switch {
	case p == 1:
		return LeaderLabel
	case p <= 3:
		return PodiumLabel
	case p <= 10:
		return PointsLabel
	default:
		return FieldLabel
	}
}

// LabeledDriver adds presentation data to a DriverStanding.
type LabeledDriver struct {
	Label string `json:"label"`
	Teams string `json:"teams"`
	DriverStanding
}

// LabeledConstructor adds presentation data to a ConstructorStanding.
type LabeledConstructor struct {
	Label string `json:"label"`
	ConstructorStanding
}

// LabelDrivers attaches labels and display teams to driver standings.
func LabelDrivers(drivers []DriverStanding) []LabeledDriver {
	out := make([]LabeledDriver, len(drivers))
	for i, d := range drivers {
		out[i] = LabeledDriver{
			Label:          GetPositionLabel(d.Position),
			Teams:          d.Teams(),
			DriverStanding: d,
		}
	}
	return out
}

// LabelConstructors attaches labels to constructor standings.
func LabelConstructors(constructors []ConstructorStanding) []LabeledConstructor {
	out := make([]LabeledConstructor, len(constructors))
	for i, c := range constructors {
		out[i] = LabeledConstructor{
			Label:               GetPositionLabel(c.Position),
			ConstructorStanding: c,
		}
	}
	return out
}
