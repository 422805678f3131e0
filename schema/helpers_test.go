package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		given  string
		family string
		want   string
	}{
		// Basic cases
		{"Max", "Verstappen", "M. Verstappen"},
		{"Juan Pablo", "Montoya", "J. Montoya"}, // multi-part given name
		{"  Lewis ", "Hamilton", "L. Hamilton"}, // surrounding spaces

		// Unicode
		{"Kimi", "Räikkönen", "K. Räikkönen"},
		{"Élie", "Bayol", "É. Bayol"},

		// Missing parts
		{"", "Verstappen", "Verstappen"},
		{"Max", "", "Max"},
		{Unknown, "Hamilton", "Hamilton"},
		{Unknown, Unknown, Unknown},
		{"", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.given+"_"+tt.family, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortName(tt.given, tt.family))
		})
	}
}

func TestFormatTeams(t *testing.T) {
	tests := []struct {
		name  string
		teams []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"Red Bull"}, "Red Bull"},
		{"keeps order", []string{"Red Bull", "RB Honda"}, "Red Bull, RB Honda"},
		{"drops repeats", []string{"Ferrari", "Ferrari", "Alfa Romeo"}, "Ferrari, Alfa Romeo"},
		{"drops blanks", []string{" ", "Williams", ""}, "Williams"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTeams(tt.teams))
		})
	}
}

func TestUniqueTeamsDoesNotMutateInput(t *testing.T) {
	in := []string{"McLaren", "McLaren", "Renault"}
	out := UniqueTeams(in)
	assert.Equal(t, []string{"McLaren", "Renault"}, out)
	assert.Equal(t, []string{"McLaren", "McLaren", "Renault"}, in)
}
