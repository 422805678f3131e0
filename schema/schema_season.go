package schema

import "time"

// SeasonSnapshot is everything a season load produced.
// Results and Images are keyed (by round and EntityKey) rather than positioned.
type SeasonSnapshot struct {
	RunID        string                `json:"run_id"`
	Season       string                `json:"season"`
	Drivers      []DriverStanding      `json:"drivers"`
	Constructors []ConstructorStanding `json:"constructors"`
	Schedule     []Race                `json:"schedule"`
	Results      map[string]Race       `json:"results"`
	Images       map[string]ImageRef   `json:"images"`
	RoundErrors  map[string]string     `json:"round_errors,omitempty"`
	LoadedAt     time.Time             `json:"loaded_at"`
	Duration     time.Duration         `json:"duration"`
}

// Summary condenses the snapshot into load bookkeeping counters.
func (s *SeasonSnapshot) Summary() LoadSummary {
	sum := LoadSummary{
		Drivers:      len(s.Drivers),
		Constructors: len(s.Constructors),
		Rounds:       len(s.Results),
	}
	for _, ref := range s.Images {
		if ref.Available() {
			sum.Images++
		} else {
			sum.ImageMisses++
		}
	}
	return sum
}
