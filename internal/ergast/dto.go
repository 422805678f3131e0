package ergast

// Wire types of the Ergast JSON format. Every scalar is a pointer so an
// absent field can be told apart from an empty one.

type response struct {
	MRData *mrData `json:"MRData"`
}

type mrData struct {
	Limit          *string         `json:"limit"`
	Offset         *string         `json:"offset"`
	Total          *string         `json:"total"`
	StandingsTable *standingsTable `json:"StandingsTable"`
	RaceTable      *raceTable      `json:"RaceTable"`
}

type standingsTable struct {
	Season         *string         `json:"season"`
	StandingsLists []standingsList `json:"StandingsLists"`
}

type standingsList struct {
	Season               *string                  `json:"season"`
	Round                *string                  `json:"round"`
	DriverStandings      []driverStandingDTO      `json:"DriverStandings"`
	ConstructorStandings []constructorStandingDTO `json:"ConstructorStandings"`
}

type driverStandingDTO struct {
	Position     *string          `json:"position"`
	PositionText *string          `json:"positionText"`
	Points       *string          `json:"points"`
	Wins         *string          `json:"wins"`
	Driver       *driverDTO       `json:"Driver"`
	Constructors []constructorDTO `json:"Constructors"`
}

type constructorStandingDTO struct {
	Position     *string         `json:"position"`
	PositionText *string         `json:"positionText"`
	Points       *string         `json:"points"`
	Wins         *string         `json:"wins"`
	Constructor  *constructorDTO `json:"Constructor"`
}

type driverDTO struct {
	DriverID        *string `json:"driverId"`
	PermanentNumber *string `json:"permanentNumber"`
	Code            *string `json:"code"`
	URL             *string `json:"url"`
	GivenName       *string `json:"givenName"`
	FamilyName      *string `json:"familyName"`
	DateOfBirth     *string `json:"dateOfBirth"`
	Nationality     *string `json:"nationality"`
}

type constructorDTO struct {
	ConstructorID *string `json:"constructorId"`
	URL           *string `json:"url"`
	Name          *string `json:"name"`
	Nationality   *string `json:"nationality"`
}

type raceTable struct {
	Season *string   `json:"season"`
	Round  *string   `json:"round"`
	Races  []raceDTO `json:"Races"`
}

type raceDTO struct {
	Season   *string     `json:"season"`
	Round    *string     `json:"round"`
	URL      *string     `json:"url"`
	RaceName *string     `json:"raceName"`
	Circuit  *circuitDTO `json:"Circuit"`
	Date     *string     `json:"date"`
	Time     *string     `json:"time"`
	Results  []resultDTO `json:"Results"`
	Laps     []lapDTO    `json:"Laps"`
}

type circuitDTO struct {
	CircuitID   *string      `json:"circuitId"`
	URL         *string      `json:"url"`
	CircuitName *string      `json:"circuitName"`
	Location    *locationDTO `json:"Location"`
}

type locationDTO struct {
	Lat      *string `json:"lat"`
	Long     *string `json:"long"`
	Locality *string `json:"locality"`
	Country  *string `json:"country"`
}

type resultDTO struct {
	Number       *string         `json:"number"`
	Position     *string         `json:"position"`
	PositionText *string         `json:"positionText"`
	Points       *string         `json:"points"`
	Driver       *driverDTO      `json:"Driver"`
	Constructor  *constructorDTO `json:"Constructor"`
	Grid         *string         `json:"grid"`
	Laps         *string         `json:"laps"`
	Status       *string         `json:"status"`
	Time         *timeDTO        `json:"Time"`
	FastestLap   *fastestLapDTO  `json:"FastestLap"`
}

type timeDTO struct {
	Millis *string `json:"millis"`
	Time   *string `json:"time"`
}

type fastestLapDTO struct {
	Rank         *string   `json:"rank"`
	Lap          *string   `json:"lap"`
	Time         *timeDTO  `json:"Time"`
	AverageSpeed *speedDTO `json:"AverageSpeed"`
}

type speedDTO struct {
	Units *string `json:"units"`
	Speed *string `json:"speed"`
}

type lapDTO struct {
	Number  *string     `json:"number"`
	Timings []timingDTO `json:"Timings"`
}

type timingDTO struct {
	DriverID *string `json:"driverId"`
	Position *string `json:"position"`
	Time     *string `json:"time"`
}
