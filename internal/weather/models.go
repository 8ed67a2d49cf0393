package weather

// Condition represents a normalized high-level weather condition category.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionClouds       Condition = "clouds"
	ConditionRain         Condition = "rain"
	ConditionDrizzle      Condition = "drizzle"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionSnow         Condition = "snow"
	ConditionFog          Condition = "fog"
	ConditionHaze         Condition = "haze"
	ConditionDust         Condition = "dust"
)

// Coordinates is a lat/lon pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CurrentConditions is the canonical snapshot of live weather for one
// city. Fields the upstream source does not supply are filled with a
// sentinel (0 or "") rather than omitted, so consumers always see a
// stable shape: PressureHpa, WindDirectionDeg, CountryCode, CloudPct,
// FeelsLikeC and the sun epochs are all sentinels with the current
// provider. A snapshot is built fresh on every successful fetch and
// never mutated afterwards.
type CurrentConditions struct {
	CityName          string      `json:"cityName"`
	CountryCode       string      `json:"countryCode"`
	TemperatureC      float64     `json:"temperatureC"`
	FeelsLikeC        float64     `json:"feelsLikeC"`
	HumidityPct       float64     `json:"humidityPct"`
	PressureHpa       float64     `json:"pressureHpa"`
	WindSpeed         float64     `json:"windSpeed"`
	WindDirectionDeg  float64     `json:"windDirectionDeg"`
	CloudPct          float64     `json:"cloudPct"`
	VisibilityKm      float64     `json:"visibilityKm"`
	ConditionCategory Condition   `json:"conditionCategory"`
	ConditionText     string      `json:"conditionText"`
	ConditionIcon     string      `json:"conditionIcon"`
	SunriseEpoch      int64       `json:"sunriseEpoch"`
	SunsetEpoch       int64       `json:"sunsetEpoch"`
	Coordinates       Coordinates `json:"coordinates"`
}

// ForecastRecord is one canonical time-bucket of a forecast. The provider
// is day-granular, so EpochSeconds is midnight of the cast's calendar
// date and TempC is the midpoint of the day/night extremes. Invariant:
// TempMinC <= TempC <= TempMaxC when all three come from the same cast.
type ForecastRecord struct {
	EpochSeconds      int64     `json:"epochSeconds"`
	TempC             float64   `json:"tempC"`
	TempMinC          float64   `json:"tempMinC"`
	TempMaxC          float64   `json:"tempMaxC"`
	HumidityPct       float64   `json:"humidityPct"`
	ConditionCategory Condition `json:"conditionCategory"`
	ConditionText     string    `json:"conditionText"`
	WindSpeed         float64   `json:"windSpeed"`
	VisibilityKm      float64   `json:"visibilityKm"`
}

// ForecastSeries is a chronological forecast for one city. Records are
// ordered by EpochSeconds ascending.
type ForecastSeries struct {
	CityName string           `json:"cityName"`
	Records  []ForecastRecord `json:"records"`
}

// DailyAggregate is one display day folded from all records sharing its
// calendar date. Min/max widen monotonically as records fold in.
type DailyAggregate struct {
	DayKey                  string    `json:"dayKey"`
	TempMinC                float64   `json:"tempMinC"`
	TempMaxC                float64   `json:"tempMaxC"`
	RepresentativeCondition Condition `json:"representativeCondition"`
	ConditionText           string    `json:"conditionText"`
	EpochSeconds            int64     `json:"epochSeconds"`
}

// HourlySlot is one synthetic hour of the next-24h strip. Hours with no
// matching record are simply absent from the output.
type HourlySlot struct {
	HourOfDay         int       `json:"hourOfDay"`
	Label             string    `json:"label"`
	TempC             float64   `json:"tempC"`
	ConditionCategory Condition `json:"conditionCategory"`
}

// TrendPoint is one chart-ready day of the temperature trend.
// NormalizedHeight is the day high scaled into [0,1] against the
// truncated set's global extremes.
type TrendPoint struct {
	DayKey           string    `json:"dayKey"`
	EpochSeconds     int64     `json:"epochSeconds"`
	DayTemp          float64   `json:"dayTemp"`
	NightTemp        float64   `json:"nightTemp"`
	AvgTemp          float64   `json:"avgTemp"`
	Condition        Condition `json:"condition"`
	NormalizedHeight float64   `json:"normalizedHeight"`
}

// Alert is an upstream weather warning.
type Alert struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	SenderName  string `json:"senderName"`
}
