package amap

import (
	"math"
	"strconv"
	"strings"
)

// District is one administrative division. Center is a "lon,lat" string;
// nested Districts are the immediate children when subdistrict=1 was
// requested.
type District struct {
	Adcode    string     `json:"adcode"`
	Name      string     `json:"name"`
	Center    string     `json:"center"`
	Level     string     `json:"level"`
	Province  string     `json:"province"`
	Districts []District `json:"districts"`
}

// DistrictResponse is the payload of /config/district.
type DistrictResponse struct {
	Status    string     `json:"status"`
	Info      string     `json:"info"`
	Infocode  string     `json:"infocode"`
	Districts []District `json:"districts"`
}

// POI is one place-search hit. Location is a "lon,lat" string.
type POI struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	CityName string `json:"cityname"`
	PName    string `json:"pname"`
	Adcode   string `json:"adcode"`
}

// POIResponse is the payload of /place/text.
type POIResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Infocode string `json:"infocode"`
	POIs     []POI  `json:"pois"`
}

// Live is the current-conditions record of /weather/weatherInfo with
// extensions=base. All numeric fields arrive as strings.
type Live struct {
	Province      string `json:"province"`
	City          string `json:"city"`
	Adcode        string `json:"adcode"`
	Weather       string `json:"weather"`
	Temperature   string `json:"temperature"`
	WindDirection string `json:"winddirection"`
	WindPower     string `json:"windpower"`
	Humidity      string `json:"humidity"`
	ReportTime    string `json:"reporttime"`
}

// Cast is one day/night forecast record: a single daytime and a single
// nighttime temperature per calendar date.
type Cast struct {
	Date         string `json:"date"`
	Week         string `json:"week"`
	DayWeather   string `json:"dayweather"`
	NightWeather string `json:"nightweather"`
	DayTemp      string `json:"daytemp"`
	NightTemp    string `json:"nighttemp"`
	DayWind      string `json:"daywind"`
	NightWind    string `json:"nightwind"`
	DayPower     string `json:"daypower"`
	NightPower   string `json:"nightpower"`
}

// ForecastEntry is one city's multi-day forecast.
type ForecastEntry struct {
	City       string `json:"city"`
	Adcode     string `json:"adcode"`
	Province   string `json:"province"`
	ReportTime string `json:"reporttime"`
	Casts      []Cast `json:"casts"`
}

// WeatherResponse is the payload of /weather/weatherInfo. Lives is
// populated with extensions=base, Forecasts with extensions=all.
type WeatherResponse struct {
	Status    string          `json:"status"`
	Info      string          `json:"info"`
	Infocode  string          `json:"infocode"`
	Lives     []Live          `json:"lives"`
	Forecasts []ForecastEntry `json:"forecasts"`
}

// Number parses a provider numeric field. The provider serializes numbers
// as strings, and some of them are not numbers at all (wind power arrives
// as ranges like "≤3" or "4-5"). A value that fails to parse becomes NaN
// rather than an error, matching the upstream's tolerance for these
// fields.
func Number(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ParseCenter splits a "lon,lat" coordinate string. ok is false when the
// string does not hold exactly two numeric components.
func ParseCenter(center string) (lon, lat float64, ok bool) {
	parts := strings.Split(center, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLon != nil || errLat != nil {
		return 0, 0, false
	}
	return lon, lat, true
}
