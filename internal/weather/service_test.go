package weather

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/weatherdash/weatherdash/internal/amap"
	"github.com/weatherdash/weatherdash/internal/geo"
)

type fakeResolver struct {
	candidates []geo.CityCandidate
}

func (f *fakeResolver) Resolve(ctx context.Context, query string) []geo.CityCandidate {
	return f.candidates
}

type fakeProvider struct {
	live        *amap.WeatherResponse
	liveErr     error
	forecast    *amap.WeatherResponse
	forecastErr error
}

func (f *fakeProvider) LiveWeather(ctx context.Context, adcode string) (*amap.WeatherResponse, error) {
	return f.live, f.liveErr
}

func (f *fakeProvider) ForecastWeather(ctx context.Context, adcode string) (*amap.WeatherResponse, error) {
	return f.forecast, f.forecastErr
}

func beijingResolver() *fakeResolver {
	return &fakeResolver{candidates: []geo.CityCandidate{
		{Name: "北京市", AreaCode: "110000", Lat: 39.904030, Lon: 116.407526},
	}}
}

func TestFetchCurrentMapsLiveRecord(t *testing.T) {
	svc := NewService(beijingResolver(), &fakeProvider{
		live: &amap.WeatherResponse{
			Status: "1",
			Lives: []amap.Live{{
				City:        "北京市",
				Weather:     "晴",
				Temperature: "21.5",
				Humidity:    "60",
				WindPower:   "3",
			}},
		},
	})

	got, err := svc.FetchCurrent(context.Background(), "北京")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TemperatureC != 21.5 {
		t.Errorf("TemperatureC = %v, want 21.5", got.TemperatureC)
	}
	if got.HumidityPct != 60 {
		t.Errorf("HumidityPct = %v, want 60", got.HumidityPct)
	}
	if got.WindSpeed != 3 {
		t.Errorf("WindSpeed = %v, want 3", got.WindSpeed)
	}
	// Fields the provider does not supply stay at their sentinels.
	if got.PressureHpa != 0 || got.WindDirectionDeg != 0 || got.CountryCode != "" {
		t.Errorf("expected sentinel pressure/wind direction/country, got %+v", got)
	}
	if got.SunriseEpoch != 0 || got.SunsetEpoch != 0 {
		t.Errorf("expected sentinel sun epochs, got %+v", got)
	}
	if got.ConditionCategory != ConditionClear || got.ConditionText != "晴" || got.ConditionIcon != "晴" {
		t.Errorf("expected condition fields all derived from the raw string, got %+v", got)
	}
	if got.Coordinates.Lat != 39.904030 || got.Coordinates.Lon != 116.407526 {
		t.Errorf("expected coordinates from resolved candidate, got %+v", got.Coordinates)
	}
}

func TestFetchCurrentMalformedTemperature(t *testing.T) {
	// A numeric field that fails to parse propagates as NaN, not an error.
	svc := NewService(beijingResolver(), &fakeProvider{
		live: &amap.WeatherResponse{
			Status: "1",
			Lives: []amap.Live{{
				City:        "北京市",
				Weather:     "晴",
				Temperature: "n/a",
				Humidity:    "60",
				WindPower:   "≤3",
			}},
		},
	})

	got, err := svc.FetchCurrent(context.Background(), "北京")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(got.TemperatureC) {
		t.Errorf("TemperatureC = %v, want NaN", got.TemperatureC)
	}
	if !math.IsNaN(got.WindSpeed) {
		t.Errorf("WindSpeed = %v, want NaN", got.WindSpeed)
	}
}

func TestFetchCurrentNotFound(t *testing.T) {
	svc := NewService(&fakeResolver{}, &fakeProvider{})

	_, err := svc.FetchCurrent(context.Background(), "不存在的城市")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchCurrentUpstreamUnavailable(t *testing.T) {
	// Resolved city, but the provider returns an empty data section.
	svc := NewService(beijingResolver(), &fakeProvider{
		live: &amap.WeatherResponse{Status: "1"},
	})
	_, err := svc.FetchCurrent(context.Background(), "北京")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable on empty lives, got %v", err)
	}

	// Provider-level failure maps the same way.
	svc = NewService(beijingResolver(), &fakeProvider{
		liveErr: errors.New("status 0"),
	})
	_, err = svc.FetchCurrent(context.Background(), "北京")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable on provider error, got %v", err)
	}
}

func forecastResponse() *amap.WeatherResponse {
	return &amap.WeatherResponse{
		Status: "1",
		Forecasts: []amap.ForecastEntry{{
			City: "北京市",
			Casts: []amap.Cast{
				{Date: "2026-08-31", DayWeather: "晴", DayTemp: "30", NightTemp: "20", DayPower: "≤3"},
				{Date: "2026-09-01", DayWeather: "小雨", DayTemp: "28", NightTemp: "18", DayPower: "4"},
			},
		}},
	}
}

func TestFetchForecastMapsCasts(t *testing.T) {
	svc := NewService(beijingResolver(), &fakeProvider{forecast: forecastResponse()})

	got, err := svc.FetchForecast(context.Background(), "北京")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CityName != "北京市" {
		t.Errorf("CityName = %s, want 北京市", got.CityName)
	}
	if len(got.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got.Records))
	}

	first := got.Records[0]
	if first.TempC != 25 || first.TempMaxC != 30 || first.TempMinC != 20 {
		t.Errorf("expected midpoint 25 of day 30 / night 20, got %+v", first)
	}
	if first.TempMinC > first.TempC || first.TempC > first.TempMaxC {
		t.Errorf("temperature invariant violated: %+v", first)
	}

	wantEpoch := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local).Unix()
	if first.EpochSeconds != wantEpoch {
		t.Errorf("EpochSeconds = %d, want midnight %d", first.EpochSeconds, wantEpoch)
	}

	if first.HumidityPct != 0 {
		t.Errorf("forecast humidity should stay at sentinel 0, got %v", first.HumidityPct)
	}
	if first.ConditionCategory != ConditionClear || first.ConditionText != "晴" {
		t.Errorf("unexpected condition fields: %+v", first)
	}
	// Wind power ranges stay fail-soft.
	if !math.IsNaN(first.WindSpeed) {
		t.Errorf("WindSpeed = %v, want NaN for ≤3", first.WindSpeed)
	}

	second := got.Records[1]
	if second.EpochSeconds <= first.EpochSeconds {
		t.Error("records should preserve the provider's chronological ordering")
	}
	if second.ConditionCategory != ConditionRain {
		t.Errorf("expected rain for 小雨, got %s", second.ConditionCategory)
	}
}

func TestFetchForecastEmptyForecasts(t *testing.T) {
	svc := NewService(beijingResolver(), &fakeProvider{
		forecast: &amap.WeatherResponse{Status: "1"},
	})

	_, err := svc.FetchForecast(context.Background(), "北京")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFetchBoth(t *testing.T) {
	svc := NewService(beijingResolver(), &fakeProvider{
		live: &amap.WeatherResponse{
			Status: "1",
			Lives:  []amap.Live{{City: "北京市", Weather: "晴", Temperature: "22", Humidity: "40", WindPower: "2"}},
		},
		forecast: forecastResponse(),
	})

	current, forecast, err := svc.FetchBoth(context.Background(), "北京")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.TemperatureC != 22 {
		t.Errorf("unexpected current: %+v", current)
	}
	if len(forecast.Records) != 2 {
		t.Errorf("unexpected forecast: %+v", forecast)
	}
}

func TestFetchBothPropagatesFailure(t *testing.T) {
	svc := NewService(beijingResolver(), &fakeProvider{
		live:        &amap.WeatherResponse{Status: "1", Lives: []amap.Live{{City: "北京市"}}},
		forecastErr: errors.New("boom"),
	})

	_, _, err := svc.FetchBoth(context.Background(), "北京")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestGetAlertsEmpty(t *testing.T) {
	svc := NewService(beijingResolver(), &fakeProvider{})

	alerts, err := svc.GetAlerts(context.Background(), Coordinates{Lat: 39.9, Lon: 116.4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %+v", alerts)
	}
}
