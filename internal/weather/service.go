package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weatherdash/weatherdash/internal/amap"
	"github.com/weatherdash/weatherdash/internal/geo"
)

var (
	// ErrNotFound is returned when location resolution produced no
	// candidates for the requested city.
	ErrNotFound = errors.New("city not found")

	// ErrUpstreamUnavailable is returned when the provider is reachable
	// but signaled failure or returned an empty payload for a resolved
	// city.
	ErrUpstreamUnavailable = errors.New("weather data unavailable")
)

// Resolver resolves a free-text city query into candidates.
type Resolver interface {
	Resolve(ctx context.Context, query string) []geo.CityCandidate
}

// Provider abstracts the upstream weather endpoints the mapper consumes.
type Provider interface {
	LiveWeather(ctx context.Context, adcode string) (*amap.WeatherResponse, error)
	ForecastWeather(ctx context.Context, adcode string) (*amap.WeatherResponse, error)
}

// Service converts provider payloads into the canonical weather schema.
// Unlike the resolver it fails loud: the presentation layer needs a
// user-visible failure state when a fetch goes wrong.
type Service struct {
	resolver Resolver
	provider Provider
}

// NewService creates a Service.
func NewService(resolver Resolver, provider Provider) *Service {
	return &Service{resolver: resolver, provider: provider}
}

// FetchCurrent resolves the city and maps the provider's live-conditions
// record into a canonical snapshot.
func (s *Service) FetchCurrent(ctx context.Context, city string) (CurrentConditions, error) {
	candidate, err := s.resolveFirst(ctx, city)
	if err != nil {
		return CurrentConditions{}, err
	}

	resp, err := s.provider.LiveWeather(ctx, candidate.AreaCode)
	if err != nil {
		return CurrentConditions{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Lives) == 0 {
		return CurrentConditions{}, fmt.Errorf("%w: empty live data for %s", ErrUpstreamUnavailable, city)
	}

	live := resp.Lives[0]
	return CurrentConditions{
		CityName:     live.City,
		TemperatureC: amap.Number(live.Temperature),
		HumidityPct:  amap.Number(live.Humidity),
		// The provider's live endpoint carries no pressure, wind
		// direction, country or sun times; those stay at their
		// sentinels.
		WindSpeed:         amap.Number(live.WindPower),
		ConditionCategory: Classify(live.Weather),
		ConditionText:     live.Weather,
		ConditionIcon:     live.Weather,
		Coordinates:       Coordinates{Lat: candidate.Lat, Lon: candidate.Lon},
	}, nil
}

// FetchForecast resolves the city and maps each of the provider's
// day/night casts into one canonical forecast record, preserving the
// provider's (already chronological) ordering.
func (s *Service) FetchForecast(ctx context.Context, city string) (ForecastSeries, error) {
	candidate, err := s.resolveFirst(ctx, city)
	if err != nil {
		return ForecastSeries{}, err
	}

	resp, err := s.provider.ForecastWeather(ctx, candidate.AreaCode)
	if err != nil {
		return ForecastSeries{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Forecasts) == 0 {
		return ForecastSeries{}, fmt.Errorf("%w: empty forecast data for %s", ErrUpstreamUnavailable, city)
	}

	entry := resp.Forecasts[0]
	series := ForecastSeries{
		CityName: entry.City,
		Records:  make([]ForecastRecord, 0, len(entry.Casts)),
	}

	for _, cast := range entry.Casts {
		day, err := time.ParseInLocation("2006-01-02", cast.Date, time.Local)
		if err != nil {
			log.Printf("weather: skipping cast with bad date %q: %v", cast.Date, err)
			continue
		}

		dayTemp := amap.Number(cast.DayTemp)
		nightTemp := amap.Number(cast.NightTemp)

		series.Records = append(series.Records, ForecastRecord{
			EpochSeconds: day.Unix(),
			// The provider gives only day/night extremes, so the bucket
			// temperature is their midpoint.
			TempC:             (dayTemp + nightTemp) / 2,
			TempMaxC:          dayTemp,
			TempMinC:          nightTemp,
			ConditionCategory: Classify(cast.DayWeather),
			ConditionText:     cast.DayWeather,
			WindSpeed:         amap.Number(cast.DayPower),
		})
	}

	return series, nil
}

// FetchBoth issues the current and forecast fetches concurrently and
// waits for both; derived views need the pair complete.
func (s *Service) FetchBoth(ctx context.Context, city string) (CurrentConditions, ForecastSeries, error) {
	var (
		current  CurrentConditions
		forecast ForecastSeries
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.FetchCurrent(ctx, city)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = s.FetchForecast(ctx, city)
		return err
	})

	if err := g.Wait(); err != nil {
		return CurrentConditions{}, ForecastSeries{}, err
	}
	return current, forecast, nil
}

// GetAlerts returns active weather warnings near the given coordinates.
// The current provider exposes no alert endpoint, so the list is always
// empty; severity classification for alerts from a future source lives
// in ClassifyAlertSeverity.
func (s *Service) GetAlerts(ctx context.Context, coords Coordinates) ([]Alert, error) {
	return []Alert{}, nil
}

func (s *Service) resolveFirst(ctx context.Context, city string) (geo.CityCandidate, error) {
	candidates := s.resolver.Resolve(ctx, city)
	if len(candidates) == 0 {
		return geo.CityCandidate{}, fmt.Errorf("%w: %s", ErrNotFound, city)
	}
	return candidates[0], nil
}
