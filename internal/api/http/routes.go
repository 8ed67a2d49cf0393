package httpapi

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weatherdash/weatherdash/internal/favorites"
	"github.com/weatherdash/weatherdash/internal/geo"
	"github.com/weatherdash/weatherdash/internal/weather"
)

var validate = validator.New()

// Searcher is the debounced, last-request-wins search session the search
// endpoint goes through. ok is false when a newer query superseded this
// one before it resolved.
type Searcher interface {
	Search(ctx context.Context, query string) ([]geo.CityCandidate, bool)
}

// Placeholder inputs for the metrics that have no live provider yet. The
// classifiers themselves are generic; only the dashboard feed is fixed.
const (
	placeholderAQI = 75
	placeholderUV  = 5
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, searcher Searcher, favStore *favorites.Store) {
	v1 := app.Group("/api/v1")

	v1.Get("/search", func(c *fiber.Ctx) error {
		var q searchQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		candidates, ok := searcher.Search(c.Context(), q.Q)
		if !ok {
			// A newer query replaced this one during the quiet period.
			return c.JSON(fiber.Map{
				"query":      q.Q,
				"results":    []geo.CityCandidate{},
				"superseded": true,
			})
		}
		return c.JSON(fiber.Map{
			"query":   q.Q,
			"results": dedupeByName(candidates),
		})
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		cityReq, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		current, err := service.FetchCurrent(c.Context(), cityReq.City)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(current)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		cityReq, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.FetchForecast(c.Context(), cityReq.City)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(forecast)
	})

	v1.Get("/weather/dashboard", func(c *fiber.Ctx) error {
		cityReq, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		current, forecast, err := service.FetchBoth(c.Context(), cityReq.City)
		if err != nil {
			return mapServiceError(err)
		}

		alerts, err := service.GetAlerts(c.Context(), current.Coordinates)
		if err != nil {
			alerts = []weather.Alert{}
		}

		// Freshly fetched weather also refreshes the favorite card for
		// this city, if it is saved. Keyed by the resolved city name, so
		// a query like "beijing" still hits a favorite saved as 北京市.
		// A failed save never takes down the dashboard response.
		if err := favStore.UpdateWeather(current.CityName, current.TemperatureC, current.ConditionIcon); err != nil {
			log.Printf("ERROR: failed to refresh favorite %s: %v", current.CityName, err)
		}

		return c.JSON(fiber.Map{
			"current":  current,
			"forecast": forecast,
			"daily":    weather.GroupDaily(forecast.Records),
			"hourly":   weather.SynthesizeHourly(forecast.Records, time.Now()),
			"trend":    weather.BuildTrend(forecast.Records),
			"metrics": fiber.Map{
				"humidity":   weather.ClassifyHumidity(current.HumidityPct),
				"wind":       weather.ClassifyWind(current.WindSpeed),
				"visibility": weather.ClassifyVisibility(current.VisibilityKm),
				"uv":         weather.ClassifyUV(placeholderUV),
				"aqi":        weather.ClassifyAQI(placeholderAQI),
			},
			"lifestyle": weather.Lifestyle(current.TemperatureC, current.ConditionText),
			"alerts":    alerts,
		})
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		return c.JSON(favStore.List())
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		var req addFavoriteRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := favStore.Add(req.Name); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save favorite")
		}
		return c.Status(fiber.StatusCreated).JSON(favStore.List())
	})

	v1.Delete("/favorites/:index", func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
		}

		if err := favStore.RemoveAt(index); err != nil {
			if errors.Is(err, favorites.ErrOutOfRange) {
				return fiber.NewError(fiber.StatusNotFound, "no favorite at that index")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove favorite")
		}
		return c.JSON(favStore.List())
	})
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	case errors.Is(err, weather.ErrUpstreamUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// dedupeByName keeps the first candidate per distinct name: the provider
// can return the same city from several sub-queries.
func dedupeByName(candidates []geo.CityCandidate) []geo.CityCandidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]geo.CityCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if seen[cand.Name] {
			continue
		}
		seen[cand.Name] = true
		out = append(out, cand)
	}
	return out
}

// searchQuery holds query parameters for the search endpoint.
type searchQuery struct {
	Q string `validate:"required"`
}

func (s *searchQuery) bind(c *fiber.Ctx) error {
	s.Q = c.Query("q")
	return validate.Struct(s)
}

// cityQuery holds query parameters for identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	var q cityQuery
	q.City = c.Query("city")

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// addFavoriteRequest is the POST /favorites body.
type addFavoriteRequest struct {
	Name string `json:"name" validate:"required"`
}
