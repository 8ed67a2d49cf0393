// Package amap is a typed client for the AMap (高德) v3 REST API, covering
// the three endpoints the dashboard consumes: administrative-district
// lookup, place (POI) text search, and live/forecast weather.
//
// The provider signals success with a string status flag: "1" means
// success, anything else (including absent) means failure. The client
// turns a non-success status into ErrProviderStatus; it never panics on
// provider-side failures.
package amap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://restapi.amap.com/v3"

// cityPOICategory is the provider's POI category code for city-level
// facilities, used to keep place search scoped to cities.
const cityPOICategory = "150100"

// ErrProviderStatus is returned when the provider responds but its status
// flag is not "1".
var ErrProviderStatus = errors.New("provider signaled failure")

// Client talks to the AMap v3 REST API.
type Client struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	limiter *rate.Limiter
	circuit *gobreaker.CircuitBreaker
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the provider base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRateLimit caps outbound request throughput. The free AMap tier
// enforces a per-key QPS limit, so the default is deliberately modest.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a Client using the shared HTTP client.
func NewClient(client *http.Client, apiKey string, opts ...Option) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "amap",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		circuit: cb,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchDistricts queries /config/district for divisions matching the
// keywords, including one level of sub-districts.
func (c *Client) SearchDistricts(ctx context.Context, keywords string) (*DistrictResponse, error) {
	values := url.Values{}
	values.Set("keywords", keywords)
	values.Set("subdistrict", "1")
	values.Set("extensions", "base")

	var payload DistrictResponse
	if err := c.get(ctx, "/config/district", values, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "1" {
		return nil, fmt.Errorf("%w: district search: %s (%s)", ErrProviderStatus, payload.Info, payload.Infocode)
	}
	return &payload, nil
}

// SearchPlaces queries /place/text restricted to city-level facilities.
func (c *Client) SearchPlaces(ctx context.Context, keywords string) (*POIResponse, error) {
	values := url.Values{}
	values.Set("keywords", keywords)
	values.Set("types", cityPOICategory)
	values.Set("citylimit", "true")
	values.Set("offset", "20")

	var payload POIResponse
	if err := c.get(ctx, "/place/text", values, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "1" {
		return nil, fmt.Errorf("%w: place search: %s (%s)", ErrProviderStatus, payload.Info, payload.Infocode)
	}
	return &payload, nil
}

// LiveWeather queries /weather/weatherInfo with extensions=base for the
// given area code.
func (c *Client) LiveWeather(ctx context.Context, adcode string) (*WeatherResponse, error) {
	return c.weatherInfo(ctx, adcode, "base")
}

// ForecastWeather queries /weather/weatherInfo with extensions=all for
// the given area code.
func (c *Client) ForecastWeather(ctx context.Context, adcode string) (*WeatherResponse, error) {
	return c.weatherInfo(ctx, adcode, "all")
}

func (c *Client) weatherInfo(ctx context.Context, adcode, extensions string) (*WeatherResponse, error) {
	values := url.Values{}
	values.Set("city", adcode)
	values.Set("extensions", extensions)

	var payload WeatherResponse
	if err := c.get(ctx, "/weather/weatherInfo", values, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "1" {
		return nil, fmt.Errorf("%w: weather info: %s (%s)", ErrProviderStatus, payload.Info, payload.Infocode)
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		values.Set("key", c.apiKey)
		values.Set("output", "JSON")

		u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.limiter, c.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
