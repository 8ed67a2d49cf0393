package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/weatherdash/weatherdash/internal/amap"
	"github.com/weatherdash/weatherdash/internal/favorites"
	"github.com/weatherdash/weatherdash/internal/geo"
	"github.com/weatherdash/weatherdash/internal/search"
	"github.com/weatherdash/weatherdash/internal/weather"
)

type fakeResolver struct {
	candidates []geo.CityCandidate
}

func (f *fakeResolver) Resolve(ctx context.Context, query string) []geo.CityCandidate {
	return f.candidates
}

type fakeProvider struct {
	live     *amap.WeatherResponse
	forecast *amap.WeatherResponse
}

func (f *fakeProvider) LiveWeather(ctx context.Context, adcode string) (*amap.WeatherResponse, error) {
	return f.live, nil
}

func (f *fakeProvider) ForecastWeather(ctx context.Context, adcode string) (*amap.WeatherResponse, error) {
	return f.forecast, nil
}

func newTestApp(t *testing.T, resolver weather.Resolver, provider weather.Provider) (*fiber.App, *favorites.Store) {
	t.Helper()

	favStore, err := favorites.NewStore(filepath.Join(t.TempDir(), "favorites.json"))
	if err != nil {
		t.Fatalf("favorites store: %v", err)
	}

	session := search.NewSession(time.Millisecond, resolver.Resolve)
	t.Cleanup(session.Close)

	app := fiber.New()
	svc := weather.NewService(resolver, provider)
	RegisterRoutes(app, svc, session, favStore)
	return app, favStore
}

func beijingSetup() (*fakeResolver, *fakeProvider) {
	resolver := &fakeResolver{candidates: []geo.CityCandidate{
		{Name: "北京市", AreaCode: "110000", Lat: 39.904030, Lon: 116.407526},
	}}
	provider := &fakeProvider{
		live: &amap.WeatherResponse{
			Status: "1",
			Lives:  []amap.Live{{City: "北京市", Weather: "晴", Temperature: "21.5", Humidity: "60", WindPower: "3"}},
		},
		forecast: &amap.WeatherResponse{
			Status: "1",
			Forecasts: []amap.ForecastEntry{{
				City: "北京市",
				Casts: []amap.Cast{
					{Date: "2026-08-31", DayWeather: "晴", DayTemp: "30", NightTemp: "20"},
					{Date: "2026-09-01", DayWeather: "小雨", DayTemp: "28", NightTemp: "18"},
				},
			}},
		},
	}
	return resolver, provider
}

func TestCurrentRequiresCity(t *testing.T) {
	app, _ := newTestApp(t, &fakeResolver{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCurrentUnknownCityIs404(t *testing.T) {
	app, _ := newTestApp(t, &fakeResolver{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?city=nowhere", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestCurrentEmptyLivesIs502(t *testing.T) {
	resolver, _ := beijingSetup()
	app, _ := newTestApp(t, resolver, &fakeProvider{
		live: &amap.WeatherResponse{Status: "1"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?city=北京", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, resp.StatusCode)
	}
}

func TestSearchDedupesByName(t *testing.T) {
	app, _ := newTestApp(t, &fakeResolver{candidates: []geo.CityCandidate{
		{Name: "朝阳市", AreaCode: "211300"},
		{Name: "朝阳区", AreaCode: "110105"},
		{Name: "朝阳市", AreaCode: "222400"},
	}}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=朝阳", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Results []geo.CityCandidate `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 results, got %d", len(body.Results))
	}
	// First occurrence wins.
	if body.Results[0].AreaCode != "211300" {
		t.Errorf("unexpected first result: %+v", body.Results[0])
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	app, _ := newTestApp(t, &fakeResolver{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDashboardComposesDerivedViews(t *testing.T) {
	resolver, provider := beijingSetup()
	app, favStore := newTestApp(t, resolver, provider)
	// Saved under the provider's city name, queried under a looser one.
	favStore.Add("北京市")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/dashboard?city=北京", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var body struct {
		Current   weather.CurrentConditions  `json:"current"`
		Forecast  weather.ForecastSeries     `json:"forecast"`
		Daily     []weather.DailyAggregate   `json:"daily"`
		Trend     []weather.TrendPoint       `json:"trend"`
		Alerts    []weather.Alert            `json:"alerts"`
		Metrics   map[string]json.RawMessage `json:"metrics"`
		Lifestyle weather.LifestyleAdvice    `json:"lifestyle"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if body.Current.TemperatureC != 21.5 {
		t.Errorf("current temp = %v, want 21.5", body.Current.TemperatureC)
	}
	if len(body.Forecast.Records) != 2 || len(body.Daily) != 2 || len(body.Trend) != 2 {
		t.Errorf("unexpected derived view sizes: forecast=%d daily=%d trend=%d",
			len(body.Forecast.Records), len(body.Daily), len(body.Trend))
	}
	if body.Trend[0].NormalizedHeight != 1.0 {
		t.Errorf("first trend height = %v, want 1.0", body.Trend[0].NormalizedHeight)
	}
	for _, key := range []string{"humidity", "wind", "visibility", "uv", "aqi"} {
		if _, ok := body.Metrics[key]; !ok {
			t.Errorf("metrics missing %s", key)
		}
	}
	if body.Lifestyle.Clothing != "long-sleeve" {
		t.Errorf("lifestyle clothing = %s, want long-sleeve for 21.5°C", body.Lifestyle.Clothing)
	}
	if body.Alerts == nil || len(body.Alerts) != 0 {
		t.Errorf("expected empty alerts list, got %+v", body.Alerts)
	}

	// A fresh fetch refreshes the favorite card for the requested city.
	favs := favStore.List()
	if len(favs) != 1 || favs[0].Weather == nil || favs[0].Weather.Temp != 21.5 {
		t.Errorf("favorite weather not refreshed: %+v", favs)
	}
}

func TestFavoritesCRUD(t *testing.T) {
	app, _ := newTestApp(t, &fakeResolver{}, &fakeProvider{})

	post := httptest.NewRequest(http.MethodPost, "/api/v1/favorites", strings.NewReader(`{"name":"上海"}`))
	post.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(post)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	resp, err = app.Test(get)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var favs []favorites.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&favs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(favs) != 1 || favs[0].Name != "上海" {
		t.Fatalf("unexpected favorites: %+v", favs)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/favorites/0", nil)
	resp, err = app.Test(del)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	del = httptest.NewRequest(http.MethodDelete, "/api/v1/favorites/9", nil)
	resp, err = app.Test(del)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for out-of-range index, got %d", resp.StatusCode)
	}
}

func TestFavoritesValidation(t *testing.T) {
	app, _ := newTestApp(t, &fakeResolver{}, &fakeProvider{})

	post := httptest.NewRequest(http.MethodPost, "/api/v1/favorites", strings.NewReader(`{}`))
	post.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(post)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", resp.StatusCode)
	}
}
