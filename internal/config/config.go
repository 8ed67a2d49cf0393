package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// AMapAPIKey authenticates every call to the upstream provider.
	AMapAPIKey string

	// HTTPTimeout applies to the shared outbound HTTP client.
	HTTPTimeout time.Duration

	// RefreshInterval controls how often favorite cities get their
	// cached weather refreshed.
	RefreshInterval time.Duration

	// SearchDebounce is the quiet period before a search query is
	// actually resolved.
	SearchDebounce time.Duration

	// FavoritesFile is the JSON file backing the favorites list.
	FavoritesFile string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AMapAPIKey = os.Getenv("AMAP_API_KEY")
	if cfg.AMapAPIKey == "" {
		return nil, fmt.Errorf("AMAP_API_KEY is required")
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	interval, err := getenvDuration("REFRESH_INTERVAL", "15m")
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	debounce, err := getenvDuration("SEARCH_DEBOUNCE", "500ms")
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE: %w", err)
	}
	cfg.SearchDebounce = debounce

	cfg.FavoritesFile = getenvDefault("FAVORITES_FILE", "favorites.json")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
