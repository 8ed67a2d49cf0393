// Package favorites persists the user's ordered favorite-city list as a
// single JSON document, loaded once at startup and rewritten on every
// change.
package favorites

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

var (
	// ErrOutOfRange is returned when an index does not address a favorite.
	ErrOutOfRange = errors.New("favorite index out of range")
)

// WeatherSummary is the cached weather snippet shown on a favorite card.
type WeatherSummary struct {
	Temp float64 `json:"temp"`
	Icon string  `json:"icon"`
}

// Favorite is one saved city. Weather is nil until the city has been
// fetched at least once.
type Favorite struct {
	Name    string          `json:"name"`
	Weather *WeatherSummary `json:"weather"`
}

// Store is a concurrency-safe, file-backed favorites list.
type Store struct {
	mu    sync.Mutex
	path  string
	items []Favorite
}

// NewStore loads the favorites file at path. A missing file is an empty
// list, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.items); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns a copy of the favorites in saved order.
func (s *Store) List() []Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Favorite, len(s.items))
	copy(out, s.items)
	return out
}

// Add appends a city by name. Adding an already-saved name is a no-op.
func (s *Store) Add(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.items {
		if f.Name == name {
			return nil
		}
	}
	s.items = append(s.items, Favorite{Name: name})
	return s.save()
}

// RemoveAt deletes the favorite at the given position.
func (s *Store) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return ErrOutOfRange
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return s.save()
}

// UpdateWeather refreshes the cached weather snippet for a saved city.
// Cities not in the list are ignored.
func (s *Store) UpdateWeather(name string, temp float64, icon string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	for i := range s.items {
		if s.items[i].Name == name {
			s.items[i].Weather = &WeatherSummary{Temp: temp, Icon: icon}
			updated = true
		}
	}
	if !updated {
		return nil
	}
	return s.save()
}

func (s *Store) save() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
