package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/weatherdash/weatherdash/internal/favorites"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// Scheduler periodically refreshes the cached weather for favorite cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	store     *favorites.Store
	interval  time.Duration
}

// New creates a new Scheduler.
func New(service *weather.Service, store *favorites.Store, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.refreshFavorites)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// refreshFavorites fetches current conditions for every saved city and
// updates its cached snippet. Individual failures are logged and skipped
// so one bad city never blocks the rest.
func (s *Scheduler) refreshFavorites() {
	items := s.store.List()
	if len(items) == 0 {
		return
	}

	log.Printf("scheduler: refreshing weather for %d favorite cities", len(items))

	for _, fav := range items {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		current, err := s.service.FetchCurrent(ctx, fav.Name)
		cancel()
		if err != nil {
			log.Printf("scheduler: refresh failed for %s: %v", fav.Name, err)
			continue
		}

		if err := s.store.UpdateWeather(fav.Name, current.TemperatureC, current.ConditionIcon); err != nil {
			log.Printf("scheduler: failed to save weather for %s: %v", fav.Name, err)
		}
	}

	log.Println("scheduler: completed favorites refresh")
}
