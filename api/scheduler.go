/*
scheduler.go - Background leave maintenance

PURPOSE:
  Periodically keeps the holiday calendar ahead of the clock and logs the
  employees who need attention, so nobody has to remember either at
  year end.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Holiday seeding: saves the configured preset for the current year, and
    for the next year once December starts. A year that already holds any
    preset row is left alone, so holidays an admin deleted stay deleted.
    The AddDefaultHolidays endpoint still re-applies a whole year.
  - Alert sweep: computes team statistics and logs one warning per alert
  - Records the outcome of the last run for inspection

CONFIGURATION:
  - CheckInterval: How often to run (default: 1 hour)
  - SeedHolidays: Whether to seed the preset (default: false)

USAGE:
  scheduler := NewScheduler(handler, logger)
  scheduler.SeedHolidays = cfg.Holidays.SeedDefaults
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: AddDefaultHolidays endpoint (manual seeding)
  - leave/team.go: Alerts
*/
package api

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/warp/leave-engine/calendar"
)

// Scheduler runs holiday seeding and the alert sweep on a ticker.
type Scheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	SeedHolidays  bool

	logger *slog.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	last RunSummary
}

// RunSummary describes one scheduler pass.
type RunSummary struct {
	At             time.Time
	HolidaysSeeded int
	Alerts         int
	Err            error
}

// NewScheduler creates a new scheduler.
func NewScheduler(h *Handler, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Handler:       h,
		CheckInterval: 1 * time.Hour,
		logger:        logger.With("component", "scheduler"),
	}
}

// Start begins the scheduler. It runs once immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	s.logger.Info("scheduler started", "interval", s.CheckInterval.String(), "seed_holidays", s.SeedHolidays)
}

// Stop stops the scheduler and waits for the current pass.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// LastRun returns the summary of the most recent pass.
func (s *Scheduler) LastRun() RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.RunOnce(context.Background())

	s.mu.Lock()
	ticker, stop := s.ticker, s.stop
	s.mu.Unlock()
	if ticker == nil {
		return
	}

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-stop:
			return
		}
	}
}

// RunOnce performs a single pass.
func (s *Scheduler) RunOnce(ctx context.Context) RunSummary {
	today := s.Handler.Today()
	summary := RunSummary{At: time.Now()}

	if s.SeedHolidays {
		n, err := s.seedHolidays(ctx, today.Year(), today.Month() == time.December)
		summary.HolidaysSeeded = n
		if err != nil {
			summary.Err = err
			s.logger.Error("holiday seeding failed", "error", err)
		}
	}

	stats, err := s.Handler.Service.TeamStats(ctx, today)
	switch {
	case err != nil:
		summary.Err = err
		s.logger.Error("alert sweep failed", "error", err)
	case stats != nil:
		summary.Alerts = len(stats.Alerts)
		for _, a := range stats.Alerts {
			s.logger.Warn("leave alert",
				"employee_id", a.EmployeeID,
				"name", a.Name,
				"level", a.Level,
				"overused", a.Overused,
				"message", a.Message,
			)
		}
	}

	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()
	return summary
}

func (s *Scheduler) seedHolidays(ctx context.Context, year int, includeNext bool) (int, error) {
	preset, err := calendar.Lookup(s.Handler.HolidayPreset)
	if err != nil {
		return 0, err
	}
	years := []int{year}
	if includeNext {
		years = append(years, year+1)
	}

	existing, err := s.Handler.Store.ListAllHolidays(ctx)
	if err != nil {
		return 0, err
	}
	seeded := make(map[int]bool)
	prefix := "holiday-" + preset.Code + "-"
	for _, h := range existing {
		if strings.HasPrefix(h.ID, prefix) {
			seeded[h.Date.Year()] = true
		}
	}

	total := 0
	for _, y := range years {
		if seeded[y] {
			s.logger.Debug("holiday preset already seeded", "preset", preset.Code, "year", y)
			continue
		}
		n, err := SeedHolidays(ctx, s.Handler.Store, preset, y)
		if err != nil {
			return total, err
		}
		total += n
	}
	if total > 0 {
		s.Handler.Service.InvalidateHolidays()
	}
	return total, nil
}
