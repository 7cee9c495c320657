package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"roomstay/internal/cleanup"
	"roomstay/internal/config"
	"roomstay/internal/database"
	"roomstay/internal/search"
)

// Scheduler runs the nightly maintenance jobs: search reindex and listing
// cleanup.
type Scheduler struct {
	cron      *cron.Cron
	db        *database.GormDB
	searchCli *search.Client
	cleanupSv *cleanup.Service
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(db *database.GormDB, searchCli *search.Client, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		db:        db,
		searchCli: searchCli,
		cleanupSv: cleanup.NewService(db.DB()),
		config:    cfg,
	}
}

// Start registers the nightly job and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.config.Cleanup.NightlyEnabled {
		log.Println("Scheduler: nightly run is disabled in configuration")
		return nil
	}

	cronSpec := parseDailyRunTime(s.config.Cleanup.NightlyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: starting nightly maintenance...")
		if err := s.RunNow(); err != nil {
			log.Printf("Scheduler: nightly maintenance failed: %v", err)
		} else {
			log.Println("Scheduler: nightly maintenance completed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: started with nightly run at %s (cron: %s)", s.config.Cleanup.NightlyRunTime, cronSpec)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: stopped")
	}
}

// RunNow executes one maintenance pass immediately.
func (s *Scheduler) RunNow() error {
	if err := s.Reindex(); err != nil {
		return err
	}

	_, err := s.cleanupSv.Run(cleanup.Config{
		RetentionDays: s.config.Cleanup.RetentionDays,
		MaxDeletion:   s.config.Cleanup.MaxDeletionRun,
	})
	return err
}

// Reindex rebuilds the search index from the approved listings.
func (s *Scheduler) Reindex() error {
	if s.searchCli == nil {
		return nil
	}

	rows, err := s.db.GetApprovedProperties(context.Background())
	if err != nil {
		return err
	}
	if err := s.searchCli.IndexProperties(rows); err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	log.Printf("[reindex] indexed %d approved listings", len(rows))
	return nil
}

// parseDailyRunTime converts "HH:MM" into a cron spec, defaulting to 03:00
// on malformed input.
func parseDailyRunTime(t string) string {
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return "0 3 * * *"
	}
	var hour, minute int
	if _, err := fmt.Sscanf(t, "%d:%d", &hour, &minute); err != nil {
		return "0 3 * * *"
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "0 3 * * *"
	}
	return fmt.Sprintf("%d %d * * *", minute, hour)
}
