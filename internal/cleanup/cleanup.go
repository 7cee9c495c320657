package cleanup

import (
	"log"
	"time"

	"gorm.io/gorm"

	"roomstay/internal/models"
)

// Service physically deletes listings that have sat inactive past the
// retention window.
type Service struct {
	db *gorm.DB
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Config holds configuration for cleanup operations
type Config struct {
	RetentionDays int  // Days a listing may stay inactive before deletion
	MaxDeletion   int  // Maximum listings to delete in one run (safety limit)
	DryRun        bool // If true, only log what would be deleted
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		RetentionDays: 180,
		MaxDeletion:   1000,
		DryRun:        false,
	}
}

// Result holds the result of a cleanup operation
type Result struct {
	TargetCount int       `json:"target_count"`
	Deleted     int       `json:"deleted_count"`
	Errors      int       `json:"error_count"`
	DryRun      bool      `json:"dry_run"`
	ExecutedAt  time.Time `json:"executed_at"`
	DeletedIDs  []string  `json:"deleted_ids,omitempty"`
}

// FindExpired returns listings eligible for deletion: inactive and not
// touched since the retention cutoff.
func (s *Service) FindExpired(retentionDays int) ([]models.Property, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	var rows []models.Property
	err := s.db.
		Where("status = ? AND updated_at < ?", models.PropertyStatusInactive, cutoff).
		Order("updated_at").
		Find(&rows).Error
	return rows, err
}

// Run executes one cleanup pass under cfg.
func (s *Service) Run(cfg Config) (*Result, error) {
	result := &Result{DryRun: cfg.DryRun, ExecutedAt: time.Now()}

	expired, err := s.FindExpired(cfg.RetentionDays)
	if err != nil {
		return nil, err
	}
	result.TargetCount = len(expired)

	if cfg.MaxDeletion > 0 && len(expired) > cfg.MaxDeletion {
		expired = expired[:cfg.MaxDeletion]
	}

	for _, p := range expired {
		if cfg.DryRun {
			log.Printf("[cleanup] dry_run would delete property_id=%s inactive_since=%s", p.ID, p.UpdatedAt.Format(time.RFC3339))
			continue
		}
		if err := s.db.Delete(&models.Property{}, "id = ?", p.ID).Error; err != nil {
			log.Printf("[cleanup] delete failed property_id=%s err=%v", p.ID, err)
			result.Errors++
			continue
		}
		// Lead rows go with the listing.
		if err := s.db.Delete(&models.Lead{}, "property_id = ?", p.ID).Error; err != nil {
			log.Printf("[cleanup] lead delete failed property_id=%s err=%v", p.ID, err)
		}
		result.Deleted++
		result.DeletedIDs = append(result.DeletedIDs, p.ID)
	}

	log.Printf("[cleanup] run complete target=%d deleted=%d errors=%d dry_run=%v",
		result.TargetCount, result.Deleted, result.Errors, result.DryRun)
	return result, nil
}
