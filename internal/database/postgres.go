package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roomstay/internal/config"
	"roomstay/internal/httperr"
	"roomstay/internal/models"
)

// GormDB is the regular-privilege repository. Row-level authorization is
// enforced by the store; this connection never bypasses it.
type GormDB struct {
	db *gorm.DB
}

func NewGormDB(cfg config.DatabaseConfig) (*GormDB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB wraps an existing gorm.DB instance (used by tests).
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance.
func (g *GormDB) DB() *gorm.DB {
	return g.db
}

func (g *GormDB) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables and the atomic counter function.
func (g *GormDB) InitSchema() error {
	if err := g.db.AutoMigrate(
		&models.Property{},
		&models.Collection{},
		&models.Lead{},
		&models.Setting{},
	); err != nil {
		return err
	}

	// Primary counter path: a stored function so the increment is a single
	// server-side statement regardless of caller privileges.
	return g.db.Exec(`
		CREATE OR REPLACE FUNCTION increment_property_counter(pid varchar, counter text)
		RETURNS void AS $$
		BEGIN
			IF counter = 'view_count' THEN
				UPDATE properties SET view_count = view_count + 1 WHERE id = pid;
			ELSIF counter = 'leads_count' THEN
				UPDATE properties SET leads_count = leads_count + 1 WHERE id = pid;
			ELSE
				RAISE EXCEPTION 'unknown counter %', counter;
			END IF;
		END;
		$$ LANGUAGE plpgsql;
	`).Error
}

// CreateProperty inserts a new listing row.
func (g *GormDB) CreateProperty(ctx context.Context, p *models.Property) error {
	if err := g.db.WithContext(ctx).Create(p).Error; err != nil {
		return httperr.New(httperr.ErrPersistence, "failed to create listing")
	}
	return nil
}

// GetPropertyByHandleOrID fetches one listing by handle, falling back to id.
// When publicOnly is set, rows failing the visibility predicate read as
// not found.
func (g *GormDB) GetPropertyByHandleOrID(ctx context.Context, handleOrID string, publicOnly bool) (*models.Property, error) {
	q := g.db.WithContext(ctx).Where("handle = ? OR id = ?", handleOrID, handleOrID)
	if publicOnly {
		q = q.Where("status = ? AND available_for_sale = ?", models.PropertyStatusApproved, true)
	}

	var p models.Property
	err := q.Order("created_at DESC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.New(httperr.ErrNotFound, "listing not found")
	}
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to read listing")
	}
	return &p, nil
}

// PropertyFilters narrows a catalog listing query. Zero values mean "no
// constraint".
type PropertyFilters struct {
	Query    string
	MinPrice *int
	MaxPrice *int
	City     string
	Locality string
	Type     string
	Limit    int
	Offset   int
}

// ListProperties returns publicly visible listings matching filters, newest
// first (stable order for identical inputs).
func (g *GormDB) ListProperties(ctx context.Context, f PropertyFilters) ([]models.Property, error) {
	q := g.db.WithContext(ctx).Model(&models.Property{}).
		Where("status = ? AND available_for_sale = ?", models.PropertyStatusApproved, true)

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ? OR locality ILIKE ?", like, like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.City != "" {
		q = q.Where("city ILIKE ?", f.City)
	}
	if f.Locality != "" {
		q = q.Where("locality ILIKE ?", "%"+f.Locality+"%")
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var rows []models.Property
	err := q.Order("created_at DESC, id").Limit(limit).Offset(f.Offset).Find(&rows).Error
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to list listings")
	}
	return rows, nil
}

// GetPropertiesByOwner returns every listing owned by userID, any status.
func (g *GormDB) GetPropertiesByOwner(ctx context.Context, userID string) ([]models.Property, error) {
	var rows []models.Property
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to list owner listings")
	}
	return rows, nil
}

// PropertyPatch carries the owner-mutable fields of an update. Nil means
// "leave unchanged". UserID is deliberately absent: ownership is immutable.
type PropertyPatch struct {
	Title            *string
	Description      *string
	Price            *int
	Address          *string
	City             *string
	Locality         *string
	Type             *string
	Images           []byte
	ContactPhone     *string
	AvailableForSale *bool
}

// UpdateProperty applies patch to the listing identified by id, provided
// ownerID matches the row's user_id.
func (g *GormDB) UpdateProperty(ctx context.Context, id, ownerID string, patch PropertyPatch) (*models.Property, error) {
	existing, err := g.getOwnedProperty(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.City != nil {
		updates["city"] = *patch.City
	}
	if patch.Locality != nil {
		updates["locality"] = *patch.Locality
	}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Images != nil {
		updates["images"] = patch.Images
	}
	if patch.ContactPhone != nil {
		updates["contact_phone"] = *patch.ContactPhone
	}
	if patch.AvailableForSale != nil {
		updates["available_for_sale"] = *patch.AvailableForSale
	}

	if len(updates) > 0 {
		if err := g.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			return nil, httperr.New(httperr.ErrPersistence, "failed to update listing")
		}
	}
	return g.GetPropertyByHandleOrID(ctx, id, false)
}

// DeleteProperty removes the listing identified by id if ownerID owns it.
func (g *GormDB) DeleteProperty(ctx context.Context, id, ownerID string) error {
	existing, err := g.getOwnedProperty(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return httperr.New(httperr.ErrPersistence, "failed to delete listing")
	}
	return nil
}

func (g *GormDB) getOwnedProperty(ctx context.Context, id, ownerID string) (*models.Property, error) {
	var p models.Property
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.New(httperr.ErrNotFound, "listing not found")
	}
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to read listing")
	}
	if p.UserID != ownerID {
		return nil, httperr.New(httperr.ErrForbidden, "not the listing owner")
	}
	return &p, nil
}

// SetPropertyStatus moves a listing through the moderation lifecycle.
// Admin-tier only; ownership is not checked here.
func (g *GormDB) SetPropertyStatus(ctx context.Context, id string, status models.PropertyStatus) (*models.Property, error) {
	res := g.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to update status")
	}
	if res.RowsAffected == 0 {
		return nil, httperr.New(httperr.ErrNotFound, "listing not found")
	}
	return g.GetPropertyByHandleOrID(ctx, id, false)
}

// IncrementCounter is the primary, atomic counter path: a single stored-
// function call on the server side.
func (g *GormDB) IncrementCounter(ctx context.Context, propertyID, counter string) error {
	if !models.ValidCounterName(counter) {
		return fmt.Errorf("unknown counter %q", counter)
	}
	return g.db.WithContext(ctx).
		Exec("SELECT increment_property_counter(?, ?)", propertyID, counter).Error
}

// RecordLead stores the durable per-lead row behind the leads_count counter.
func (g *GormDB) RecordLead(ctx context.Context, propertyID string, kind models.LeadKind) error {
	lead := models.Lead{PropertyID: propertyID, Kind: kind}
	if err := g.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return httperr.New(httperr.ErrPersistence, "failed to record lead")
	}
	return nil
}

// GetCollectionByHandle fetches one collection row.
func (g *GormDB) GetCollectionByHandle(ctx context.Context, handle string) (*models.Collection, error) {
	var c models.Collection
	err := g.db.WithContext(ctx).Where("handle = ?", handle).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.New(httperr.ErrNotFound, "collection not found")
	}
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to read collection")
	}
	return &c, nil
}

// GetPropertiesForCollection returns the listings heuristically grouped under
// a collection: membership is title/type substring containment on the
// collection's keyword, not a foreign key.
func (g *GormDB) GetPropertiesForCollection(ctx context.Context, c *models.Collection, limit int) ([]models.Property, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	keyword := collectionKeyword(c.Handle)
	like := "%" + keyword + "%"

	var rows []models.Property
	err := g.db.WithContext(ctx).
		Where("status = ? AND available_for_sale = ?", models.PropertyStatusApproved, true).
		Where("title ILIKE ? OR type ILIKE ?", like, like).
		Order("created_at DESC, id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to list collection")
	}
	return rows, nil
}

// collectionKeyword derives the match word from a collection handle,
// e.g. "pg-rooms" matches on "pg".
func collectionKeyword(handle string) string {
	for i := 0; i < len(handle); i++ {
		if handle[i] == '-' {
			return handle[:i]
		}
	}
	return handle
}

// GetSetting reads one site setting; missing keys return not found.
func (g *GormDB) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.New(httperr.ErrNotFound, "setting not found")
	}
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to read setting")
	}
	return &s, nil
}

// ListSettings returns every site setting.
func (g *GormDB) ListSettings(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	if err := g.db.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to list settings")
	}
	return rows, nil
}

// UpsertSetting writes one site setting.
func (g *GormDB) UpsertSetting(ctx context.Context, key, value string) error {
	s := models.Setting{Key: key, Value: value}
	err := g.db.WithContext(ctx).Save(&s).Error
	if err != nil {
		return httperr.New(httperr.ErrPersistence, "failed to save setting")
	}
	return nil
}

// AdminListProperties returns listings across all statuses for moderation.
func (g *GormDB) AdminListProperties(ctx context.Context, status string, limit, offset int) ([]models.Property, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	q := g.db.WithContext(ctx).Model(&models.Property{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []models.Property
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to list listings")
	}
	return rows, nil
}

// AdminStats aggregates the dashboard numbers.
type AdminStats struct {
	Properties     map[string]int64 `json:"properties"`
	CreatedLast24h int64            `json:"created_last_24h"`
	LeadsLast7d    int64            `json:"leads_last_7d"`
	TotalViews     int64            `json:"total_views"`
	TotalLeads     int64            `json:"total_leads"`
}

// GetAdminStats computes moderation and analytics totals.
func (g *GormDB) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{Properties: map[string]int64{}}
	db := g.db.WithContext(ctx)

	for _, status := range []models.PropertyStatus{
		models.PropertyStatusPending,
		models.PropertyStatusApproved,
		models.PropertyStatusInactive,
	} {
		var n int64
		if err := db.Model(&models.Property{}).Where("status = ?", status).Count(&n).Error; err != nil {
			return nil, httperr.New(httperr.ErrPersistence, "failed to compute stats")
		}
		stats.Properties[string(status)] = n
	}

	last24h := time.Now().AddDate(0, 0, -1)
	if err := db.Model(&models.Property{}).Where("created_at >= ?", last24h).
		Count(&stats.CreatedLast24h).Error; err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to compute stats")
	}

	last7d := time.Now().AddDate(0, 0, -7)
	if err := db.Model(&models.Lead{}).Where("created_at >= ?", last7d).
		Count(&stats.LeadsLast7d).Error; err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to compute stats")
	}

	type sums struct {
		Views int64
		Leads int64
	}
	var s sums
	err := db.Model(&models.Property{}).
		Select("COALESCE(SUM(view_count),0) AS views, COALESCE(SUM(leads_count),0) AS leads").
		Scan(&s).Error
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to compute stats")
	}
	stats.TotalViews = s.Views
	stats.TotalLeads = s.Leads

	return stats, nil
}

// GetApprovedProperties returns every publicly visible listing (used by the
// search reindex job).
func (g *GormDB) GetApprovedProperties(ctx context.Context) ([]models.Property, error) {
	var rows []models.Property
	err := g.db.WithContext(ctx).
		Where("status = ?", models.PropertyStatusApproved).
		Find(&rows).Error
	if err != nil {
		return nil, httperr.New(httperr.ErrPersistence, "failed to list listings")
	}
	return rows, nil
}
