package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomstay/internal/cleanup"
	"roomstay/internal/database"
	"roomstay/internal/httperr"
	"roomstay/internal/models"
	"roomstay/internal/scheduler"
	"roomstay/internal/validation"
)

// AdminHandler handles the moderation dashboard requests.
type AdminHandler struct {
	db        *database.GormDB
	scheduler *scheduler.Scheduler
	cleanupSv *cleanup.Service
	cfg       adminConfig
}

type adminConfig struct {
	retentionDays int
	maxDeletion   int
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *database.GormDB, sched *scheduler.Scheduler, retentionDays, maxDeletion int) *AdminHandler {
	return &AdminHandler{
		db:        db,
		scheduler: sched,
		cleanupSv: cleanup.NewService(db.DB()),
		cfg:       adminConfig{retentionDays: retentionDays, maxDeletion: maxDeletion},
	}
}

// GetStats returns dashboard statistics.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.db.GetAdminStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListProperties returns listings across all statuses for moderation.
func (h *AdminHandler) ListProperties(c *gin.Context) {
	status := c.Query("status")
	if status != "" {
		switch models.PropertyStatus(status) {
		case models.PropertyStatusPending, models.PropertyStatusApproved, models.PropertyStatusInactive:
		default:
			respondError(c, httperr.New(httperr.ErrValidation, "unknown status"))
			return
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.db.AdminListProperties(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": rows, "count": len(rows)})
}

// ApproveProperty moves a listing to approved.
func (h *AdminHandler) ApproveProperty(c *gin.Context) {
	h.setStatus(c, models.PropertyStatusApproved)
}

// DeactivateProperty moves a listing to inactive.
func (h *AdminHandler) DeactivateProperty(c *gin.Context) {
	h.setStatus(c, models.PropertyStatusInactive)
}

func (h *AdminHandler) setStatus(c *gin.Context, status models.PropertyStatus) {
	id := c.Param("id")
	if !validation.ValidHandleOrID(id) {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid listing identifier"))
		return
	}

	row, err := h.db.SetPropertyStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": row.ID, "status": row.Status})
}

// GetSettings returns every site setting.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	rows, err := h.db.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": rows})
}

type settingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// PutSetting writes one site setting.
func (h *AdminHandler) PutSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid request body"))
		return
	}
	if !validation.RequiredText(req.Key, 1, 100) {
		respondError(c, httperr.New(httperr.ErrValidation, "setting key must be 1-100 characters"))
		return
	}

	if err := h.db.UpsertSetting(c.Request.Context(), req.Key, validation.Sanitize(req.Value)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TriggerReindex rebuilds the search index in the background.
func (h *AdminHandler) TriggerReindex(c *gin.Context) {
	go func() {
		if err := h.scheduler.Reindex(); err != nil {
			log.Printf("[admin] background reindex failed: %v", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"message": "Reindex started in background"})
}

// RunCleanup runs one cleanup pass. ?dry_run=true previews.
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	result, err := h.cleanupSv.Run(cleanup.Config{
		RetentionDays: h.cfg.retentionDays,
		MaxDeletion:   h.cfg.maxDeletion,
		DryRun:        dryRun,
	})
	if err != nil {
		respondError(c, httperr.New(httperr.ErrPersistence, "cleanup run failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}
