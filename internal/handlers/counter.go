package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomstay/internal/httperr"
	"roomstay/internal/models"
	"roomstay/internal/validation"
)

// IncrementView bumps the view counter. Publicly triggerable; the response
// reports which increment path succeeded.
func (h *Handler) IncrementView(c *gin.Context) {
	id := c.Param("id")
	if !validation.ValidHandleOrID(id) {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid listing identifier"))
		return
	}

	result := h.counters.Increment(c.Request.Context(), id, models.CounterViews)
	c.JSON(http.StatusOK, result)
}

// leadRequest optionally names the lead kind; defaults to "contact".
type leadRequest struct {
	Kind string `json:"kind"`
}

// IncrementLead bumps the lead counter and records the durable lead row.
// Counter failure never blocks the response: the caller's share/contact
// action already happened.
func (h *Handler) IncrementLead(c *gin.Context) {
	id := c.Param("id")
	if !validation.ValidHandleOrID(id) {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid listing identifier"))
		return
	}

	kind := models.LeadKindContact
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Kind != "" {
		switch models.LeadKind(req.Kind) {
		case models.LeadKindWhatsApp, models.LeadKindCall, models.LeadKindShare, models.LeadKindContact:
			kind = models.LeadKind(req.Kind)
		default:
			respondError(c, httperr.New(httperr.ErrValidation, "unknown lead kind"))
			return
		}
	}

	result := h.counters.Increment(c.Request.Context(), id, models.CounterLeads)

	ctx, cancel := h.requestCtx(c)
	defer cancel()
	if err := h.db.RecordLead(ctx, id, kind); err != nil {
		// Logged, not surfaced: the counter result is the caller contract.
		log.Printf("[leads] failed to record lead property_id=%s kind=%s err=%v", id, kind, err)
	}

	c.JSON(http.StatusOK, result)
}
