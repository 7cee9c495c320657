package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"roomstay/internal/catalog"
	"roomstay/internal/database"
	"roomstay/internal/httperr"
	"roomstay/internal/models"
	"roomstay/internal/validation"
)

// createListingRequest is the create DTO. Binding tags reject missing
// required fields before field-level validation runs.
type createListingRequest struct {
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	Price        int                 `json:"price" binding:"required"`
	Address      string              `json:"address" binding:"required"`
	City         string              `json:"city" binding:"required"`
	Locality     string              `json:"locality"`
	Type         string              `json:"type" binding:"required"`
	Images       []listingImageInput `json:"images" binding:"required"`
	ContactPhone string              `json:"contact_phone" binding:"required"`
}

type listingImageInput struct {
	URL     string `json:"url" binding:"required"`
	AltText string `json:"alt_text"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// CreateListing persists a new listing for the authenticated caller.
// Stage order: the route middleware already ran rate limit, auth and CSRF;
// here the DTO is bound, validated field by field, sanitized, then persisted.
func (h *Handler) CreateListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid request body"))
		return
	}

	if err := validateListingFields(&req); err != nil {
		respondError(c, err)
		return
	}

	images := make([]models.PropertyImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, models.PropertyImage{
			URL:     img.URL,
			AltText: validation.Sanitize(img.AltText),
			Width:   img.Width,
			Height:  img.Height,
		})
	}
	encoded, err := catalog.EncodeImages(images)
	if err != nil {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid image payload"))
		return
	}

	title := validation.Sanitize(req.Title)
	property := &models.Property{
		ID:               uuid.NewString(),
		Handle:           deriveHandle(title),
		Title:            title,
		Description:      validation.Sanitize(req.Description),
		Price:            req.Price,
		Currency:         "INR",
		Address:          validation.Sanitize(req.Address),
		City:             validation.Sanitize(req.City),
		Locality:         validation.Sanitize(req.Locality),
		Type:             models.PropertyType(req.Type),
		Images:           encoded,
		AvailableForSale: true,
		Status:           models.PropertyStatusPending,
		UserID:           c.GetString(ctxUserID),
		ContactPhone:     req.ContactPhone,
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	if err := h.db.CreateProperty(ctx, property); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, catalog.MapPropertyToProduct(property))
}

// updateListingRequest is the update DTO; every field optional.
type updateListingRequest struct {
	Title            *string             `json:"title"`
	Description      *string             `json:"description"`
	Price            *int                `json:"price"`
	Address          *string             `json:"address"`
	City             *string             `json:"city"`
	Locality         *string             `json:"locality"`
	Type             *string             `json:"type"`
	Images           []listingImageInput `json:"images"`
	ContactPhone     *string             `json:"contact_phone"`
	AvailableForSale *bool               `json:"available_for_sale"`
}

// UpdateListing applies an owner's partial update.
func (h *Handler) UpdateListing(c *gin.Context) {
	id := c.Param("id")
	if !validation.ValidHandleOrID(id) {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid listing identifier"))
		return
	}

	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid request body"))
		return
	}

	patch, err := buildPatch(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	row, err := h.db.UpdateProperty(ctx, id, c.GetString(ctxUserID), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog.MapPropertyToProduct(row))
}

// DeleteListing removes an owner's listing.
func (h *Handler) DeleteListing(c *gin.Context) {
	id := c.Param("id")
	if !validation.ValidHandleOrID(id) {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid listing identifier"))
		return
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	if err := h.db.DeleteProperty(ctx, id, c.GetString(ctxUserID)); err != nil {
		respondError(c, err)
		return
	}

	if h.search != nil {
		if err := h.search.DeleteProperty(id); err != nil {
			log.Printf("[search] failed to deindex property_id=%s err=%v", id, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MyListings returns the caller's own listings across all statuses.
func (h *Handler) MyListings(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	rows, err := h.db.GetPropertiesByOwner(ctx, c.GetString(ctxUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": catalog.MapProperties(rows),
		"count":    len(rows),
	})
}

func validateListingFields(req *createListingRequest) error {
	if !validation.RequiredText(req.Title, validation.TitleMinLen, validation.TitleMaxLen) {
		return httperr.New(httperr.ErrValidation, "title must be 3-200 characters")
	}
	if !validation.OptionalText(req.Description, validation.DescriptionMaxLen) {
		return httperr.New(httperr.ErrValidation, "description too long")
	}
	if !validation.ValidPrice(req.Price) {
		return httperr.New(httperr.ErrValidation, "price must be a positive amount")
	}
	if !validation.RequiredText(req.Address, 1, validation.AddressMaxLen) {
		return httperr.New(httperr.ErrValidation, "address must be 1-500 characters")
	}
	if !validation.RequiredText(req.City, 1, validation.CityMaxLen) {
		return httperr.New(httperr.ErrValidation, "city is required")
	}
	if !validation.OptionalText(req.Locality, validation.LocalityMaxLen) {
		return httperr.New(httperr.ErrValidation, "locality too long")
	}
	if !models.ValidPropertyType(req.Type) {
		return httperr.New(httperr.ErrValidation, "type must be one of PG, Flat, Room, Hostel")
	}
	if len(req.Images) == 0 {
		return httperr.New(httperr.ErrValidation, "at least one image is required")
	}
	for _, img := range req.Images {
		if !validation.ValidURL(img.URL) {
			return httperr.New(httperr.ErrValidation, "image url is not a valid http(s) URL")
		}
	}
	if !validation.ValidPhone(req.ContactPhone) {
		return httperr.New(httperr.ErrValidation, "contact number is not a valid phone")
	}
	return nil
}

func buildPatch(req *updateListingRequest) (database.PropertyPatch, error) {
	patch := database.PropertyPatch{}

	if req.Title != nil {
		if !validation.RequiredText(*req.Title, validation.TitleMinLen, validation.TitleMaxLen) {
			return patch, httperr.New(httperr.ErrValidation, "title must be 3-200 characters")
		}
		s := validation.Sanitize(*req.Title)
		patch.Title = &s
	}
	if req.Description != nil {
		if !validation.OptionalText(*req.Description, validation.DescriptionMaxLen) {
			return patch, httperr.New(httperr.ErrValidation, "description too long")
		}
		s := validation.Sanitize(*req.Description)
		patch.Description = &s
	}
	if req.Price != nil {
		if !validation.ValidPrice(*req.Price) {
			return patch, httperr.New(httperr.ErrValidation, "price must be a positive amount")
		}
		patch.Price = req.Price
	}
	if req.Address != nil {
		if !validation.RequiredText(*req.Address, 1, validation.AddressMaxLen) {
			return patch, httperr.New(httperr.ErrValidation, "address must be 1-500 characters")
		}
		s := validation.Sanitize(*req.Address)
		patch.Address = &s
	}
	if req.City != nil {
		if !validation.RequiredText(*req.City, 1, validation.CityMaxLen) {
			return patch, httperr.New(httperr.ErrValidation, "city is required")
		}
		s := validation.Sanitize(*req.City)
		patch.City = &s
	}
	if req.Locality != nil {
		if !validation.OptionalText(*req.Locality, validation.LocalityMaxLen) {
			return patch, httperr.New(httperr.ErrValidation, "locality too long")
		}
		s := validation.Sanitize(*req.Locality)
		patch.Locality = &s
	}
	if req.Type != nil {
		if !models.ValidPropertyType(*req.Type) {
			return patch, httperr.New(httperr.ErrValidation, "type must be one of PG, Flat, Room, Hostel")
		}
		patch.Type = req.Type
	}
	if req.Images != nil {
		images := make([]models.PropertyImage, 0, len(req.Images))
		for _, img := range req.Images {
			if !validation.ValidURL(img.URL) {
				return patch, httperr.New(httperr.ErrValidation, "image url is not a valid http(s) URL")
			}
			images = append(images, models.PropertyImage{
				URL:     img.URL,
				AltText: validation.Sanitize(img.AltText),
				Width:   img.Width,
				Height:  img.Height,
			})
		}
		encoded, err := catalog.EncodeImages(images)
		if err != nil {
			return patch, httperr.New(httperr.ErrValidation, "invalid image payload")
		}
		patch.Images = encoded
	}
	if req.ContactPhone != nil {
		if !validation.ValidPhone(*req.ContactPhone) {
			return patch, httperr.New(httperr.ErrValidation, "contact number is not a valid phone")
		}
		patch.ContactPhone = req.ContactPhone
	}
	if req.AvailableForSale != nil {
		patch.AvailableForSale = req.AvailableForSale
	}

	return patch, nil
}

// deriveHandle slugs the title with a short random suffix. Best effort: the
// suffix makes collisions unlikely, not impossible.
func deriveHandle(title string) string {
	base := slug.Make(title)
	if len(base) > 180 {
		base = base[:180]
	}
	suffix := uuid.NewString()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func modelsValidType(t string) bool {
	return models.ValidPropertyType(t)
}

func logListDuration(start time.Time, count int) {
	log.Printf("[catalog] list duration_ms=%d results=%d", time.Since(start).Milliseconds(), count)
}
