package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roomstay/internal/cache"
	"roomstay/internal/catalog"
	"roomstay/internal/config"
	"roomstay/internal/counters"
	"roomstay/internal/csrf"
	"roomstay/internal/database"
	"roomstay/internal/httperr"
	"roomstay/internal/search"
	"roomstay/internal/validation"
)

// Handler composes the core services per endpoint.
type Handler struct {
	db       *database.GormDB
	cache    *cache.Store
	search   *search.Client
	csrf     *csrf.Service
	counters *counters.Reconciler
	cfg      *config.Config
}

// NewHandler creates the route handler set.
func NewHandler(db *database.GormDB, cacheStore *cache.Store, searchCli *search.Client, csrfSvc *csrf.Service, reconciler *counters.Reconciler, cfg *config.Config) *Handler {
	return &Handler{
		db:       db,
		cache:    cacheStore,
		search:   searchCli,
		csrf:     csrfSvc,
		counters: reconciler,
		cfg:      cfg,
	}
}

func (h *Handler) requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.cfg.Server.RequestTimeoutDuration())
}

// GetProduct returns one publicly visible listing by handle or id,
// cache-aside with the product TTL.
func (h *Handler) GetProduct(c *gin.Context) {
	handle := c.Param("handle")
	if !validation.ValidHandleOrID(handle) {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid listing identifier"))
		return
	}

	key := cache.ProductKey(handle)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	row, err := h.db.GetPropertyByHandleOrID(ctx, handle, true)
	if err != nil {
		respondError(c, err)
		return
	}

	product := catalog.MapPropertyToProduct(row)
	h.cache.Set(key, product, h.cfg.Cache.ProductTTL())
	c.JSON(http.StatusOK, product)
}

// ListProducts returns the filtered public catalog. Not cached: the filter
// space is unbounded.
func (h *Handler) ListProducts(c *gin.Context) {
	filters := database.PropertyFilters{
		Query:    validation.Sanitize(c.Query("q")),
		City:     validation.Sanitize(c.Query("city")),
		Locality: validation.Sanitize(c.Query("locality")),
	}

	if t := c.Query("type"); t != "" {
		if !modelsValidType(t) {
			respondError(c, httperr.New(httperr.ErrValidation, "unknown property type"))
			return
		}
		filters.Type = t
	}
	if minStr := c.Query("min_price"); minStr != "" {
		if min, err := strconv.Atoi(minStr); err == nil && min >= 0 {
			filters.MinPrice = &min
		}
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil && max >= 0 {
			filters.MaxPrice = &max
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	start := time.Now()
	rows, err := h.db.ListProperties(ctx, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	products := catalog.MapProperties(rows)
	logListDuration(start, len(products))
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetCollection returns a virtual collection and its member listings,
// cache-aside with the collection TTL.
func (h *Handler) GetCollection(c *gin.Context) {
	handle := c.Param("handle")
	if !validation.ValidHandleOrID(handle) {
		respondError(c, httperr.New(httperr.ErrValidation, "invalid collection identifier"))
		return
	}

	key := cache.CollectionKey(handle)
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	row, err := h.db.GetCollectionByHandle(ctx, handle)
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := h.db.GetPropertiesForCollection(ctx, row, 50)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := gin.H{
		"collection": catalog.MapDBCollectionToCollection(row),
		"products":   catalog.MapProperties(members),
	}
	h.cache.Set(key, payload, h.cfg.Cache.CollectionTTL())
	c.JSON(http.StatusOK, payload)
}

// SearchListings runs a free-text query against the search index.
func (h *Handler) SearchListings(c *gin.Context) {
	if h.search == nil {
		respondError(c, httperr.New(httperr.ErrPersistence, "search is not configured"))
		return
	}

	query := validation.Sanitize(c.Query("q"))
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	rows, err := h.search.Search(query, limit)
	if err != nil {
		respondError(c, httperr.New(httperr.ErrPersistence, "search failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": catalog.MapProperties(rows),
		"query":    query,
	})
}

// IssueCSRFToken hands the authenticated caller a token for mutating calls.
func (h *Handler) IssueCSRFToken(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	c.JSON(http.StatusOK, gin.H{
		"token":      h.csrf.Generate(userID),
		"expires_in": int(h.cfg.Auth.CSRFTTL().Seconds()),
	})
}
