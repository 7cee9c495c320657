package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"roomstay/internal/httperr"
)

// respondError translates a taxonomy error into the JSON rejection body.
// Persistence failures are logged with context server-side; the caller only
// ever sees the generic reason.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, httperr.ErrPersistence) {
		log.Printf("[http] persistence failure method=%s path=%s err=%v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(httperr.Status(err), gin.H{"error": httperr.Reason(err)})
}
