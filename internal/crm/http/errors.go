package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/logging"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// writeError maps domain and store errors onto status codes.
func writeError(c *gin.Context, op string, err error) {
	var verrs domain.ValidationErrors
	var access *records.AccessError
	var query queryErr

	switch {
	case errors.As(err, &query):
		badRequest(c, query.Error())
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verrs})
	case errors.Is(err, domain.ErrNoLocation):
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrNoLocation.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &access):
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": access.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// queryErr marks a malformed query parameter.
type queryErr struct{ err error }

func (e queryErr) Error() string { return e.err.Error() }

func queryError(err error) error { return queryErr{err} }
