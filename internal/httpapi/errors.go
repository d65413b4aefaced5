package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"greengrocer-backend/internal/admin"
	"greengrocer-backend/internal/identity"
	"greengrocer-backend/internal/order"
	"greengrocer-backend/internal/store"
)

// respondError maps service errors onto status codes. Anything unrecognised
// is a store or infrastructure failure and is returned as a 500.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var decodeErr *store.DecodeError

	switch {
	case order.IsValidation(err), admin.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrEmptyOrder):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, admin.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, admin.ErrAdminExists), errors.Is(err, identity.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, admin.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, identity.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.As(err, &decodeErr):
		s.log.WithField("request_id", c.GetString(requestIDKey)).WithError(err).Error("malformed document in store")
	default:
		s.log.WithField("request_id", c.GetString(requestIDKey)).WithError(err).Error("request error")
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
