package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	listingapp "vibestays/internal/app/handlers/listings"
	"vibestays/internal/app/policies"
	authsvc "vibestays/internal/app/services/auth"
	domainadmin "vibestays/internal/domain/admin"
	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
)

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainlistings.ErrNotFound),
		errors.Is(err, domainreviews.ErrNotFound),
		errors.Is(err, domainleads.ErrNotFound):
		return http.StatusNotFound
	case isValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domainleads.ErrAlreadyHandled),
		errors.Is(err, domainadmin.ErrEmailAlreadyUsed):
		return http.StatusConflict
	case errors.Is(err, policies.ErrUnauthenticated),
		errors.Is(err, authsvc.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, policies.ErrForbidden),
		errors.Is(err, authsvc.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, listingapp.ErrUploaderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, domainlistings.ErrIDRequired),
		errors.Is(err, domainlistings.ErrNameRequired),
		errors.Is(err, domainlistings.ErrLocationRequired),
		errors.Is(err, domainlistings.ErrNegativePrice),
		errors.Is(err, domainlistings.ErrGuestsLimit),
		errors.Is(err, domainlistings.ErrUnknownPriceUnit),
		errors.Is(err, domainlistings.ErrUnknownPropertyType),
		errors.Is(err, domainlistings.ErrUnknownView),
		errors.Is(err, domainlistings.ErrUnknownTheme),
		errors.Is(err, domainreviews.ErrInvalidRating),
		errors.Is(err, domainreviews.ErrGuestNameRequired),
		errors.Is(err, domainreviews.ErrCommentRequired),
		errors.Is(err, domainreviews.ErrListingRequired),
		errors.Is(err, domainreviews.ErrUnknownAction),
		errors.Is(err, domainleads.ErrNameRequired),
		errors.Is(err, domainleads.ErrInvalidEmail),
		errors.Is(err, domainleads.ErrMessageRequired),
		errors.Is(err, domainadmin.ErrEmailRequired),
		errors.Is(err, domainadmin.ErrNameRequired),
		errors.Is(err, authsvc.ErrPasswordTooShort):
		return true
	}
	return false
}

// respondError writes {"error": ...}. Internal errors are logged and hidden from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", "path", c.FullPath(), "error", err, "request_id", c.GetString("request_id"))
		}
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": what + " unavailable"})
}
