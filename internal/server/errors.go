package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	dispatchdomain "github.com/formanet/formanet/internal/dispatch/domain"
	onboardingdomain "github.com/formanet/formanet/internal/onboarding/domain"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	royaltydomain "github.com/formanet/formanet/internal/royalty/domain"
	territorydomain "github.com/formanet/formanet/internal/territory/domain"
)

type errorPayload struct {
	Type      string                     `json:"type"`
	Message   string                     `json:"message"`
	Conflicts []territorydomain.Conflict `json:"conflicts,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts the last gin error of a request into the
// JSON error envelope. Handlers abort with AbortWithError and never write
// error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var conflictErr *territorydomain.ConflictError
	if errors.As(err, &conflictErr) {
		return http.StatusConflict, errorPayload{
			Type:      "conflict",
			Message:   conflictErr.Error(),
			Conflicts: conflictErr.Conflicts,
		}
	}

	var notSigned *onboardingdomain.NotSignedError
	if errors.As(err, &notSigned) {
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_state",
			Message: notSigned.Error(),
		}
	}

	switch {
	case errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, organizationdomain.ErrParentNotFound),
		errors.Is(err, territorydomain.ErrNotFound),
		errors.Is(err, dispatchdomain.ErrDossierNotFound),
		errors.Is(err, onboardingdomain.ErrCandidateNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case errors.Is(err, onboardingdomain.ErrAlreadyOnboarded),
		errors.Is(err, dispatchdomain.ErrAlreadyDispatched):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}

	case errors.Is(err, dispatchdomain.ErrNotHeadOffice),
		errors.Is(err, organizationdomain.ErrNotHeadOffice),
		errors.Is(err, organizationdomain.ErrNotNetworkMember),
		errors.Is(err, organizationdomain.ErrParentInactive),
		errors.Is(err, organizationdomain.ErrParentRequired),
		errors.Is(err, organizationdomain.ErrParentNotAllowed),
		errors.Is(err, organizationdomain.ErrParentCycle):
		return http.StatusBadRequest, errorPayload{Type: "invalid_state", Message: err.Error()}

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidNetworkType),
		errors.Is(err, territorydomain.ErrInvalidName),
		errors.Is(err, territorydomain.ErrInvalidZipCodes),
		errors.Is(err, dispatchdomain.ErrInvalidPostalCode),
		errors.Is(err, onboardingdomain.ErrInvalidPassword),
		errors.Is(err, onboardingdomain.ErrInvalidSite),
		errors.Is(err, royaltydomain.ErrInvalidMonth):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}
