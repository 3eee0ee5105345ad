package handlers

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secretshare-service/internal/apperror"
	"secretshare-service/internal/metrics"
	"secretshare-service/internal/middleware"
	"secretshare-service/internal/models"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:            nethttp.StatusBadRequest,
	apperror.KindSelfReference:         nethttp.StatusBadRequest,
	apperror.KindNotFound:              nethttp.StatusNotFound,
	apperror.KindAlreadyFriends:        nethttp.StatusConflict,
	apperror.KindRequestAlreadyPending: nethttp.StatusConflict,
	apperror.KindConflict:              nethttp.StatusConflict,
	apperror.KindInvalidState:          nethttp.StatusConflict,
	apperror.KindUnauthorized:          nethttp.StatusForbidden,
	apperror.KindAuthorization:         nethttp.StatusForbidden,
	apperror.KindInternal:              nethttp.StatusInternalServerError,
}

func statusForKind(kind apperror.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return nethttp.StatusInternalServerError
}

// writeError renders err as {"error": {"kind", "message"}}. Causes of internal
// errors are attached to the context for the request logger, never to the body.
func writeError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := statusForKind(appErr.Kind)
	if status >= nethttp.StatusInternalServerError {
		_ = c.Error(err)
	}

	body := gin.H{"kind": appErr.Kind, "message": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func currentIdentity(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(nethttp.StatusUnauthorized, gin.H{
			"error": gin.H{"kind": "unauthenticated", "message": "Authentication required"},
		})
		return models.Identity{}, false
	}
	return identity, true
}

func parseUUID(raw, field, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation(field, message)
	}
	return id, nil
}

// metricStatus classifies an operation outcome for the per-operation counters.
func metricStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, apperror.ErrAuthorization), errors.Is(err, apperror.ErrUnauthorized):
		return metrics.StatusDenied
	default:
		return metrics.StatusFailed
	}
}
