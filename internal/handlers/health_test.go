package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"secretshare-service/internal/apperror"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		ping   error
		status int
	}{
		{name: "healthy", status: http.StatusOK},
		{name: "database down", ping: errors.New("connection refused"), status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/healthz", NewHealthHandler(pingerFunc(func(context.Context) error { return tt.ping })).Healthz)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestStatusForKind(t *testing.T) {
	cases := map[apperror.Kind]int{
		apperror.KindValidation:            http.StatusBadRequest,
		apperror.KindSelfReference:         http.StatusBadRequest,
		apperror.KindNotFound:              http.StatusNotFound,
		apperror.KindAlreadyFriends:        http.StatusConflict,
		apperror.KindRequestAlreadyPending: http.StatusConflict,
		apperror.KindConflict:              http.StatusConflict,
		apperror.KindInvalidState:          http.StatusConflict,
		apperror.KindUnauthorized:          http.StatusForbidden,
		apperror.KindAuthorization:         http.StatusForbidden,
		apperror.KindInternal:              http.StatusInternalServerError,
		apperror.Kind("unknown"):           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusForKind(kind), string(kind))
	}
}
