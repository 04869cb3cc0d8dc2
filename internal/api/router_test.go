package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/ntuananhdevs/banking-onl/internal/handler"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/auth"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	servicemocks "github.com/ntuananhdevs/banking-onl/internal/services/mocks"
	"github.com/ntuananhdevs/banking-onl/internal/webhook"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acceptAll struct{}

func (acceptAll) Reconcile(ctx context.Context, n webhook.Notification) models.ReconciliationResult {
	return models.ReconciliationResult{Accepted: true}
}

func TestSetupRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deposits := servicemocks.NewMockDepositService(ctrl)
	jwtService := auth.NewJWTService("secret", time.Hour)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})
	router := SetupRouter(handler.NewHandler(acceptAll{}, deposits), jwtService, metrics)

	token, err := jwtService.Generate(7)
	require.NoError(t, err)

	t.Run("webhook is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/sepay", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("deposit api requires token", func(t *testing.T) {
		before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/deposits/{code}", "401"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deposits/AB12CD34EF", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/deposits/{code}", "401")))
	})

	t.Run("deposit api with token", func(t *testing.T) {
		deposits.EXPECT().GetDeposit(gomock.Any(), int64(7), "AB12CD34EF").Return(&models.DepositTransaction{UserID: 7}, nil)

		req := httptest.NewRequest(http.MethodGet, "/deposits/AB12CD34EF", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics and health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# metrics", rec.Body.String())

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transfers", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
