package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotentAndObserversWork(t *testing.T) {
	Init()
	Init()

	require.NotPanics(t, func() {
		ObserveDocument("comissao_01", "new")
		ObserveDocument("comissao_01", "duplicate")
		ObserveFetch("geral_iniciativas", "success")
		ObserveRun("business_hours", 42*time.Second, 7)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	Init()
	ObserveDocument("comissao_02", "new")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ingest_documents_total")
}
