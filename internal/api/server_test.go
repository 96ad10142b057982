package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/metrics"
	"github.com/radarlegislativo/ingest/internal/schedule"
	"github.com/radarlegislativo/ingest/internal/store/memory"
)

type fakeStatus struct{ status schedule.Status }

func (f fakeStatus) Snapshot() schedule.Status { return f.status }

func seedStore(t *testing.T) document.Store {
	t.Helper()
	store := memory.New()
	base := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	docs := []document.Document{
		{
			Title:       "Petição pela requalificação da linha ferroviária do Oeste",
			URL:         "https://www.parlamento.pt/peticao/100",
			ContentKind: "peticao",
			Topic:       "comissao_06",
			Source:      "comissao_06",
			Channel:     document.ChannelParliament,
			PublishedAt: base,
			CreatedAt:   base,
		},
		{
			Title:       "Comunicado sobre as urgências hospitalares no verão",
			URL:         "https://www.ordemdosmedicos.pt/comunicado/5",
			ContentKind: "noticia",
			Topic:       "saude",
			Source:      "ordem_medicos",
			Channel:     document.ChannelStakeholders,
			PublishedAt: base.AddDate(0, 0, 2),
			CreatedAt:   base.AddDate(0, 0, 2),
		},
	}
	for i := range docs {
		require.NoError(t, store.Insert(context.Background(), &docs[i]))
	}
	return store
}

func newTestServer(t *testing.T, store document.Store, status StatusSource) *httptest.Server {
	t.Helper()
	metrics.Init()
	srv := NewServer(store, status, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthzReportsOK(t *testing.T) {
	ts := newTestServer(t, seedStore(t), nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusServesSchedulerSnapshot(t *testing.T) {
	status := fakeStatus{status: schedule.Status{
		LastRunID:  "run-42",
		LastTier:   schedule.TierBusinessHours,
		LastRunNew: 7,
		RunsToday:  12,
	}}
	ts := newTestServer(t, seedStore(t), status)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got schedule.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "run-42", got.LastRunID)
	require.Equal(t, 12, got.RunsToday)
}

func TestStatusWithoutSchedulerReturns404(t *testing.T) {
	ts := newTestServer(t, seedStore(t), nil)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListDocumentsFiltersByChannel(t *testing.T) {
	ts := newTestServer(t, seedStore(t), nil)

	resp, err := http.Get(ts.URL + "/v1/documentos/?canal=stakeholders")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Documentos []document.Document `json:"documentos"`
		Total      int                 `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, 1, payload.Total)
	require.Equal(t, "https://www.ordemdosmedicos.pt/comunicado/5", payload.Documentos[0].URL)
	require.Equal(t, "stakeholders", payload.Documentos[0].Channel)
}

func TestListDocumentsRejectsBadSince(t *testing.T) {
	ts := newTestServer(t, seedStore(t), nil)

	resp, err := http.Get(ts.URL + "/v1/documentos/?desde=ontem")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCountDocuments(t *testing.T) {
	ts := newTestServer(t, seedStore(t), nil)

	resp, err := http.Get(ts.URL + "/v1/documentos/count?categoria=saude")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, 1, payload["total"])
}
