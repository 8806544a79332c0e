package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/iocache"
	"github.com/huangsam/dmgcalc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(history contract.HistoryManager) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(Config{ShutdownTimeout: time.Second}, nil, history, logger)
}

func TestIndex(t *testing.T) {
	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/?b2_baseStrength=2000", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Damage Calculator</h1>")
	assert.Contains(t, body, `id="b1_baseStrength" type="number" step="any" name="value" value="1000"`)
	assert.Contains(t, body, `id="b2_baseStrength" type="number" step="any" name="value" value="2000"`)
	assert.Contains(t, body, "Build 1 Normal")
	assert.Contains(t, body, "% Difference (Normal)")
	assert.Contains(t, body, "stroke-dasharray")
	assert.Contains(t, body, "Build 2 Strength: 2,000", "tooltip shows build 2 strength when it differs")
	assert.Contains(t, body, "2,551", "damage is rounded and grouped")
	assert.Contains(t, body, "108.97% (Stronger)")
}

func TestIndex_NotFound(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSet_Redirects(t *testing.T) {
	srv := newTestServer(nil)
	form := url.Values{"build": {"b1"}, "field": {"block"}, "value": {"250"}}
	req := httptest.NewRequest(http.MethodPost, "/set?b2_pierce=0.4", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
	q := loc.Query()
	assert.Equal(t, "250", q.Get("b1_block"))
	assert.Equal(t, "0.4", q.Get("b2_pierce"))
	assert.Len(t, q, len(schema.Fields)*2, "every field of both builds is written")
	assert.Empty(t, q.Get("build"))
}

func TestSet_MalformedValueBecomesZero(t *testing.T) {
	srv := newTestServer(nil)
	form := url.Values{"build": {"b2"}, "field": {"fortitude"}, "value": {"abc"}}
	req := httptest.NewRequest(http.MethodPost, "/set", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "0", loc.Query().Get("b2_fortitude"))
}

func TestSet_UnchangedStillRedirects(t *testing.T) {
	srv := newTestServer(nil)
	form := url.Values{"build": {"b1"}, "field": {"block"}, "value": {"100"}}
	req := httptest.NewRequest(http.MethodPost, "/set", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "b1_block=100")
}

func TestSet_UnknownField(t *testing.T) {
	srv := newTestServer(nil)
	for _, form := range []url.Values{
		{"build": {"b1"}, "field": {"mana"}, "value": {"1"}},
		{"build": {"b3"}, "field": {"block"}, "value": {"1"}},
	} {
		req := httptest.NewRequest(http.MethodPost, "/set", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown")
	}
}

func TestSeries(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	store.On("RecordRun", mock.MatchedBy(func(e schema.HistoryEntry) bool {
		return e.Source == "web"
	})).Return(int64(1), nil)
	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	srv := newTestServer(mgr)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/series?b2_baseStrength=2000", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result schema.SeriesResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Points, schema.SampleCount)
	assert.Equal(t, 108.97, result.Points[5].PercentDiff)
	assert.Equal(t, 2000.0, result.Build2.BaseStrength)
	store.AssertExpectations(t)
}

func TestSeries_NonFiniteAsStrings(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	q := "/api/series?b1_baseStrength=0&b1_block=0&b1_fortitude=0"
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, q, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"percentDiff":"Infinity"`)
}

func TestDamage(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/damage?strength=1000&crit=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "b1", body["build"])
	assert.Equal(t, true, body["force_crit"])
	assert.InDelta(t, 5867.576, body["damage"], 1e-9)
}

func TestDamage_BadRequest(t *testing.T) {
	srv := newTestServer(nil)
	for _, target := range []string{
		"/api/damage",
		"/api/damage?strength=abc",
		"/api/damage?strength=Inf",
		"/api/damage?strength=0x1p10",
		"/api/damage?strength=1000&build=b3",
		"/api/damage?strength=1000&crit=maybe",
	} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := newTestServer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DMGCALC_HTTP_ADDR", ":9999")
	t.Setenv("DMGCALC_HTTP_READ_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.OTelEndpoint)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DMGCALC_HTTP_READ_TIMEOUT", "soon")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
