package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/politicosbr/camara-client/internal/testutil"
	"github.com/politicosbr/camara-client/pkg/cache"
	"github.com/politicosbr/camara-client/pkg/client"
	"github.com/politicosbr/camara-client/pkg/model"
	"github.com/politicosbr/camara-client/pkg/query"
	"github.com/politicosbr/camara-client/pkg/ratelimit"
)

func newTestServer(t *testing.T) (*Server, *testutil.MockCamara) {
	t.Helper()

	mock := testutil.NewMockCamara()
	t.Cleanup(mock.Close)

	cfg := client.DefaultConfig()
	cfg.BaseURL = mock.URL()
	cfg.Timeout = 2 * time.Second
	cfg.RateLimit = ratelimit.Config{}

	c, err := client.New(cfg, cache.NewStore[any]())
	require.NoError(t, err)

	return New(query.NewService(c), zerolog.Nop()), mock
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func deputadoPath(suffix string) string {
	return fmt.Sprintf("/deputados/%d%s", testutil.DeputadoID, suffix)
}

func TestHealth(t *testing.T) {
	srv, mock := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, 0, mock.RequestCount(), "liveness does not touch the upstream")
}

func TestReady(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.SetResponse("/deputados", testutil.NewJSONResponse(testutil.Envelope(`[]`)))
	rec := do(t, srv, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	mock.SetResponse("/deputados", testutil.NewServerErrorResponse())
	rec = do(t, srv, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// readinessQuerier serves only what /ready needs.
type readinessQuerier struct {
	Querier
	state     ratelimit.State
	healthErr error
	probes    int
}

func (q *readinessQuerier) RateLimitState() ratelimit.State { return q.state }

func (q *readinessQuerier) HealthCheck(context.Context) error {
	q.probes++
	return q.healthErr
}

func TestReady_RateLimitState(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		state      ratelimit.State
		healthErr  error
		wantCode   int
		wantBody   readiness
		wantProbes int
	}{
		{
			name:       "never throttled",
			wantCode:   http.StatusOK,
			wantBody:   readiness{Status: "ready"},
			wantProbes: 1,
		},
		{
			name: "in cooldown",
			state: ratelimit.State{
				CooldownUntil: now.Add(20 * time.Second),
				LastThrottled: now.Add(-10 * time.Second),
			},
			wantCode:   http.StatusServiceUnavailable,
			wantBody:   readiness{Status: "throttled", RetryAfter: 20},
			wantProbes: 0,
		},
		{
			name: "recently throttled",
			state: ratelimit.State{
				CooldownUntil: now.Add(-time.Second),
				LastThrottled: now.Add(-time.Minute),
			},
			wantCode:   http.StatusOK,
			wantBody:   readiness{Status: "degraded"},
			wantProbes: 1,
		},
		{
			name:       "upstream down",
			healthErr:  &client.Error{Kind: client.KindNetworkUnavailable},
			wantCode:   http.StatusServiceUnavailable,
			wantBody:   readiness{Status: "unavailable"},
			wantProbes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &readinessQuerier{state: tt.state, healthErr: tt.healthErr}
			srv := New(q, zerolog.Nop())
			srv.now = func() time.Time { return now }

			rec := do(t, srv, http.MethodGet, "/ready")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, decode[readiness](t, rec))
			assert.Equal(t, tt.wantProbes, q.probes)
			if tt.wantBody.RetryAfter > 0 {
				assert.Equal(t, "20", rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestReady_CooldownSkipsUpstream(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.SetResponse("/deputados", testutil.NewRateLimitResponse("60"))

	rec := do(t, srv, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, srv, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "throttled", decode[readiness](t, rec).Status)
	assert.Equal(t, 1, mock.RequestCount())
}

func TestSearch(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.SetResponse("/deputados", testutil.NewJSONResponse(testutil.Envelope("["+testutil.DeputadoListItem+"]")))

	rec := do(t, srv, http.MethodGet, "/api/deputados?siglaUf=sp&itens=20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	got := decode[[]model.Legislator](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "204554", got[0].ID)
	assert.Equal(t, "20", mock.LastQuery().Get("itens"))
}

func TestSearch_BadParams(t *testing.T) {
	srv, mock := newTestServer(t)

	for _, target := range []string{
		"/api/deputados?itens=abc",
		"/api/deputados?pagina=-1",
	} {
		rec := do(t, srv, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Equal(t, 0, mock.RequestCount())
}

func TestLegislator(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.SetResponse(deputadoPath(""), testutil.NewJSONResponse(testutil.Envelope(testutil.DeputadoDetail)))

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/deputados/%d", testutil.DeputadoID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=600", rec.Header().Get("Cache-Control"))

	got := decode[model.Legislator](t, rec)
	assert.Equal(t, "Campinas - SP", got.Birthplace)
}

func TestErrorMapping(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.SetResponse(deputadoPath("/orgaos"), testutil.NewServerErrorResponse())
	mock.SetResponse(deputadoPath("/historico"), testutil.NewJSONResponse(`{"dados": [`))

	tests := []struct {
		name   string
		target string
		status int
		kind   string
	}{
		{"unknown legislator", "/api/deputados/999", http.StatusNotFound, "not_found"},
		{"invalid id", "/api/deputados/abc", http.StatusBadRequest, ""},
		{"upstream 500", fmt.Sprintf("/api/deputados/%d/orgaos", testutil.DeputadoID), http.StatusBadGateway, "upstream_status"},
		{"malformed body", fmt.Sprintf("/api/deputados/%d/historico", testutil.DeputadoID), http.StatusBadGateway, "malformed_response"},
		{"unknown route", "/api/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			body := decode[errorBody](t, rec)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.kind, body.Kind)
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&client.Error{Kind: client.KindTimeout}, http.StatusGatewayTimeout},
		{fmt.Errorf("wrapped: %w", &client.Error{Kind: client.KindNetworkUnavailable}), http.StatusBadGateway},
		{&client.Error{Kind: client.KindUpstreamStatus, StatusCode: 429}, http.StatusBadGateway},
		{&client.Error{Kind: client.KindNotFound}, http.StatusNotFound},
		{fmt.Errorf("x: %w", query.ErrInvalidID), http.StatusBadRequest},
		{fmt.Errorf("camara request /deputados: %w", context.Canceled), statusClientClosedRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestExpenseSummary_DefaultYear(t *testing.T) {
	srv, mock := newTestServer(t)
	srv.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	mock.SetPagedResponse(deputadoPath("/despesas"), []string{
		`[{"ano": 2024, "mes": 3, "tipoDespesa": "A", "valorDocumento": 12.5}]`,
	})

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/deputados/%d/despesas/resumo", testutil.DeputadoID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024", mock.LastQuery().Get("ano"))

	got := decode[model.ExpenseSummary](t, rec)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, "12.5", got.Total.String())
}

func TestExpenses_MonthRange(t *testing.T) {
	srv, mock := newTestServer(t)

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/deputados/%d/despesas?mes=13", testutil.DeputadoID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, mock.RequestCount())
}

func TestAttendance_DegradesToZero(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.SetResponse(deputadoPath("/eventos"), testutil.NewServerErrorResponse())

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/deputados/%d/presenca", testutil.DeputadoID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.AttendanceStats{}, decode[model.AttendanceStats](t, rec))
}

func TestVotingStats(t *testing.T) {
	srv, mock := newTestServer(t)

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/deputados/%d/votacoes", testutil.DeputadoID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, mock.RequestCount())
}

func TestProposal(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.SetResponse(fmt.Sprintf("/proposicoes/%d", testutil.ProposicaoID),
		testutil.NewJSONResponse(testutil.Envelope(testutil.ProposicaoDetail)))

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/proposicoes/%d", testutil.ProposicaoID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=1800", rec.Header().Get("Cache-Control"))
	assert.Equal(t, model.ProposalApproved, decode[model.Proposal](t, rec).Status)
}

func TestClearCache(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.SetResponse(deputadoPath(""), testutil.NewJSONResponse(testutil.Envelope(testutil.DeputadoDetail)))
	target := fmt.Sprintf("/api/deputados/%d", testutil.DeputadoID)

	do(t, srv, http.MethodGet, target)
	do(t, srv, http.MethodGet, target)
	assert.Equal(t, 1, mock.RequestCount())

	rec := do(t, srv, http.MethodDelete, "/api/cache")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	do(t, srv, http.MethodGet, target)
	assert.Equal(t, 2, mock.RequestCount())
}

func TestRequestID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/health")
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodOptions, "/api/deputados")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodGet, "/health")

	rec := do(t, srv, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `camara_http_requests_total{code="200",route="/health"}`))
}
