// Package server exposes the query service as a JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/politicosbr/camara-client/pkg/metrics"
	"github.com/politicosbr/camara-client/pkg/model"
	"github.com/politicosbr/camara-client/pkg/query"
	"github.com/politicosbr/camara-client/pkg/ratelimit"
)

// Querier is the subset of query.Service the handlers call.
type Querier interface {
	Search(ctx context.Context, params query.SearchParams) ([]model.Legislator, error)
	GetLegislator(ctx context.Context, id string) (model.Legislator, error)
	GetProposals(ctx context.Context, id string, params query.ProposalParams) ([]model.Proposal, error)
	GetProposal(ctx context.Context, id string) (model.Proposal, error)
	GetExpenses(ctx context.Context, id string, params query.ExpenseParams) ([]model.Expense, error)
	GetExpenseSummary(ctx context.Context, id string, year int) (model.ExpenseSummary, error)
	GetCommittees(ctx context.Context, id string) ([]model.Committee, error)
	GetHistory(ctx context.Context, id string) ([]model.CareerEvent, error)
	GetAttendance(ctx context.Context, id string) model.AttendanceStats
	GetVotingStats(ctx context.Context, id string) model.VotingStats
	ClearCache()
	HealthCheck(ctx context.Context) error
	RateLimitState() ratelimit.State
}

// Server routes proxy requests to a Querier.
type Server struct {
	svc    Querier
	logger zerolog.Logger
	now    func() time.Time
	router chi.Router
}

// New builds the router for svc.
func New(svc Querier, logger zerolog.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
		now:    time.Now,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	r.Use(allowCORS)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/deputados", s.handleSearch)
		r.Route("/deputados/{id}", func(r chi.Router) {
			r.Get("/", s.handleLegislator)
			r.Get("/proposicoes", s.handleProposals)
			r.Get("/despesas", s.handleExpenses)
			r.Get("/despesas/resumo", s.handleExpenseSummary)
			r.Get("/orgaos", s.handleCommittees)
			r.Get("/historico", s.handleHistory)
			r.Get("/presenca", s.handleAttendance)
			r.Get("/votacoes", s.handleVotingStats)
		})
		r.Get("/proposicoes/{id}", s.handleProposal)
		r.Delete("/cache", s.handleClearCache)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})

	return r
}
