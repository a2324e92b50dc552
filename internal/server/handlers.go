package server

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/politicosbr/camara-client/pkg/query"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, 0)
}

// throttleWindow is how long after a 429 readiness reports "degraded".
const throttleWindow = 5 * time.Minute

// handleReady probes the upstream API unless it has us in cooldown.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	state := s.svc.RateLimitState()

	if state.InCooldown(now) {
		retry := int(math.Ceil(state.TimeUntilReset(now).Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		respondJSON(w, http.StatusServiceUnavailable, readiness{Status: "throttled", RetryAfter: retry}, 0)
		return
	}

	if err := s.svc.HealthCheck(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("Readiness check failed")
		respondJSON(w, http.StatusServiceUnavailable, readiness{Status: "unavailable"}, 0)
		return
	}

	status := "ready"
	if !state.IsHealthy(now, throttleWindow) {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, readiness{Status: status}, 0)
}

type readiness struct {
	Status     string `json:"status"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ints, err := intParams(q, "itens", "pagina")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	legislators, err := s.svc.Search(r.Context(), query.SearchParams{
		Name:    q.Get("nome"),
		State:   q.Get("siglaUf"),
		Party:   q.Get("siglaPartido"),
		Items:   ints["itens"],
		Page:    ints["pagina"],
		Order:   q.Get("ordem"),
		OrderBy: q.Get("ordenarPor"),
	})
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, legislators, query.SearchTTL)
}

func (s *Server) handleLegislator(w http.ResponseWriter, r *http.Request) {
	legislator, err := s.svc.GetLegislator(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, legislator, query.DetailTTL)
}

func (s *Server) handleProposals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ints, err := intParams(q, "itens", "pagina")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	proposals, err := s.svc.GetProposals(r.Context(), chi.URLParam(r, "id"), query.ProposalParams{
		Items: ints["itens"],
		Page:  ints["pagina"],
		Order: q.Get("ordem"),
	})
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposals, query.ProposalsTTL)
}

func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := s.svc.GetProposal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposal, query.ProposalTTL)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ints, err := intParams(q, "ano", "mes", "itens", "pagina")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if m := ints["mes"]; m < 0 || m > 12 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("mes out of range: %d", m))
		return
	}

	expenses, err := s.svc.GetExpenses(r.Context(), chi.URLParam(r, "id"), query.ExpenseParams{
		Year:    ints["ano"],
		Month:   ints["mes"],
		Items:   ints["itens"],
		Page:    ints["pagina"],
		Order:   q.Get("ordem"),
		OrderBy: q.Get("ordenarPor"),
	})
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses, query.ExpensesTTL)
}

// handleExpenseSummary defaults the year to the current one.
func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	ints, err := intParams(r.URL.Query(), "ano")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	year := ints["ano"]
	if year == 0 {
		year = s.now().Year()
	}

	summary, err := s.svc.GetExpenseSummary(r.Context(), chi.URLParam(r, "id"), year)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary, query.ExpensesTTL)
}

func (s *Server) handleCommittees(w http.ResponseWriter, r *http.Request) {
	committees, err := s.svc.GetCommittees(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, committees, query.CommitteesTTL)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events, query.HistoryTTL)
}

// handleAttendance never fails; upstream errors yield zero counts.
func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.svc.GetAttendance(r.Context(), chi.URLParam(r, "id")), query.AttendanceTTL)
}

func (s *Server) handleVotingStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.svc.GetVotingStats(r.Context(), chi.URLParam(r, "id")), 0)
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearCache()
	s.logger.Info().Str("request_id", RequestID(r.Context())).Msg("Cache cleared")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

// intParams parses the named query parameters. Absent ones are zero.
func intParams(q url.Values, names ...string) (map[string]int, error) {
	out := make(map[string]int, len(names))
	for _, name := range names {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid %s: %q", name, raw)
		}
		out[name] = n
	}
	return out, nil
}
