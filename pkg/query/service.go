// Package query is the facade presentation code uses to read legislator data.
// Each operation composes an upstream call with a normalizer and caches the
// parsed response for a TTL matched to how often that data changes.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/politicosbr/camara-client/pkg/client"
	"github.com/politicosbr/camara-client/pkg/model"
	"github.com/politicosbr/camara-client/pkg/normalize"
	"github.com/politicosbr/camara-client/pkg/pagination"
	"github.com/politicosbr/camara-client/pkg/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Cache durations per operation.
const (
	SearchTTL     = 5 * time.Minute
	DetailTTL     = 10 * time.Minute
	ProposalsTTL  = 10 * time.Minute
	ExpensesTTL   = 3 * time.Minute
	CommitteesTTL = 10 * time.Minute
	HistoryTTL    = 10 * time.Minute
	AttendanceTTL = 10 * time.Minute
	ProposalTTL   = 30 * time.Minute
)

// ErrInvalidID is returned for ids that cannot name an upstream record.
var ErrInvalidID = errors.New("invalid id")

var tracer = otel.Tracer("github.com/politicosbr/camara-client/pkg/query")

// Service answers legislator queries. It is safe for concurrent use.
type Service struct {
	client *client.Client
	pages  pagination.Config
	logger zerolog.Logger
}

// NewService creates a service backed by c.
func NewService(c *client.Client) *Service {
	return &Service{
		client: c,
		pages:  pagination.DefaultConfig(),
		logger: log.With().Str("component", "query").Logger(),
	}
}

// SearchParams filter GET /deputados. Zero values take the defaults.
type SearchParams struct {
	Name    string
	State   string
	Party   string
	Items   int
	Page    int
	Order   string
	OrderBy string
}

// ProposalParams page GET /proposicoes by author.
type ProposalParams struct {
	Items int
	Page  int
	Order string
}

// ExpenseParams filter GET /deputados/{id}/despesas. Zero Year or Month is omitted.
type ExpenseParams struct {
	Year    int
	Month   int
	Items   int
	Page    int
	Order   string
	OrderBy string
}

// Search lists legislators matching params.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]model.Legislator, error) {
	ctx, span := s.startSpan(ctx, "query.Search", "")
	defer span.End()

	p := client.Params{
		"itens":      orInt(params.Items, 20),
		"pagina":     orInt(params.Page, 1),
		"ordem":      orString(params.Order, "ASC"),
		"ordenarPor": orString(params.OrderBy, "nome"),
	}
	if name := strings.TrimSpace(params.Name); name != "" {
		p["nome"] = name
	}
	if uf := strings.TrimSpace(params.State); uf != "" {
		p["siglaUf"] = strings.ToUpper(uf)
	}
	if party := strings.TrimSpace(params.Party); party != "" {
		p["siglaPartido"] = strings.ToUpper(party)
	}

	env, err := client.GetJSON[normalize.Envelope[[]normalize.Deputado]](ctx, s.client, "/deputados", p, client.CacheFor(SearchTTL))
	if err != nil {
		return nil, s.fail(span, "", fmt.Errorf("search legislators: %w", err))
	}

	legislators := make([]model.Legislator, 0, len(env.Dados))
	for i := range env.Dados {
		l, err := env.Dados[i].Legislator()
		if err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("Skipping legislator record")
			continue
		}
		legislators = append(legislators, l)
	}
	return legislators, nil
}

// GetLegislator returns one legislator. Unknown ids are NotFound.
func (s *Service) GetLegislator(ctx context.Context, id string) (model.Legislator, error) {
	ctx, span := s.startSpan(ctx, "query.GetLegislator", id)
	defer span.End()

	path, err := recordPath("/deputados/", id)
	if err != nil {
		return model.Legislator{}, s.fail(span, id, fmt.Errorf("get legislator: %w", err))
	}

	env, err := client.GetJSON[normalize.Envelope[normalize.Deputado]](ctx, s.client, path, nil, client.CacheFor(DetailTTL))
	if err != nil {
		return model.Legislator{}, s.fail(span, id, fmt.Errorf("get legislator %s: %w", id, notFoundOn404(path, err)))
	}

	l, err := env.Dados.Legislator()
	if err != nil {
		return model.Legislator{}, s.fail(span, id, fmt.Errorf("get legislator %s: %w", id, client.NotFound(path, err.Error())))
	}
	return l, nil
}

// GetProposals lists proposals authored by the legislator.
func (s *Service) GetProposals(ctx context.Context, id string, params ProposalParams) ([]model.Proposal, error) {
	ctx, span := s.startSpan(ctx, "query.GetProposals", id)
	defer span.End()

	authorID, err := parseID(id)
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get proposals: %w", err))
	}

	p := client.Params{
		"idDeputadoAutor": authorID,
		"itens":           orInt(params.Items, 20),
		"pagina":          orInt(params.Page, 1),
		"ordem":           orString(params.Order, "DESC"),
		"ordenarPor":      "id",
	}

	env, err := client.GetJSON[normalize.Envelope[[]normalize.Proposicao]](ctx, s.client, "/proposicoes", p, client.CacheFor(ProposalsTTL))
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get proposals for %s: %w", id, err))
	}

	proposals := make([]model.Proposal, 0, len(env.Dados))
	for i, rec := range env.Dados {
		prop, err := rec.Proposal()
		if err != nil {
			s.logger.Warn().Err(err).Int("index", i).Str("legislator_id", id).Msg("Skipping proposal record")
			continue
		}
		proposals = append(proposals, prop)
	}
	return proposals, nil
}

// GetProposal returns one proposal. Unknown ids are NotFound.
func (s *Service) GetProposal(ctx context.Context, id string) (model.Proposal, error) {
	ctx, span := s.startSpan(ctx, "query.GetProposal", id)
	defer span.End()

	path, err := recordPath("/proposicoes/", id)
	if err != nil {
		return model.Proposal{}, s.fail(span, id, fmt.Errorf("get proposal: %w", err))
	}

	env, err := client.GetJSON[normalize.Envelope[normalize.Proposicao]](ctx, s.client, path, nil, client.CacheFor(ProposalTTL))
	if err != nil {
		return model.Proposal{}, s.fail(span, id, fmt.Errorf("get proposal %s: %w", id, notFoundOn404(path, err)))
	}

	prop, err := env.Dados.Proposal()
	if err != nil {
		return model.Proposal{}, s.fail(span, id, fmt.Errorf("get proposal %s: %w", id, client.NotFound(path, err.Error())))
	}
	return prop, nil
}

// GetExpenses lists the legislator's expenses.
func (s *Service) GetExpenses(ctx context.Context, id string, params ExpenseParams) ([]model.Expense, error) {
	ctx, span := s.startSpan(ctx, "query.GetExpenses", id)
	defer span.End()

	path, err := recordPath("/deputados/", id)
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get expenses: %w", err))
	}
	path += "/despesas"

	p := client.Params{
		"itens":      orInt(params.Items, 20),
		"pagina":     orInt(params.Page, 1),
		"ordem":      orString(params.Order, "DESC"),
		"ordenarPor": orString(params.OrderBy, "ano"),
	}
	if params.Year > 0 {
		p["ano"] = params.Year
	}
	if params.Month > 0 {
		p["mes"] = params.Month
	}

	env, err := client.GetJSON[normalize.Envelope[[]normalize.Despesa]](ctx, s.client, path, p, client.CacheFor(ExpensesTTL))
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get expenses for %s: %w", id, err))
	}

	expenses := make([]model.Expense, len(env.Dados))
	for i, rec := range env.Dados {
		expenses[i] = rec.Expense()
	}
	return expenses, nil
}

// GetExpenseSummary aggregates every expense of the legislator for year.
func (s *Service) GetExpenseSummary(ctx context.Context, id string, year int) (model.ExpenseSummary, error) {
	ctx, span := s.startSpan(ctx, "query.GetExpenseSummary", id)
	defer span.End()
	span.SetAttributes(attribute.Int("camara.year", year))

	path, err := recordPath("/deputados/", id)
	if err != nil {
		return model.ExpenseSummary{}, s.fail(span, id, fmt.Errorf("summarize expenses: %w", err))
	}
	if year < 1 {
		return model.ExpenseSummary{}, s.fail(span, id, fmt.Errorf("summarize expenses: %w: year %d", ErrInvalidID, year))
	}
	path += "/despesas"

	fetchPage := pagination.PageFetcherFunc[normalize.Despesa](func(ctx context.Context, page int) ([]normalize.Despesa, int, error) {
		env, err := client.GetJSON[normalize.Envelope[[]normalize.Despesa]](ctx, s.client, path, client.Params{
			"ano":        year,
			"itens":      100,
			"pagina":     page,
			"ordem":      "ASC",
			"ordenarPor": "mes",
		}, client.CacheFor(ExpensesTTL))
		if err != nil {
			return nil, 0, err
		}
		return env.Dados, env.TotalPages(), nil
	})

	records, err := pagination.NewBatchFetcher[normalize.Despesa](fetchPage, s.pages).FetchAll(ctx, path)
	if errors.Is(err, pagination.ErrTooManyPages) {
		err = client.Malformed(path, err)
	}
	if err != nil {
		return model.ExpenseSummary{}, s.fail(span, id, fmt.Errorf("summarize expenses for %s: %w", id, err))
	}

	expenses := make([]model.Expense, len(records))
	for i, rec := range records {
		expenses[i] = rec.Expense()
	}
	return SummarizeExpenses(id, year, expenses), nil
}

// GetCommittees lists the legislator's committee memberships.
func (s *Service) GetCommittees(ctx context.Context, id string) ([]model.Committee, error) {
	ctx, span := s.startSpan(ctx, "query.GetCommittees", id)
	defer span.End()

	path, err := recordPath("/deputados/", id)
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get committees: %w", err))
	}
	path += "/orgaos"

	env, err := client.GetJSON[normalize.Envelope[[]normalize.Orgao]](ctx, s.client, path, nil, client.CacheFor(CommitteesTTL))
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get committees for %s: %w", id, err))
	}

	committees := make([]model.Committee, len(env.Dados))
	for i, rec := range env.Dados {
		committees[i] = rec.Committee()
	}
	return committees, nil
}

// GetHistory lists the legislator's career events.
// Entries without a date are skipped; a date that yields no year fails the
// call as MalformedResponse.
func (s *Service) GetHistory(ctx context.Context, id string) ([]model.CareerEvent, error) {
	ctx, span := s.startSpan(ctx, "query.GetHistory", id)
	defer span.End()

	path, err := recordPath("/deputados/", id)
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get history: %w", err))
	}
	path += "/historico"

	env, err := client.GetJSON[normalize.Envelope[[]normalize.Historico]](ctx, s.client, path, nil, client.CacheFor(HistoryTTL))
	if err != nil {
		return nil, s.fail(span, id, fmt.Errorf("get history for %s: %w", id, err))
	}

	events := make([]model.CareerEvent, 0, len(env.Dados))
	for i, rec := range env.Dados {
		ev, err := rec.CareerEvent()
		if errors.Is(err, normalize.ErrMissingDate) {
			s.logger.Warn().Err(err).Int("index", i).Str("legislator_id", id).Msg("Skipping history record")
			continue
		}
		if err != nil {
			return nil, s.fail(span, id, fmt.Errorf("get history for %s: %w", id, client.Malformed(path, err)))
		}
		events = append(events, ev)
	}
	return events, nil
}

// GetAttendance tallies session attendance from the legislator's events.
// Failures are logged and yield the zero value.
func (s *Service) GetAttendance(ctx context.Context, id string) model.AttendanceStats {
	ctx, span := s.startSpan(ctx, "query.GetAttendance", id)
	defer span.End()

	path, err := recordPath("/deputados/", id)
	if err != nil {
		s.degrade(span, id, err)
		return model.AttendanceStats{}
	}
	path += "/eventos"

	env, err := client.GetJSON[normalize.Envelope[[]normalize.Evento]](ctx, s.client, path, client.Params{"itens": 100}, client.CacheFor(AttendanceTTL))
	if err != nil {
		s.degrade(span, id, err)
		return model.AttendanceStats{}
	}

	return TallyAttendance(env.Dados)
}

// GetVotingStats returns the legislator's voting statistics.
// The upstream rejects per-deputy vote reads, so this is always the zero value
// and makes no upstream call.
func (s *Service) GetVotingStats(ctx context.Context, id string) model.VotingStats {
	_, span := s.startSpan(ctx, "query.GetVotingStats", id)
	defer span.End()

	return model.VotingStats{}
}

// ClearCache empties the response cache.
func (s *Service) ClearCache() {
	s.client.ClearCache()
}

// RateLimitState reports whether the upstream has throttled this client.
func (s *Service) RateLimitState() ratelimit.State {
	return s.client.RateLimitState()
}

// HealthCheck probes the upstream with an uncached minimal request.
func (s *Service) HealthCheck(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "query.HealthCheck", "")
	defer span.End()

	if _, err := client.GetJSON[json.RawMessage](ctx, s.client, "/deputados", client.Params{"itens": 1}, client.NoCache); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream unavailable")
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

func (s *Service) startSpan(ctx context.Context, name, id string) (context.Context, trace.Span) {
	if id == "" {
		return tracer.Start(ctx, name)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("camara.legislator_id", id)))
}

func (s *Service) fail(span trace.Span, id string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(client.KindOf(err)))
	s.logger.Error().
		Err(err).
		Str("legislator_id", id).
		Str("error_kind", string(client.KindOf(err))).
		Msg("Query failed")
	return err
}

func (s *Service) degrade(span trace.Span, id string, err error) {
	span.RecordError(err)
	s.logger.Warn().
		Err(err).
		Str("legislator_id", id).
		Str("error_kind", string(client.KindOf(err))).
		Msg("Supplementary query failed - returning zero value")
}

// parseID validates a numeric upstream id and returns its canonical form.
func parseID(id string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return strconv.Itoa(n), nil
}

// recordPath joins a validated id to prefix.
func recordPath(prefix, id string) (string, error) {
	canonical, err := parseID(id)
	if err != nil {
		return "", err
	}
	return prefix + canonical, nil
}

// notFoundOn404 reclassifies an upstream 404 on a single-record path.
func notFoundOn404(path string, err error) error {
	if client.StatusCode(err) == http.StatusNotFound {
		return &client.Error{
			Kind:       client.KindNotFound,
			StatusCode: http.StatusNotFound,
			Endpoint:   path,
			Message:    "no such record",
		}
	}
	return err
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
