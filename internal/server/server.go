package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/copyleftdev/labbench/internal/config"
	"github.com/copyleftdev/labbench/internal/logging"
	"github.com/copyleftdev/labbench/internal/metrics"
	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/objective"
	"github.com/copyleftdev/labbench/internal/optimization/runner"
	"github.com/copyleftdev/labbench/internal/store"
)

// maxCompareTrials caps the number of seeds a single comparison may run
const maxCompareTrials = 100

// Server implements the HTTP and JSON-RPC server for optimization runs.
// Runs execute synchronously inside the request that starts them and are
// persisted in the store once complete.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	runner  *runner.Runner
	store   store.Store
	metrics *metrics.Metrics

	now func() time.Time
}

// NewServer creates a new server instance. m may be nil.
func NewServer(cfg *config.Config, st store.Store, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := optimization.OptimizerConfig{
		CandidatePool: cfg.Optimization.CandidatePool,
		Kappa:         cfg.Optimization.Kappa,
	}
	return &Server{
		cfg:     cfg,
		logger:  logger.Named("server"),
		runner:  runner.New(defaults, logger),
		store:   st,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/runs", s.handleCreateRun)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
		r.Post("/compare", s.handleCompare)
		r.Get("/objective", s.handleObjective)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// runParams are the parameters of run.start and POST /runs. Unset fields
// take the configured defaults.
type runParams struct {
	Strategy    string                       `json:"strategy"`
	Iterations  int                          `json:"iterations"`
	Seed        *int64                       `json:"seed"`
	Bounds      *optimization.Bounds         `json:"bounds"`
	Acquisition optimization.AcquisitionKind `json:"acquisition"`
}

// runResponse is a persisted run plus its best evaluation.
type runResponse struct {
	store.Record
	Best optimization.Evaluation `json:"best"`
}

func newRunResponse(rec store.Record) runResponse {
	best, _ := rec.Result.Best()
	return runResponse{Record: rec, Best: best}
}

type runSummary struct {
	ID         string                `json:"id"`
	Strategy   optimization.Strategy `json:"strategy"`
	Iterations int                   `json:"iterations"`
	Seed       int64                 `json:"seed"`
	CreatedAt  time.Time             `json:"created_at"`
	BestValue  float64               `json:"best_value"`
}

type compareParams struct {
	Iterations int                  `json:"iterations"`
	Seeds      []int64              `json:"seeds"`
	StartSeed  int64                `json:"start_seed"`
	Trials     int                  `json:"trials"`
	Bounds     *optimization.Bounds `json:"bounds"`
}

type objectiveResponse struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

func (s *Server) iterations(n int) (int, error) {
	if n == 0 {
		return s.cfg.Optimization.Iterations, nil
	}
	if n < 0 || n > s.cfg.Optimization.MaxIterations {
		return 0, optimization.InvalidInputf("iterations must be in [1, %d], got %d", s.cfg.Optimization.MaxIterations, n)
	}
	return n, nil
}

// startRun executes a run and persists it.
func (s *Server) startRun(ctx context.Context, p runParams) (runResponse, error) {
	const op = "Server.startRun"

	req := runner.Request{
		Strategy:    optimization.StrategyGPLCB,
		Seed:        s.cfg.Optimization.Seed,
		Acquisition: p.Acquisition,
	}
	if p.Strategy != "" {
		strategy, err := optimization.ParseStrategy(p.Strategy)
		if err != nil {
			return runResponse{}, err
		}
		req.Strategy = strategy
	}
	n, err := s.iterations(p.Iterations)
	if err != nil {
		return runResponse{}, optimization.WrapError(err, "invalid run").WithOperation(op)
	}
	req.Iterations = n
	if p.Seed != nil {
		req.Seed = *p.Seed
	}
	if p.Bounds != nil {
		req.Bounds = *p.Bounds
	}

	start := s.now()
	result, err := s.runner.Run(ctx, req)
	if err != nil {
		return runResponse{}, err
	}
	s.metrics.ObserveRun(result, s.now().Sub(start))

	rec := store.NewRecord(result, s.now())
	if err := s.store.SaveRun(ctx, rec); err != nil {
		return runResponse{}, optimization.WrapError(err, "save run").WithOperation(op).WithComponent("server")
	}

	logging.FromContext(ctx).Info("Run stored",
		zap.String("run_id", rec.ID),
		zap.String("strategy", string(rec.Strategy)),
	)
	return newRunResponse(rec), nil
}

func (s *Server) getRun(ctx context.Context, id string) (runResponse, error) {
	if id == "" {
		return runResponse{}, optimization.InvalidInputf("run id is required")
	}
	rec, ok, err := s.store.GetRun(ctx, id)
	if err != nil {
		return runResponse{}, optimization.WrapError(err, "load run").WithComponent("server")
	}
	if !ok {
		return runResponse{}, optimization.WrapErrorf(optimization.ErrNotFound, "run %s", id)
	}
	return newRunResponse(rec), nil
}

func (s *Server) listRuns(ctx context.Context, limit int) ([]runSummary, error) {
	records, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, optimization.WrapError(err, "list runs").WithComponent("server")
	}
	out := make([]runSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, runSummary{
			ID:         rec.ID,
			Strategy:   rec.Strategy,
			Iterations: rec.Iterations,
			Seed:       rec.Seed,
			CreatedAt:  rec.CreatedAt,
			BestValue:  rec.Result.FinalBest(),
		})
	}
	return out, nil
}

func (s *Server) compare(ctx context.Context, p compareParams) (*runner.CompareReport, error) {
	n, err := s.iterations(p.Iterations)
	if err != nil {
		return nil, err
	}

	seeds := p.Seeds
	if len(seeds) == 0 {
		trials := p.Trials
		if trials == 0 {
			trials = s.cfg.Optimization.CompareTrials
		}
		if trials < 0 {
			return nil, optimization.InvalidInputf("trials must be positive, got %d", trials)
		}
		seeds = runner.SeedRange(p.StartSeed, trials)
	}
	if len(seeds) > maxCompareTrials {
		return nil, optimization.InvalidInputf("at most %d seeds per comparison, got %d", maxCompareTrials, len(seeds))
	}

	req := runner.CompareRequest{Iterations: n, Seeds: seeds}
	if p.Bounds != nil {
		req.Bounds = *p.Bounds
	}
	return s.runner.Compare(ctx, req)
}

func (s *Server) evalObjective(x, y float64) (objectiveResponse, error) {
	const op = "Server.evalObjective"
	if !isFinite(x) || !isFinite(y) {
		return objectiveResponse{}, optimization.InvalidInputf("x and y must be finite").
			WithOperation(op).WithComponent("server")
	}
	v := objective.Branin(x, y)
	if !isFinite(v) {
		return objectiveResponse{}, optimization.InvalidInputf("objective overflows at (%g, %g)", x, y).
			WithOperation(op).WithComponent("server")
	}
	return objectiveResponse{X: x, Y: y, Value: v}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// handleCreateRun handles POST /api/v1/runs
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var p runParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondHTTPError(w, r, optimization.InvalidInputf("invalid request body: %v", err))
		return
	}

	resp, err := s.startRun(r.Context(), p)
	if err != nil {
		s.respondHTTPError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// handleListRuns handles GET /api/v1/runs?limit=
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondHTTPError(w, r, optimization.InvalidInputf("invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.listRuns(r.Context(), limit)
	if err != nil {
		s.respondHTTPError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun handles GET /api/v1/runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	resp, err := s.getRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondHTTPError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleDeleteRun handles DELETE /api/v1/runs/{id}
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondHTTPError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCompare handles POST /api/v1/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var p compareParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondHTTPError(w, r, optimization.InvalidInputf("invalid request body: %v", err))
		return
	}

	report, err := s.compare(r.Context(), p)
	if err != nil {
		s.respondHTTPError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// handleObjective handles GET /api/v1/objective?x=&y=
func (s *Server) handleObjective(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		s.respondHTTPError(w, r, optimization.InvalidInputf("x and y must be numbers"))
		return
	}
	resp, err := s.evalObjective(x, y)
	if err != nil {
		s.respondHTTPError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// statusFor maps an error to its HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, optimization.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, optimization.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("Request failed", zap.Error(err))
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

// respondJSON encodes v before writing the status line, so an encoding
// failure is reported as a 500 instead of an empty success.
func respondJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
