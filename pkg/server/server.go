// Package server exposes the grading engine over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gradeval/pkg/core"
)

const apiVersion = "1.0.0"

type Server struct {
	aggregator *core.Aggregator
	logger     *zap.Logger
	now        func() time.Time
}

func New(aggregator *core.Aggregator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		aggregator: aggregator,
		logger:     logger,
		now:        time.Now,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.logRequests)
	router.Methods(http.MethodGet).Path("/").HandlerFunc(s.handleRoot)
	router.Methods(http.MethodGet).Path("/health").HandlerFunc(s.handleHealth)
	router.Methods(http.MethodGet).Path("/evaluators").HandlerFunc(s.handleEvaluators)
	router.Methods(http.MethodPost).Path("/evaluate").HandlerFunc(s.handleEvaluate)
	return router
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Info("serving grading API", zap.String("addr", addr))
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// EvaluationRequest is the POST /evaluate payload.
type EvaluationRequest struct {
	Query    string   `json:"query"`
	Answer   string   `json:"answer"`
	Context  string   `json:"context,omitempty"`
	Expected string   `json:"expected_answer,omitempty"`
	Criteria []string `json:"evaluation_criteria,omitempty"`
}

// EvaluationResponse is the POST /evaluate reply.
type EvaluationResponse struct {
	Query          string             `json:"query"`
	Answer         string             `json:"answer"`
	OverallScore   float64            `json:"overall_score"`
	DetailedScores map[string]float64 `json:"detailed_scores"`
	Summary        EvaluationSummary  `json:"evaluation_summary"`
	Timestamp      string             `json:"timestamp"`
	EvaluationID   string             `json:"evaluation_id"`
}

// EvaluationSummary carries per-dimension details and advisory text.
type EvaluationSummary struct {
	CriteriaEvaluated []string                 `json:"criteria_evaluated"`
	Details           map[string]*core.Details `json:"evaluation_details"`
	Recommendations   []string                 `json:"recommendations"`
	Errors            map[string]string        `json:"errors,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Answer Quality Grading API",
		"version": apiVersion,
		"health":  "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339Nano),
		"version":   apiVersion,
	})
}

func (s *Server) handleEvaluators(w http.ResponseWriter, _ *http.Request) {
	info := make(map[string]any)
	for _, sc := range s.aggregator.Scorers() {
		min, max := sc.ScoreRange()
		info[sc.Name()] = map[string]any{
			"name":        sc.Name(),
			"description": sc.Description(),
			"score_range": []float64{min, max},
		}
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "query and answer are required")
		return
	}

	started := s.now()
	s.logger.Info("evaluating answer",
		zap.Int("query_length", len(req.Query)),
		zap.Strings("criteria", req.Criteria))

	input := core.Input{
		Query:    req.Query,
		Answer:   req.Answer,
		Context:  req.Context,
		Expected: req.Expected,
	}
	result := s.aggregator.Evaluate(r.Context(), input, req.Criteria)

	rounded := make(map[string]float64, len(result.DetailedScores))
	for dimension, score := range result.DetailedScores {
		rounded[dimension] = round3(score)
	}

	resp := EvaluationResponse{
		Query:          req.Query,
		Answer:         req.Answer,
		OverallScore:   round3(result.OverallScore),
		DetailedScores: rounded,
		Summary: EvaluationSummary{
			CriteriaEvaluated: result.Criteria,
			Details:           result.Details,
			Recommendations:   result.Recommendations,
			Errors:            result.Errors,
		},
		Timestamp:    started.Format(time.RFC3339Nano),
		EvaluationID: evaluationID(started),
	}

	s.logger.Info("evaluation completed",
		zap.String("evaluation_id", resp.EvaluationID),
		zap.Float64("overall_score", resp.OverallScore))
	writeJSON(w, http.StatusOK, resp)
}

// evaluationID is time-derived and unique at microsecond granularity.
func evaluationID(t time.Time) string {
	return fmt.Sprintf("eval_%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
