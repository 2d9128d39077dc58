// Package chi is the HTTP transport: routing, request decoding and the
// mapping from domain sentinel errors to status codes.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
	healthuc "github.com/kailas-cloud/candidex/internal/usecase/health"
	rulesetuc "github.com/kailas-cloud/candidex/internal/usecase/ruleset"
	scoringuc "github.com/kailas-cloud/candidex/internal/usecase/scoring"
)

const (
	maxBatchSize   = 100
	maxUploadBytes = 20 << 20
)

// TextExtractor turns an uploaded resume file into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, file io.Reader) (string, error)
}

// FieldExtractor turns resume text into a structured candidate record.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (candidate.Record, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the HTTP API to the usecases.
type Server struct {
	rulesets  *rulesetuc.Service
	scoring   *scoringuc.Service
	health    *healthuc.Service
	texts     TextExtractor
	fields    FieldExtractor
	logger    *zap.Logger
	errHandle []errorHandler
}

// NewServer creates an HTTP API server. texts and fields may be nil when
// resume extraction is not configured; the extract endpoint then returns 501.
func NewServer(
	rulesets *rulesetuc.Service,
	scoring *scoringuc.Service,
	health *healthuc.Service,
	texts TextExtractor,
	fields FieldExtractor,
	logger *zap.Logger,
) *Server {
	s := &Server{
		rulesets: rulesets,
		scoring:  scoring,
		health:   health,
		texts:    texts,
		fields:   fields,
		logger:   logger,
	}
	s.errHandle = []errorHandler{
		sentinelHandler(domain.ErrResultNotFound, http.StatusNotFound, CodeResultNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeRuleSetNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeRuleSetAlreadyExists),
		sentinelHandler(domain.ErrRuleSetActive, http.StatusConflict, CodeRuleSetActive),
		sentinelHandler(domain.ErrNoActiveRuleSet, http.StatusConflict, CodeNoActiveRuleSet),
		sentinelHandler(domain.ErrInvalidRuleSet, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrExtractorError, http.StatusBadGateway, CodeExtractorError),
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/rulesets", func(r chi.Router) {
			r.Post("/", s.createRuleSet)
			r.Get("/", s.listRuleSets)
			r.Get("/active", s.getActiveRuleSet)
			r.Get("/default", s.getDefaultRuleSet)
			r.Get("/{version}", s.getRuleSet)
			r.Delete("/{version}", s.deleteRuleSet)
			r.Post("/{version}/activate", s.activateRuleSet)
		})

		r.Post("/score", s.score)
		r.Post("/score/batch", s.scoreBatch)
		r.Post("/score/preview", s.preview)

		r.Get("/results/compare", s.compareResults)
		r.Get("/results/{id}", s.getResult)

		r.Post("/extract", s.extract)
	})
}

// --- Rule sets ---

func (s *Server) createRuleSet(w http.ResponseWriter, r *http.Request) {
	var req rules.RuleSet
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rs, err := s.rulesets.Create(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rs)
}

func (s *Server) listRuleSets(w http.ResponseWriter, r *http.Request) {
	list, err := s.rulesets.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := ruleSetListResponse{Items: list}
	if active, err := s.rulesets.Active(r.Context()); err == nil {
		resp.Active = active.Version
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getActiveRuleSet(w http.ResponseWriter, r *http.Request) {
	rs, err := s.rulesets.Active(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) getDefaultRuleSet(w http.ResponseWriter, r *http.Request) {
	position := r.URL.Query().Get("position")
	if position == "" {
		position = "Software Engineer"
	}
	writeJSON(w, http.StatusOK, s.rulesets.DefaultTemplate(position))
}

func (s *Server) getRuleSet(w http.ResponseWriter, r *http.Request) {
	rs, err := s.rulesets.Get(r.Context(), chi.URLParam(r, "version"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) deleteRuleSet(w http.ResponseWriter, r *http.Request) {
	if err := s.rulesets.Delete(r.Context(), chi.URLParam(r, "version")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activateRuleSet(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	if err := s.rulesets.Activate(r.Context(), version); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": version})
}

// --- Scoring ---

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if !scorable(&req.Candidate) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "candidate has no scorable fields",
			Details: req.Candidate.Validate(),
		})
		return
	}

	stored, err := s.scoring.Score(r.Context(), scoringuc.Request{
		Candidate:   req.Candidate,
		RuleVersion: req.RuleVersion,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) scoreBatch(w http.ResponseWriter, r *http.Request) {
	var req scoreBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "candidates must not be empty")
		return
	}
	if len(req.Candidates) > maxBatchSize {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "batch exceeds maximum of 100 candidates")
		return
	}
	for i := range req.Candidates {
		if !scorable(&req.Candidates[i]) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Code:    CodeValidationFailed,
				Message: "candidate has no scorable fields",
				Details: req.Candidates[i].Validate(),
			})
			return
		}
	}

	results, err := s.scoring.ScoreBatch(r.Context(), req.Candidates, req.RuleVersion)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreBatchResponse{Results: results, Count: len(results)})
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.scoring.Preview(req.RuleSet, req.Candidate)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// scorable reports whether the record carries anything a rule could match.
// Incomplete records still score; a record with no evidence at all is a
// client error.
func scorable(c *candidate.Record) bool {
	return len(c.Skills) > 0 || c.RawText != "" || c.WorkYears != nil ||
		c.Education != "" || len(c.Extra) > 0
}

// --- Results ---

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.scoring.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) compareResults(w http.ResponseWriter, r *http.Request) {
	aID := r.URL.Query().Get("a")
	bID := r.URL.Query().Get("b")
	if aID == "" || bID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query parameters a and b are required")
		return
	}

	out, err := s.scoring.Compare(r.Context(), aID, bID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Extraction ---

// extract accepts either a multipart file upload or a JSON body with raw
// text, and returns the extracted candidate record.
func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	if s.fields == nil {
		writeError(w, http.StatusNotImplemented, CodeNotImplemented, "resume extraction is not configured")
		return
	}

	text, ok := s.resolveResumeText(w, r)
	if !ok {
		return
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "resume text must not be empty")
		return
	}

	rec, err := s.fields.Extract(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// resolveResumeText pulls resume text out of the request, calling the
// text-extraction service for file uploads. On failure it writes the error
// response itself and returns ok=false.
func (s *Server) resolveResumeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if s.texts == nil {
			writeError(w, http.StatusNotImplemented, CodeNotImplemented, "file extraction is not configured")
			return "", false
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid multipart form: "+err.Error())
			return "", false
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "file part is required")
			return "", false
		}
		defer file.Close()

		text, err := s.texts.ExtractText(r.Context(), header.Filename, file)
		if err != nil {
			s.handleDomainError(w, err)
			return "", false
		}
		return text, true
	}

	var req extractTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return "", false
	}
	return req.Text, true
}

// --- Health ---

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrResultNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrRuleSetActive,
		domain.ErrNoActiveRuleSet,
		domain.ErrInvalidRuleSet,
		domain.ErrExtractorError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errHandle {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
