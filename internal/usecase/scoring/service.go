// Package scoring orchestrates candidate evaluation: it resolves the rule
// set, runs the engine, persists the outcome and records metrics. Engines
// are cached per rule version; versions are immutable once stored, so a
// cached engine never goes stale.
package scoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
	domscore "github.com/kailas-cloud/candidex/internal/domain/scoring"
	"github.com/kailas-cloud/candidex/internal/metrics"
)

// Service handles scoring operations.
type Service struct {
	rules   RuleSource
	results Results
	logger  *zap.Logger

	mu      sync.RWMutex
	engines map[string]*domscore.Engine
}

// New creates a scoring service.
func New(ruleSource RuleSource, results Results, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		rules:   ruleSource,
		results: results,
		logger:  logger,
		engines: make(map[string]*domscore.Engine),
	}
}

// Score evaluates one candidate and persists the outcome under a fresh ID.
func (s *Service) Score(ctx context.Context, req Request) (domscore.StoredResult, error) {
	eng, err := s.engineFor(ctx, req.RuleVersion)
	if err != nil {
		return domscore.StoredResult{}, err
	}

	start := time.Now()
	res := eng.Score(&req.Candidate)
	metrics.ScoringDuration.WithLabelValues(res.RuleVersion).Observe(time.Since(start).Seconds())
	metrics.ScoringEvaluationsTotal.WithLabelValues(res.RuleVersion, string(res.Grade)).Inc()
	for _, risk := range res.Risks {
		metrics.ScoringRisksTotal.WithLabelValues(string(risk.Category), string(risk.Severity)).Inc()
	}

	stored := domscore.StoredResult{
		ID:            uuid.NewString(),
		CandidateName: req.Candidate.Name,
		Result:        res,
	}
	if err := s.results.Save(ctx, stored); err != nil {
		return domscore.StoredResult{}, fmt.Errorf("save result: %w", err)
	}

	s.logger.Info("candidate scored",
		zap.String("result_id", stored.ID),
		zap.String("rule_version", res.RuleVersion),
		zap.Float64("total_score", res.TotalScore),
		zap.String("grade", string(res.Grade)),
		zap.Int("risks", len(res.Risks)),
	)

	return stored, nil
}

// ScoreBatch evaluates candidates in order against one resolved rule
// version, so a concurrent activation cannot split a batch across policies.
func (s *Service) ScoreBatch(ctx context.Context, candidates []candidate.Record, ruleVersion string) ([]domscore.StoredResult, error) {
	eng, err := s.engineFor(ctx, ruleVersion)
	if err != nil {
		return nil, err
	}
	version := eng.Version()

	out := make([]domscore.StoredResult, 0, len(candidates))
	for i := range candidates {
		stored, err := s.Score(ctx, Request{Candidate: candidates[i], RuleVersion: version})
		if err != nil {
			return out, fmt.Errorf("score candidate %d of %d: %w", i+1, len(candidates), err)
		}
		out = append(out, stored)
	}
	return out, nil
}

// Result retrieves a stored scoring outcome by ID.
func (s *Service) Result(ctx context.Context, id string) (domscore.StoredResult, error) {
	res, err := s.results.Get(ctx, id)
	if err != nil {
		return domscore.StoredResult{}, fmt.Errorf("get result: %w", err)
	}
	return res, nil
}

// Compare diffs stored result b against stored result a.
func (s *Service) Compare(ctx context.Context, aID, bID string) (CompareOutcome, error) {
	a, err := s.results.Get(ctx, aID)
	if err != nil {
		return CompareOutcome{}, fmt.Errorf("get result %s: %w", aID, err)
	}
	b, err := s.results.Get(ctx, bID)
	if err != nil {
		return CompareOutcome{}, fmt.Errorf("get result %s: %w", bID, err)
	}
	return CompareOutcome{
		A:          a,
		B:          b,
		Comparison: domscore.Compare(a.Result, b.Result),
	}, nil
}

// Preview evaluates a candidate without persisting anything, for dry runs
// against an unstored rule set.
func (s *Service) Preview(rs rules.RuleSet, c candidate.Record) (domscore.Result, error) {
	eng, err := domscore.New(rs)
	if err != nil {
		return domscore.Result{}, fmt.Errorf("build engine: %w", err)
	}
	return eng.WithLogger(s.logger).Score(&c), nil
}

// engineFor resolves a rule version ("" means active) to a cached engine,
// building and caching one on first use.
func (s *Service) engineFor(ctx context.Context, version string) (*domscore.Engine, error) {
	if version != "" {
		s.mu.RLock()
		eng, ok := s.engines[version]
		s.mu.RUnlock()
		if ok {
			return eng, nil
		}
	}

	var (
		rs  rules.RuleSet
		err error
	)
	if version == "" {
		rs, err = s.rules.Active(ctx)
	} else {
		rs, err = s.rules.Get(ctx, version)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve ruleset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if eng, ok := s.engines[rs.Version]; ok {
		return eng, nil
	}
	eng, err := domscore.New(rs)
	if err != nil {
		return nil, fmt.Errorf("build engine for %s: %w", rs.Version, err)
	}
	eng.WithLogger(s.logger.With(zap.String("rule_version", rs.Version)))
	s.engines[rs.Version] = eng
	return eng, nil
}
