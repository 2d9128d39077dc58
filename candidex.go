// Package candidex provides an embedded Go client for the candidex candidate
// scoring engine backed by Redis. It wires the same rule-set, scoring and
// result services the HTTP API uses, without going through HTTP.
//
//	client, _ := candidex.New(candidex.WithRedis([]string{"localhost:6379"}, ""))
//	defer client.Close()
//
//	rs, _ := client.RuleSets().Create(ctx, candidex.DefaultRuleSet("Frontend Engineer"))
//	res, _ := client.Scoring().Score(ctx, candidex.Candidate{
//	    Name:   "Jordan Day",
//	    Skills: []string{"React", "TypeScript"},
//	})
//	fmt.Println(res.Result.Summary)
package candidex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/db"
	dbRedis "github.com/kailas-cloud/candidex/internal/db/redis"
	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
	domscore "github.com/kailas-cloud/candidex/internal/domain/scoring"
	resultrepo "github.com/kailas-cloud/candidex/internal/repository/result"
	rulesetrepo "github.com/kailas-cloud/candidex/internal/repository/ruleset"
	rulesetuc "github.com/kailas-cloud/candidex/internal/usecase/ruleset"
	scoringuc "github.com/kailas-cloud/candidex/internal/usecase/scoring"
)

const defaultReadinessTimeout = 10 * time.Second

// Re-exported domain types so SDK users never import internal packages.
type (
	// RuleSet is one versioned scoring policy.
	RuleSet = rules.RuleSet
	// SkillRule is a must-have or nice-to-have skill rule.
	SkillRule = rules.SkillRule
	// NumericRule is a numeric bonus rule.
	NumericRule = rules.NumericRule
	// EnumRule is an enum bonus rule.
	EnumRule = rules.EnumRule
	// RejectRule is a penalty keyword rule.
	RejectRule = rules.RejectRule
	// GradeThresholds are the grade cut points.
	GradeThresholds = rules.GradeThresholds
	// Candidate is a structured candidate record.
	Candidate = candidate.Record
	// Result is one scoring outcome.
	Result = domscore.Result
	// StoredResult is a persisted scoring outcome with its ID.
	StoredResult = domscore.StoredResult
	// Comparison is a diff of two results.
	Comparison = domscore.Comparison
)

// DefaultRuleSet returns the starter policy template for a position.
func DefaultRuleSet(position string) RuleSet {
	return rules.Default(position)
}

// Internal interfaces so services can be substituted in tests.
type ruleSetUseCase interface {
	Create(ctx context.Context, rs rules.RuleSet) (rules.RuleSet, error)
	Get(ctx context.Context, version string) (rules.RuleSet, error)
	List(ctx context.Context) ([]rules.RuleSet, error)
	Delete(ctx context.Context, version string) error
	Activate(ctx context.Context, version string) error
	Active(ctx context.Context) (rules.RuleSet, error)
}

type scoringUseCase interface {
	Score(ctx context.Context, req scoringuc.Request) (domscore.StoredResult, error)
	ScoreBatch(ctx context.Context, candidates []candidate.Record, ruleVersion string) ([]domscore.StoredResult, error)
	Result(ctx context.Context, id string) (domscore.StoredResult, error)
	Compare(ctx context.Context, aID, bID string) (scoringuc.CompareOutcome, error)
	Preview(rs rules.RuleSet, c candidate.Record) (domscore.Result, error)
}

// Client is the candidex SDK entry point.
type Client struct {
	store   db.Store
	rules   ruleSetUseCase
	scoring scoringUseCase
}

// New creates a candidex Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        "candidex:",
		readinessTimeout: defaultReadinessTimeout,
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("candidex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("candidex: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("candidex: database not ready: %w", err)
	}

	ruleSvc := rulesetuc.New(rulesetrepo.New(store, cfg.keyPrefix))
	scoreSvc := scoringuc.New(ruleSvc, resultrepo.New(store, cfg.keyPrefix), cfg.logger)

	return &Client{
		store:   store,
		rules:   ruleSvc,
		scoring: scoreSvc,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// RuleSets returns the rule-set management service.
func (c *Client) RuleSets() *RuleSetService {
	return &RuleSetService{svc: c.rules}
}

// Scoring returns the candidate scoring service.
func (c *Client) Scoring() *ScoringService {
	return &ScoringService{svc: c.scoring}
}

// RuleSetService manages versioned scoring policies.
type RuleSetService struct {
	svc ruleSetUseCase
}

// Create validates and stores a new rule-set version.
func (s *RuleSetService) Create(ctx context.Context, rs RuleSet) (RuleSet, error) {
	return s.svc.Create(ctx, rs)
}

// Get retrieves one rule-set version.
func (s *RuleSetService) Get(ctx context.Context, version string) (RuleSet, error) {
	return s.svc.Get(ctx, version)
}

// List returns all stored versions, oldest first.
func (s *RuleSetService) List(ctx context.Context) ([]RuleSet, error) {
	return s.svc.List(ctx)
}

// Delete removes a version. The active version is refused.
func (s *RuleSetService) Delete(ctx context.Context, version string) error {
	return s.svc.Delete(ctx, version)
}

// Activate points scoring at an existing version.
func (s *RuleSetService) Activate(ctx context.Context, version string) error {
	return s.svc.Activate(ctx, version)
}

// Active resolves the currently active rule set.
func (s *RuleSetService) Active(ctx context.Context) (RuleSet, error) {
	return s.svc.Active(ctx)
}

// ScoringService evaluates candidates and manages stored results.
type ScoringService struct {
	svc scoringUseCase
}

// Score evaluates one candidate against the active rule set and persists the
// outcome.
func (s *ScoringService) Score(ctx context.Context, c Candidate) (StoredResult, error) {
	return s.svc.Score(ctx, scoringuc.Request{Candidate: c})
}

// ScoreWithVersion evaluates one candidate against a pinned rule version.
func (s *ScoringService) ScoreWithVersion(ctx context.Context, c Candidate, version string) (StoredResult, error) {
	return s.svc.Score(ctx, scoringuc.Request{Candidate: c, RuleVersion: version})
}

// ScoreBatch evaluates candidates in order against one rule version
// (empty means active).
func (s *ScoringService) ScoreBatch(ctx context.Context, candidates []Candidate, version string) ([]StoredResult, error) {
	return s.svc.ScoreBatch(ctx, candidates, version)
}

// Result retrieves a stored outcome by ID.
func (s *ScoringService) Result(ctx context.Context, id string) (StoredResult, error) {
	return s.svc.Result(ctx, id)
}

// Compare diffs stored result b against stored result a.
func (s *ScoringService) Compare(ctx context.Context, aID, bID string) (Comparison, error) {
	out, err := s.svc.Compare(ctx, aID, bID)
	if err != nil {
		return Comparison{}, err
	}
	return out.Comparison, nil
}

// Preview evaluates a candidate against an unstored rule set without
// persisting anything.
func (s *ScoringService) Preview(rs RuleSet, c Candidate) (Result, error) {
	return s.svc.Preview(rs, c)
}
