package chi

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
	domscore "github.com/kailas-cloud/candidex/internal/domain/scoring"
	healthuc "github.com/kailas-cloud/candidex/internal/usecase/health"
	rulesetuc "github.com/kailas-cloud/candidex/internal/usecase/ruleset"
	scoringuc "github.com/kailas-cloud/candidex/internal/usecase/scoring"
)

// memRuleRepo is an in-memory rulesetuc.Repository.
type memRuleRepo struct {
	mu     sync.Mutex
	sets   map[string]rules.RuleSet
	active string
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{sets: make(map[string]rules.RuleSet)}
}

func (m *memRuleRepo) Create(_ context.Context, rs rules.RuleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sets[rs.Version]; ok {
		return domain.ErrAlreadyExists
	}
	m.sets[rs.Version] = rs
	return nil
}

func (m *memRuleRepo) Get(_ context.Context, version string) (rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.sets[version]
	if !ok {
		return rules.RuleSet{}, domain.ErrNotFound
	}
	return rs, nil
}

func (m *memRuleRepo) List(_ context.Context) ([]rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]rules.RuleSet, 0, len(m.sets))
	for _, rs := range m.sets {
		out = append(out, rs)
	}
	return out, nil
}

func (m *memRuleRepo) Delete(_ context.Context, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sets[version]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sets, version)
	return nil
}

func (m *memRuleRepo) SetActive(_ context.Context, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sets[version]; !ok {
		return domain.ErrNotFound
	}
	m.active = version
	return nil
}

func (m *memRuleRepo) GetActive(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == "" {
		return "", domain.ErrNoActiveRuleSet
	}
	return m.active, nil
}

// memResults is an in-memory scoringuc.Results.
type memResults struct {
	mu    sync.Mutex
	saved map[string]domscore.StoredResult
}

func newMemResults() *memResults {
	return &memResults{saved: make(map[string]domscore.StoredResult)}
}

func (m *memResults) Save(_ context.Context, res domscore.StoredResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[res.ID] = res
	return nil
}

func (m *memResults) Get(_ context.Context, id string) (domscore.StoredResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.saved[id]
	if !ok {
		return domscore.StoredResult{}, domain.ErrResultNotFound
	}
	return res, nil
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

// mockFieldExtractor returns a fixed record for any text.
type mockFieldExtractor struct {
	record candidate.Record
	err    error
}

func (m *mockFieldExtractor) Extract(_ context.Context, text string) (candidate.Record, error) {
	if m.err != nil {
		return candidate.Record{}, m.err
	}
	rec := m.record
	rec.RawText = text
	return rec, nil
}

type testEnv struct {
	server   *httptest.Server
	rules    *memRuleRepo
	results  *memResults
	fieldExt *mockFieldExtractor
}

// newTestEnv builds a full HTTP stack on in-memory storage.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ruleRepo := newMemRuleRepo()
	results := newMemResults()
	fieldExt := &mockFieldExtractor{}

	rulesetSvc := rulesetuc.New(ruleRepo)
	scoringSvc := scoringuc.New(rulesetSvc, results, zap.NewNop())
	healthSvc := healthuc.New(okPinger{}, nil)

	srv := NewServer(rulesetSvc, scoringSvc, healthSvc, nil, fieldExt, zap.NewNop())
	router := gochi.NewRouter()
	srv.Routes(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, rules: ruleRepo, results: results, fieldExt: fieldExt}
}

func testRuleSetJSON() string {
	return `{
		"version": "1.0.0",
		"description": "frontend hiring",
		"must_skills": [
			{"skill": "React", "weight": 3},
			{"skill": "TypeScript", "weight": 2},
			{"skill": "JavaScript", "weight": 2}
		],
		"grade_thresholds": {"a": 80, "b": 60, "c": 40, "d": 0}
	}`
}
