package scoring

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
	domscore "github.com/kailas-cloud/candidex/internal/domain/scoring"
)

// --- Mocks ---

type mockRules struct {
	byVersion map[string]rules.RuleSet
	active    string

	getCalls    int
	activeCalls int
	activeErr   error
}

func (m *mockRules) Get(_ context.Context, version string) (rules.RuleSet, error) {
	m.getCalls++
	rs, ok := m.byVersion[version]
	if !ok {
		return rules.RuleSet{}, domain.ErrNotFound
	}
	return rs, nil
}

func (m *mockRules) Active(_ context.Context) (rules.RuleSet, error) {
	m.activeCalls++
	if m.activeErr != nil {
		return rules.RuleSet{}, m.activeErr
	}
	return m.byVersion[m.active], nil
}

type mockResults struct {
	saved   map[string]domscore.StoredResult
	saveErr error
}

func newMockResults() *mockResults {
	return &mockResults{saved: make(map[string]domscore.StoredResult)}
}

func (m *mockResults) Save(_ context.Context, res domscore.StoredResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[res.ID] = res
	return nil
}

func (m *mockResults) Get(_ context.Context, id string) (domscore.StoredResult, error) {
	res, ok := m.saved[id]
	if !ok {
		return domscore.StoredResult{}, domain.ErrResultNotFound
	}
	return res, nil
}

func makeRuleSet(version string) rules.RuleSet {
	return rules.RuleSet{
		Version: version,
		MustSkills: []rules.SkillRule{
			{Skill: "React", Weight: 3},
			{Skill: "TypeScript", Weight: 2},
		},
		Thresholds: rules.DefaultThresholds(),
	}
}

func makeCandidate(name string, skills ...string) candidate.Record {
	return candidate.Record{Name: name, Skills: skills}
}

func newTestService(t *testing.T) (*Service, *mockRules, *mockResults) {
	t.Helper()
	mr := &mockRules{
		byVersion: map[string]rules.RuleSet{
			"1.0.0": makeRuleSet("1.0.0"),
			"2.0.0": makeRuleSet("2.0.0"),
		},
		active: "1.0.0",
	}
	res := newMockResults()
	return New(mr, res, zap.NewNop()), mr, res
}

// --- Score ---

func TestScore_ActiveVersion(t *testing.T) {
	svc, mr, res := newTestService(t)

	stored, err := svc.Score(context.Background(), Request{
		Candidate: makeCandidate("Jordan Day", "React"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected a generated result ID")
	}
	if stored.Result.RuleVersion != "1.0.0" {
		t.Errorf("expected active version 1.0.0, got %s", stored.Result.RuleVersion)
	}
	if stored.CandidateName != "Jordan Day" {
		t.Errorf("unexpected candidate name: %s", stored.CandidateName)
	}
	if _, ok := res.saved[stored.ID]; !ok {
		t.Error("expected result to be persisted")
	}
	if mr.activeCalls != 1 {
		t.Errorf("expected one active lookup, got %d", mr.activeCalls)
	}
}

func TestScore_PinnedVersion(t *testing.T) {
	svc, mr, _ := newTestService(t)

	stored, err := svc.Score(context.Background(), Request{
		Candidate:   makeCandidate("Jordan Day", "React"),
		RuleVersion: "2.0.0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Result.RuleVersion != "2.0.0" {
		t.Errorf("expected pinned version 2.0.0, got %s", stored.Result.RuleVersion)
	}
	if mr.activeCalls != 0 {
		t.Errorf("pinned version must not resolve active, got %d lookups", mr.activeCalls)
	}
}

func TestScore_UnknownVersion(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Score(context.Background(), Request{
		Candidate:   makeCandidate("Jordan Day"),
		RuleVersion: "9.9.9",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScore_NoActiveRuleSet(t *testing.T) {
	svc, mr, _ := newTestService(t)
	mr.activeErr = domain.ErrNoActiveRuleSet

	_, err := svc.Score(context.Background(), Request{
		Candidate: makeCandidate("Jordan Day"),
	})
	if !errors.Is(err, domain.ErrNoActiveRuleSet) {
		t.Fatalf("expected ErrNoActiveRuleSet, got %v", err)
	}
}

func TestScore_SaveError(t *testing.T) {
	svc, _, res := newTestService(t)
	res.saveErr = errors.New("connection lost")

	_, err := svc.Score(context.Background(), Request{
		Candidate: makeCandidate("Jordan Day"),
	})
	if err == nil {
		t.Fatal("expected error on save failure")
	}
}

func TestScore_EngineCachedPerVersion(t *testing.T) {
	svc, mr, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Score(context.Background(), Request{
			Candidate:   makeCandidate("Jordan Day", "React"),
			RuleVersion: "1.0.0",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if mr.getCalls != 1 {
		t.Errorf("expected one ruleset fetch for a cached engine, got %d", mr.getCalls)
	}
}

func TestScore_DistinctIDsPerCall(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Score(context.Background(), Request{Candidate: makeCandidate("A")})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Score(context.Background(), Request{Candidate: makeCandidate("B")})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct result IDs, both %s", a.ID)
	}
}

// --- ScoreBatch ---

func TestScoreBatch_OrderPreservedSingleResolution(t *testing.T) {
	svc, mr, _ := newTestService(t)

	cands := []candidate.Record{
		makeCandidate("First", "React", "TypeScript"),
		makeCandidate("Second"),
		makeCandidate("Third", "React"),
	}

	out, err := svc.ScoreBatch(context.Background(), cands, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if out[i].CandidateName != want {
			t.Errorf("result %d: expected %s, got %s", i, want, out[i].CandidateName)
		}
	}
	if mr.activeCalls != 1 {
		t.Errorf("expected active resolved once for the whole batch, got %d", mr.activeCalls)
	}
	// First candidate matched both must skills, second none.
	if out[0].Result.TotalScore <= out[1].Result.TotalScore {
		t.Errorf("expected First to outscore Second: %g vs %g",
			out[0].Result.TotalScore, out[1].Result.TotalScore)
	}
}

func TestScoreBatch_StopsOnSaveError(t *testing.T) {
	svc, _, res := newTestService(t)
	res.saveErr = errors.New("connection lost")

	out, err := svc.ScoreBatch(context.Background(), []candidate.Record{
		makeCandidate("First"),
		makeCandidate("Second"),
	}, "1.0.0")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(out) != 0 {
		t.Fatalf("expected no results before the failure, got %d", len(out))
	}
}

// --- Result / Compare ---

func TestResult_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Result(context.Background(), "missing")
	if !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
}

func TestCompare_DiffsBAgainstA(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Score(ctx, Request{Candidate: makeCandidate("Jordan", "React")})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Score(ctx, Request{Candidate: makeCandidate("Jordan", "React", "TypeScript"), RuleVersion: "2.0.0"})
	if err != nil {
		t.Fatal(err)
	}

	out, err := svc.Compare(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDiff := b.Result.TotalScore - a.Result.TotalScore
	if out.Comparison.ScoreDiff != wantDiff {
		t.Errorf("expected score diff %g, got %g", wantDiff, out.Comparison.ScoreDiff)
	}
	if !out.Comparison.VersionChanged {
		t.Error("expected version change to be flagged")
	}
}

func TestCompare_MissingSide(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Score(ctx, Request{Candidate: makeCandidate("Jordan")})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Compare(ctx, a.ID, "missing")
	if !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
}

// --- Preview ---

func TestPreview_DoesNotPersist(t *testing.T) {
	svc, _, res := newTestService(t)

	out, err := svc.Preview(makeRuleSet("draft"), makeCandidate("Jordan", "React"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RuleVersion != "draft" {
		t.Errorf("expected draft version, got %s", out.RuleVersion)
	}
	if len(res.saved) != 0 {
		t.Errorf("preview must not persist, found %d results", len(res.saved))
	}
}

func TestPreview_InvalidRuleSet(t *testing.T) {
	svc, _, _ := newTestService(t)

	rs := makeRuleSet("draft")
	rs.Thresholds = nil

	if _, err := svc.Preview(rs, makeCandidate("Jordan")); err == nil {
		t.Fatal("expected error for invalid rule set")
	}
}
