package result

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/candidex/internal/domain/scoring"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn    func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn func(ctx context.Context, key string) (map[string]string, error)
	delFn     func(ctx context.Context, key string) error
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "candidex:"), ms
}

func testStoredResult(t *testing.T) scoring.StoredResult {
	t.Helper()
	return scoring.StoredResult{
		ID:            "5f0c4a2e-0000-4000-8000-000000000001",
		CandidateName: "Jordan Day",
		Result: scoring.Result{
			TotalScore: 70,
			Grade:      scoring.GradeB,
			MustScore:  70,
			MatchedMust: []scoring.MatchedItem{
				{Name: "React", Weight: 3, Score: 30, MatchedVia: "skills_list"},
			},
			MatchedReject: []string{},
			RuleVersion:   "1.0.0",
			ScoredAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}
