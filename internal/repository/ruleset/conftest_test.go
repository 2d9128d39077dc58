package ruleset

import (
	"context"
	"testing"

	"github.com/kailas-cloud/candidex/internal/db"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	getFn          func(ctx context.Context, key string) ([]byte, error)
	setFn          func(ctx context.Context, key string, value []byte) error
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

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "candidex:"), ms
}

func testRuleSet(t *testing.T) rules.RuleSet {
	t.Helper()
	rs := rules.RuleSet{
		Version:     "1.0.0",
		Description: "frontend hiring",
		MustSkills: []rules.SkillRule{
			{Skill: "React", Weight: 3},
		},
		NiceSkills: []rules.SkillRule{
			{Skill: "TypeScript", Weight: 2},
		},
		NumericRules: []rules.NumericRule{
			{Field: "work_years", Operator: rules.OpGTE, Value: 3, Weight: 2, Label: "3+ years"},
		},
		EnumRules: []rules.EnumRule{
			{Field: "education", Values: []string{"bachelor", "master"}, Weight: 1, Label: "degree"},
		},
		RejectRules: []rules.RejectRule{
			{Keyword: "current student", Penalty: 20},
		},
		Thresholds: rules.DefaultThresholds(),
		CreatedAt:  1700000000000,
	}
	rs.ApplyDefaults()
	return rs
}
