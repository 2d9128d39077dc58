package ruleset

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// --- Mocks ---

type mockRepo struct {
	created      *rules.RuleSet
	getResult    rules.RuleSet
	listResult   []rules.RuleSet
	activeResult string
	activated    string

	createErr    error
	getErr       error
	listErr      error
	deleteErr    error
	setActiveErr error
	getActiveErr error
}

func (m *mockRepo) Create(_ context.Context, rs rules.RuleSet) error {
	m.created = &rs
	return m.createErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (rules.RuleSet, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) List(_ context.Context) ([]rules.RuleSet, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

func (m *mockRepo) SetActive(_ context.Context, version string) error {
	m.activated = version
	return m.setActiveErr
}

func (m *mockRepo) GetActive(_ context.Context) (string, error) {
	return m.activeResult, m.getActiveErr
}

func makeRuleSet(t *testing.T, version string) rules.RuleSet {
	t.Helper()
	return rules.RuleSet{
		Version: version,
		MustSkills: []rules.SkillRule{
			{Skill: "React", Weight: 3},
		},
		Thresholds: rules.DefaultThresholds(),
	}
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	repo := &mockRepo{activeResult: "0.9.0"}
	svc := New(repo)

	rs, err := svc.Create(context.Background(), makeRuleSet(t, "1.0.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", rs.Version)
	}
	if rs.MustMultiplier != rules.DefaultMustMultiplier {
		t.Errorf("expected defaults applied, must multiplier = %g", rs.MustMultiplier)
	}
	if rs.CreatedAt == 0 {
		t.Error("expected CreatedAt to be stamped")
	}
	if repo.activated != "" {
		t.Errorf("active version exists, should not re-activate, got %q", repo.activated)
	}
}

func TestCreate_FirstVersionBecomesActive(t *testing.T) {
	repo := &mockRepo{getActiveErr: domain.ErrNoActiveRuleSet}
	svc := New(repo)

	if _, err := svc.Create(context.Background(), makeRuleSet(t, "1.0.0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.activated != "1.0.0" {
		t.Errorf("expected first version to be activated, got %q", repo.activated)
	}
}

func TestCreate_InvalidRuleSet(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	rs := makeRuleSet(t, "1.0.0")
	rs.Thresholds = &rules.GradeThresholds{A: 10, B: 60, C: 40, D: 0}

	_, err := svc.Create(context.Background(), rs)
	if !errors.Is(err, domain.ErrInvalidRuleSet) {
		t.Fatalf("expected ErrInvalidRuleSet, got %v", err)
	}
	if repo.created != nil {
		t.Error("invalid ruleset must not reach the repository")
	}
}

func TestCreate_MissingThresholds(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	rs := makeRuleSet(t, "1.0.0")
	rs.Thresholds = nil

	_, err := svc.Create(context.Background(), rs)
	if !errors.Is(err, domain.ErrInvalidRuleSet) {
		t.Fatalf("expected ErrInvalidRuleSet, got %v", err)
	}
}

func TestCreate_DuplicateVersion(t *testing.T) {
	repo := &mockRepo{createErr: domain.ErrAlreadyExists}
	svc := New(repo)

	_, err := svc.Create(context.Background(), makeRuleSet(t, "1.0.0"))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DoesNotMutateInput(t *testing.T) {
	repo := &mockRepo{activeResult: "0.9.0"}
	svc := New(repo)

	in := makeRuleSet(t, "1.0.0")
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.MustMultiplier != 0 || in.CreatedAt != 0 {
		t.Errorf("input mutated: multiplier=%g createdAt=%d", in.MustMultiplier, in.CreatedAt)
	}
}

// --- Delete ---

func TestDelete_ActiveVersionRefused(t *testing.T) {
	repo := &mockRepo{activeResult: "1.0.0"}
	svc := New(repo)

	err := svc.Delete(context.Background(), "1.0.0")
	if !errors.Is(err, domain.ErrRuleSetActive) {
		t.Fatalf("expected ErrRuleSetActive, got %v", err)
	}
}

func TestDelete_InactiveVersion(t *testing.T) {
	repo := &mockRepo{activeResult: "2.0.0"}
	svc := New(repo)

	if err := svc.Delete(context.Background(), "1.0.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NoActivePointer(t *testing.T) {
	repo := &mockRepo{getActiveErr: domain.ErrNoActiveRuleSet}
	svc := New(repo)

	if err := svc.Delete(context.Background(), "1.0.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- Activate / Active ---

func TestActivate_UnknownVersion(t *testing.T) {
	repo := &mockRepo{setActiveErr: domain.ErrNotFound}
	svc := New(repo)

	err := svc.Activate(context.Background(), "9.9.9")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActive_HappyPath(t *testing.T) {
	stored := makeRuleSet(t, "1.0.0")
	repo := &mockRepo{activeResult: "1.0.0", getResult: stored}
	svc := New(repo)

	rs, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", rs.Version)
	}
}

func TestActive_NonePointed(t *testing.T) {
	repo := &mockRepo{getActiveErr: domain.ErrNoActiveRuleSet}
	svc := New(repo)

	_, err := svc.Active(context.Background())
	if !errors.Is(err, domain.ErrNoActiveRuleSet) {
		t.Fatalf("expected ErrNoActiveRuleSet, got %v", err)
	}
}

func TestDefaultTemplate(t *testing.T) {
	svc := New(&mockRepo{})

	rs := svc.DefaultTemplate("Frontend Engineer")
	if err := rs.Validate(); err != nil {
		t.Fatalf("default template must validate: %v", err)
	}
	if len(rs.MustSkills) == 0 {
		t.Error("expected starter must skills")
	}
}
