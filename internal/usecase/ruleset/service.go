// Package ruleset manages the lifecycle of scoring policies: create, list,
// activate and retire versions. Rule content is validated here once so the
// scoring side can treat every stored version as well-formed.
package ruleset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// Service handles rule-set lifecycle operations.
type Service struct {
	repo Repository
}

// New creates a rule-set service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new rule-set version. The first version ever
// stored becomes active automatically so scoring works out of the box.
func (s *Service) Create(ctx context.Context, rs rules.RuleSet) (rules.RuleSet, error) {
	rs = rs.Clone()
	rs.ApplyDefaults()
	if err := rs.Validate(); err != nil {
		return rules.RuleSet{}, fmt.Errorf("validate ruleset: %w: %w", domain.ErrInvalidRuleSet, err)
	}
	if rs.CreatedAt == 0 {
		rs.CreatedAt = time.Now().UnixMilli()
	}

	if err := s.repo.Create(ctx, rs); err != nil {
		return rules.RuleSet{}, fmt.Errorf("create ruleset: %w", err)
	}

	if _, err := s.repo.GetActive(ctx); errors.Is(err, domain.ErrNoActiveRuleSet) {
		if err := s.repo.SetActive(ctx, rs.Version); err != nil {
			return rules.RuleSet{}, fmt.Errorf("activate first ruleset: %w", err)
		}
	}

	return rs, nil
}

// Get retrieves one rule-set version.
func (s *Service) Get(ctx context.Context, version string) (rules.RuleSet, error) {
	rs, err := s.repo.Get(ctx, version)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("get ruleset: %w", err)
	}
	return rs, nil
}

// List returns all stored rule-set versions, oldest first.
func (s *Service) List(ctx context.Context) ([]rules.RuleSet, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rulesets: %w", err)
	}
	return list, nil
}

// Delete removes a rule-set version. The active version cannot be deleted;
// activate another one first.
func (s *Service) Delete(ctx context.Context, version string) error {
	active, err := s.repo.GetActive(ctx)
	switch {
	case err == nil:
		if active == version {
			return domain.ErrRuleSetActive
		}
	case errors.Is(err, domain.ErrNoActiveRuleSet):
		// nothing active, any version may go
	default:
		return fmt.Errorf("resolve active ruleset: %w", err)
	}

	if err := s.repo.Delete(ctx, version); err != nil {
		return fmt.Errorf("delete ruleset: %w", err)
	}
	return nil
}

// Activate points scoring at an existing version.
func (s *Service) Activate(ctx context.Context, version string) error {
	if err := s.repo.SetActive(ctx, version); err != nil {
		return fmt.Errorf("activate ruleset: %w", err)
	}
	return nil
}

// Active resolves the currently active rule set.
func (s *Service) Active(ctx context.Context) (rules.RuleSet, error) {
	version, err := s.repo.GetActive(ctx)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("resolve active ruleset: %w", err)
	}
	rs, err := s.repo.Get(ctx, version)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("get active ruleset %s: %w", version, err)
	}
	return rs, nil
}

// DefaultTemplate returns the starter policy for a position, unstored.
func (s *Service) DefaultTemplate(position string) rules.RuleSet {
	return rules.Default(position)
}
