package ruleset

import (
	"context"

	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// Repository defines the storage contract for versioned rule sets.
type Repository interface {
	Create(ctx context.Context, rs rules.RuleSet) error
	Get(ctx context.Context, version string) (rules.RuleSet, error)
	List(ctx context.Context) ([]rules.RuleSet, error)
	Delete(ctx context.Context, version string) error
	SetActive(ctx context.Context, version string) error
	GetActive(ctx context.Context) (string, error)
}
