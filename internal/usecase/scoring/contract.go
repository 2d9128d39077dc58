package scoring

import (
	"context"

	"github.com/kailas-cloud/candidex/internal/domain/candidate"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
	domscore "github.com/kailas-cloud/candidex/internal/domain/scoring"
)

// RuleSource resolves the policies candidates are scored against.
type RuleSource interface {
	Get(ctx context.Context, version string) (rules.RuleSet, error)
	Active(ctx context.Context) (rules.RuleSet, error)
}

// Results defines the storage contract for scoring outcomes.
type Results interface {
	Save(ctx context.Context, res domscore.StoredResult) error
	Get(ctx context.Context, id string) (domscore.StoredResult, error)
}

// Request is one scoring call: a candidate and an optional pinned rule
// version. An empty RuleVersion means "score against the active policy".
type Request struct {
	Candidate   candidate.Record `json:"candidate"`
	RuleVersion string           `json:"rule_version,omitempty"`
}

// CompareOutcome pairs two stored results with their diff.
type CompareOutcome struct {
	A          domscore.StoredResult `json:"a"`
	B          domscore.StoredResult `json:"b"`
	Comparison domscore.Comparison   `json:"comparison"`
}
