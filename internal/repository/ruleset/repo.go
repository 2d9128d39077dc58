// Package ruleset stores versioned scoring policies in Redis: one hash per
// version plus a plain key holding the active version pointer.
package ruleset

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/candidex/internal/db"
	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/rules"
)

// store is the consumer interface for rule-set persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements usecase/ruleset.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a rule-set repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) metaKey(version string) string {
	return r.prefix + "ruleset:" + version
}

// activeKey deliberately avoids the "ruleset:" namespace so Scan over
// versions never picks up the pointer.
func (r *Repo) activeKey() string {
	return r.prefix + "ruleset_active"
}

// Create stores a new rule-set revision. An existing version is never
// overwritten.
func (r *Repo) Create(ctx context.Context, rs rules.RuleSet) error {
	key := r.metaKey(rs.Version)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	hash, err := ruleSetToHash(rs)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, hash); err != nil {
		return fmt.Errorf("hset ruleset %s: %w", rs.Version, err)
	}
	return nil
}

// Get retrieves one rule-set revision by version.
func (r *Repo) Get(ctx context.Context, version string) (rules.RuleSet, error) {
	m, err := r.store.HGetAll(ctx, r.metaKey(version))
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("hgetall ruleset %s: %w", version, err)
	}
	if len(m) == 0 {
		return rules.RuleSet{}, domain.ErrNotFound
	}
	return ruleSetFromHash(m)
}

// List returns all rule-set revisions sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]rules.RuleSet, error) {
	keys, err := r.store.Scan(ctx, r.metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan rulesets: %w", err)
	}
	if len(keys) == 0 {
		return []rules.RuleSet{}, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch rulesets: %w", err)
	}

	out := make([]rules.RuleSet, 0, len(maps))
	for _, m := range maps {
		if len(m) == 0 {
			continue
		}
		rs, err := ruleSetFromHash(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

// Delete removes a rule-set revision.
func (r *Repo) Delete(ctx context.Context, version string) error {
	key := r.metaKey(version)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del ruleset %s: %w", version, err)
	}
	return nil
}

// SetActive points the active marker at an existing version.
func (r *Repo) SetActive(ctx context.Context, version string) error {
	exists, err := r.store.Exists(ctx, r.metaKey(version))
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Set(ctx, r.activeKey(), []byte(version)); err != nil {
		return fmt.Errorf("set active ruleset: %w", err)
	}
	return nil
}

// GetActive returns the currently active version.
func (r *Repo) GetActive(ctx context.Context) (string, error) {
	data, err := r.store.Get(ctx, r.activeKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrNoActiveRuleSet
		}
		return "", fmt.Errorf("get active ruleset: %w", err)
	}
	return string(data), nil
}
