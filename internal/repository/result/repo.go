// Package result persists scoring outcomes in Redis, one hash per result ID,
// so past evaluations can be fetched and compared after rules change.
package result

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/candidex/internal/domain"
	"github.com/kailas-cloud/candidex/internal/domain/scoring"
)

// store is the consumer interface for result persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/scoring.Results.
type Repo struct {
	store  store
	prefix string
}

// New creates a result repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(id string) string {
	return r.prefix + "result:" + id
}

// Save stores one scoring outcome. IDs are unique per call, so Save never
// checks for collisions.
func (r *Repo) Save(ctx context.Context, res scoring.StoredResult) error {
	hash, err := resultToHash(res)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.key(res.ID), hash); err != nil {
		return fmt.Errorf("hset result %s: %w", res.ID, err)
	}
	return nil
}

// Get retrieves one stored result by ID.
func (r *Repo) Get(ctx context.Context, id string) (scoring.StoredResult, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return scoring.StoredResult{}, fmt.Errorf("hgetall result %s: %w", id, err)
	}
	if len(m) == 0 {
		return scoring.StoredResult{}, domain.ErrResultNotFound
	}
	return resultFromHash(m)
}

// Delete removes one stored result.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del result %s: %w", id, err)
	}
	return nil
}
