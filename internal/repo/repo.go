// Package repo loads the comment/post baseline once per session, keeping a
// local snapshot to fall back on when the network is unavailable.
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fragmede/commentdesk/internal/api"
)

// ErrNoSnapshot is returned alongside a fetch error when no local snapshot
// could stand in for the remote data.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SnapshotStore persists the last good baseline. Implemented by *cache.DB.
type SnapshotStore interface {
	PutSnapshot(b *api.Baseline) error
	GetSnapshot() (*api.Baseline, time.Time, bool, error)
}

// Result is the outcome of a load.
type Result struct {
	Baseline  *api.Baseline
	FetchedAt time.Time
	// Stale is set when Baseline came from the local snapshot because the
	// fetch failed; FetchErr holds that failure.
	Stale    bool
	FetchErr error
}

// Repository fetches the baseline and tracks whether a fetch is in flight.
type Repository struct {
	fetcher  api.Fetcher
	store    SnapshotStore
	fallback bool
	loading  atomic.Bool
	logger   *slog.Logger
}

// New creates a repository. store may be nil to disable snapshots.
func New(fetcher api.Fetcher, store SnapshotStore, fallback bool, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		fetcher:  fetcher,
		store:    store,
		fallback: fallback,
		logger:   logger.With("component", "repo"),
	}
}

// Loading reports whether a Load is in progress.
func (r *Repository) Loading() bool {
	return r.loading.Load()
}

// Load fetches both collections. On failure it returns the stored snapshot
// marked stale when fallback is enabled, otherwise the fetch error.
func (r *Repository) Load(ctx context.Context) (Result, error) {
	r.loading.Store(true)
	defer r.loading.Store(false)

	start := time.Now()
	b, err := r.fetcher.FetchAll(ctx)
	if err == nil {
		r.logger.Info("baseline fetched",
			"comments", len(b.Comments),
			"posts", len(b.PostTitles),
			"elapsed", time.Since(start),
		)
		if r.store != nil {
			if serr := r.store.PutSnapshot(b); serr != nil {
				r.logger.Warn("storing snapshot failed", "error", serr)
			}
		}
		return Result{Baseline: b, FetchedAt: time.Now()}, nil
	}

	r.logger.Error("baseline fetch failed", "error", err)
	if ctx.Err() != nil {
		return Result{}, err
	}
	if !r.fallback || r.store == nil {
		return Result{}, err
	}

	snap, fetchedAt, ok, serr := r.store.GetSnapshot()
	if serr != nil {
		r.logger.Warn("reading snapshot failed", "error", serr)
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("%w (%w)", err, ErrNoSnapshot)
	}
	r.logger.Info("using cached snapshot", "fetched_at", fetchedAt, "comments", len(snap.Comments))
	return Result{Baseline: snap, FetchedAt: fetchedAt, Stale: true, FetchErr: err}, nil
}
