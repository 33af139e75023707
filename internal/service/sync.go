package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/provider"
	"github.com/movielog/movielog/internal/repository"
)

// SyncService reconciles movie records with the external metadata
// provider. The merge policy is strictly fill-if-missing: a field an
// admin (or a previous sync) already set is never overwritten, which
// makes a re-run after a complete pass a no-op.
//
// All provider calls happen before any collection lock is taken; the
// merge itself is a single atomic write over the movie collection,
// followed by one sync-log append. A crash between the two writes can
// under-report a completed merge, which is accepted as at-least-once
// reconciliation.
type SyncService struct {
	movies   *repository.MovieRepo
	syncLog  *repository.SyncLogRepo
	provider provider.Client
	source   string
}

func NewSyncService(movies *repository.MovieRepo, syncLog *repository.SyncLogRepo, client provider.Client, source string) *SyncService {
	if source == "" {
		source = "external"
	}
	return &SyncService{movies: movies, syncLog: syncLog, provider: client, source: source}
}

// Run executes one sync batch on behalf of an admin. Per-movie
// provider failures (including timeouts) do not abort the batch; the
// batch may also be cancelled between provider calls, in which case
// the movies fetched so far are still merged and the run is logged as
// partial. Exactly one log entry is appended per run.
func (s *SyncService) Run(ctx context.Context, p Principal) (model.SyncLogEntry, error) {
	if !p.IsAdmin() {
		return model.SyncLogEntry{}, fmt.Errorf("sync: %w", repository.ErrForbidden)
	}
	movies, err := s.movies.List(ctx)
	if err != nil {
		return model.SyncLogEntry{}, err
	}

	// Fetch phase: no collection lock is held while waiting on the
	// provider.
	fetched := make(map[string]provider.Metadata)
	var order []string
	attempted, failures := 0, 0
	cancelled := false
	for _, m := range movies {
		if err := ctx.Err(); err != nil {
			cancelled = true
			break
		}
		if !m.MissingExternalFields() {
			continue
		}
		attempted++
		md, err := s.provider.FetchMetadata(ctx, m.Title)
		if err != nil {
			failures++
			log.Printf("sync: fetch %q failed: %v", m.Title, err)
			continue
		}
		if md.Empty() {
			continue
		}
		fetched[m.ID] = md
		order = append(order, m.ID)
	}

	// Merge phase: one atomic write over the movie collection. Field
	// presence is re-checked under the lock, so a concurrent admin
	// edit between fetch and merge still wins. The merge ignores the
	// batch's cancellation: what was fetched gets committed.
	var updated []string
	if len(order) > 0 {
		updated, err = s.movies.ApplyMerges(context.WithoutCancel(ctx), order, func(m *model.Movie) bool {
			return fillMissing(m, fetched[m.ID])
		})
		if err != nil {
			return model.SyncLogEntry{}, err
		}
	}

	status := model.SyncStatusSuccess
	switch {
	case attempted > 0 && failures == attempted:
		status = model.SyncStatusFailed
	case failures > 0 || cancelled:
		status = model.SyncStatusPartial
	}

	entry := model.SyncLogEntry{
		Timestamp:     time.Now().UTC(),
		MoviesUpdated: len(updated),
		MovieIDs:      updated,
		Source:        s.source,
		Status:        status,
	}
	// The log append deliberately ignores the batch's cancellation so
	// a cancelled run is still recorded.
	return s.syncLog.Append(context.WithoutCancel(ctx), entry)
}

// Log returns the audit trail of past sync runs, oldest first.
func (s *SyncService) Log(ctx context.Context) ([]model.SyncLogEntry, error) {
	return s.syncLog.List(ctx)
}

// fillMissing merges metadata into the movie, writing only fields
// that are still absent. Reports whether anything changed.
func fillMissing(m *model.Movie, md provider.Metadata) bool {
	changed := false
	if m.PosterURL == nil && md.PosterURL != nil {
		v := *md.PosterURL
		m.PosterURL = &v
		changed = true
	}
	if m.Runtime == nil && md.Runtime != nil {
		v := *md.Runtime
		m.Runtime = &v
		changed = true
	}
	if len(m.Cast) == 0 && len(md.Cast) > 0 {
		m.Cast = append([]string(nil), md.Cast...)
		changed = true
	}
	return changed
}
