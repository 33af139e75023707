package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/provider"
	"github.com/movielog/movielog/internal/repository"
)

// stubClient serves canned metadata by title. onFetch runs before
// each answer so tests can cancel the batch mid-flight.
type stubClient struct {
	mu      sync.Mutex
	md      map[string]provider.Metadata
	errs    map[string]error
	calls   []string
	onFetch func(title string)
}

func (s *stubClient) FetchMetadata(ctx context.Context, title string) (provider.Metadata, error) {
	s.mu.Lock()
	s.calls = append(s.calls, title)
	s.mu.Unlock()
	if s.onFetch != nil {
		s.onFetch(title)
	}
	if err, ok := s.errs[title]; ok {
		return provider.Metadata{}, err
	}
	return s.md[title], nil
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func newSyncEnv(t *testing.T, movies []model.Movie, client provider.Client) (*env, *SyncService) {
	t.Helper()
	e := newEnv(t)
	e.seedMovies(t, movies...)
	return e, NewSyncService(e.movies, e.syncLog, client, "omdb")
}

func TestSyncRequiresAdmin(t *testing.T) {
	_, svc := newSyncEnv(t, nil, &stubClient{})
	_, err := svc.Run(context.Background(), asUser("u1"))
	require.ErrorIs(t, err, repository.ErrForbidden)
}

func TestSyncFillsOnlyMissingFields(t *testing.T) {
	client := &stubClient{md: map[string]provider.Metadata{
		"Heat": {PosterURL: strPtr("p.jpg"), Runtime: intPtr(90), Cast: []string{"Al Pacino"}},
	}}
	e, svc := newSyncEnv(t, []model.Movie{
		{ID: "m7", Title: "Heat", Runtime: intPtr(120)},
	}, client)

	entry, err := svc.Run(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusSuccess, entry.Status)
	assert.Equal(t, 1, entry.MoviesUpdated)
	assert.Equal(t, []string{"m7"}, entry.MovieIDs)

	got, err := e.movies.Get(context.Background(), "m7")
	require.NoError(t, err)
	require.NotNil(t, got.PosterURL)
	assert.Equal(t, "p.jpg", *got.PosterURL)
	require.NotNil(t, got.Runtime)
	assert.Equal(t, 120, *got.Runtime, "an already-set runtime is never overwritten")
	assert.Equal(t, []string{"Al Pacino"}, got.Cast)
}

func TestSyncNeverOverwritesPoster(t *testing.T) {
	client := &stubClient{md: map[string]provider.Metadata{
		"Heat": {PosterURL: strPtr("Y"), Runtime: intPtr(170)},
	}}
	e, svc := newSyncEnv(t, []model.Movie{
		{ID: "m1", Title: "Heat", PosterURL: strPtr("X")},
	}, client)

	_, err := svc.Run(context.Background(), asAdmin("a1"))
	require.NoError(t, err)

	got, err := e.movies.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "X", *got.PosterURL)
	assert.Equal(t, 170, *got.Runtime)
}

func TestSyncIsIdempotent(t *testing.T) {
	client := &stubClient{md: map[string]provider.Metadata{
		"Heat": {PosterURL: strPtr("p.jpg"), Runtime: intPtr(170), Cast: []string{"Al Pacino"}},
	}}
	e, svc := newSyncEnv(t, []model.Movie{{ID: "m1", Title: "Heat"}}, client)
	ctx := context.Background()

	first, err := svc.Run(ctx, asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.MoviesUpdated)

	// The movie is complete now, so the second run attempts nothing
	// and changes nothing.
	second, err := svc.Run(ctx, asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusSuccess, second.Status)
	assert.Equal(t, 0, second.MoviesUpdated)
	assert.Len(t, client.calls, 1)

	// Exactly one log entry per run.
	log, err := e.syncLog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, log, 2)
}

func TestSyncSkipsCompleteMovies(t *testing.T) {
	client := &stubClient{}
	_, svc := newSyncEnv(t, []model.Movie{{
		ID: "m1", Title: "Heat",
		PosterURL: strPtr("p.jpg"), Runtime: intPtr(170), Cast: []string{"Al Pacino"},
	}}, client)

	entry, err := svc.Run(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusSuccess, entry.Status)
	assert.Empty(t, client.calls)
}

func TestSyncPartialOnProviderFailure(t *testing.T) {
	client := &stubClient{
		md:   map[string]provider.Metadata{"Alien": {Runtime: intPtr(117)}},
		errs: map[string]error{"Heat": provider.ErrExternal},
	}
	e, svc := newSyncEnv(t, []model.Movie{
		{ID: "m1", Title: "Heat"},
		{ID: "m2", Title: "Alien"},
	}, client)

	entry, err := svc.Run(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusPartial, entry.Status)
	assert.Equal(t, []string{"m2"}, entry.MovieIDs)

	got, err := e.movies.Get(context.Background(), "m2")
	require.NoError(t, err)
	assert.Equal(t, 117, *got.Runtime)
}

func TestSyncFailedWhenEveryFetchFails(t *testing.T) {
	client := &stubClient{errs: map[string]error{"Heat": errors.New("down")}}
	_, svc := newSyncEnv(t, []model.Movie{{ID: "m1", Title: "Heat"}}, client)

	entry, err := svc.Run(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusFailed, entry.Status)
	assert.Equal(t, 0, entry.MoviesUpdated)
}

func TestSyncCancellationCommitsFetchedMerges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &stubClient{
		md: map[string]provider.Metadata{
			"Heat":  {Runtime: intPtr(170)},
			"Alien": {Runtime: intPtr(117)},
		},
		// Cancel after the first fetch; the loop stops before the
		// second movie.
		onFetch: func(string) { cancel() },
	}
	e, svc := newSyncEnv(t, []model.Movie{
		{ID: "m1", Title: "Heat"},
		{ID: "m2", Title: "Alien"},
	}, client)

	entry, err := svc.Run(ctx, asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusPartial, entry.Status)
	assert.Equal(t, []string{"m1"}, entry.MovieIDs)
	assert.Len(t, client.calls, 1)

	// The fetched merge is committed, the unfetched movie untouched,
	// and the run is still logged.
	m1, err := e.movies.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 170, *m1.Runtime)
	m2, err := e.movies.Get(context.Background(), "m2")
	require.NoError(t, err)
	assert.Nil(t, m2.Runtime)

	log, err := svc.Log(context.Background())
	require.NoError(t, err)
	assert.Len(t, log, 1)
}
