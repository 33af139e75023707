package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMetadataOMDbStyle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Heat", r.URL.Query().Get("title"))
		assert.Equal(t, "k123", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Poster":"https://img/heat.jpg","Runtime":"170 min","Actors":"Al Pacino, Robert De Niro"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "k123", time.Second)
	md, err := c.FetchMetadata(context.Background(), "Heat")
	require.NoError(t, err)
	require.NotNil(t, md.PosterURL)
	assert.Equal(t, "https://img/heat.jpg", *md.PosterURL)
	require.NotNil(t, md.Runtime)
	assert.Equal(t, 170, *md.Runtime)
	assert.Equal(t, []string{"Al Pacino", "Robert De Niro"}, md.Cast)
}

func TestFetchMetadataLowercaseSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"poster_url":"p.jpg","runtime":117,"cast":["Sigourney Weaver"]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	md, err := c.FetchMetadata(context.Background(), "Alien")
	require.NoError(t, err)
	assert.Equal(t, "p.jpg", *md.PosterURL)
	assert.Equal(t, 117, *md.Runtime)
	assert.Equal(t, []string{"Sigourney Weaver"}, md.Cast)
}

func TestFetchMetadataEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	md, err := c.FetchMetadata(context.Background(), "Obscure")
	require.NoError(t, err)
	assert.True(t, md.Empty())
}

func TestFetchMetadataServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	_, err := c.FetchMetadata(context.Background(), "Heat")
	require.ErrorIs(t, err, ErrExternal)
}

func TestFetchMetadataTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", 20*time.Millisecond)
	_, err := c.FetchMetadata(context.Background(), "Heat")
	require.ErrorIs(t, err, ErrExternal)
}

func TestParseRuntime(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{`142`, 142, true},
		{`"142"`, 142, true},
		{`"142 min"`, 142, true},
		{`"N/A"`, 0, false},
		{`0`, 0, false},
		{`""`, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseRuntime([]byte(tc.raw))
		assert.Equal(t, tc.ok, ok, tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.raw)
		}
	}
}
