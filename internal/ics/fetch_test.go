package ics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daydesk/internal/ics"
)

func TestFetchOneCachesAndRevalidates(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	body := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := ics.NewFetcher(t.TempDir())
	src := ics.Source{ID: "team", URL: srv.URL}
	ctx := context.Background()

	first, err := f.FetchOne(ctx, src)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, body, string(first.Body))

	// Second fetch revalidates with the stored ETag and gets a 304.
	second, err := f.FetchOne(ctx, src)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, body, string(second.Body))
	assert.Equal(t, int64(2), hits.Load())
}

func TestFetchOneFallsBackToCacheOnServerError(t *testing.T) {
	t.Parallel()

	body := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"
	fail := false

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := ics.NewFetcher(t.TempDir())
	src := ics.Source{ID: "team", URL: srv.URL}
	ctx := context.Background()

	_, err := f.FetchOne(ctx, src)
	require.NoError(t, err)

	fail = true
	res, err := f.FetchOne(ctx, src)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, body, string(res.Body))
}

func TestFetchOneErrorWithoutCache(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := ics.NewFetcher(t.TempDir())
	_, err := f.FetchOne(context.Background(), ics.Source{ID: "team", URL: srv.URL})
	assert.Error(t, err)
}

func TestFetchAllKeepsGoodSources(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	}))
	defer srv.Close()

	f := ics.NewFetcher(t.TempDir())
	results, errs := f.FetchAll(context.Background(), []ics.Source{
		{ID: "good", URL: srv.URL},
		{ID: "empty"},
	})
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Source.ID)
	assert.Len(t, errs, 1)
}
