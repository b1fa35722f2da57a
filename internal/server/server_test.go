package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilepile/dawg"
	"github.com/tilepile/dawg/internal/server"
)

func testIndex(t *testing.T, words []string, load bool) *dawg.Index {
	t.Helper()
	a, err := dawg.Build(words)
	require.NoError(t, err)
	art, err := a.Pack()
	require.NoError(t, err)

	ix := dawg.NewIndex(func(context.Context) ([]byte, error) {
		return art.Data, nil
	})
	if load {
		require.NoError(t, ix.Load(context.Background()))
	}
	return ix
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode
}

func TestWordAndPrefix(t *testing.T) {
	ix := testIndex(t, []string{"A", "AN", "AND", "ANT"}, true)
	srv := httptest.NewServer(server.NewHandler(ix, slog.Default()))
	defer srv.Close()

	var body struct {
		Word   string `json:"word"`
		Prefix string `json:"prefix"`
		Found  bool   `json:"found"`
	}

	require.Equal(t, http.StatusOK, get(t, srv, "/v1/words/AND", &body))
	assert.True(t, body.Found)

	// Queries are normalized at the boundary.
	require.Equal(t, http.StatusOK, get(t, srv, "/v1/words/and", &body))
	assert.True(t, body.Found)
	assert.Equal(t, "AND", body.Word)

	require.Equal(t, http.StatusOK, get(t, srv, "/v1/words/AS", &body))
	assert.False(t, body.Found)

	require.Equal(t, http.StatusOK, get(t, srv, "/v1/prefix/an", &body))
	assert.True(t, body.Found)

	require.Equal(t, http.StatusOK, get(t, srv, "/v1/prefix/ANDS", &body))
	assert.False(t, body.Found)
}

func TestCompletions(t *testing.T) {
	ix := testIndex(t, []string{"AN", "AND", "ANT", "BY"}, true)
	srv := httptest.NewServer(server.NewHandler(ix, slog.Default()))
	defer srv.Close()

	var body struct {
		Prefix string   `json:"prefix"`
		Words  []string `json:"words"`
	}

	require.Equal(t, http.StatusOK, get(t, srv, "/v1/completions?prefix=an", &body))
	assert.Equal(t, []string{"AN", "AND", "ANT"}, body.Words)

	require.Equal(t, http.StatusOK, get(t, srv, "/v1/completions?prefix=an&limit=2", &body))
	assert.Equal(t, []string{"AN", "AND"}, body.Words)

	require.Equal(t, http.StatusOK, get(t, srv, "/v1/completions?prefix=zz", &body))
	assert.Empty(t, body.Words)

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/v1/completions?prefix=an&limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/v1/completions?prefix=an&limit=x", nil))
}

func TestNotLoadedIsUnavailable(t *testing.T) {
	ix := testIndex(t, []string{"CAT"}, false)
	srv := httptest.NewServer(server.NewHandler(ix, slog.Default()))
	defer srv.Close()

	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/v1/words/CAT", nil))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/v1/prefix/CA", nil))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/v1/completions?prefix=C", nil))

	var health struct {
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusOK, get(t, srv, "/healthz", &health))
	assert.Equal(t, "loading", health.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	ix := testIndex(t, []string{"CAT"}, true)
	srv := httptest.NewServer(server.NewHandler(ix, slog.Default()))
	defer srv.Close()

	get(t, srv, "/v1/words/CAT", nil)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dawgdict_queries_total")
}
