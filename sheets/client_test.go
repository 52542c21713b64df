package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gvizBody = `google.visualization.Query.setResponse({"status":"ok","table":{"cols":[{"label":"Vendedor","type":"string"},{"label":"Meta","type":"number"}],"rows":[{"c":[{"v":"Ana"},{"v":100.0}]}]}});`

func newTestClient(srv *httptest.Server) *HTTPClient {
	c := NewHTTPClient(2 * time.Second)
	c.BaseURL = srv.URL
	return c
}

func TestHTTPClient_CSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/d/abc/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "3", r.URL.Query().Get("gid"))
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Vendedor,Meta\nAna,100\n"))
	}))
	defer srv.Close()

	table, err := newTestClient(srv).Fetch(context.Background(), Source{ID: "abc", GID: "3"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Ana", "100"}}, table.Rows)
}

func TestHTTPClient_FallsBackToGViz(t *testing.T) {
	tests := []struct {
		name string
		csv  func(w http.ResponseWriter)
	}{
		{"not found", func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"sign-in page", func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<!DOCTYPE html><html>Sign in</html>"))
		}},
		{"sign-in page without content type", func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte("<!doctype html><html>Sign in</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gvizCalls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/gviz/tq") {
					gvizCalls.Add(1)
					w.Header().Set("Content-Type", "text/javascript")
					w.Write([]byte(gvizBody))
					return
				}
				tt.csv(w)
			}))
			defer srv.Close()

			table, err := newTestClient(srv).Fetch(context.Background(), Source{ID: "abc"})
			require.NoError(t, err)
			assert.Equal(t, int32(1), gvizCalls.Load())
			assert.Equal(t, []string{"Vendedor", "Meta"}, table.Headers)
			assert.Equal(t, [][]string{{"Ana", "100"}}, table.Rows)
		})
	}
}

func TestHTTPClient_NamedTabReadsGViz(t *testing.T) {
	var csvCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/gviz/tq") {
			assert.Equal(t, "Ventas", r.URL.Query().Get("sheet"))
			assert.Empty(t, r.URL.Query().Get("gid"))
			w.Header().Set("Content-Type", "text/javascript")
			w.Write([]byte(gvizBody))
			return
		}
		csvCalls.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("PRIMERA_HOJA\n"))
	}))
	defer srv.Close()

	src, err := ParseURL("https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/edit?sheet=Ventas")
	require.NoError(t, err)

	table, err := newTestClient(srv).Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(0), csvCalls.Load())
	assert.Equal(t, []string{"Vendedor", "Meta"}, table.Headers)
	assert.Equal(t, [][]string{{"Ana", "100"}}, table.Rows)
}

func TestHTTPClient_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/gviz/tq") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		line := []byte("Vendedor,Meta\n")
		for written := 0; written <= maxBody; written += len(line) {
			if _, err := w.Write(line); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background(), Source{ID: "abc", GID: "0"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBodyTooLarge)
}

func TestHTTPClient_AllFormatsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background(), Source{ID: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: unexpected status 403")
	assert.Contains(t, err.Error(), "gviz: unexpected status 403")
}

func TestHTTPClient_PublishedSkipsGViz(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background(), Source{ID: "2PACX", Published: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoGViz))
}

func TestHTTPClient_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("A\n1\n"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv).Fetch(ctx, Source{ID: "abc"})
	assert.ErrorIs(t, err, context.Canceled)
}

type stubFetcher struct {
	table *Table
	err   error
	calls int
}

func (s *stubFetcher) Fetch(ctx context.Context, src Source) (*Table, error) {
	s.calls++
	return s.table, s.err
}

func TestChain(t *testing.T) {
	failing := &stubFetcher{err: errors.New("private sheet")}
	ok := &stubFetcher{table: &Table{Headers: []string{"A"}}}
	unused := &stubFetcher{table: &Table{Headers: []string{"B"}}}

	table, err := Chain{failing, ok, unused}.Fetch(context.Background(), Source{ID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, table.Headers)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 0, unused.calls)

	_, err = Chain{failing}.Fetch(context.Background(), Source{ID: "abc"})
	assert.ErrorContains(t, err, "private sheet")

	_, err = Chain{}.Fetch(context.Background(), Source{ID: "abc"})
	assert.Error(t, err)
}
