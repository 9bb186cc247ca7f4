package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEngine_Run(t *testing.T) {
	var gotPath string
	var gotBody struct {
		Samples [][]float64 `json:"samples"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		switch r.URL.Path {
		case "/v1/tests/shapiro_wilk":
			_, _ = w.Write([]byte(`{"statistic": 0.97, "pValue": 0.31}`))
		case "/v1/tests/levene":
			_, _ = w.Write([]byte(`{}`))
		case "/v1/tests/verdict_only":
			_, _ = w.Write([]byte(`{"statistic": 2.5, "passed": false}`))
		default:
			http.Error(w, "unknown test", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	e := NewHTTPEngine(Config{BaseURL: srv.URL + "/", Timeout: time.Second}, nil)
	require.True(t, e.Ready())

	t.Run("result", func(t *testing.T) {
		out, err := e.Run(context.Background(), "shapiro_wilk", [][]float64{{1, 2, 3}})
		require.NoError(t, err)
		assert.Equal(t, "/v1/tests/shapiro_wilk", gotPath)
		assert.Equal(t, [][]float64{{1, 2, 3}}, gotBody.Samples)
		require.NotNil(t, out.PValue)
		assert.InDelta(t, 0.31, *out.PValue, 1e-9)
		assert.InDelta(t, 0.97, *out.Statistic, 1e-9)
	})

	t.Run("empty object", func(t *testing.T) {
		out, err := e.Run(context.Background(), "levene", [][]float64{{1, 2}, {3, 4}})
		require.NoError(t, err)
		assert.True(t, out.IsEmpty())
	})

	t.Run("verdict without p-value", func(t *testing.T) {
		out, err := e.Run(context.Background(), "verdict_only", [][]float64{{1, 2, 3}})
		require.NoError(t, err)
		assert.Nil(t, out.PValue)
		require.NotNil(t, out.Passed)
		assert.False(t, *out.Passed)
	})

	t.Run("http error", func(t *testing.T) {
		_, err := e.Run(context.Background(), "anderson", [][]float64{{1, 2, 3}})
		assert.ErrorContains(t, err, "engine http 404")
	})
}

func TestHTTPEngine_Failures(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		assert.False(t, NewHTTPEngine(Config{}, nil).Ready())
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()
		_, err := NewHTTPEngine(Config{BaseURL: srv.URL, Timeout: time.Second}, nil).
			Run(context.Background(), "levene", nil)
		assert.ErrorContains(t, err, "unmarshal response")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()
		_, err := NewHTTPEngine(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, nil).
			Run(context.Background(), "levene", nil)
		assert.ErrorContains(t, err, "engine request failed")
	})
}
