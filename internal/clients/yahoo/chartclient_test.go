package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url string
}

func (c testConfig) BaseURL() string { return c.url }
func (c testConfig) Timeout() int    { return 2 }

func Test_OnGetCloses_ShouldSkipMissingDays(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AAPL", r.URL.Path)
		assert.Equal(t, "1714521600", r.URL.Query().Get("period1"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"chart":{"result":[{"indicators":{"quote":[{"close":[170.123,null,171.5]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	closes, err := New(testConfig{srv.URL}).GetCloses(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	assert.Equal(t, []float64{170.123, 171.5}, closes)
}

func Test_OnChartError_ShouldFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	_, err := New(testConfig{srv.URL}).GetCloses(context.Background(), "NOPE", time.Now(), time.Now())
	assert.EqualError(t, err, "chart api error for NOPE: No data found")
}

func Test_OnBrokenBody_ShouldFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := New(testConfig{srv.URL}).GetCloses(context.Background(), "AAPL", time.Now(), time.Now())
	assert.Error(t, err)
}

func Test_OnEmptyResult_ShouldReturnNoCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	closes, err := New(testConfig{srv.URL}).GetCloses(context.Background(), "AAPL", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, closes)
}
