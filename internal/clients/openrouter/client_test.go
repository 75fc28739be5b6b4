package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url string
}

func (c testConfig) ApiKey() string  { return "secret" }
func (c testConfig) BaseURL() string { return c.url + "/" }
func (c testConfig) Model() string   { return "test/model" }
func (c testConfig) Timeout() int    { return 2 }

func Test_OnComplete_ShouldSendSingleUserMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test/model", req.Model)
		assert.Equal(t, []chatMessage{{Role: "user", Content: "how can I save?"}}, req.Messages)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Cook at home."}}]}`))
	}))
	defer srv.Close()

	reply, err := New(testConfig{srv.URL}).Complete(context.Background(), "how can I save?")
	require.NoError(t, err)
	assert.Equal(t, "Cook at home.", reply)
}

func Test_OnRemoteError_ShouldReturnDiagnostic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
	}))
	defer srv.Close()

	_, err := New(testConfig{srv.URL}).Complete(context.Background(), "hi")
	assert.EqualError(t, err, "completion error (status 401): No auth credentials found")
}

func Test_OnNoChoices_ShouldFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := New(testConfig{srv.URL}).Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyReply)
}
