package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, status int, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CompleteTrimsResult(t *testing.T) {
	req := require.New(t)
	var captured capturedRequest
	srv := newTestServer(t, http.StatusOK, "  short clean notes  ", &captured)
	c := NewClient("key", srv.URL+"/v1", "llama-3.1-8b-instant", 700, nil)

	out := c.Complete(context.Background(), "photosynthesis", "notes")

	req.Equal("short clean notes", out)
	req.Equal("llama-3.1-8b-instant", captured.Model)
	req.Equal(700, captured.MaxTokens)
	req.Len(captured.Messages, 2)
	req.Equal("system", captured.Messages[0].Role)
	req.Equal("Short clean notes.", captured.Messages[0].Content)
	req.Equal("photosynthesis", captured.Messages[1].Content)
}

func TestClient_UnknownModeFallsBackToDefaultInstruction(t *testing.T) {
	req := require.New(t)
	var captured capturedRequest
	srv := newTestServer(t, http.StatusOK, "ok", &captured)
	c := NewClient("key", srv.URL+"/v1", "m", 100, nil)

	c.Complete(context.Background(), "hi", "no-such-mode")

	req.Equal("Helpful AI assistant.", captured.Messages[0].Content)
}

func TestClient_ProviderFaultReturnsFallback(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, http.StatusInternalServerError, "", nil)
	c := NewClient("key", srv.URL+"/v1", "m", 100, nil)

	out := c.Complete(context.Background(), "hi", "default")

	req.Equal(FallbackReply, out)
}

func TestClient_UnreachableProviderReturnsFallback(t *testing.T) {
	c := NewClient("key", "http://127.0.0.1:1/v1", "m", 100, nil)
	require.Equal(t, FallbackReply, c.Complete(context.Background(), "hi", "default"))
}
