package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubServer answers every request with status and body, recording the last request body.
type stubServer struct {
	*httptest.Server
	calls atomic.Int32

	mu   sync.Mutex
	path string
	body map[string]any
}

func (s *stubServer) lastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *stubServer) lastBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

func newStubServer(t *testing.T, status int, body string) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(raw, &decoded)
		s.mu.Lock()
		s.path = r.URL.Path
		s.body = decoded
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func TestOpenAIProvider_Summarize(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "short summary"}}]
	}`)

	p := &OpenAIProvider{HTTPClient: srv.Client()}
	got, err := p.Summarize(context.Background(), Request{
		Text:            "long text",
		Model:           "gpt-4o-mini",
		APIKey:          "k",
		APIBase:         srv.URL,
		MaxOutputTokens: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, "short summary", got)

	assert.True(t, strings.HasSuffix(srv.lastPath(), "/chat/completions"), srv.lastPath())
	assert.Equal(t, "gpt-4o-mini", srv.lastBody()["model"])
	assert.EqualValues(t, 200, srv.lastBody()["max_tokens"])

	messages, ok := srv.lastBody()["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, Prompt, messages[0].(map[string]any)["content"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	assert.Equal(t, "long text", messages[1].(map[string]any)["content"])
}

func TestOpenAIProvider_OmitsMaxTokensWhenUnset(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"id":"c","object":"chat.completion","created":1,"model":"m",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`)

	p := &OpenAIProvider{HTTPClient: srv.Client()}
	_, err := p.Summarize(context.Background(), Request{Text: "t", Model: "m", APIKey: "k", APIBase: srv.URL})
	require.NoError(t, err)
	_, present := srv.lastBody()["max_tokens"]
	assert.False(t, present)
}

func TestOpenAIProvider_APIErrorIsNotRetried(t *testing.T) {
	srv := newStubServer(t, http.StatusTooManyRequests,
		`{"error": {"message": "slow down", "type": "rate_limit_error"}}`)

	p := &OpenAIProvider{HTTPClient: srv.Client()}
	_, err := p.Summarize(context.Background(), Request{Text: "t", Model: "m", APIKey: "k", APIBase: srv.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.EqualValues(t, 1, srv.calls.Load())
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"id":"c","object":"chat.completion","created":1,"model":"m","choices":[]}`)

	p := &OpenAIProvider{HTTPClient: srv.Client()}
	_, err := p.Summarize(context.Background(), Request{Text: "t", Model: "m", APIKey: "k", APIBase: srv.URL})
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, errNoCandidates)
}

func TestAnthropicProvider_Summarize(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-latest",
		"content": [{"type": "text", "text": "summary"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 1, "output_tokens": 1}
	}`)

	p := &AnthropicProvider{HTTPClient: srv.Client()}
	got, err := p.Summarize(context.Background(), Request{
		Text:    "long text",
		Model:   "claude-3-5-haiku-latest",
		APIKey:  "k",
		APIBase: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "summary", got)

	assert.Equal(t, "/v1/messages", srv.lastPath())
	assert.EqualValues(t, defaultAnthropicMaxTokens, srv.lastBody()["max_tokens"])
	messages, ok := srv.lastBody()["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Contains(t, mustJSON(t, messages[0]), "Summarize the following text:\\n\\nlong text")
}

func TestAnthropicProvider_MaxTokens(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant","model":"m",
		"content":[{"type":"text","text":"s"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`)

	p := &AnthropicProvider{HTTPClient: srv.Client()}
	_, err := p.Summarize(context.Background(), Request{Text: "t", Model: "m", APIKey: "k", APIBase: srv.URL, MaxOutputTokens: 300})
	require.NoError(t, err)
	assert.EqualValues(t, 300, srv.lastBody()["max_tokens"])
}

func TestAnthropicProvider_APIError(t *testing.T) {
	srv := newStubServer(t, http.StatusUnauthorized,
		`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`)

	p := &AnthropicProvider{HTTPClient: srv.Client()}
	_, err := p.Summarize(context.Background(), Request{Text: "t", Model: "m", APIKey: "bad", APIBase: srv.URL})

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	assert.EqualValues(t, 1, srv.calls.Load())
}

func TestGeminiProvider_Summarize(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{
		"candidates": [{"content": {"parts": [{"text": "gemini summary"}], "role": "model"}}]
	}`)

	p := &GeminiProvider{HTTPClient: srv.Client()}
	got, err := p.Summarize(context.Background(), Request{
		Text:            "long text",
		Model:           "gemini-1.5-flash",
		APIKey:          "k",
		APIBase:         srv.URL + "/",
		MaxOutputTokens: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini summary", got)

	assert.Contains(t, srv.lastPath(), "gemini-1.5-flash:generateContent")
	body := mustJSON(t, srv.lastBody())
	assert.Contains(t, body, "Summarize the following text:\\n\\nlong text")
	assert.Contains(t, body, `"maxOutputTokens":50`)
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"candidates": []}`)

	p := &GeminiProvider{HTTPClient: srv.Client()}
	_, err := p.Summarize(context.Background(), Request{Text: "t", Model: "m", APIKey: "k", APIBase: srv.URL + "/"})
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, errNoCandidates)
}

func TestDispatcher_RoutesToBuiltinHandler(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"id":"c","object":"chat.completion","created":1,"model":"m",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"via dispatcher"}}]}`)

	d := NewDispatcher(DefaultRegistry(), zap.NewNop(), WithHTTPClient(srv.Client()))
	got, err := d.Summarize(context.Background(), "text", "Groq", Settings{
		KeyAPIKey:  "k",
		KeyAPIBase: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "via dispatcher", got)
	assert.Equal(t, "llama-3.1-8b-instant", srv.lastBody()["model"])
}

func TestDispatcher_ValidationMakesNoNetworkCalls(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{}`)
	d := NewDispatcher(DefaultRegistry(), zap.NewNop(), WithHTTPClient(srv.Client()))

	cases := []struct {
		provider string
		settings Settings
	}{
		{provider: "Nope", settings: Settings{KeyAPIBase: srv.URL}},
		{provider: "OpenAI", settings: Settings{KeyAPIBase: srv.URL}},
		{provider: "OpenAI", settings: Settings{
			KeyAPIKey: "k", KeyAPIBase: srv.URL,
			KeyInputTokenLimitEnabled: true, KeyInputTokenLimit: "5",
		}},
	}
	for _, c := range cases {
		_, err := d.Summarize(context.Background(), "one two three four five six", c.provider, c.settings)
		require.Error(t, err)
	}
	assert.Zero(t, srv.calls.Load())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
