package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dont-rust-bro/drb/internal/models"
)

// fakeAPI records chat requests and replies with canned content.
type fakeAPI struct {
	mu       sync.Mutex
	requests []chatRequest
	auth     []string
	status   int
	body     string
	reply    string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	status, body, reply := f.status, f.body, f.reply
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": reply}},
		},
	})
}

func (f *fakeAPI) last() chatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c, err := New(models.TutorConfig{APIKey: "sk-test", Model: "test/model", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

var twoSum = &models.Problem{ID: "two_sum", Title: "Two Sum", Description: "Find two numbers."}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(models.TutorConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestFirstHint(t *testing.T) {
	api := &fakeAPI{reply: "Think about a map."}
	c := newTestClient(t, api)

	hint, history, err := c.Hint(context.Background(), twoSum, "def f(): pass", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Think about a map.", hint)

	require.Len(t, history, 3)
	assert.Equal(t, "system", history[0].Role)
	assert.Equal(t, "user", history[1].Role)
	assert.Contains(t, history[1].Content, "Problem: Two Sum")
	assert.Contains(t, history[1].Content, "Test output: (not run yet)")
	assert.Equal(t, Message{Role: "assistant", Content: "Think about a map."}, history[2])

	req := api.last()
	assert.Equal(t, "test/model", req.Model)
	assert.Equal(t, maxTokens, req.MaxTokens)
	assert.Len(t, req.Messages, 2)
	assert.Equal(t, "Bearer sk-test", api.auth[0])
}

func TestHintWithoutChanges(t *testing.T) {
	api := &fakeAPI{reply: "hint"}
	c := newTestClient(t, api)
	ctx := context.Background()

	_, history, err := c.Hint(ctx, twoSum, "code v1", "1 failed", nil)
	require.NoError(t, err)

	_, history, err = c.Hint(ctx, twoSum, "code v1\n", "1 failed", history)
	require.NoError(t, err)
	assert.Equal(t, noChangesMessage, history[len(history)-2].Content)

	// Still unchanged relative to the last real snapshot.
	_, history, err = c.Hint(ctx, twoSum, "code v1", "1 failed", history)
	require.NoError(t, err)
	assert.Equal(t, noChangesMessage, history[len(history)-2].Content)

	_, history, err = c.Hint(ctx, twoSum, "code v2", "1 failed", history)
	require.NoError(t, err)
	assert.Contains(t, history[len(history)-2].Content, "I updated my code:")
	assert.Contains(t, history[len(history)-2].Content, "code v2")
}

func TestHintAPIError(t *testing.T) {
	api := &fakeAPI{status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`}
	c := newTestClient(t, api)

	prior := []Message{{Role: "system", Content: "x"}}
	_, history, err := c.Hint(context.Background(), twoSum, "code", "", prior)
	require.Error(t, err)
	assert.Equal(t, "API error (401): bad key", err.Error())
	assert.Equal(t, prior, history, "history is unchanged on failure")
}

func TestAPIErrorWithoutBody(t *testing.T) {
	api := &fakeAPI{status: http.StatusBadRequest, body: ""}
	c := newTestClient(t, api)

	_, err := c.Solution(context.Background(), twoSum, "code", nil)
	require.Error(t, err)
	assert.Equal(t, "API error (400): Bad Request", err.Error())
}

func TestSolutionIncludesHints(t *testing.T) {
	api := &fakeAPI{reply: "def two_sum(): ..."}
	c := newTestClient(t, api)

	history := []Message{
		{Role: "system", Content: hintSystemPrompt},
		{Role: "user", Content: "Problem: Two Sum"},
		{Role: "assistant", Content: "Use a map."},
	}
	sol, err := c.Solution(context.Background(), twoSum, "def f(): pass", history)
	require.NoError(t, err)
	assert.Equal(t, "def two_sum(): ...", sol)

	req := api.last()
	require.Len(t, req.Messages, 2)
	assert.Equal(t, solutionSystemPrompt, req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "- Hint: Use a map.")
	assert.Contains(t, req.Messages[1].Content, "def f(): pass")
}

func TestLastCodeAndOutput(t *testing.T) {
	tests := []struct {
		name    string
		history []Message
		code    string
		output  string
	}{
		{name: "empty"},
		{
			name:    "not run",
			history: []Message{{Role: "user", Content: buildUserMessage(twoSum, "abc", "", true)}},
			code:    "abc",
		},
		{
			name:    "with output",
			history: []Message{{Role: "user", Content: buildUserMessage(twoSum, "abc", "boom", false)}},
			code:    "abc",
			output:  "boom",
		},
		{
			name: "skips assistant",
			history: []Message{
				{Role: "user", Content: buildUserMessage(twoSum, "abc", "ok", true)},
				{Role: "assistant", Content: "```zzz```"},
			},
			code:   "abc",
			output: "ok",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, output := lastCodeAndOutput(tt.history)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.output, output)
		})
	}
}
