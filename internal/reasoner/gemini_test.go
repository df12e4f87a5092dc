package reasoner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geminiRecorder answers generateContent calls with a canned body and keeps
// the last request's path and JSON payload.
type geminiRecorder struct {
	server *httptest.Server
	path   string
	body   map[string]interface{}
}

func newGeminiServer(t *testing.T, response string) *geminiRecorder {
	t.Helper()
	rec := &geminiRecorder{}
	rec.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.body = map[string]interface{}{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rec.body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(rec.server.Close)
	return rec
}

func TestGeminiClient_Complete(t *testing.T) {
	rec := newGeminiServer(t,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Bait the grab, then punish.  "}]}}]}`)

	c, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: rec.server.URL})
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, c.Model())

	text, err := c.Complete(context.Background(), "Analyze Runebear")
	require.NoError(t, err)
	assert.Equal(t, "Bait the grab, then punish.", text)

	assert.True(t, strings.HasSuffix(rec.path, "/models/"+DefaultGeminiModel+":generateContent"), rec.path)

	gen, ok := rec.body["generationConfig"].(map[string]interface{})
	require.True(t, ok, "generationConfig missing: %v", rec.body)
	assert.Equal(t, float64(DefaultMaxTokens), gen["maxOutputTokens"])

	contents, ok := rec.body["contents"].([]interface{})
	require.True(t, ok)
	require.Len(t, contents, 1)
	assert.Contains(t, mustJSON(t, contents[0]), "Analyze Runebear")
}

func TestGeminiClient_CustomModelAndTokens(t *testing.T) {
	rec := newGeminiServer(t,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`)

	c, err := NewGeminiClient(context.Background(), GeminiConfig{
		APIKey: "test-key", BaseURL: rec.server.URL, Model: "gemini-2.5-pro", MaxTokens: 64,
	})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "p")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(rec.path, "/models/gemini-2.5-pro:generateContent"), rec.path)
	assert.Equal(t, float64(64), rec.body["generationConfig"].(map[string]interface{})["maxOutputTokens"])
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	rec := newGeminiServer(t, `{"candidates":[]}`)

	c, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: rec.server.URL})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion returned")
}

func TestNew_Gemini(t *testing.T) {
	rec := newGeminiServer(t, `{"candidates":[]}`)

	c, err := New(context.Background(), Config{Provider: ProviderGemini, APIKey: "k", BaseURL: rec.server.URL, Model: "gemini-2.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", c.Model())
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
