package infrastructure

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

func newTestClient(url string) *OllamaClient {
	return &OllamaClient{
		url:    url,
		model:  "tinyllama",
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func generateReply(t *testing.T, reply string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			assert.Equal(t, "tinyllama", req.Model)
			assert.False(t, req.Stream)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: reply})
	}
}

func TestEvaluateParsesWellFormedReply(t *testing.T) {
	srv := httptest.NewServer(generateReply(t, `{"name":"Jane Doe","contact":"jane@example.com","score":85,"explanation":"strong match","matched_skills":["Go","MySQL"]}`))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Evaluate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", res.Name)
	assert.Equal(t, "jane@example.com", res.Contact)
	assert.Equal(t, 85, res.Score)
	assert.Equal(t, "strong match", res.Explanation)
	assert.Equal(t, []string{"Go", "MySQL"}, res.MatchedSkills)
}

func TestEvaluateStripsMarkdownFences(t *testing.T) {
	srv := httptest.NewServer(generateReply(t, "```json\n{\"name\":\"Jane\",\"score\":60,\"explanation\":\"ok\"}\n```"))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Evaluate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 60, res.Score)
}

func TestEvaluateRejectsNonJSONReply(t *testing.T) {
	srv := httptest.NewServer(generateReply(t, "not json"))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Evaluate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestEvaluateRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Evaluate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestEvaluateRejectsUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Evaluate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestParseVerdictNormalization(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr bool
		check   func(t *testing.T, score int, contact, name string)
	}{
		{
			name:  "score above range is clamped",
			reply: `{"score":150}`,
			check: func(t *testing.T, score int, contact, name string) {
				assert.Equal(t, 100, score)
			},
		},
		{
			name:  "negative score is clamped to zero",
			reply: `{"score":-5}`,
			check: func(t *testing.T, score int, contact, name string) {
				assert.Equal(t, 0, score)
			},
		},
		{
			name:  "missing score defaults to zero",
			reply: `{"name":"Jane","explanation":"no score given"}`,
			check: func(t *testing.T, score int, contact, name string) {
				assert.Equal(t, 0, score)
			},
		},
		{
			name:  "missing fields get defaults",
			reply: `{"score":40}`,
			check: func(t *testing.T, score int, contact, name string) {
				assert.Equal(t, "Unknown", name)
				assert.Equal(t, "N/A", contact)
			},
		},
		{
			name:  "float score is accepted",
			reply: `{"score":72.6}`,
			check: func(t *testing.T, score int, contact, name string) {
				assert.Equal(t, 72, score)
			},
		},
		{
			name:    "plain text is an error",
			reply:   "the candidate looks fine to me",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseVerdict(tt.reply)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, res.MatchedSkills)
			tt.check(t, res.Score, res.Contact, res.Name)
		})
	}
}

func TestCleanJSONResponseKeepsOutermostObject(t *testing.T) {
	got := cleanJSONResponse("Sure! Here is the evaluation:\n```json\n{\"score\": 10}\n```\nLet me know if you need more.")
	assert.Equal(t, `{"score": 10}`, got)
}
