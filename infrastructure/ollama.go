package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"resume-screener/domain"
)

const (
	defaultOllamaURL = "http://127.0.0.1:11434/api/generate"
	defaultModelName = "tinyllama"
	evaluateTimeout  = 120 * time.Second
)

// OllamaClient talks to the local scoring model. It is the single place where
// the model's untrusted output is turned into a well-formed ScreeningResult:
// everything past this boundary can rely on the score being in range and all
// fields being present.
type OllamaClient struct {
	url    string
	model  string
	client *http.Client
}

func NewOllamaClient() *OllamaClient {
	url := os.Getenv("OLLAMA_URL")
	if url == "" {
		url = defaultOllamaURL
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = defaultModelName
	}
	return &OllamaClient{
		url:    url,
		model:  model,
		client: &http.Client{Timeout: evaluateTimeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// verdict mirrors the JSON schema the prompt asks the model to produce.
// Score is decoded as a float because models occasionally return one.
type verdict struct {
	Name          string   `json:"name"`
	Contact       string   `json:"contact"`
	Score         *float64 `json:"score"`
	Explanation   string   `json:"explanation"`
	MatchedSkills []string `json:"matched_skills"`
}

// Evaluate sends the prompt to the scoring endpoint and normalizes the reply.
// Any transport or parse failure is returned as an error, never as a
// partially-parsed result; the caller decides on the fallback.
func (c *OllamaClient) Evaluate(ctx context.Context, prompt string) (domain.ScreeningResult, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("failed to reach scoring endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ScreeningResult{}, fmt.Errorf("scoring endpoint returned status %d: %s", resp.StatusCode, raw)
	}

	var gen generateResponse
	if err := json.Unmarshal(raw, &gen); err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("failed to parse endpoint response: %w", err)
	}

	return parseVerdict(gen.Response)
}

// parseVerdict turns the model's free-form reply into a ScreeningResult,
// clamping the score into [0,100] and substituting defaults for missing
// fields.
func parseVerdict(reply string) (domain.ScreeningResult, error) {
	cleaned := cleanJSONResponse(reply)

	var v verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("model reply is not valid JSON: %w", err)
	}

	res := domain.ScreeningResult{
		Name:          v.Name,
		Contact:       v.Contact,
		Explanation:   v.Explanation,
		MatchedSkills: v.MatchedSkills,
	}
	if res.Name == "" {
		res.Name = "Unknown"
	}
	if res.Contact == "" {
		res.Contact = "N/A"
	}
	if res.MatchedSkills == nil {
		res.MatchedSkills = []string{}
	}
	if v.Score != nil {
		res.Score = clampScore(int(*v.Score))
	}
	return res, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// cleanJSONResponse strips markdown fences and surrounding chatter, keeping
// the outermost JSON object.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}
