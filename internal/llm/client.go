// Package llm talks to a locally hosted Ollama server: it turns free-text
// user commands plus browser context into a prompt, performs one blocking
// /api/generate call, and parses the response conventions (SHELL_COMMAND:
// and FOUND_FILES_JSON:) back into actionable results.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ferret/internal/logging"
)

// healthMarker is the body substring a healthy Ollama root endpoint returns.
const healthMarker = "Ollama is running"

// Client is the synchronous Ollama HTTP client. One request at a time; the
// Worker enforces single-flight on top of it.
type Client struct {
	endpoint string
	model    string
	client   *http.Client

	temperature float64
	numCtx      int
}

// Options configures a Client.
type Options struct {
	Endpoint    string
	Model       string
	Timeout     time.Duration
	Temperature float64
	NumCtx      int
}

// NewClient creates an Ollama client. Zero-valued options get defaults.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = "http://localhost:11434"
	}
	if opts.Model == "" {
		opts.Model = "gemma3:4b"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.3
	}
	if opts.NumCtx == 0 {
		opts.NumCtx = 4096
	}

	return &Client{
		endpoint:    strings.TrimRight(opts.Endpoint, "/"),
		model:       opts.Model,
		temperature: opts.Temperature,
		numCtx:      opts.NumCtx,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// HealthCheck verifies the Ollama server is reachable and, when it is, warns
// if the configured model is not among the available tags. Only an
// unreachable server is an error; a missing model is reported in the second
// return value so the caller can show it without refusing to start.
func (c *Client) HealthCheck(ctx context.Context) (modelAvailable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logging.Get(logging.CategoryLLM).Error("Ollama connection failed at %s: %v", c.endpoint, err)
		return false, fmt.Errorf("could not connect to Ollama at %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), healthMarker) {
		logging.Get(logging.CategoryLLM).Warn("Ollama health probe returned %d: %q", resp.StatusCode, string(body))
		return false, fmt.Errorf("unexpected response from Ollama at %s (status %d)", c.endpoint, resp.StatusCode)
	}
	logging.LLM("Ollama connection test successful to %s", c.endpoint)

	models, err := c.ListModels(ctx)
	if err != nil {
		logging.Get(logging.CategoryLLM).Warn("Could not verify Ollama models: %v", err)
		return false, nil
	}
	for _, m := range models {
		if m == c.model {
			logging.LLM("Model '%s' is available in Ollama", c.model)
			return true, nil
		}
	}
	logging.Get(logging.CategoryLLM).Warn(
		"Model '%s' NOT FOUND. Available: %v. Pull with 'ollama pull %s'.", c.model, models, c.model)
	return false, nil
}

// ListModels enumerates the model names the server reports via /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tags request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tags endpoint returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Process sends one natural-language command with browser context through
// /api/generate and returns the raw response text. Connection failures,
// timeouts, HTTP errors and malformed JSON all come back as descriptive
// errors; there is no retry.
func (c *Client) Process(ctx context.Context, command, currentDir string, selected []string) (string, error) {
	prompt := BuildPrompt(command, currentDir, selected)
	logging.LLM("Processing command: '%s' (model %s)", truncate(command, 100), c.model)
	logging.LLMDebug("Prompt head: %s", truncate(prompt, 500))

	payload := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temperature,
			NumCtx:      c.numCtx,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			logging.Get(logging.CategoryLLM).Error("Ollama request timed out")
			return "", fmt.Errorf("ollama request timed out: model '%s' may be too slow for the configured timeout", c.model)
		}
		logging.Get(logging.CategoryLLM).Error("Ollama connection error: %v", err)
		return "", fmt.Errorf("could not connect to Ollama at %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		logging.Get(logging.CategoryLLM).Error("Ollama HTTP error %d: %s", resp.StatusCode, detail)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(detail))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logging.Get(logging.CategoryLLM).Error("Ollama JSON decode error: %v", err)
		return "", fmt.Errorf("could not parse LLM response: %w", err)
	}

	text := strings.TrimSpace(result.Response)
	if text == "" {
		logging.Get(logging.CategoryLLM).Warn("LLM returned an empty response")
		return "", fmt.Errorf("LLM returned an empty response; try rephrasing the command")
	}
	logging.LLMDebug("Raw LLM response: %s", truncate(text, 500))
	return text, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// =============================================================================
// OLLAMA API TYPES
// =============================================================================

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
