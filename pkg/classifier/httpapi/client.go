package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/mindwell/pkg/classifier"
)

const defaultTimeout = 5 * time.Second

// Client implements the classifier.Provider interface for an HTTP
// classification service exposing POST /classify.
type Client struct {
	config     *classifier.Config
	httpClient *http.Client
}

// New creates a new HTTP classifier client with the given configuration.
func New(config *classifier.Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// classifyRequest is the /classify request body.
type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse is the /classify response body.
type classifyResponse struct {
	Emotion   string   `json:"emotion"`
	Intensity float64  `json:"intensity"`
	Sentiment float64  `json:"sentiment"`
	Keywords  []string `json:"keywords"`
}

// Classify analyzes one utterance and returns its emotion signal.
// Intensity is clamped to [0,1] and sentiment to [-1,1] so a misbehaving
// service can't push downstream scoring out of range.
func (c *Client) Classify(ctx context.Context, text string) (*classifier.Signal, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.config.BaseURL + "/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var cr classifyResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &classifier.Signal{
		Emotion:   cr.Emotion,
		Intensity: clamp(cr.Intensity, 0, 1),
		Sentiment: clamp(cr.Sentiment, -1, 1),
		Keywords:  cr.Keywords,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
