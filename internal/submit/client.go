package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Machine-readable rejection reasons the backend returns. They are surfaced
// to the player verbatim alongside the human-readable message.
const (
	ReasonDuplicateHash    = "duplicate_hash"
	ReasonInvalidHash      = "invalid_hash"
	ReasonRateLimited      = "rate_limited"
	ReasonValidationFailed = "validation_failed"
)

// SubmitError is a structured rejection from the backend.
type SubmitError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Error returns the message shown to the player.
func (e *SubmitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reason
}

// Ack is the backend's acknowledgement of an accepted score.
type Ack struct {
	Message string `json:"message"`
	Rank    int    `json:"rank,omitempty"`
}

// Client submits scores to the leaderboard backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL. The underlying HTTP
// client carries no timeout: the submission call is the one genuinely
// unbounded-latency operation, and it is resolved, not canceled.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}

// NewClientWithHTTP creates a client with an injected HTTP client.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// Submit performs the one JSON POST for a worthy session. A non-2xx response
// with a parseable body comes back as a *SubmitError; transport failures are
// wrapped as plain errors.
func (c *Client) Submit(payload Payload) (*Ack, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("submit: cannot encode payload: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+"/api/scores", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("submit: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var ack Ack
		if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
			return nil, fmt.Errorf("submit: cannot decode acknowledgement: %w", err)
		}
		return &ack, nil
	}

	var rej SubmitError
	if err := json.NewDecoder(resp.Body).Decode(&rej); err != nil || rej.Reason == "" {
		return nil, fmt.Errorf("submit: backend returned %s", resp.Status)
	}
	return nil, &rej
}
