// Package genai wraps the external generative endpoint that turns a voice
// recording into an avatar image.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AvatarPrompt is the fixed instruction sent alongside the audio media.
const AvatarPrompt = "Generate a unique, abstract, visually appealing avatar representing this voice. Use a color palette centered on teal (#008080) and blue."

// Generator produces an avatar image from a voice recording. The returned
// string is an image data URI; an empty or malformed result is the caller's
// signal to keep the previous avatar.
type Generator interface {
	GenerateAvatar(ctx context.Context, mimeType string, audio []byte) (string, error)
}

// Client talks HTTP to the configured generative endpoint.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

// NewClient returns a Generator backed by the remote endpoint.
func NewClient(url, apiKey, model string) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Media  struct {
		MimeType string `json:"mime_type"`
		Data     string `json:"data"`
	} `json:"media"`
}

type generateResponse struct {
	Image string `json:"image"`
	Error string `json:"error,omitempty"`
}

// GenerateAvatar posts the prompt and audio to the endpoint and returns the
// image data URI from the response body.
func (c *Client) GenerateAvatar(ctx context.Context, mimeType string, audio []byte) (string, error) {
	if c.url == "" {
		return "", fmt.Errorf("generative endpoint not configured")
	}

	reqBody := generateRequest{
		Model:  c.model,
		Prompt: AvatarPrompt,
	}
	reqBody.Media.MimeType = mimeType
	reqBody.Media.Data = base64.StdEncoding.EncodeToString(audio)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generative endpoint returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("malformed generative response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("generative endpoint error: %s", out.Error)
	}
	return out.Image, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ParseDataURI splits a data URI into its mime type and decoded payload.
func ParseDataURI(uri string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data URI: missing payload")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("malformed data URI: only base64 encoding is supported")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("malformed data URI: %w", err)
	}
	return mimeType, data, nil
}
