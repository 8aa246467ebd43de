package gemini

import (
	"PantryPal/domain"
	"PantryPal/internal/metrics"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	ErrNotConfigured = errors.New("GEMINI_API_KEY is not set")
	ErrNoJSON        = errors.New("response does not contain JSON")
)

type (
	// Client sends one prompt, optionally with an inline image, and returns the model text.
	Client interface {
		GenerateContent(ctx context.Context, prompt string, image *InlineImage) (string, error)
	}

	InlineImage struct {
		MimeType string
		Data     []byte
	}

	Config struct {
		APIKey  string
		Model   string
		BaseURL string
	}

	client struct {
		cfg        Config
		httpClient *http.Client
	}
)

func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *client) GenerateContent(ctx context.Context, prompt string, image *InlineImage) (text string, err error) {
	if c.cfg.APIKey == "" || c.cfg.Model == "" {
		return "", domain.Upstream("gemini", ErrNotConfigured)
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("gemini", start, err) }()

	parts := []map[string]any{{"text": prompt}}
	if image != nil {
		parts = append(parts, map[string]any{
			"inline_data": map[string]any{
				"mime_type": image.MimeType,
				"data":      base64.StdEncoding.EncodeToString(image.Data),
			},
		})
	}

	requestBody := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature":      0.4,
			"topP":             0.8,
			"topK":             40,
			"responseMimeType": "application/json",
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.Upstream("gemini", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", domain.Upstream("gemini", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		return "", domain.Upstream("gemini", fmt.Errorf("%s: %s", resp.Status, msg))
	}

	text = gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	if strings.TrimSpace(text) == "" {
		return "", domain.Upstream("gemini", domain.ErrGeminiAPIFailed)
	}
	return text, nil
}

// ExtractJSONArray pulls the JSON array out of model text that may carry code
// fences or prose. A lone object is wrapped into a one-element array.
func ExtractJSONArray(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start != -1 && end > start {
		if candidate := text[start : end+1]; gjson.Valid(candidate) {
			return candidate, nil
		}
	}

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start != -1 && end > start {
		if candidate := "[" + text[start:end+1] + "]"; gjson.Valid(candidate) {
			return candidate, nil
		}
	}

	return "", ErrNoJSON
}
