package openai

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

	"github.com/google/uuid"

	"github.com/medscan-io/medscan/internal/llm"
)

// Extract implements llm.Extractor over chat/completions. The primary path
// sends the anonymized document text; when the request carries file bytes
// instead (upstream text extraction failed), the original file is attached
// inline as a base64 data URL with its declared MIME type.
//
// No retries here: retry and backoff policy belongs to the caller, since
// re-sending identical input would not change a parse failure.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	useFile := strings.TrimSpace(req.AnonymizedText) == "" && len(req.FileData) > 0
	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.AnonymizedText),
		"file_fallback", useFile,
	)

	schema := llm.BuildEnvelopeSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": c.userContent(req, useFile)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)

	// Advisory strict check. A mismatch is not fatal: the recovery parser
	// downstream still salvages complete records from malformed output.
	if err := llm.ValidateJSONAgainstSchema(schema, []byte(content)); err != nil {
		c.logger.Warn("llm.extract.schema_mismatch",
			"req_id", rid, "error", err, "content_len", len(content),
		)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// userContent builds either a plain text message or a multimodal part list
// carrying the original file inline.
func (c *Client) userContent(req llm.ExtractRequest, useFile bool) any {
	if !useFile {
		return llm.BuildUserPrompt(req.AnonymizedText)
	}
	dataURL := "data:" + req.FileMIME + ";base64," +
		base64.StdEncoding.EncodeToString(req.FileData)
	return []map[string]any{
		{"type": "text", "text": "Extract measurements from the attached laboratory report."},
		{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
	}
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
