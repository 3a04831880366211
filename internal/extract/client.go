// Package extract talks to the external parsing and embedding services.
// Both collaborators are optional: a client constructed with an empty
// endpoint reports unavailability instead of failing, which lets the
// scoring tiers degrade.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUnavailable indicates the collaborating service is not configured.
var ErrUnavailable = fmt.Errorf("service not configured")

// ExtractedFields is the structured profile returned by the extraction
// service. The JSON sub-documents are stored as-is and parsed lazily at
// scoring time.
type ExtractedFields struct {
	CandidateName string          `json:"candidate_name"`
	Email         string          `json:"email"`
	Skills        json.RawMessage `json:"skills"`
	Education     json.RawMessage `json:"education"`
	Experience    json.RawMessage `json:"experience"`
}

// ParserClient talks to the document parsing and field extraction service.
type ParserClient struct {
	endpoint string
	http     *http.Client
}

// NewParserClient creates a reusable parser client. An empty endpoint
// yields a client whose calls return ErrUnavailable.
func NewParserClient(endpoint string, timeout time.Duration) *ParserClient {
	return &ParserClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Parse uploads a raw document and returns its plain text.
func (c *ParserClient) Parse(ctx context.Context, fileName string, content []byte) (string, error) {
	if c.endpoint == "" {
		return "", ErrUnavailable
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/parse", &buf)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp struct {
		Text string `json:"text"`
	}
	if err := doJSON(c.http, req, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Extract sends parsed text for structured field extraction.
func (c *ParserClient) Extract(ctx context.Context, text string) (*ExtractedFields, error) {
	if c.endpoint == "" {
		return nil, ErrUnavailable
	}

	var fields ExtractedFields
	if err := post(ctx, c.http, c.endpoint+"/extract", map[string]any{"text": text}, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// EmbeddingClient talks to the text embedding service.
type EmbeddingClient struct {
	endpoint string
	http     *http.Client
}

// NewEmbeddingClient creates a reusable embedding client. An empty
// endpoint yields a client whose calls return ErrUnavailable.
func NewEmbeddingClient(endpoint string, timeout time.Duration) *EmbeddingClient {
	return &EmbeddingClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Embed requests an embedding vector for the given text.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if c.endpoint == "" {
		return nil, ErrUnavailable
	}

	var resp struct {
		Vector []float64 `json:"vector"`
	}
	if err := post(ctx, c.http, c.endpoint+"/embed", map[string]any{"text": text}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Vector) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}
	return resp.Vector, nil
}

func post(ctx context.Context, client *http.Client, url string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return doJSON(client, req, v)
}

func doJSON(client *http.Client, req *http.Request, v any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
