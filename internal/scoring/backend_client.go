package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"interviewassist/internal/models"
)

// BackendClient calls the scoring backend's JSON endpoints.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scoring backend returned %d: %s", e.Status, e.Message)
}

// NewBackendClient builds a client for baseURL. Deadlines come from the
// caller's context.
func NewBackendClient(baseURL string, httpClient *http.Client) *BackendClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &BackendClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *BackendClient) GenerateQuestions(ctx context.Context, req models.QuestionRequest) ([]models.GeneratedQuestion, error) {
	var out []models.GeneratedQuestion
	if err := c.post(ctx, "/generate-questions", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) ScoreAnswer(ctx context.Context, req models.ScoreRequest) (*models.ScoreResponse, error) {
	var out models.ScoreResponse
	if err := c.post(ctx, "/score-answer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BackendClient) Finalize(ctx context.Context, req models.FinalizeRequest) (*models.FinalizeResponse, error) {
	var out models.FinalizeResponse
	if err := c.post(ctx, "/finalize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health pings the backend's /health endpoint.
func (c *BackendClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *BackendClient) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *BackendClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Detail
		if msg == "" {
			msg = errResp.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
