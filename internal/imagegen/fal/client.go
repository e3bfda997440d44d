package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"cardify-backend/internal/imagegen"
	"cardify-backend/internal/llm"
)

const (
	defaultBaseURL      = "https://queue.fal.run"
	defaultModel        = "fal-ai/flux-pro"
	defaultPollInterval = 2 * time.Second
	defaultRenderWait   = 120 * time.Second
)

// Client implements imagegen.Renderer against the fal.ai queue API. A render
// is a queued job: submit, poll status until COMPLETED, fetch the result.
type Client struct {
	key          string
	model        string
	baseURL      string
	pollInterval time.Duration
	renderWait   time.Duration
	httpClient   *http.Client

	// Progress receives provider log lines while a job is in progress.
	// Optional; nil means no progress reporting.
	Progress imagegen.ProgressFunc
}

// NewClient constructs a fal queue client.
func NewClient(key string) (*Client, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("FAL_KEY is required")
	}
	wait := defaultRenderWait
	if raw := strings.TrimSpace(os.Getenv("FAL_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			wait = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		key:          key,
		model:        defaultModel,
		baseURL:      defaultBaseURL,
		pollInterval: defaultPollInterval,
		renderWait:   wait,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type submitRequest struct {
	Prompt    string `json:"prompt"`
	ImageSize string `json:"image_size"`
}

type submitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type statusResponse struct {
	Status string `json:"status"`
	Logs   []struct {
		Message string `json:"message"`
	} `json:"logs"`
	Error string `json:"error,omitempty"`
}

type resultResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

const (
	statusInQueue    = "IN_QUEUE"
	statusInProgress = "IN_PROGRESS"
	statusCompleted  = "COMPLETED"
	statusFailed     = "FAILED"
)

// RenderFace submits one generation job for the given face and blocks until
// the provider yields an output URL. The overall wait is bounded; exceeding
// it is reported like any other provider failure.
func (c *Client) RenderFace(ctx context.Context, brief llm.CardBrief, face imagegen.Face) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.renderWait)
	defer cancel()

	job, err := c.submit(ctx, imagegen.PromptFor(brief, face))
	if err != nil {
		return "", err
	}

	if err := c.awaitCompletion(ctx, job, face); err != nil {
		return "", err
	}

	result, err := c.fetchResult(ctx, job)
	if err != nil {
		return "", err
	}
	if len(result.Images) == 0 || strings.TrimSpace(result.Images[0].URL) == "" {
		return "", fmt.Errorf("fal result missing output image")
	}
	return result.Images[0].URL, nil
}

func (c *Client) submit(ctx context.Context, prompt string) (submitResponse, error) {
	payload, err := json.Marshal(submitRequest{
		Prompt:    prompt,
		ImageSize: "portrait_4_3",
	})
	if err != nil {
		return submitResponse{}, err
	}

	url := c.baseURL + "/" + c.model
	var job submitResponse
	if err := c.doJSON(ctx, http.MethodPost, url, payload, &job); err != nil {
		return submitResponse{}, fmt.Errorf("fal submit: %w", err)
	}
	if job.StatusURL == "" || job.ResponseURL == "" {
		return submitResponse{}, fmt.Errorf("fal submit: response missing queue urls")
	}
	return job, nil
}

func (c *Client) awaitCompletion(ctx context.Context, job submitResponse, face imagegen.Face) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var status statusResponse
		if err := c.doJSON(ctx, http.MethodGet, job.StatusURL+"?logs=1", nil, &status); err != nil {
			return fmt.Errorf("fal status: %w", err)
		}

		switch status.Status {
		case statusCompleted:
			return nil
		case statusFailed:
			msg := status.Error
			if msg == "" {
				msg = "generation failed"
			}
			return fmt.Errorf("fal job failed: %s", msg)
		case statusInProgress:
			if c.Progress != nil {
				for _, line := range status.Logs {
					c.Progress(face, line.Message)
				}
			}
		case statusInQueue:
			// keep waiting
		default:
			return fmt.Errorf("fal status: unexpected status %q", status.Status)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("fal render timed out: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchResult(ctx context.Context, job submitResponse) (resultResponse, error) {
	var result resultResponse
	if err := c.doJSON(ctx, http.MethodGet, job.ResponseURL, nil, &result); err != nil {
		return resultResponse{}, fmt.Errorf("fal result: %w", err)
	}
	return result, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Key "+c.key)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return fmt.Errorf("request timeout: %w", err)
		}
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("response parse: %w", err)
	}
	return nil
}

var _ imagegen.Renderer = (*Client)(nil)
