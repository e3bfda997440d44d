package d1

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
)

const defaultBaseURL = "https://api.cloudflare.com"

// Client issues query RPCs against a Cloudflare D1 database. Every call is a
// single POST of {sql, params}; statement semantics live with the caller.
type Client struct {
	accountID  string
	databaseID string
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient constructs a D1 client.
func NewClient(accountID, databaseID, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("CLOUDFLARE_ACCOUNT_ID is required")
	}
	if strings.TrimSpace(databaseID) == "" {
		return nil, fmt.Errorf("D1_DATABASE_ID is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("CLOUDFLARE_API_TOKEN is required")
	}
	c := &Client{
		accountID:  accountID,
		databaseID: databaseID,
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type queryRequest struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

type queryResponse struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result []struct {
		Success bool             `json:"success"`
		Results []map[string]any `json:"results"`
	} `json:"result"`
}

// Query runs one SQL statement with positional params and returns the result
// rows as generic maps.
func (c *Client) Query(ctx context.Context, sqlText string, params ...any) ([]map[string]any, error) {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(queryRequest{SQL: sqlText, Params: params})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/client/v4/accounts/%s/d1/database/%s/query", c.baseURL, c.accountID, c.databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("d1 request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("d1 http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("d1 response parse: %w", err)
	}
	if !parsed.Success {
		if len(parsed.Errors) > 0 {
			return nil, fmt.Errorf("d1 error %d: %s", parsed.Errors[0].Code, parsed.Errors[0].Message)
		}
		return nil, fmt.Errorf("d1 query reported failure (http status %d)", resp.StatusCode)
	}
	if len(parsed.Result) == 0 {
		return nil, nil
	}
	return parsed.Result[0].Results, nil
}
