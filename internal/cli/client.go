package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charliek/errboard/internal/api"
	"github.com/charliek/errboard/internal/constants"
)

// Client is an HTTP client for the errboard API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	// Try to load token from file
	token, _ := loadToken() // Ignore error - token may not exist

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: constants.DefaultRequestTimeout,
		},
	}
}

// GetStatus gets server status
func (c *Client) GetStatus() (*api.StatusResponse, error) {
	var resp api.StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CallsParams contains parameters for calls table queries
type CallsParams struct {
	Filter   string
	Template bool
	Mode     string
}

// GetCalls gets the calls-with-errors table
func (c *Client) GetCalls(params CallsParams) (*api.CallsResponse, error) {
	query := url.Values{}
	if params.Filter != "" {
		query.Set("filter", params.Filter)
	}
	if params.Template {
		query.Set("template", "true")
	}
	if params.Mode != "" {
		query.Set("mode", params.Mode)
	}

	path := "/api/v1/calls"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp api.CallsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEvents lists the stack events
func (c *Client) GetEvents() (*api.EventListResponse, error) {
	var resp api.EventListResponse
	if err := c.get("/api/v1/events", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEvent gets one stack event rendered by its viewer
func (c *Client) GetEvent(index int) (*api.EventResponse, error) {
	var resp api.EventResponse
	if err := c.get("/api/v1/events/"+strconv.Itoa(index), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reload asks the server to re-read its snapshot file
func (c *Client) Reload() (*api.ReloadResponse, error) {
	var resp api.ReloadResponse
	if err := c.post("/api/v1/reload", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StreamUpdates streams snapshot reloads and calls the callback for each
// one. It returns when the server closes the stream or ctx is done.
func (c *Client) StreamUpdates(ctx context.Context, callback func(api.UpdateResponse)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/stream", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	c.addAuthHeader(req)

	// The stream is long-lived, so skip the client timeout
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data: ") {
			data := strings.TrimPrefix(line, "data: ")
			var update api.UpdateResponse
			if err := json.Unmarshal([]byte(data), &update); err == nil {
				callback(update)
			}
		}
	}
}

func (c *Client) get(path string, v interface{}) error {
	return c.do(http.MethodGet, path, v)
}

func (c *Client) post(path string, v interface{}) error {
	return c.do(http.MethodPost, path, v)
}

func (c *Client) do(method, path string, v interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Code != "" {
			return fmt.Errorf("%s: %s", errResp.Code, errResp.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// addAuthHeader adds the Authorization header if a token is available
func (c *Client) addAuthHeader(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
