// Package apiclient is the HTTP client the TUI uses to talk to the
// slabwatch server. Every authenticated request re-reads the bearer
// token from the session store, so a logout elsewhere is picked up
// immediately.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slabwatch/slabwatch/internal/model"
)

// TokenSource yields the current bearer token. An empty token means
// the request goes out unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("apiclient: request failed with status %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 API response.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// Client talks to one slabwatch server.
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// call sends one request and unmarshals the JSON body into dest.
// Form-encoded bodies match what the server's handlers read.
func (c *Client) call(ctx context.Context, method, path string, form url.Values, dest interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("apiclient: read session: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var fields struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &fields) == nil {
			apiErr.Message = fields.Error
		}
		return apiErr
	}

	if dest != nil {
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("apiclient: unmarshal response: %w", err)
		}
	}
	return nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	return c.call(ctx, http.MethodPost, "/register", form, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"username": {username}, "password": {password}}
	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.call(ctx, http.MethodPost, "/token", form, &result); err != nil {
		return "", err
	}
	return result.AccessToken, nil
}

// Saved fetches the full saved-search list for the logged-in account.
func (c *Client) Saved(ctx context.Context) ([]model.SavedResult, error) {
	var result []model.SavedResult
	err := c.call(ctx, http.MethodGet, "/api/saved", nil, &result)
	return result, err
}

// SearchResult is the server's response to a search or refresh.
type SearchResult struct {
	OK     bool               `json:"ok"`
	Result *model.PriceReport `json:"result"`
	Avg    model.Averages     `json:"avg"`
	Image  string             `json:"image"`
	Error  string             `json:"error"`
}

// Search runs a new price search and saves the result server-side.
func (c *Client) Search(ctx context.Context, cardName, region string) (*SearchResult, error) {
	form := url.Values{"card_name": {cardName}, "region": {region}}
	var result SearchResult
	if err := c.call(ctx, http.MethodPost, "/api/search", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh re-runs the saved search for cardName in its stored region.
func (c *Client) Refresh(ctx context.Context, cardName string) (*SearchResult, error) {
	form := url.Values{"card_name": {cardName}}
	var result SearchResult
	if err := c.call(ctx, http.MethodPost, "/api/refresh", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmImage pins imageURL as the verified image for cardName.
func (c *Client) ConfirmImage(ctx context.Context, cardName, imageURL string) error {
	form := url.Values{"card_name": {cardName}, "image_url": {imageURL}}
	return c.call(ctx, http.MethodPost, "/api/confirm_image", form, nil)
}
