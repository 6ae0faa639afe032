// Package ebay provides a minimal eBay Browse API client used to gather
// listing prices for a card search.
package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/slabwatch/slabwatch/internal/model"

	"golang.org/x/time/rate"
)

const defaultBrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"

// Client calls the eBay Browse item summary search.
type Client struct {
	token    string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a Browse client authenticated with an OAuth token.
func NewClient(token string) *Client {
	return &Client{
		token:    token,
		endpoint: defaultBrowseURL,
		client:   &http.Client{Timeout: 12 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// SetEndpoint overrides the Browse API endpoint (used by tests).
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Available returns true if an OAuth token is configured.
func (c *Client) Available() bool {
	return c.token != ""
}

// Marketplace maps a region selector to an eBay marketplace id.
// AU keeps the local marketplace; anything else falls through to US.
func Marketplace(region string) string {
	if region == "" || region == "AU" || region == "au" {
		return "EBAY_AU"
	}
	return "EBAY_US"
}

type itemSummary struct {
	Title string `json:"title"`
	Price struct {
		Value string `json:"value"`
	} `json:"price"`
	Image struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	ThumbnailImages []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"thumbnailImages"`
}

type searchResponse struct {
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

// SearchItems queries the Browse API for keyword within a marketplace and
// returns the listings with a parsable price. Without a configured token
// it returns no listings and no error, matching an unconfigured deployment.
func (c *Client) SearchItems(ctx context.Context, keyword, marketplace string, limit int) ([]model.Listing, error) {
	if !c.Available() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ebay: rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", keyword)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fieldgroups", "ASPECT_REFINEMENT")
	params.Set("filter", fmt.Sprintf("marketplaceIds:(%s)", marketplace))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("ebay: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ebay: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ebay: status %d: %s", resp.StatusCode, body)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ebay: decode response: %w", err)
	}

	listings := make([]model.Listing, 0, len(decoded.ItemSummaries))
	for _, item := range decoded.ItemSummaries {
		price, err := strconv.ParseFloat(item.Price.Value, 64)
		if err != nil {
			continue
		}
		img := item.Image.ImageURL
		if img == "" && len(item.ThumbnailImages) > 0 {
			img = item.ThumbnailImages[0].ImageURL
		}
		listings = append(listings, model.Listing{
			Title:    item.Title,
			Price:    price,
			ImageURL: img,
		})
	}
	return listings, nil
}
