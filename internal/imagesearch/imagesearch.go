/*
Package imagesearch locates a representative card image when marketplace
listings carry none. Lookups are best-effort: every failure falls through
to the next provider and ultimately to the empty string.
*/
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	defaultGoogleURL     = "https://www.googleapis.com/customsearch/v1"
	defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"
)

// Finder chains a Google Custom Search image lookup with a DuckDuckGo
// HTML results scrape.
type Finder struct {
	googleKey     string
	googleCX      string
	googleURL     string
	duckDuckGoURL string
	client        *http.Client
}

// NewFinder creates a finder. Google lookup is skipped unless both apiKey
// and cx are set; the DuckDuckGo scrape needs no credentials.
func NewFinder(apiKey, cx string) *Finder {
	return &Finder{
		googleKey:     apiKey,
		googleCX:      cx,
		googleURL:     defaultGoogleURL,
		duckDuckGoURL: defaultDuckDuckGoURL,
		client:        &http.Client{Timeout: 8 * time.Second},
	}
}

// SetEndpoints overrides the provider URLs (used by tests).
func (f *Finder) SetEndpoints(googleURL, duckDuckGoURL string) {
	f.googleURL = googleURL
	f.duckDuckGoURL = duckDuckGoURL
}

// FindImage returns an image URL for cardName, or "" when every provider
// comes up empty.
func (f *Finder) FindImage(ctx context.Context, cardName string) string {
	if img := f.googleImage(ctx, cardName); img != "" {
		return img
	}
	return f.duckDuckGoImage(ctx, cardName)
}

func (f *Finder) googleImage(ctx context.Context, cardName string) string {
	if f.googleKey == "" || f.googleCX == "" {
		return ""
	}

	params := url.Values{}
	params.Set("q", cardName)
	params.Set("cx", f.googleCX)
	params.Set("key", f.googleKey)
	params.Set("searchType", "image")
	params.Set("num", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.googleURL+"?"+params.Encode(), nil)
	if err != nil {
		return ""
	}
	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("imagesearch: google lookup failed: %v", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var decoded struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ""
	}
	if len(decoded.Items) == 0 {
		return ""
	}
	return decoded.Items[0].Link
}

func (f *Finder) duckDuckGoImage(ctx context.Context, cardName string) string {
	u := fmt.Sprintf("%s?q=%s", f.duckDuckGoURL, url.QueryEscape(cardName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("imagesearch: duckduckgo lookup failed: %v", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return ""
	}
	return firstImageSrc(doc)
}

// firstImageSrc walks the document and returns the src of the first img
// element, normalizing protocol-relative URLs.
func firstImageSrc(doc *html.Node) string {
	var src string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if src != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, attr := range n.Attr {
				if attr.Key == "src" && strings.TrimSpace(attr.Val) != "" {
					src = strings.TrimSpace(attr.Val)
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
