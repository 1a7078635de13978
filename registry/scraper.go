// Package registry lists installable models and their tags by scraping the
// public model library pages.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"ollamatui/apperr"
)

const DefaultBaseURL = "https://registry.ollama.ai"

// Source lists registry models and tags.
type Source interface {
	ListModels(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context, model string) ([]string, error)
}

type Scraper struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewScraper(baseURL string, timeout time.Duration) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// ListModels returns the sorted, de-duplicated model names linked from the
// library index as "/library/<name>".
func (s *Scraper) ListModels(ctx context.Context) ([]string, error) {
	doc, err := s.fetch(ctx, "/library")
	if err != nil {
		return nil, err
	}

	models := collectLinks(doc, func(path string) (string, bool) {
		parts := strings.Split(path, "/")
		if len(parts) == 3 && parts[0] == "" && parts[1] == "library" && parts[2] != "" {
			return parts[2], true
		}
		return "", false
	})

	if len(models) == 0 {
		return nil, apperr.NewScraping("could not find or parse model names from registry page")
	}
	return models, nil
}

// ListTags returns the sorted, de-duplicated tags linked from the model's tag
// page as "/library/<model>:<tag>".
func (s *Scraper) ListTags(ctx context.Context, model string) ([]string, error) {
	doc, err := s.fetch(ctx, "/library/"+url.PathEscape(model)+"/tags")
	if err != nil {
		return nil, err
	}

	prefix := "/library/" + model + ":"
	tags := collectLinks(doc, func(path string) (string, bool) {
		tag, ok := strings.CutPrefix(path, prefix)
		if !ok || tag == "" || strings.Contains(tag, "/") {
			return "", false
		}
		return tag, true
	})

	if len(tags) == 0 {
		return nil, apperr.NewScraping(fmt.Sprintf("could not find tags for model %q", model))
	}
	return tags, nil
}

func (s *Scraper) fetch(ctx context.Context, path string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return nil, apperr.NewNetwork("failed to build registry request", err)
	}
	req.Header.Set("Accept", "text/html")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperr.NewNetwork("registry request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, apperr.NewResponse(resp.StatusCode, msg)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, apperr.NewDeserialization("failed to parse registry page", err)
	}
	return doc, nil
}

// collectLinks walks every <a href> in doc, keeps the values extract accepts
// and returns them de-duplicated and sorted.
func collectLinks(doc *html.Node, extract func(path string) (string, bool)) []string {
	seen := make(map[string]bool)
	var out []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if v, ok := extract(hrefPath(attr.Val)); ok && !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	sort.Strings(out)
	return out
}

// hrefPath drops any scheme, host, query or fragment from an href.
func hrefPath(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if unescaped, err := url.PathUnescape(u.EscapedPath()); err == nil {
		return unescaped
	}
	return u.Path
}
