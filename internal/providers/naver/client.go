// internal/providers/naver/client.go
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	httpclient "seasonal-story-workers/internal/common/http"
	"seasonal-story-workers/internal/story"
)

const (
	DefaultBaseURL = "https://openapi.naver.com/v1/search/blog.json"
	// The search API quota is small, so at most this many queries run per fetch.
	maxQueries = 2
)

// queryTerms is the search term used for a category.
var queryTerms = map[string]string{
	"coffee":   "커피",
	"dessert":  "디저트",
	"beverage": "음료",
	"meal":     "맛집",
	"food":     "맛집",
	"alcohol":  "술집",
	"meat":     "고기",
	"season":   "제철",
	"event":    "이벤트",
}

var defaultQueries = []query{{term: "맛집"}, {term: "카페", category: "coffee"}}

type query struct {
	term     string
	category string
}

// Provider derives trend keywords from Naver blog search titles.
type Provider struct {
	clientID     string
	clientSecret string
	baseURL      string
	display      int
	client       *httpclient.Client
}

func New(clientID, clientSecret, baseURL string, display int, client *httpclient.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if display <= 0 {
		display = 3
	}
	if client == nil {
		client = httpclient.NewClient(httpclient.Options{Name: "naver", Timeout: 5 * time.Second})
	}
	return &Provider{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		display:      display,
		client:       client,
	}
}

type searchResponse struct {
	Items []struct {
		Title string `json:"title"`
	} `json:"items"`
}

func (p *Provider) Fetch(ctx context.Context, categories []string, limit int) ([]story.TrendKeyword, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return nil, fmt.Errorf("naver: %w", story.ErrMissingCredentials)
	}

	var (
		out     []story.TrendKeyword
		seen    = make(map[string]struct{})
		lastErr error
		okCount int
	)
	now := time.Now().UTC()
	for _, q := range buildQueries(categories) {
		titles, err := p.search(ctx, q.term)
		if err != nil {
			lastErr = err
			continue
		}
		okCount++
		for _, title := range titles {
			word := KeywordFromTitle(title)
			if word == "" {
				word = q.term
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			kw := story.TrendKeyword{Text: word, FetchedAt: now}
			if q.category != "" {
				kw.Categories = []string{q.category}
			}
			out = append(out, kw)
		}
	}

	if okCount == 0 && lastErr != nil {
		return nil, fmt.Errorf("naver: %w", lastErr)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p *Provider) search(ctx context.Context, term string) ([]string, error) {
	build := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("query", term)
		values.Set("display", strconv.Itoa(p.display))
		values.Set("sort", "sim")
		req, err := http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Naver-Client-Id", p.clientID)
		req.Header.Set("X-Naver-Client-Secret", p.clientSecret)
		return req, nil
	}

	resp, err := p.client.Do(ctx, build)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	titles := make([]string, 0, len(body.Items))
	for _, item := range body.Items {
		titles = append(titles, item.Title)
	}
	return titles, nil
}

func buildQueries(categories []string) []query {
	var out []query
	seen := make(map[string]struct{})
	for _, c := range story.NormalizeCategories(categories) {
		term, ok := queryTerms[c]
		if !ok {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, query{term: term, category: c})
		if len(out) == maxQueries {
			break
		}
	}
	if len(out) == 0 {
		return defaultQueries
	}
	return out
}

// KeywordFromTitle returns the first word of a search result title with markup and
// surrounding punctuation removed.
func KeywordFromTitle(title string) string {
	clean := strings.NewReplacer("<b>", "", "</b>", "").Replace(title)
	clean = html.UnescapeString(clean)
	for _, field := range strings.Fields(clean) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if word != "" {
			return word
		}
	}
	return ""
}
