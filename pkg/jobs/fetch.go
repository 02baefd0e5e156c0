package jobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	clog "github.com/xrsl/careerflow/pkg/log"
)

// maxBody caps how much of a posting page is read.
const maxBody = 5 << 20

// Posting is the readable content of a job posting page.
type Posting struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Company string `json:"company,omitempty"`
	Text    string `json:"text"`
}

// Fetcher downloads job postings.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewFetcher returns a fetcher with a 30 second timeout.
func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: userAgent,
	}
}

// Fetch downloads url and extracts the posting.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Posting, error) {
	clog.Debug("fetching posting", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: HTTP %d", resp.StatusCode)
	}

	p, err := Parse(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}
	p.URL = url
	clog.Debug("extracted posting", "title", p.Title, "chars", len(p.Text))
	return p, nil
}

// Parse extracts title, company and cleaned text from posting HTML.
func Parse(r io.Reader) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	p := &Posting{
		Title:   firstNonEmpty(meta(doc, "og:title"), doc.Find("h1").First().Text(), doc.Find("title").First().Text()),
		Company: firstNonEmpty(meta(doc, "og:site_name"), doc.Find("[itemprop=hiringOrganization] [itemprop=name]").First().Text()),
	}

	doc.Find("script, style, nav, footer, header, noscript").Remove()
	p.Text = cleanText(doc.Find("body").Text())
	if p.Text == "" {
		p.Text = cleanText(doc.Text())
	}
	return p, nil
}

func meta(doc *goquery.Document, property string) string {
	v, _ := doc.Find(fmt.Sprintf("meta[property=%q]", property)).Attr("content")
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.Join(strings.Fields(v), " "); v != "" {
			return v
		}
	}
	return ""
}

func cleanText(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
