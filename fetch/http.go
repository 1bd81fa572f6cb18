// Package fetch retrieves reference material used as improvement context.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// DefaultMaxBytes caps the context text handed to the improver.
const DefaultMaxBytes = 16 * 1024

// ErrEmptyURL is returned when Fetch is called without a URL.
var ErrEmptyURL = errors.New("fetch url is empty")

// Document is plain text extracted from a fetched page.
type Document struct {
	URL       string
	Title     string
	Text      string
	Truncated bool
}

// Context renders the document as an improvement context string.
func (d Document) Context() string {
	if d.Title == "" {
		return d.Text
	}
	return d.Title + "\n\n" + d.Text
}

// HTTPFetcher downloads a page and reduces it to plain text.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int
}

// NewHTTP creates a fetcher with a modest timeout.
func NewHTTP() *HTTPFetcher {
	return NewHTTPWithClient(&http.Client{Timeout: 15 * time.Second}, DefaultMaxBytes)
}

// NewHTTPWithClient creates a fetcher using client. maxBytes <= 0 means
// DefaultMaxBytes.
func NewHTTPWithClient(client *http.Client, maxBytes int) *HTTPFetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &HTTPFetcher{client: client, maxBytes: maxBytes}
}

// Fetch downloads url. HTML is stripped to text; text/* bodies are kept as is.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Document, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return Document{}, ErrEmptyURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trimmed, nil)
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: %w", trimmed, err)
	}
	req.Header.Set("User-Agent", "promptcraft/1.0 (+https://github.com/smhanov/promptcraft)")
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, text/markdown;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: %w", trimmed, err)
	}
	defer resp.Body.Close()

	// Read a little past the cap so truncation is detectable on raw text.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxBytes)*8))
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: read body: %w", trimmed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("fetch %s: http %d: %s", trimmed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc := Document{URL: trimmed}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml" || mediaType == "":
		doc.Title = extractTitle(string(body))
		doc.Text = stripHTML(string(body))
	case strings.HasPrefix(mediaType, "text/"):
		doc.Text = strings.TrimSpace(string(body))
	default:
		return Document{}, fmt.Errorf("fetch %s: unsupported content type %q", trimmed, mediaType)
	}

	if len(doc.Text) > f.maxBytes {
		doc.Text = doc.Text[:f.maxBytes] + "\n[TRUNCATED]"
		doc.Truncated = true
	}
	return doc, nil
}

var (
	reTitle      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	reHead       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	reScript     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reChrome     = regexp.MustCompile(`(?is)<(nav|header|footer|aside)[^>]*>.*?</(nav|header|footer|aside)>`)
	reBlock      = regexp.MustCompile(`(?i)</?(p|div|br|li|h[1-6]|tr|pre|section|article)[^>]*>`)
	reTags       = regexp.MustCompile(`<[^>]+>`)
	reWhitespace = regexp.MustCompile(`[ \t]+`)
)

var entities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

func extractTitle(html string) string {
	m := reTitle.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(entities.Replace(reWhitespace.ReplaceAllString(m[1], " ")))
}

// stripHTML drops head, scripts, styles and page chrome, turns block tags
// into line breaks and removes the remaining markup.
func stripHTML(html string) string {
	s := reHead.ReplaceAllString(html, "")
	s = reScript.ReplaceAllString(s, "")
	s = reStyle.ReplaceAllString(s, "")
	s = reChrome.ReplaceAllString(s, "")
	s = reBlock.ReplaceAllString(s, "\n")
	s = reTags.ReplaceAllString(s, " ")
	s = entities.Replace(s)
	s = reWhitespace.ReplaceAllString(s, " ")

	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
