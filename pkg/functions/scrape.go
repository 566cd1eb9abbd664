package functions

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
	"github.com/matzehuels/campaigncanvas/pkg/fetch"
)

const (
	maxLinks     = 50
	maxHeadings  = 50
	maxTextRunes = 10000
)

// ScrapeRequest is the scrape-url body.
type ScrapeRequest struct {
	URL     string `json:"url"`
	Refresh bool   `json:"refresh,omitempty"`
}

// Heading is an h1-h3 element.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is an absolute http(s) link found on the page.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// ScrapeResponse is the scrape-url answer.
type ScrapeResponse struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	SiteName    string    `json:"siteName"`
	Headings    []Heading `json:"headings"`
	Links       []Link    `json:"links"`
	Text        string    `json:"text"`
}

func (s *Service) scrapeURL(ctx context.Context, body []byte) (any, error) {
	var req ScrapeRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	target := strings.TrimSpace(req.URL)
	if err := cerrors.ValidateURL(target); err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, cerrors.New(cerrors.ErrCodeInternal, "scraping is not configured")
	}

	if d := s.cfg.FetchTimeout.D(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	resp, err := s.fetcher.Get(ctx, target, req.Refresh)
	if err != nil {
		return nil, wrapFetch(err, target)
	}
	if ct := strings.ToLower(resp.ContentType); ct != "" && !strings.Contains(ct, "html") && !strings.HasPrefix(ct, "text/") {
		return nil, cerrors.New(cerrors.ErrCodeUpstream, "unsupported content type %q", resp.ContentType)
	}
	return ParsePage(resp.URL, resp.Body)
}

// ParsePage extracts metadata, headings, links and visible text from an HTML
// document. base resolves relative links.
func ParsePage(base string, body []byte) (*ScrapeResponse, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeParseFailed, err, "failed to parse HTML")
	}
	p := &pageParser{
		base:  base,
		out:   &ScrapeResponse{URL: base, Headings: []Heading{}, Links: []Link{}},
		links: make(map[string]bool),
	}
	p.walk(doc)

	out := p.out
	if out.Image != "" {
		out.Image = fetch.Resolve(base, out.Image)
	}
	out.Title = collapseSpace(out.Title)
	out.Description = collapseSpace(out.Description)
	out.Text = truncateRunes(collapseBlankLines(p.text.String()), maxTextRunes)
	return out, nil
}

type pageParser struct {
	base      string
	out       *ScrapeResponse
	links     map[string]bool
	text      strings.Builder
	ogTitle   string
	plainDesc string
	quiet     int
}

// skipped elements contribute nothing. quiet elements still yield headings
// and links but no body text.
var (
	skipped = map[string]bool{
		"script": true, "style": true, "noscript": true, "iframe": true,
		"svg": true, "template": true,
	}
	quiet = map[string]bool{"nav": true, "footer": true, "header": true, "aside": true}
)

func (p *pageParser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if p.out.Title == "" {
				p.out.Title = textContent(n)
			}
			return
		case "meta":
			p.meta(n)
			return
		case "h1", "h2", "h3":
			if t := collapseSpace(textContent(n)); t != "" && len(p.out.Headings) < maxHeadings {
				p.out.Headings = append(p.out.Headings, Heading{Level: int(n.Data[1] - '0'), Text: t})
			}
		case "a":
			p.link(n)
		}
		if skipped[n.Data] {
			return
		}
	}
	if n.Type == html.TextNode && p.quiet == 0 {
		if t := collapseSpace(n.Data); t != "" {
			p.text.WriteString(t)
			p.text.WriteString(" ")
		}
	}
	q := n.Type == html.ElementNode && quiet[n.Data]
	if q {
		p.quiet++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
	if q {
		p.quiet--
	}
	if n.Type == html.ElementNode && blockLevel(n.Data) && p.quiet == 0 {
		p.text.WriteString("\n")
	}
	if n.Type == html.DocumentNode {
		p.finish()
	}
}

func (p *pageParser) meta(n *html.Node) {
	key := strings.ToLower(getAttr(n, "property"))
	if key == "" {
		key = strings.ToLower(getAttr(n, "name"))
	}
	content := strings.TrimSpace(getAttr(n, "content"))
	if content == "" {
		return
	}
	switch key {
	case "og:title":
		p.ogTitle = content
	case "og:description":
		p.out.Description = content
	case "description":
		p.plainDesc = content
	case "og:image", "og:image:url", "twitter:image":
		if p.out.Image == "" {
			p.out.Image = content
		}
	case "og:site_name":
		p.out.SiteName = content
	}
}

func (p *pageParser) link(n *html.Node) {
	if len(p.out.Links) >= maxLinks {
		return
	}
	href := strings.TrimSpace(getAttr(n, "href"))
	if href == "" || strings.HasPrefix(href, "#") {
		return
	}
	abs := fetch.Resolve(p.base, href)
	if abs == "" || p.links[abs] {
		return
	}
	p.links[abs] = true
	p.out.Links = append(p.out.Links, Link{URL: abs, Text: collapseSpace(textContent(n))})
}

// finish applies fallbacks once the whole document has been seen.
func (p *pageParser) finish() {
	if p.out.Title == "" {
		p.out.Title = p.ogTitle
	}
	if p.out.Description == "" {
		p.out.Description = p.plainDesc
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		if n.Type == html.ElementNode && skipped[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func blockLevel(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "li", "ul", "ol", "br", "tr", "table",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "footer", "main", "nav", "blockquote", "pre":
		return true
	}
	return false
}

var (
	spaceRe = regexp.MustCompile(`\s+`)
	blankRe = regexp.MustCompile(`[ \t]*\n[\s]*`)
)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func collapseBlankLines(s string) string {
	return strings.TrimSpace(blankRe.ReplaceAllString(s, "\n"))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n])) + "…"
}
