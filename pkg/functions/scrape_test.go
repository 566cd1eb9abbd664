package functions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/campaigncanvas/pkg/cache"
	"github.com/matzehuels/campaigncanvas/pkg/config"
	"github.com/matzehuels/campaigncanvas/pkg/fetch"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>  Spring   Sale </title>
  <meta name="description" content="Plain description">
  <meta property="og:description" content="OG description">
  <meta property="og:image" content="/img/hero.png">
  <meta property="og:site_name" content="Acme">
  <style>body { color: red }</style>
  <script>var tracking = true;</script>
</head>
<body>
  <header><nav><a href="/">Home</a> <a href="#top">Top</a></nav></header>
  <h1>Big   Savings</h1>
  <p>Everything is <b>50% off</b> this week.</p>
  <h2>Categories</h2>
  <ul><li><a href="/shoes">Shoes</a></li><li><a href="/shoes#sizes">Shoes again</a></li><li><a href="mailto:a@b.c">Mail</a></li></ul>
  <h4>Not collected</h4>
  <footer>Copyright Acme</footer>
</body>
</html>`

func TestParsePage(t *testing.T) {
	got, err := ParsePage("https://shop.example.com/sale", []byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/sale", got.URL)
	assert.Equal(t, "Spring Sale", got.Title)
	assert.Equal(t, "OG description", got.Description)
	assert.Equal(t, "https://shop.example.com/img/hero.png", got.Image)
	assert.Equal(t, "Acme", got.SiteName)
	assert.Equal(t, []Heading{{Level: 1, Text: "Big Savings"}, {Level: 2, Text: "Categories"}}, got.Headings)
	assert.Equal(t, []Link{
		{URL: "https://shop.example.com/", Text: "Home"},
		{URL: "https://shop.example.com/shoes", Text: "Shoes"},
	}, got.Links)

	assert.Contains(t, got.Text, "Everything is 50% off this week.")
	assert.Contains(t, got.Text, "Big Savings")
	assert.NotContains(t, got.Text, "tracking")
	assert.NotContains(t, got.Text, "color: red")
	assert.NotContains(t, got.Text, "Copyright")
	assert.NotContains(t, got.Text, "Home")
}

func TestParsePage_Fallbacks(t *testing.T) {
	page := `<html><head><meta property="og:title" content="OG Title"><meta name="description" content="Desc"></head><body>hi</body></html>`
	got, err := ParsePage("https://example.com", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, "OG Title", got.Title)
	assert.Equal(t, "Desc", got.Description)
	assert.Equal(t, "", got.Image)
	assert.Empty(t, got.Links)
	assert.Equal(t, "hi", got.Text)
}

func TestParsePage_Limits(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := range maxLinks + 10 {
		b.WriteString(`<a href="/p/`)
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(`">l</a>`)
	}
	b.WriteString("<p>")
	b.WriteString(strings.Repeat("word ", maxTextRunes))
	b.WriteString("</p></body></html>")

	got, err := ParsePage("https://example.com", []byte(b.String()))
	require.NoError(t, err)
	assert.Len(t, got.Links, maxLinks)
	assert.True(t, strings.HasSuffix(got.Text, "…"))
	assert.LessOrEqual(t, len([]rune(got.Text)), maxTextRunes+1)
}

func TestScrapeURL(t *testing.T) {
	var hits atomic.Int32
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(samplePage))
		case "/data.bin":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte{0, 1, 2})
		default:
			http.NotFound(w, r)
		}
	}))
	defer site.Close()

	fc := fetch.New(fetch.WithPrivateNetworks(), fetch.WithRetry(fastRetry), fetch.WithCache(cache.NewMemoryCache(), time.Hour))
	s := New(answer("{}", nil), fc, config.Default().Functions)

	rec, out := call(t, s, ScrapeURL, http.MethodPost, `{"url":"`+site.URL+`/page"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Spring Sale", out["title"])
	assert.Equal(t, site.URL+"/img/hero.png", out["image"])

	call(t, s, ScrapeURL, http.MethodPost, `{"url":"`+site.URL+`/page"}`)
	assert.Equal(t, int32(1), hits.Load(), "second scrape should come from cache")

	call(t, s, ScrapeURL, http.MethodPost, `{"url":"`+site.URL+`/page","refresh":true}`)
	assert.Equal(t, int32(2), hits.Load())

	rec, out = call(t, s, ScrapeURL, http.MethodPost, `{"url":"`+site.URL+`/missing"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, out["error"], "page not found")

	rec, _ = call(t, s, ScrapeURL, http.MethodPost, `{"url":"`+site.URL+`/data.bin"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestScrapeURL_Invalid(t *testing.T) {
	s := newTestService(answer("{}", nil), nil)
	for _, body := range []string{`{}`, `{"url":"javascript:alert(1)"}`, `{"url":"https://"}`} {
		rec, out := call(t, s, ScrapeURL, http.MethodPost, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.NotEmpty(t, out["error"])
	}
}

func TestScrapeURL_PrivateAddress(t *testing.T) {
	var hits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<title>admin</title>"))
	}))
	defer internal.Close()

	s := New(answer("{}", nil), fetch.New(fetch.WithRetry(fastRetry)), config.Default().Functions)
	rec, out := call(t, s, ScrapeURL, http.MethodPost, `{"url":"`+internal.URL+`","refresh":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, out["error"], "public address")
	assert.NotContains(t, rec.Body.String(), "admin")
	assert.Equal(t, int32(0), hits.Load())
}
