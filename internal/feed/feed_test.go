package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litwatch/research-digest/internal/config"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>pubmed: nk cell therapy</title>
  <link>https://pubmed.ncbi.nlm.nih.gov/</link>
  <description>NK cell therapy search</description>
  <item>
    <title>CAR-NK cells in relapsed lymphoma</title>
    <link>https://pubmed.ncbi.nlm.nih.gov/1/</link>
    <guid isPermaLink="false">pubmed:1</guid>
    <pubDate>Thu, 13 Mar 2025 06:00:00 +0000</pubDate>
    <content:encoded><![CDATA[<p><b>Background:</b> Natural killer cells engineered with CAR constructs.</p><script>alert(1)</script><p>Results   were durable.</p>]]></content:encoded>
    <dc:identifier>pmid:1</dc:identifier>
    <dc:identifier>doi:10.1000/one</dc:identifier>
  </item>
  <item>
    <title>Exactly on the boundary</title>
    <link>https://pubmed.ncbi.nlm.nih.gov/2/</link>
    <guid isPermaLink="false">pubmed:2</guid>
    <pubDate>Fri, 07 Mar 2025 12:00:00 +0000</pubDate>
    <description>Description used when no content is present.</description>
  </item>
  <item>
    <title>Too old</title>
    <guid isPermaLink="false">pubmed:3</guid>
    <pubDate>Fri, 07 Mar 2025 11:59:59 +0000</pubDate>
    <description>old</description>
  </item>
  <item>
    <title>No date</title>
    <guid isPermaLink="false">pubmed:4</guid>
    <description>undated</description>
  </item>
  <item>
    <title>Duplicate of the first</title>
    <pubDate>Wed, 12 Mar 2025 06:00:00 +0000</pubDate>
    <description>dup</description>
    <dc:identifier>doi:10.1000/one</dc:identifier>
  </item>
  <item>
    <title>Caf` + "é" + ` study</title>
    <link>https://example.org/5</link>
    <pubDate>Wed, 12 Mar 2025 06:00:00 +0000</pubDate>
    <description>plain</description>
  </item>
</channel>
</rss>`

func TestParse_Window(t *testing.T) {
	items, err := Parse(strings.NewReader(rssDoc), testNow, 7, true)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "CAR-NK cells in relapsed lymphoma", items[0].Title)
	assert.Equal(t, "Exactly on the boundary", items[1].Title)
	assert.Equal(t, "Café study", items[2].Title, "titles are NFC-normalized")
}

func TestParse_FieldMapping(t *testing.T) {
	items, err := Parse(strings.NewReader(rssDoc), testNow, 7, true)
	require.NoError(t, err)
	require.Len(t, items, 3)

	first := items[0]
	assert.Equal(t, "doi:10.1000/one", first.Identifier, "doi identifier preferred")
	assert.Equal(t, "Background: Natural killer cells engineered with CAR constructs. Results were durable.", first.Body)
	assert.Equal(t, time.Date(2025, 3, 13, 6, 0, 0, 0, time.UTC), first.Published.UTC())

	second := items[1]
	assert.Equal(t, "pubmed:2", second.Identifier, "guid fallback")
	assert.Equal(t, "Description used when no content is present.", second.Body)

	assert.Equal(t, "https://example.org/5", items[2].Identifier, "link fallback")
}

func TestParse_KeepsHTMLWhenDisabled(t *testing.T) {
	items, err := Parse(strings.NewReader(rssDoc), testNow, 7, false)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Contains(t, items[0].Body, "<p>")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("not a feed"), testNow, 7, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed: parse")
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssDoc))
	}))
	defer srv.Close()

	c := New(config.FeedConfig{URL: srv.URL, LookbackDays: 7, StripHTML: true, TimeoutSecs: 5},
		WithClock(func() time.Time { return testNow }))

	items, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestClient_FetchLongerLookback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssDoc))
	}))
	defer srv.Close()

	c := New(config.FeedConfig{URL: srv.URL, LookbackDays: 30},
		WithClock(func() time.Time { return testNow }),
		WithHTTPClient(srv.Client()))

	items, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 4, "the old entry is inside a 30 day window")
}

func TestClient_FetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(config.FeedConfig{URL: srv.URL, LookbackDays: 7})

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed: fetch")
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<p>Hello <i>world</i></p>", "Hello world"},
		{"plain   text\n with  breaks", "plain text with breaks"},
		{"<style>p{}</style><div>A &amp; B</div>", "A & B"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripHTML(tt.in))
	}
}
