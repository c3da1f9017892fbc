package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><head><title>download.bls.gov - /pub/time.series/ap/</title></head>
<body><h1>download.bls.gov - /pub/time.series/ap/</h1><hr>
<pre><a href="/pub/time.series/">[To Parent Directory]</a><br><br>
 9/18/2024  8:30 AM        27252 <a href="/pub/time.series/ap/ap.area">ap.area</a><br>
 9/18/2024  8:30 AM     31284070 <a href="/pub/time.series/ap/ap.data.0.Current">ap.data.0.Current</a><br>
 9/18/2024  8:30 AM         1731 <a href="/pub/time.series/ap/ap.item">ap.item</a><br>
 <a>no href</a>
</pre><hr></body></html>`

func TestExtractLinks(t *testing.T) {
	links, err := ExtractLinks([]byte(listingHTML))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/pub/time.series/",
		"/pub/time.series/ap/ap.area",
		"/pub/time.series/ap/ap.data.0.Current",
		"/pub/time.series/ap/ap.item",
	}, links)
}

func TestListingMatch(t *testing.T) {
	links, err := ExtractLinks([]byte(listingHTML))
	require.NoError(t, err)
	l := &Listing{URL: "https://download.bls.gov/pub/time.series/ap/", Links: links}

	href, ok := l.Match("ap.item")
	assert.True(t, ok)
	assert.Equal(t, "/pub/time.series/ap/ap.item", href)

	// Substring matching picks the first link containing the name.
	href, ok = l.Match("ap.data.0")
	assert.True(t, ok)
	assert.Equal(t, "/pub/time.series/ap/ap.data.0.Current", href)

	_, ok = l.Match("ap.footnote")
	assert.False(t, ok)
}

func TestListingFileURL(t *testing.T) {
	assert.Equal(t, "https://x/ap/ap.item", (&Listing{URL: "https://x/ap/"}).FileURL("ap.item"))
	assert.Equal(t, "https://x/ap/ap.item", (&Listing{URL: "https://x/ap"}).FileURL("ap.item"))
}
