package stats

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ansel1/merry"
)

// Listing is a directory listing page on the BLS download server, e.g.
// https://download.bls.gov/pub/time.series/ap/
type Listing struct {
	URL   string
	Links []string
}

// FetchListing downloads the listing page once and collects every hyperlink
// target in document order.
func (c *Client) FetchListing(ctx context.Context, listingURL string) (*Listing, error) {
	html, err := c.Get(ctx, listingURL)
	if err != nil {
		return nil, merry.Prepend(err, "fetch listing")
	}

	links, err := ExtractLinks(html)
	if err != nil {
		return nil, merry.Prepend(err, "parse listing")
	}
	return &Listing{URL: listingURL, Links: links}, nil
}

// ExtractLinks returns the href of every anchor in html.
func ExtractLinks(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links, nil
}

// Match returns the first link containing name as a substring.
//
// A name that is a substring of another file's link can match the wrong
// one, e.g. "ap.data.0" would match "ap.data.0.Current". Keep names exact.
func (l *Listing) Match(name string) (string, bool) {
	for _, href := range l.Links {
		if strings.Contains(href, name) {
			return href, true
		}
	}
	return "", false
}

// FileURL returns the download URL of a file published under the listing.
func (l *Listing) FileURL(name string) string {
	if strings.HasSuffix(l.URL, "/") {
		return l.URL + name
	}
	return l.URL + "/" + name
}
