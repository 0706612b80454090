package crawler

import (
	"encoding/xml"
	"fmt"
)

// RSS is the root element of an RSS 2.0 document.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

// Channel carries the feed title and its items.
type Channel struct {
	Title string `xml:"title"`
	Items []Item `xml:"item"`
}

// Item is one publication from the feed.
type Item struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Link        string `xml:"link"`
}

// ParseRSS decodes an RSS document.
func ParseRSS(data []byte) (*RSS, error) {
	var rss RSS
	if err := xml.Unmarshal(data, &rss); err != nil {
		return nil, fmt.Errorf("failed to decode RSS: %w", err)
	}

	return &rss, nil
}
