package feeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedLinks fetches and parses the RSS/Atom feed at feedURL and returns the
// item links in feed order. At most maxItems links are returned when
// maxItems is positive.
func (f *Fetcher) FeedLinks(ctx context.Context, feedURL string, maxItems int) ([]string, error) {
	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", feedURL, err)
	}

	return itemLinks(feed, maxItems), nil
}

// itemLinks collects the non-empty, unique item links of a feed. Items
// without a link are skipped.
func itemLinks(feed *gofeed.Feed, maxItems int) []string {
	seen := make(map[string]bool)
	var links []string
	for _, item := range feed.Items {
		if maxItems > 0 && len(links) >= maxItems {
			break
		}
		link := strings.TrimSpace(item.Link)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}
	return links
}
