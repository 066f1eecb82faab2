package feeds

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Mode selects how a fetched page is turned into summarizer input.
type Mode string

const (
	// ModeRaw passes the response body through unchanged.
	ModeRaw Mode = "raw"
	// ModeText strips markup and returns the visible page text.
	ModeText Mode = "text"
	// ModeReadability returns the main article text found by go-readability.
	ModeReadability Mode = "readability"
)

// ParseMode validates a mode name from configuration.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeRaw, ModeText, ModeReadability:
		return m, nil
	case "":
		return ModeRaw, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q: must be \"raw\", \"text\" or \"readability\"", s)
	}
}

var errNoContent = errors.New("no readable content")

// extract converts a page body into content according to mode.
func extract(mode Mode, body, pageURL string) (string, error) {
	switch mode {
	case ModeRaw, "":
		return body, nil
	case ModeText:
		return extractText(body)
	case ModeReadability:
		return extractReadable(body, pageURL)
	default:
		return "", fmt.Errorf("unknown fetch mode %q", mode)
	}
}

// extractText returns the visible text of an HTML document with scripts and
// styles removed and whitespace collapsed.
func extractText(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	text := collapseSpace(doc.Find("body").Text())
	if text == "" {
		text = collapseSpace(doc.Text())
	}
	if text == "" {
		return "", errNoContent
	}
	return text, nil
}

// extractReadable returns the main readable text of an HTML document using
// go-readability.
func extractReadable(body, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing page URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(body), u)
	if err != nil {
		return "", fmt.Errorf("readability extraction: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", errNoContent
	}
	return text, nil
}

// collapseSpace joins the whitespace-delimited fields of s with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateWords returns the first maxWords whitespace-delimited words from s.
// If s contains fewer than maxWords words, it is returned unchanged.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}

// countWords counts words in text. Punctuation separates words like
// whitespace does, so "산불,지진" counts as two.
func countWords(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(".,;:!?\"'()[]{}", r)
	}))
}
