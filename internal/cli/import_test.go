package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>재난 속보</title>
  <link>https://news.example</link>
  <description>test feed</description>
  <item><title>산불</title><link>https://news.example/fire</link></item>
  <item><title>지진</title><link>https://news.example/quake</link></item>
  <item><title>산불 (중복)</title><link>https://news.example/fire</link></item>
</channel>
</rss>`

func TestImport_AddsNewLinksOnce(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer feed.Close()

	configPath := writeConfig(t, "", "")

	out, err := executeRoot(t, "--config", configPath, "import", "--feed", feed.URL, "--collection", "disasters")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 new of 2 links")

	out, err = executeRoot(t, "--config", configPath, "import", "--feed", feed.URL, "--collection", "disasters")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 new of 2 links")

	articles, err := openTestStore(t, configPath).ListArticles(context.Background(), "disasters")
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "https://news.example/fire", articles[0].URL)
	assert.Equal(t, "https://news.example/quake", articles[1].URL)
	assert.Nil(t, articles[0].Summary)
}

func TestImport_FeedFailure(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer feed.Close()

	configPath := writeConfig(t, "", "")

	_, err := executeRoot(t, "--config", configPath, "import", "--feed", feed.URL)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
