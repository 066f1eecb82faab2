package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hoanghai1803/newsbrief/internal/storage"
)

// writeConfig writes a config file pointing the store at a SQLite file in a
// temp directory and the AI provider at aiURL. Override variables are
// cleared for the test.
func writeConfig(t *testing.T, aiURL, apiKey string) string {
	t.Helper()
	for _, key := range []string{"AI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "NEWSBRIEF_STORE_LOCATION"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	content := `
[ai]
provider = "openai"
api_key = "` + apiKey + `"
model = "gpt-4o-mini"
base_url = "` + aiURL + `"
timeout = "5s"

[store]
location = "` + filepath.ToSlash(filepath.Join(dir, "app.db")) + `"

[fetch]
timeout = "5s"

[log]
level = "error"
`
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// seedStore creates the collection in the database next to configPath and
// adds the given URLs.
func seedStore(t *testing.T, configPath, collection string, urls ...string) {
	t.Helper()

	db, err := storage.OpenDatabase(storage.DriverSQLite, dbPath(configPath))
	require.NoError(t, err)
	defer db.Close()

	store := storage.NewStore(db, storage.Options{})
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, collection))
	for _, u := range urls {
		_, err := store.AddArticle(ctx, collection, u)
		require.NoError(t, err)
	}
}

func dbPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "app.db")
}

// openTestStore reopens the database next to configPath for assertions.
func openTestStore(t *testing.T, configPath string) *storage.Store {
	t.Helper()

	db, err := storage.OpenDatabase(storage.DriverSQLite, dbPath(configPath))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewStore(db, storage.Options{})
}
