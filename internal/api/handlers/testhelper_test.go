package handlers

import (
	"context"
	"testing"

	"github.com/hoanghai1803/newsbrief/internal/storage"
)

const testCollection = "news2"

// newTestStore creates an in-memory SQLite store holding the test
// collection with the given URLs. The database is closed when the test
// completes.
func newTestStore(t *testing.T, urls ...string) *storage.Store {
	t.Helper()

	db, err := storage.OpenDatabase(storage.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := storage.NewStore(db, storage.Options{})
	ctx := context.Background()
	if err := store.EnsureCollection(ctx, testCollection); err != nil {
		t.Fatalf("creating collection: %v", err)
	}
	for _, u := range urls {
		if _, err := store.AddArticle(ctx, testCollection, u); err != nil {
			t.Fatalf("adding article %q: %v", u, err)
		}
	}

	return store
}
