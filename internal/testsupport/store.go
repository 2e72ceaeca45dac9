package testsupport

import (
	"context"
	"testing"

	"filmtrend/internal/config"
	"filmtrend/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// InsertMovie adds a movie row for tests using the provided store.
func InsertMovie(t testing.TB, st *store.Store, id, title string) {
	t.Helper()

	if _, err := st.InsertMovie(context.Background(), &store.Movie{ID: id, Title: title}); err != nil {
		t.Fatalf("store.InsertMovie: %v", err)
	}
}
