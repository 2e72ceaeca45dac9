package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	inner := errors.New("no rows")
	err := Wrap(ErrStorage, "store", "insert movie", "tt0000001", inner)

	if !errors.Is(err, ErrStorage) {
		t.Error("wrapped error should match ErrStorage")
	}
	if !errors.Is(err, inner) {
		t.Error("wrapped error should match the inner error")
	}
	want := "storage failure: store: insert movie: tt0000001: no rows"
	if err.Error() != want {
		t.Errorf("error text = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "omdb", "lookup", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Error("nil marker should default to ErrTransient")
	}
}
