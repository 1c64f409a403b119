package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/daskousik/blog-api/internal/core/domain"
)

func newStore(t *testing.T) (*ImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewImageStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, dir
}

func TestImageStore_SaveAndRemove(t *testing.T) {
	store, dir := newStore(t)

	stored, err := store.Save(strings.NewReader("content"), "photo.PNG")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(stored, filepath.Base(dir)+"/") {
		t.Fatalf("stored path %q not under the store prefix", stored)
	}
	if !strings.HasSuffix(stored, ".png") {
		t.Fatalf("extension not normalized: %q", stored)
	}

	full := filepath.Join(dir, filepath.Base(stored))
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	store.Remove(stored)
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("file not removed, stat err: %v", err)
	}
}

func TestImageStore_UniqueNames(t *testing.T) {
	store, _ := newStore(t)

	a, err := store.Save(strings.NewReader("a"), "same.png")
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	b, err := store.Save(strings.NewReader("b"), "same.png")
	if err != nil {
		t.Fatalf("save b: %v", err)
	}
	if a == b {
		t.Fatalf("expected unique stored names, both %q", a)
	}
}

func TestImageStore_RemoveIsBestEffort(t *testing.T) {
	store, _ := newStore(t)

	// none of these may panic or touch anything outside the store
	store.Remove("")
	store.Remove(domain.NoImagePlaceholder)
	store.Remove("images/does-not-exist.png")
}

func TestImageStore_RemoveIgnoresTraversal(t *testing.T) {
	store, dir := newStore(t)

	outside := filepath.Join(filepath.Dir(dir), "outside.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatalf("seed outside file: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(outside) })

	store.Remove("../outside.txt")
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the store was deleted: %v", err)
	}
}
