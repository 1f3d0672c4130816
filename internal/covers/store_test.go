package covers_test

import (
	"os"
	"strings"
	"testing"

	"biblioteca/internal/covers"
	"biblioteca/pkg/apperr"
)

func TestSaveAndResolve(t *testing.T) {
	store := covers.NewStore(t.TempDir())

	ref, err := store.Save("portada.PNG", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(ref, "covers://") {
		t.Fatalf("Expected covers:// reference, got %q", ref)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("Extension should be lowercased, got %q", ref)
	}

	path, err := store.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("Stored bytes mismatch: %q", data)
	}
}

func TestSaveUnknownExtensionDefaultsToJpg(t *testing.T) {
	store := covers.NewStore(t.TempDir())

	ref, err := store.Save("upload.exe", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("Unknown extension should map to .jpg, got %q", ref)
	}
}

func TestResolveRejectsForeignRefs(t *testing.T) {
	store := covers.NewStore(t.TempDir())

	for _, ref := range []string{
		"https://example.com/cover.jpg",
		"covers://",
		"covers://../secret.jpg",
		"covers://missing.jpg",
	} {
		if _, err := store.Resolve(ref); !apperr.IsNotFound(err) {
			t.Errorf("Resolve(%q) should be not found, got %v", ref, err)
		}
	}
}

func TestRemove(t *testing.T) {
	store := covers.NewStore(t.TempDir())

	ref, err := store.Save("a.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Remove(ref); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Resolve(ref); !apperr.IsNotFound(err) {
		t.Errorf("Removed cover should not resolve, got %v", err)
	}
	if err := store.Remove("https://example.com/cover.jpg"); err != nil {
		t.Errorf("External URL removal should be a no-op, got %v", err)
	}
}
