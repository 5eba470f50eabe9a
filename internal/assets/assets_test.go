package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		root, path, want string
	}{
		{"", "models/cube.obj", "models/cube.obj"},
		{"assets", "models/cube.obj", filepath.Join("assets", "models", "cube.obj")},
		{"http://host/assets/", "models/cube.obj", "http://host/assets/models/cube.obj"},
		{"https://host", "/textures/sun.png", "https://host/textures/sun.png"},
		{"assets", "https://cdn/sun.png", "https://cdn/sun.png"},
	}

	for _, tt := range tests {
		m := NewManager(tt.root)
		if got := m.Resolve(tt.path); got != tt.want {
			t.Errorf("Resolve(%q) with root %q = %q, want %q", tt.path, tt.root, got, tt.want)
		}
	}
}

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "textures/a.txt", "hello")

	m := NewManager(dir)
	for i := 0; i < 2; i++ {
		data, err := m.Fetch(context.Background(), "textures/a.txt")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("Fetch = %q, want hello", data)
		}
	}

	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d and %d", hits, misses)
	}
	if m.Cache().Size() != 5 {
		t.Errorf("expected 5 cached bytes, got %d", m.Cache().Size())
	}

	m.Close()
	if m.Cache().Size() != 0 {
		t.Error("expected empty cache after Close")
	}
}

func TestFetchFileNotFound(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Fetch(context.Background(), "missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewManager(dir).Fetch(ctx, "a.txt"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFetchHTTP(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/assets/sun.png":
			w.Write([]byte("png"))
		case "/assets/broken.png":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewManager(srv.URL + "/assets")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		data, err := m.Fetch(ctx, "sun.png")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(data) != "png" {
			t.Errorf("Fetch = %q, want png", data)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected 1 request through the cache, got %d", n)
	}

	if _, err := m.Fetch(ctx, "missing.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := m.Fetch(ctx, "broken.png"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected server error, got %v", err)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	c.Set("a", []byte("12345"))
	c.Set("a", []byte("12"))
	if c.Size() != 2 {
		t.Errorf("expected size 2 after replace, got %d", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("unexpected hit for b")
	}
	if data, ok := c.Get("a"); !ok || string(data) != "12" {
		t.Errorf("Get(a) = %q, %v", data, ok)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1/1, got %d/%d", hits, misses)
	}
}
