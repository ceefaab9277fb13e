package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := func(p string) (string, error) {
		data, err := os.ReadFile(p)
		return string(data), err
	}

	w := NewFileWatcher(path, loader, slog.Default(), WithDebounce[string](50*time.Millisecond))
	got := make(chan string, 1)
	w.OnReload(func(s string) { got <- s })

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-got:
		if s != "second" {
			t.Errorf("reloaded content = %q, want \"second\"", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within timeout")
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := func(p string) (string, error) { return "", nil }
	w := NewFileWatcher(path, loader, slog.Default())

	called := false
	unsub := w.OnReload(func(string) { called = true })
	unsub()
	w.reload()
	if called {
		t.Error("handler ran after unsubscribe")
	}
}

func TestWatcherErrorHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	loadErr := make(chan error, 1)
	loader := func(p string) (string, error) { return "", os.ErrNotExist }
	w := NewFileWatcher(path, loader, slog.Default(),
		WithErrorHandler[string](func(err error) { loadErr <- err }))

	w.reload()
	select {
	case err := <-loadErr:
		if err != os.ErrNotExist {
			t.Errorf("error = %v", err)
		}
	default:
		t.Error("error handler not called")
	}
}
