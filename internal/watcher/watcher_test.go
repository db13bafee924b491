package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestInbox_ingestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	var seen []string
	onFile := func(path string) {
		mu.Lock()
		seen = append(seen, path)
		mu.Unlock()
	}

	in := NewInbox(dir, []string{".txt"}, onFile, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := in.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()

	path := filepath.Join(dir, "rfp.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, 3*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == path
	})
	if !ok {
		t.Errorf("dropped file was not ingested: %v", seen)
	}
}

func TestInbox_extensionFilter(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	var seen []string
	onFile := func(path string) {
		mu.Lock()
		seen = append(seen, path)
		mu.Unlock()
	}

	in := NewInbox(dir, []string{".pdf"}, onFile, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := in.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(time.Second)
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 0 {
		t.Errorf("filtered extension should not be ingested: %v", seen)
	}
}

func TestInbox_ingestsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "already-there.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var seen []string
	onFile := func(p string) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	}

	in := NewInbox(dir, nil, onFile, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := in.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()

	ok := waitFor(t, 3*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == path
	})
	if !ok {
		t.Errorf("existing file should be ingested on start: %v", seen)
	}
}

func TestInbox_createsMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	in := NewInbox(dir, nil, func(string) {}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := in.Start(ctx); err != nil {
		t.Fatalf("Start should create the inbox directory: %v", err)
	}
	defer in.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("inbox directory should exist: %v", err)
	}
}
