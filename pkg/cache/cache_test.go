package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory(10, time.Minute)
	ctx := context.Background()

	if err := m.Put(ctx, "k", []byte("doc")); err != nil {
		t.Fatal(err)
	}

	doc, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(doc) != "doc" {
		t.Errorf("doc = %q, want %q", doc, "doc")
	}
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory(10, time.Minute)
	if _, ok, _ := m.Get(context.Background(), "absent"); ok {
		t.Error("hit on absent key")
	}
	hits, misses := m.Stats()
	if hits != 0 || misses != 1 {
		t.Errorf("stats = %d/%d, want 0/1", hits, misses)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(10, time.Millisecond)
	ctx := context.Background()

	m.Put(ctx, "k", []byte("doc"))
	time.Sleep(5 * time.Millisecond)

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("expired entry served")
	}
}

func TestMemoryEvictsOldestAtCapacity(t *testing.T) {
	m := NewMemory(2, time.Minute)
	ctx := context.Background()

	m.Put(ctx, "first", []byte("1"))
	time.Sleep(time.Millisecond)
	m.Put(ctx, "second", []byte("2"))
	m.Put(ctx, "third", []byte("3"))

	if _, ok, _ := m.Get(ctx, "first"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok, _ := m.Get(ctx, "third"); !ok {
		t.Error("newest entry evicted")
	}
}

func TestMemoryInvalidate(t *testing.T) {
	m := NewMemory(10, time.Minute)
	ctx := context.Background()

	m.Put(ctx, "k", []byte("doc"))
	m.Invalidate(ctx, "k")

	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("invalidated entry served")
	}
}

func TestKeyTracksContentAndTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	light, err := Key(path, "light")
	if err != nil {
		t.Fatal(err)
	}
	dark, err := Key(path, "dark")
	if err != nil {
		t.Fatal(err)
	}
	if light == dark {
		t.Error("theme change did not change the key")
	}

	again, _ := Key(path, "light")
	if again != light {
		t.Error("key not stable for unchanged content")
	}

	if err := os.WriteFile(path, []byte("a,b\n9,9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	changed, _ := Key(path, "light")
	if changed == light {
		t.Error("content change did not change the key")
	}
}
