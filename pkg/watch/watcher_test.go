package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	changed := make(chan string, 1)
	w.OnChange = func(p string) error {
		select {
		case changed <- p:
		default:
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watch loop a moment before mutating the file.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("a,b\n9,9\n3,4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		if filepath.Base(p) != "data.csv" {
			t.Errorf("changed path = %s", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change callback never fired")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	changed := make(chan string, 1)
	w.OnChange = func(p string) error {
		changed <- p
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		t.Errorf("callback fired for sibling file: %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherMissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.csv"), 0); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
