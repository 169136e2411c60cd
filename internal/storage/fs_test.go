package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSStorePutGet(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	key, err := s.Put("quizzes/q1/raw.json", strings.NewReader(`{"quiz":[]}`))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "quizzes/q1/raw.json" {
		t.Fatalf("key = %q", key)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != `{"quiz":[]}` {
		t.Fatalf("content = %q", b)
	}
}

func TestFSStoreKeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "blobs")
	s, err := NewFSStore(base)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	key, err := s.Put("../../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "escape.txt" {
		t.Fatalf("key = %q", key)
	}
	if _, err := os.Stat(filepath.Join(base, "escape.txt")); err != nil {
		t.Fatalf("expected blob inside root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); err == nil {
		t.Fatalf("blob escaped the store root")
	}
}

func TestFSStoreEmptyKey(t *testing.T) {
	s, _ := NewFSStore(t.TempDir())
	if _, err := s.Put("", strings.NewReader("x")); !errors.Is(err, ErrBadKey) {
		t.Fatalf("expected ErrBadKey, got %v", err)
	}
	if _, err := s.Get("/"); !errors.Is(err, ErrBadKey) {
		t.Fatalf("expected ErrBadKey, got %v", err)
	}
}
