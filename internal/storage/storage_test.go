package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type backendFactory struct {
	name string
	open func(t *testing.T) Storage
}

func backends() []backendFactory {
	return []backendFactory{
		{
			name: "file",
			open: func(t *testing.T) Storage {
				t.Helper()
				f, err := NewFile(t.TempDir())
				if err != nil {
					t.Fatalf("new file storage: %v", err)
				}
				return f
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Storage {
				t.Helper()
				s, err := NewSQLite(":memory:")
				if err != nil {
					t.Fatalf("new sqlite: %v", err)
				}
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
	}
}

func TestLoadMissingRecord(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			words, found, err := s.LoadStopwords(ctx, 42)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if found {
				t.Error("expected found=false for unknown chat")
			}
			if len(words) != 0 {
				t.Errorf("expected no words, got %v", words)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		words []string
	}{
		{name: "empty list", words: []string{}},
		{name: "single word", words: []string{"spam"}},
		{name: "order preserved", words: []string{"zeta", "alpha", "mid"}},
		{name: "unicode verbatim", words: []string{"плохоеслово", "日本語", "café"}},
		{name: "html characters", words: []string{"<b>", "a&b"}},
	}

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			for i, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					chatID := int64(100 + i)
					if err := s.SaveStopwords(ctx, chatID, tt.words); err != nil {
						t.Fatalf("save: %v", err)
					}
					got, found, err := s.LoadStopwords(ctx, chatID)
					if err != nil {
						t.Fatalf("load: %v", err)
					}
					if !found {
						t.Fatal("expected found=true after save")
					}
					if diff := cmp.Diff(tt.words, got); diff != "" {
						t.Errorf("round trip mismatch (-want +got):\n%s", diff)
					}
				})
			}
		})
	}
}

func TestSaveReplacesList(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			if err := s.SaveStopwords(ctx, 1, []string{"a", "b", "c"}); err != nil {
				t.Fatalf("first save: %v", err)
			}
			if err := s.SaveStopwords(ctx, 1, []string{"d"}); err != nil {
				t.Fatalf("second save: %v", err)
			}
			got, _, err := s.LoadStopwords(ctx, 1)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff([]string{"d"}, got); diff != "" {
				t.Errorf("list not replaced (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChatsAreIsolated(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			if err := s.SaveStopwords(ctx, 1, []string{"one"}); err != nil {
				t.Fatalf("save chat 1: %v", err)
			}
			if err := s.SaveStopwords(ctx, -1002, []string{"two"}); err != nil {
				t.Fatalf("save chat -1002: %v", err)
			}
			got1, _, _ := s.LoadStopwords(ctx, 1)
			got2, _, _ := s.LoadStopwords(ctx, -1002)
			if diff := cmp.Diff([]string{"one"}, got1); diff != "" {
				t.Errorf("chat 1 (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"two"}, got2); diff != "" {
				t.Errorf("chat -1002 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileDocumentIsReadable(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	if err := f.SaveStopwords(ctx, 7, []string{"реклама"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stopwords_7.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"stopwords"`) {
		t.Errorf("document missing stopwords key:\n%s", content)
	}
	if !strings.Contains(content, "реклама") {
		t.Errorf("unicode should be stored verbatim, got:\n%s", content)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if diff := cmp.Diff(1, len(entries)); diff != "" {
		t.Errorf("temp files left behind (-want +got):\n%s", diff)
	}
}

func TestFileCorruptDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	if err := os.WriteFile(f.Path(9), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, _, err := f.LoadStopwords(ctx, 9); err == nil {
		t.Fatal("expected decode error for corrupt document")
	}
}
