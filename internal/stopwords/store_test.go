package stopwords

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"stopword_bot/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.File) {
	t.Helper()
	backend, err := storage.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	return New(backend, slog.New(slog.NewTextHandler(io.Discard, nil))), backend
}

type failingBackend struct {
	loadErr error
	saveErr error
}

func (f *failingBackend) LoadStopwords(context.Context, int64) ([]string, bool, error) {
	return []string{"spam"}, true, f.loadErr
}

func (f *failingBackend) SaveStopwords(context.Context, int64, []string) error {
	return f.saveErr
}

func (f *failingBackend) Close() error { return nil }

// flakyBackend holds one list per chat and fails the next failLoads reads.
type flakyBackend struct {
	mu        sync.Mutex
	lists     map[int64][]string
	failLoads int
	saves     int
}

func (f *flakyBackend) LoadStopwords(_ context.Context, chatID int64) ([]string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLoads > 0 {
		f.failLoads--
		return nil, false, errors.New("database is locked")
	}
	words, ok := f.lists[chatID]
	return append([]string{}, words...), ok, nil
}

func (f *flakyBackend) SaveStopwords(_ context.Context, chatID int64, words []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.lists[chatID] = append([]string{}, words...)
	return nil
}

func (f *flakyBackend) Close() error { return nil }

func TestLoadCreatesEmptyList(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	got := s.Load(ctx, 42)
	if diff := cmp.Diff([]string{}, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	stored, found, err := backend.LoadStopwords(ctx, 42)
	if err != nil {
		t.Fatalf("backend load: %v", err)
	}
	if !found {
		t.Error("expected empty list to be persisted on first access")
	}
	if diff := cmp.Diff([]string{}, stored); diff != "" {
		t.Errorf("persisted list mismatch (-want +got):\n%s", diff)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	added, err := s.Add(ctx, 1, "Spam")
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if !added {
		t.Error("first add should report newly added")
	}

	added, err = s.Add(ctx, 1, "SPAM")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if added {
		t.Error("second add should report already present")
	}

	if diff := cmp.Diff([]string{"spam"}, s.Load(ctx, 1)); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestAddPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, w := range []string{"cat", "category", "dog"} {
		if _, err := s.Add(ctx, 1, w); err != nil {
			t.Fatalf("add %q: %v", w, err)
		}
	}
	if diff := cmp.Diff([]string{"cat", "category", "dog"}, s.Load(ctx, 1)); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("missing word is a no-op", func(t *testing.T) {
		s, _ := newTestStore(t)
		if _, err := s.Add(ctx, 1, "keep"); err != nil {
			t.Fatalf("add: %v", err)
		}
		removed, err := s.Remove(ctx, 1, "absent")
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if removed {
			t.Error("remove of absent word should report not present")
		}
		if diff := cmp.Diff([]string{"keep"}, s.Load(ctx, 1)); diff != "" {
			t.Errorf("list changed (-want +got):\n%s", diff)
		}
	})

	t.Run("present word is removed case-insensitively", func(t *testing.T) {
		s, _ := newTestStore(t)
		for _, w := range []string{"a", "b", "c"} {
			if _, err := s.Add(ctx, 1, w); err != nil {
				t.Fatalf("add %q: %v", w, err)
			}
		}
		removed, err := s.Remove(ctx, 1, "B")
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if !removed {
			t.Error("expected removal")
		}
		if diff := cmp.Diff([]string{"a", "c"}, s.Load(ctx, 1)); diff != "" {
			t.Errorf("list mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestEmptyWordRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.Add(ctx, 1, "   "); !errors.Is(err, ErrEmptyWord) {
		t.Errorf("Add() error = %v, want ErrEmptyWord", err)
	}
	if _, err := s.Remove(ctx, 1, ""); !errors.Is(err, ErrEmptyWord) {
		t.Errorf("Remove() error = %v, want ErrEmptyWord", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	tests := []struct {
		name  string
		words []string
	}{
		{name: "empty", words: []string{}},
		{name: "ordered", words: []string{"zz", "aa", "mm"}},
		{name: "unicode", words: []string{"слово", "日本"}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatID := int64(i + 10)
			if err := s.Save(ctx, chatID, tt.words); err != nil {
				t.Fatalf("save: %v", err)
			}
			if diff := cmp.Diff(tt.words, s.Load(ctx, chatID)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBackendErrors(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("load error fails open to empty list", func(t *testing.T) {
		s := New(&failingBackend{loadErr: errors.New("disk on fire")}, log)
		if diff := cmp.Diff([]string{}, s.Load(ctx, 1)); diff != "" {
			t.Errorf("Load() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("load error aborts add without overwriting", func(t *testing.T) {
		backend := &flakyBackend{
			lists:     map[int64][]string{1: {"spam", "scam", "casino"}},
			failLoads: 1,
		}
		s := New(backend, log)

		added, err := s.Add(ctx, 1, "new")
		if err == nil {
			t.Fatal("Add() error = nil, want load error")
		}
		if added {
			t.Error("failed load should not report added")
		}
		if diff := cmp.Diff(0, backend.saves); diff != "" {
			t.Errorf("saves (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"spam", "scam", "casino"}, s.Load(ctx, 1)); diff != "" {
			t.Errorf("stored words (-want +got):\n%s", diff)
		}
	})

	t.Run("load error aborts remove", func(t *testing.T) {
		backend := &flakyBackend{
			lists:     map[int64][]string{1: {"spam", "scam"}},
			failLoads: 1,
		}
		s := New(backend, log)

		removed, err := s.Remove(ctx, 1, "spam")
		if err == nil {
			t.Fatal("Remove() error = nil, want load error")
		}
		if removed {
			t.Error("failed load should not report removed")
		}
		if diff := cmp.Diff([]string{"spam", "scam"}, s.Load(ctx, 1)); diff != "" {
			t.Errorf("stored words (-want +got):\n%s", diff)
		}
	})

	t.Run("save error is returned", func(t *testing.T) {
		saveErr := errors.New("read-only filesystem")
		s := New(&failingBackend{saveErr: saveErr}, log)
		added, err := s.Add(ctx, 1, "new")
		if !errors.Is(err, saveErr) {
			t.Errorf("Add() error = %v, want %v", err, saveErr)
		}
		if added {
			t.Error("failed save should not report added")
		}
	})
}

func TestConcurrentAddsSameChat(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Add(ctx, 7, fmt.Sprintf("word%d", i)); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	if diff := cmp.Diff(n, len(s.Load(ctx, 7))); diff != "" {
		t.Errorf("lost updates (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(0, s.locks.size()); diff != "" {
		t.Errorf("chat locks leaked (-want +got):\n%s", diff)
	}
}

func TestConcurrentAddsSameWord(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	const n = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Add(ctx, 3, "dup")
			if err != nil {
				t.Errorf("add: %v", err)
				return
			}
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if diff := cmp.Diff(1, added); diff != "" {
		t.Errorf("newly-added count (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"dup"}, s.Load(ctx, 3)); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestDifferentChatsDoNotBlock(t *testing.T) {
	s, _ := newTestStore(t)

	unlockA := s.locks.lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		_ = s.Load(context.Background(), 2)
		close(done)
	}()
	<-done
}
