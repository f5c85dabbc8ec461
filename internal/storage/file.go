package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// File implements Storage with one JSON document per chat inside a directory.
type File struct {
	dir string
}

// NewFile creates the directory if needed and returns a file-backed Storage.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create stopwords dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// Close is a no-op; files are opened per operation.
func (f *File) Close() error {
	return nil
}

// Path returns the record location for chatID.
func (f *File) Path(chatID int64) string {
	return filepath.Join(f.dir, "stopwords_"+strconv.FormatInt(chatID, 10)+".json")
}

// LoadStopwords reads the chat's document. A missing file is not an error.
func (f *File) LoadStopwords(_ context.Context, chatID int64) ([]string, bool, error) {
	data, err := os.ReadFile(f.Path(chatID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read stopwords file: %w", err)
	}
	words, err := decodeDocument(data)
	if err != nil {
		return nil, true, err
	}
	return words, true, nil
}

// SaveStopwords writes the document to a temporary file and renames it over
// the previous one, so readers see either the old or the new list.
func (f *File) SaveStopwords(_ context.Context, chatID int64, words []string) error {
	data, err := encodeDocument(words)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".stopwords_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path(chatID)); err != nil {
		return fmt.Errorf("replace stopwords file: %w", err)
	}
	return nil
}
