// Package stopwords manages the per-chat lists of banned substrings.
package stopwords

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"stopword_bot/internal/filter"
	"stopword_bot/internal/storage"
)

// ErrEmptyWord is returned when a word is blank after normalization.
var ErrEmptyWord = errors.New("stopword is empty")

// Store is the only owner of the stopword backend. Operations on the same
// chat are serialized; different chats never wait on each other.
type Store struct {
	backend storage.Storage
	locks   *chatLocks
	log     *slog.Logger
}

// New creates a Store over the given backend.
func New(backend storage.Storage, log *slog.Logger) *Store {
	return &Store{
		backend: backend,
		locks:   newChatLocks(),
		log:     log,
	}
}

// Load returns the chat's stopwords in insertion order. An unknown chat is
// materialized as an empty list and persisted. Backend errors are logged and
// reported as an empty list so moderation keeps running.
func (s *Store) Load(ctx context.Context, chatID int64) []string {
	unlock := s.locks.lock(chatID)
	defer unlock()

	words, err := s.load(ctx, chatID)
	if err != nil {
		s.log.Error("load stopwords", "chat_id", chatID, "error", err)
		return []string{}
	}
	return words
}

// Save replaces the chat's list in full.
func (s *Store) Save(ctx context.Context, chatID int64, words []string) error {
	unlock := s.locks.lock(chatID)
	defer unlock()

	return s.save(ctx, chatID, words)
}

// Add normalizes word and appends it unless already present. It reports
// whether the word was newly added.
func (s *Store) Add(ctx context.Context, chatID int64, word string) (bool, error) {
	word = filter.Normalize(word)
	if word == "" {
		return false, ErrEmptyWord
	}

	unlock := s.locks.lock(chatID)
	defer unlock()

	words, err := s.load(ctx, chatID)
	if err != nil {
		return false, err
	}
	if slices.Contains(words, word) {
		return false, nil
	}
	if err := s.save(ctx, chatID, append(words, word)); err != nil {
		return false, err
	}
	s.log.Info("stopword added", "chat_id", chatID, "word", word)
	return true, nil
}

// Remove normalizes word and deletes it if present. It reports whether a
// removal occurred.
func (s *Store) Remove(ctx context.Context, chatID int64, word string) (bool, error) {
	word = filter.Normalize(word)
	if word == "" {
		return false, ErrEmptyWord
	}

	unlock := s.locks.lock(chatID)
	defer unlock()

	words, err := s.load(ctx, chatID)
	if err != nil {
		return false, err
	}
	idx := slices.Index(words, word)
	if idx < 0 {
		return false, nil
	}
	if err := s.save(ctx, chatID, slices.Delete(words, idx, idx+1)); err != nil {
		return false, err
	}
	s.log.Info("stopword removed", "chat_id", chatID, "word", word)
	return true, nil
}

// load reads the chat's list, persisting an empty one for an unknown chat.
// Read errors are returned so mutations never overwrite an unreadable record.
func (s *Store) load(ctx context.Context, chatID int64) ([]string, error) {
	words, found, err := s.backend.LoadStopwords(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load stopwords: %w", err)
	}
	if !found {
		s.log.Info("creating empty stopword list", "chat_id", chatID)
		_ = s.save(ctx, chatID, []string{})
		return []string{}, nil
	}
	s.log.Debug("stopwords loaded", "chat_id", chatID, "count", len(words))
	return words, nil
}

func (s *Store) save(ctx context.Context, chatID int64, words []string) error {
	if err := s.backend.SaveStopwords(ctx, chatID, words); err != nil {
		s.log.Error("save stopwords", "chat_id", chatID, "error", err)
		return err
	}
	return nil
}
