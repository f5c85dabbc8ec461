// Package storage defines the persistence interface and its implementations.
package storage

import "context"

// Storage keeps one durable stopword record per chat.
type Storage interface {
	// LoadStopwords returns the stored list for chatID. found is false when
	// no record exists yet.
	LoadStopwords(ctx context.Context, chatID int64) (words []string, found bool, err error)
	// SaveStopwords replaces the stored list for chatID in full.
	SaveStopwords(ctx context.Context, chatID int64, words []string) error

	Close() error
}
