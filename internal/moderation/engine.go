// Package moderation implements the per-message decision pipeline:
// dedup, capability check, stopword lookup, scan and deletion.
package moderation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stopword_bot/internal/filter"
	"stopword_bot/internal/model"
)

// DefaultDeleteDelay is the pause between detecting a match and deleting the
// message, giving the transport time to make the message visible.
const DefaultDeleteDelay = 500 * time.Millisecond

// Deduplicator remembers processed messages.
type Deduplicator interface {
	MarkAndCheck(chatID int64, messageID int) bool
}

// CapabilityChecker reports whether the bot may enforce rules in a chat.
type CapabilityChecker interface {
	CheckServiceCapability(ctx context.Context, chat model.Chat) (bool, string)
}

// StopwordLoader returns the banned substrings for a chat.
type StopwordLoader interface {
	Load(ctx context.Context, chatID int64) []string
}

// Deleter removes a message from a chat.
type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Engine moderates inbound messages. It is safe for concurrent use; each
// call to Process handles one message.
type Engine struct {
	dedup   Deduplicator
	gate    CapabilityChecker
	words   StopwordLoader
	deleter Deleter
	log     *slog.Logger
	delay   time.Duration
}

// New creates an Engine with DefaultDeleteDelay.
func New(dedup Deduplicator, gate CapabilityChecker, words StopwordLoader, deleter Deleter, log *slog.Logger) *Engine {
	return &Engine{
		dedup:   dedup,
		gate:    gate,
		words:   words,
		deleter: deleter,
		log:     log,
		delay:   DefaultDeleteDelay,
	}
}

// SetDeleteDelay overrides the default pre-delete delay.
func (e *Engine) SetDeleteDelay(d time.Duration) {
	e.delay = d
}

// Process runs the pipeline for msg. The second result is false when the
// message carries no text and was ignored without an outcome.
func (e *Engine) Process(ctx context.Context, msg model.Message) (model.Outcome, bool) {
	if !msg.HasText {
		return model.Skipped(model.SkipNoMessageText), false
	}

	chatID := msg.Chat.ID
	log := e.log.With("chat_id", chatID, "message_id", msg.MessageID, "user_id", msg.UserID)

	if e.dedup.MarkAndCheck(chatID, msg.MessageID) {
		log.Debug("message already processed")
		return model.Skipped(model.SkipAlreadyProcessed), true
	}

	log.Debug("message received", "text", preview(msg.Text))

	if !msg.Chat.IsDirect() {
		if ok, reason := e.gate.CheckServiceCapability(ctx, msg.Chat); !ok {
			log.Warn("bot lacks rights to moderate", "reason", reason)
			return model.Skipped(model.SkipInsufficientCapability), true
		}
	}

	words := e.words.Load(ctx, chatID)
	if len(words) == 0 {
		log.Debug("stopword list is empty")
		return model.Skipped(model.SkipEmptyStopwords), true
	}

	word, found := filter.FirstMatch(msg.Text, words)
	if !found {
		return model.NoMatch(), true
	}

	log = log.With("word", word)
	log.Info("stopword detected")

	if err := e.wait(ctx); err != nil {
		log.Warn("delete cancelled", "error", err)
		return model.DeleteFailed(word, err), true
	}

	if err := e.deleter.DeleteMessage(ctx, chatID, msg.MessageID); err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			log.Warn("message to delete not found, probably already deleted")
		case errors.Is(err, model.ErrMessageNotDeletable):
			log.Warn("message can't be deleted")
		default:
			log.Error("delete message", "error", err)
		}
		return model.DeleteFailed(word, err), true
	}

	log.Info("message deleted")
	return model.DeletedOnMatch(word), true
}

// wait sleeps for the configured delay without holding anything shared.
func (e *Engine) wait(ctx context.Context) error {
	if e.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func preview(text string) string {
	const limit = 20
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit]) + "..."
}
