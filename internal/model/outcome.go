package model

import "fmt"

// OutcomeKind is the terminal state of processing one message.
type OutcomeKind int

// Outcome kinds.
const (
	OutcomeSkipped OutcomeKind = iota
	OutcomeNoMatch
	OutcomeDeleted
	OutcomeDeleteFailed
)

// SkipReason explains why a message was not scanned.
type SkipReason string

// Skip reasons.
const (
	SkipAlreadyProcessed       SkipReason = "already_processed"
	SkipNoMessageText          SkipReason = "no_message_text"
	SkipInsufficientCapability SkipReason = "insufficient_bot_capability"
	SkipEmptyStopwords         SkipReason = "empty_stopword_list"
)

// Outcome is the result of moderating a single message. It is used for
// logging only and never persisted.
type Outcome struct {
	Kind   OutcomeKind
	Reason SkipReason
	Word   string
	Err    error
}

// Skipped returns a skipped outcome with the given reason.
func Skipped(reason SkipReason) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: reason}
}

// NoMatch returns an outcome for a scanned message without stopwords.
func NoMatch() Outcome {
	return Outcome{Kind: OutcomeNoMatch}
}

// DeletedOnMatch returns an outcome for a message removed because of word.
func DeletedOnMatch(word string) Outcome {
	return Outcome{Kind: OutcomeDeleted, Word: word}
}

// DeleteFailed returns an outcome for a matched message that could not be removed.
func DeleteFailed(word string, err error) Outcome {
	return Outcome{Kind: OutcomeDeleteFailed, Word: word, Err: err}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSkipped:
		return fmt.Sprintf("skipped(%s)", o.Reason)
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeDeleted:
		return fmt.Sprintf("deleted(%q)", o.Word)
	case OutcomeDeleteFailed:
		return fmt.Sprintf("delete_failed(%q): %v", o.Word, o.Err)
	default:
		return "unknown"
	}
}
