// Package permission decides who may change a chat's rules and whether the
// bot itself can enforce them.
package permission

import (
	"context"
	"fmt"
	"log/slog"

	"stopword_bot/internal/model"
)

// Capability problems reported by CheckServiceCapability.
const (
	ReasonNotOperator = "bot is not an administrator in this chat"
	ReasonNoDelete    = "bot has no permission to delete messages"
)

// MemberGetter looks up a user's membership in a chat.
type MemberGetter interface {
	GetChatMember(ctx context.Context, chatID, userID int64) (model.Member, error)
}

// Gate answers admin and capability questions. Results are never cached.
type Gate struct {
	members MemberGetter
	botID   int64
	log     *slog.Logger
}

// New creates a Gate. botID is the bot's own user ID.
func New(members MemberGetter, botID int64, log *slog.Logger) *Gate {
	return &Gate{
		members: members,
		botID:   botID,
		log:     log,
	}
}

// IsUserAdmin reports whether userID may change the chat's stopwords.
// Private chats always allow it; lookup failures deny it.
func (g *Gate) IsUserAdmin(ctx context.Context, chat model.Chat, userID int64) bool {
	if chat.IsDirect() {
		return true
	}

	member, err := g.members.GetChatMember(ctx, chat.ID, userID)
	if err != nil {
		g.log.Error("check admin rights", "chat_id", chat.ID, "user_id", userID, "error", err)
		return false
	}

	ok := member.Status.IsOperator()
	g.log.Debug("admin check", "chat_id", chat.ID, "user_id", userID, "status", member.Status, "admin", ok)
	return ok
}

// CheckServiceCapability reports whether the bot can delete messages in the
// chat. When it cannot, reason says why.
func (g *Gate) CheckServiceCapability(ctx context.Context, chat model.Chat) (bool, string) {
	if chat.IsDirect() {
		return true, ""
	}

	member, err := g.members.GetChatMember(ctx, chat.ID, g.botID)
	if err != nil {
		g.log.Error("check bot rights", "chat_id", chat.ID, "error", err)
		return false, fmt.Sprintf("failed to check bot permissions: %v", err)
	}

	g.log.Debug("bot rights", "chat_id", chat.ID, "status", member.Status, "can_delete_messages", member.CanDeleteMessages)

	if !member.Status.IsOperator() {
		g.log.Warn("bot is not an administrator", "chat_id", chat.ID)
		return false, ReasonNotOperator
	}
	if !member.CanDeleteMessages {
		g.log.Warn("bot cannot delete messages", "chat_id", chat.ID)
		return false, ReasonNoDelete
	}
	return true, ""
}
