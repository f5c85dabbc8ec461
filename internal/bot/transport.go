package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stopword_bot/internal/model"
)

// transport adapts the Bot API to the permission and moderation packages.
// The Bot API client has no context support; its HTTP client timeout bounds
// every call instead.
type transport struct {
	api telegramAPI
}

func (t *transport) GetChatMember(_ context.Context, chatID, userID int64) (model.Member, error) {
	m, err := t.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return model.Member{}, fmt.Errorf("get chat member: %w", err)
	}
	// Creators hold every right but the API omits the flags for them.
	return model.Member{
		Status:            model.MemberStatus(m.Status),
		CanDeleteMessages: m.CanDeleteMessages || m.IsCreator(),
	}, nil
}

func (t *transport) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return classifyDeleteError(err)
	}
	return nil
}

// classifyDeleteError maps Bot API descriptions onto the model's sentinel errors.
func classifyDeleteError(err error) error {
	desc := strings.ToLower(err.Error())
	switch {
	case strings.Contains(desc, "message to delete not found"):
		return fmt.Errorf("%w: %v", model.ErrMessageNotFound, err)
	case strings.Contains(desc, "message can't be deleted"):
		return fmt.Errorf("%w: %v", model.ErrMessageNotDeletable, err)
	default:
		return fmt.Errorf("delete message: %w", err)
	}
}
