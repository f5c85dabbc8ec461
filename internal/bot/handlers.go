package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stopword_bot/internal/filter"
	"stopword_bot/internal/model"
)

const (
	cmdStart            = "start"
	cmdHelp             = "help"
	cmdAddWord          = "add_word"
	cmdRemoveWord       = "remove_word"
	cmdListWords        = "list_words"
	cmdCheckPermissions = "check_permissions"
)

var commandList = []struct {
	name        string
	description string
}{
	{cmdAddWord, "add a stopword (admins only)"},
	{cmdRemoveWord, "remove a stopword (admins only)"},
	{cmdListWords, "show the stopword list"},
	{cmdCheckPermissions, "check the bot's rights in this group"},
	{cmdHelp, "show help"},
}

// handleCommand dispatches an admin command. A returned error is an
// unexpected failure; expected refusals are answered directly.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	cmd := msg.Command()
	args := msg.CommandArguments()
	chat := chatOf(msg)

	if !b.addressedToUs(msg) {
		b.log.Debug("ignoring command for another bot", "cmd", msg.CommandWithAt(), "chat_id", chat.ID)
		return nil
	}

	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}

	b.log.Info("command", "cmd", cmd, "args", args, "chat_id", chat.ID, "user_id", userID)

	switch cmd {
	case cmdStart:
		b.handleStart(ctx, chat)
	case cmdHelp:
		b.handleHelp(chat)
	case cmdCheckPermissions:
		b.handleCheckPermissions(ctx, chat)
	case cmdAddWord:
		return b.handleAddWord(ctx, chat, userID, args)
	case cmdRemoveWord:
		return b.handleRemoveWord(ctx, chat, userID, args)
	case cmdListWords:
		b.handleListWords(ctx, chat, userID)
	default:
		// Commands meant for other bots in the group are not ours to answer.
		b.log.Debug("ignoring unknown command", "cmd", cmd, "chat_id", chat.ID)
	}
	return nil
}

func (b *Bot) handleStart(ctx context.Context, chat model.Chat) {
	if !chat.IsDirect() {
		if ok, reason := b.gate.CheckServiceCapability(ctx, chat); !ok {
			b.reply(chat.ID, FormatCapabilityProblem(reason))
			return
		}
	}
	b.reply(chat.ID, startText)
}

func (b *Bot) handleHelp(chat model.Chat) {
	b.reply(chat.ID, helpText)
}

func (b *Bot) handleCheckPermissions(ctx context.Context, chat model.Chat) {
	if chat.IsDirect() {
		b.reply(chat.ID, "This command only works in groups.")
		return
	}

	if ok, reason := b.gate.CheckServiceCapability(ctx, chat); !ok {
		b.reply(chat.ID, FormatCapabilityProblem(reason))
		return
	}
	b.reply(chat.ID, "✅ The bot has all required permissions.\n\nThe bot is ready to work in this group!")
}

func (b *Bot) handleAddWord(ctx context.Context, chat model.Chat, userID int64, args string) error {
	if !b.gate.IsUserAdmin(ctx, chat, userID) {
		b.reply(chat.ID, "Only administrators can add stopwords.")
		return nil
	}
	if !b.ensureCapability(ctx, chat, "Cannot add the stopword.") {
		return nil
	}

	word, err := ParseWordArg(args)
	if err != nil {
		b.reply(chat.ID, "Please specify a word to add. Example: /add_word badword")
		return nil
	}

	added, err := b.store.Add(ctx, chat.ID, word)
	if err != nil {
		return fmt.Errorf("add stopword: %w", err)
	}

	word = filter.Normalize(word)
	if !added {
		b.reply(chat.ID, fmt.Sprintf("The word %q is already in the stopword list.", word))
		return nil
	}
	b.reply(chat.ID, fmt.Sprintf("The word %q was added to the stopword list.", word))
	return nil
}

func (b *Bot) handleRemoveWord(ctx context.Context, chat model.Chat, userID int64, args string) error {
	if !b.gate.IsUserAdmin(ctx, chat, userID) {
		b.reply(chat.ID, "Only administrators can remove stopwords.")
		return nil
	}
	if !b.ensureCapability(ctx, chat, "Cannot remove the stopword.") {
		return nil
	}

	word, err := ParseWordArg(args)
	if err != nil {
		b.reply(chat.ID, "Please specify a word to remove. Example: /remove_word badword")
		return nil
	}

	removed, err := b.store.Remove(ctx, chat.ID, word)
	if err != nil {
		return fmt.Errorf("remove stopword: %w", err)
	}

	word = filter.Normalize(word)
	if !removed {
		b.reply(chat.ID, fmt.Sprintf("The word %q was not found in the stopword list.", word))
		return nil
	}
	b.reply(chat.ID, fmt.Sprintf("The word %q was removed from the stopword list.", word))
	return nil
}

func (b *Bot) handleListWords(ctx context.Context, chat model.Chat, userID int64) {
	if !b.gate.IsUserAdmin(ctx, chat, userID) {
		b.reply(chat.ID, "Only administrators can view stopwords.")
		return
	}
	b.reply(chat.ID, FormatWordList(b.store.Load(ctx, chat.ID)))
}

// addressedToUs reports whether a command has no @mention or mentions this bot.
func (b *Bot) addressedToUs(msg *tgbotapi.Message) bool {
	_, mention, ok := strings.Cut(msg.CommandWithAt(), "@")
	if !ok {
		return true
	}
	return strings.EqualFold(mention, b.username)
}

// ensureCapability replies with the capability problem and returns false when
// the bot cannot enforce rules in a group.
func (b *Bot) ensureCapability(ctx context.Context, chat model.Chat, suffix string) bool {
	if chat.IsDirect() {
		return true
	}
	ok, reason := b.gate.CheckServiceCapability(ctx, chat)
	if !ok {
		b.reply(chat.ID, fmt.Sprintf("⚠️ %s\n%s", reason, suffix))
	}
	return ok
}
