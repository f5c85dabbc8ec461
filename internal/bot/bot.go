package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stopword_bot/internal/config"
	"stopword_bot/internal/dedup"
	"stopword_bot/internal/model"
	"stopword_bot/internal/moderation"
	"stopword_bot/internal/permission"
	"stopword_bot/internal/stopwords"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram bot that moderates chats and handles admin commands.
type Bot struct {
	api    telegramAPI
	store  *stopwords.Store
	gate   *permission.Gate
	engine *moderation.Engine
	log    *slog.Logger

	username string

	inflight sync.WaitGroup
}

// New creates a Bot with the given config and stopword store.
func New(cfg *config.Config, store *stopwords.Store, log *slog.Logger) (*Bot, error) {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramBotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Info("authorized", "username", api.Self.UserName, "bot_id", api.Self.ID)

	b := newBot(api, api.Self.ID, store, cfg, log)
	b.username = api.Self.UserName
	return b, nil
}

func newBot(api telegramAPI, botID int64, store *stopwords.Store, cfg *config.Config, log *slog.Logger) *Bot {
	tr := &transport{api: api}
	gate := permission.New(tr, botID, log)

	engine := moderation.New(dedup.New(cfg.DedupCacheSize), gate, store, tr, log)
	engine.SetDeleteDelay(cfg.DeleteDelay)

	return &Bot{
		api:    api,
		store:  store,
		gate:   gate,
		engine: engine,
		log:    log,
	}
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
// Every update is handled in its own goroutine; Run waits for them on exit.
func (b *Bot) Run(ctx context.Context) {
	b.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)
	defer b.inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.inflight.Add(1)
			go func() {
				defer b.inflight.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// reply sends a text message to the given chat. Failures are logged only.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) registerCommands() {
	cmds := make([]tgbotapi.BotCommand, 0, len(commandList))
	for _, c := range commandList {
		cmds = append(cmds, tgbotapi.BotCommand{Command: c.name, Description: c.description})
	}
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		b.log.Warn("register bot commands", "error", err)
	}
}

// handleUpdate is the top-level boundary for one update: a failure here is
// logged and reported to the chat, and never affects other updates.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling update",
				"update_id", update.UpdateID,
				"chat_id", msg.Chat.ID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			b.notifyFailure(msg.Chat.ID, fmt.Errorf("%v", r))
		}
	}()

	if msg.IsCommand() {
		if err := b.handleCommand(ctx, msg); err != nil {
			b.log.Error("handle command", "cmd", msg.Command(), "chat_id", msg.Chat.ID, "error", err)
			b.notifyFailure(msg.Chat.ID, err)
		}
		return
	}

	outcome, ok := b.engine.Process(ctx, toModelMessage(msg))
	if !ok {
		return
	}
	b.log.Debug("moderation outcome", "chat_id", msg.Chat.ID, "message_id", msg.MessageID, "outcome", outcome.String())
}

func (b *Bot) notifyFailure(chatID int64, err error) {
	b.reply(chatID, fmt.Sprintf("An error occurred while processing the request: %v", err))
}

func toModelMessage(msg *tgbotapi.Message) model.Message {
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	return model.Message{
		Chat:      chatOf(msg),
		UserID:    userID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
		HasText:   msg.Text != "",
	}
}

func chatOf(msg *tgbotapi.Message) model.Chat {
	return model.Chat{ID: msg.Chat.ID, Type: model.ChatType(msg.Chat.Type)}
}
