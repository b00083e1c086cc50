// Package telegram runs the long-polling bot loop and translates views
// into messages with inline keyboards.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shuhratov/loyihabot/internal/nav"
)

const accessDenied = "⛔ This bot is private. Ask an administrator for access."

// Bot wires Telegram updates to the navigation router.
type Bot struct {
	api     *tgbotapi.BotAPI
	router  *nav.Router
	allowed map[int64]bool
	logger  *slog.Logger
}

// New authenticates against the Bot API. An empty allow-list leaves the bot
// open to everyone.
func New(token string, router *nav.Router, allowedUsers []int64, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authenticating bot: %w", err)
	}
	allowed := make(map[int64]bool, len(allowedUsers))
	for _, id := range allowedUsers {
		allowed[id] = true
	}
	return &Bot{api: api, router: router, allowed: allowed, logger: logger}, nil
}

// Run long-polls for updates until the context ends.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

// Send delivers one plain text message. It satisfies the broadcast sender.
func (b *Bot) Send(_ context.Context, chatID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("sending message to %d: %w", chatID, err)
	}
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge first so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("answering callback", "error", err)
	}
	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	if !b.isAllowed(userID) {
		return
	}

	view := b.router.Handle(ctx, userID, cb.Data)
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID,
		cb.Message.MessageID,
		view.Text,
		markup(view.Keyboard),
	)
	if _, err := b.api.Send(edit); err != nil {
		// Tapping the current page again yields "message is not modified".
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		b.logger.Error("editing message", "chat_id", cb.Message.Chat.ID, "error", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	if !b.isAllowed(userID) {
		b.reply(msg.Chat.ID, accessDenied, nil)
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "report":
			view := b.router.Root(ctx, userID)
			b.reply(msg.Chat.ID, view.Text, view.Keyboard)
		default:
			b.reply(msg.Chat.ID, "Unknown command. Use /start.", nil)
		}
		return
	}

	if view, ok := b.router.HandleText(ctx, userID, msg.Text); ok {
		b.reply(msg.Chat.ID, view.Text, view.Keyboard)
		return
	}
	b.reply(msg.Chat.ID, "Use /start to open the report.", nil)
}

func (b *Bot) reply(chatID int64, text string, keyboard [][]nav.Button) {
	out := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		out.ReplyMarkup = markup(keyboard)
	}
	if _, err := b.api.Send(out); err != nil {
		b.logger.Error("sending reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) isAllowed(userID int64) bool {
	return len(b.allowed) == 0 || b.allowed[userID]
}

func markup(keyboard [][]nav.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Command))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
