package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/samber/lo"

	"tg-cognito/internal/relay"
)

// TelegramMessenger carries relay decisions out over the Bot API.
type TelegramMessenger struct {
	bot *telego.Bot
}

func NewTelegramMessenger(bot *telego.Bot) *TelegramMessenger {
	return &TelegramMessenger{bot: bot}
}

// inlineKeyboard returns nil for an empty keyboard so edits drop the markup.
func inlineKeyboard(kb relay.Keyboard) *telego.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := lo.Map(kb, func(row []relay.Button, _ int) []telego.InlineKeyboardButton {
		return lo.Map(row, func(b relay.Button, _ int) telego.InlineKeyboardButton {
			return telego.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data}
		})
	})
	return tu.InlineKeyboard(rows...)
}

func (m *TelegramMessenger) SendText(ctx context.Context, msg relay.OutgoingText) (int, error) {
	params := tu.Message(tu.ID(msg.ChatID), msg.Text)
	if msg.ReplyTo != 0 {
		params.ReplyParameters = &telego.ReplyParameters{
			MessageID:                msg.ReplyTo,
			AllowSendingWithoutReply: true,
		}
	}
	if markup := inlineKeyboard(msg.Keyboard); markup != nil {
		params.ReplyMarkup = markup
	}

	sent, err := m.bot.SendMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("send message to %d: %w", msg.ChatID, err)
	}
	return sent.MessageID, nil
}

func (m *TelegramMessenger) EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard relay.Keyboard) error {
	_, err := m.bot.EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(chatID),
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: inlineKeyboard(keyboard),
	})
	if err != nil {
		return fmt.Errorf("edit message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// Publish posts into a public chat by its @username.
func (m *TelegramMessenger) Publish(ctx context.Context, destination, text string) error {
	_, err := m.bot.SendMessage(ctx, tu.Message(tu.Username(destination), text))
	if err != nil {
		return fmt.Errorf("publish to %s: %w", destination, err)
	}
	return nil
}

func (m *TelegramMessenger) Answer(ctx context.Context, callbackID, text string) error {
	return m.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}
