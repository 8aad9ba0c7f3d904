package handler

import (
	"context"

	"github.com/mymmrac/telego"

	"tg-cognito/internal/logger"
	"tg-cognito/internal/metrics"
)

// handleMessage processes private messages. The bot talks to people only in
// private chats, everything else is ignored.
func (h *Handler) handleMessage(ctx context.Context, message telego.Message) error {
	if message.Chat.Type != telego.ChatTypePrivate {
		return nil
	}
	if message.From == nil || message.From.IsBot {
		return nil
	}

	incrementCounter(&totalMessagesProcessed)
	metrics.UpdatesHandled.WithLabelValues("message").Inc()

	if message.Text == "" {
		return h.track(h.reply(ctx, message.Chat.ID, h.t("text_please")))
	}

	if handled, err := h.handleCommand(ctx, message); handled {
		return h.track(err)
	}

	return h.track(h.relay.HandleText(ctx, message.From.ID, message.Chat.ID, message.MessageID, message.Text))
}

// track counts and logs a failed update
func (h *Handler) track(err error) error {
	if err != nil {
		incrementCounter(&totalErrors)
		logger.Warningf("Update handling failed: %v", err)
	}
	return err
}
