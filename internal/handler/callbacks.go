package handler

import (
	"context"

	"github.com/mymmrac/telego"

	"tg-cognito/internal/logger"
	"tg-cognito/internal/metrics"
	"tg-cognito/internal/relay"
)

// handleSelectionCallback handles a tap on the destination menu. The text
// to relay is read back from the sender message the menu replied to.
func (h *Handler) handleSelectionCallback(ctx context.Context, query telego.CallbackQuery) error {
	incrementCounter(&totalCallbackQueries)
	metrics.UpdatesHandled.WithLabelValues("selection").Inc()

	destination, _ := relay.ParseDestinationData(query.Data)
	sel := relay.Selection{
		CallbackID:  query.ID,
		SenderID:    query.From.ID,
		Destination: destination,
	}

	if message, ok := query.Message.(*telego.Message); ok && message != nil {
		sel.ChatID = message.Chat.ID
		sel.MenuMessageID = message.MessageID
		if message.ReplyToMessage != nil {
			sel.OriginalText = message.ReplyToMessage.Text
		}
	}

	return h.track(h.relay.HandleSelection(ctx, sel))
}

// handleDecisionCallback handles the moderator's approve and reject buttons
func (h *Handler) handleDecisionCallback(ctx context.Context, query telego.CallbackQuery) error {
	incrementCounter(&totalCallbackQueries)
	metrics.UpdatesHandled.WithLabelValues("decision").Inc()

	itemID, approve, ok := relay.ParseDecisionData(query.Data)
	if !ok {
		logger.Debugf("Malformed decision data %q from %d", query.Data, query.From.ID)
		return h.track(h.messenger.Answer(ctx, query.ID, h.t("stale")))
	}

	return h.track(h.relay.HandleDecision(ctx, relay.Decision{
		CallbackID:  query.ID,
		ModeratorID: query.From.ID,
		ItemID:      itemID,
		Approve:     approve,
	}))
}

// handleUnknownCallback acknowledges buttons from older bot versions
func (h *Handler) handleUnknownCallback(ctx context.Context, query telego.CallbackQuery) error {
	incrementCounter(&totalCallbackQueries)
	metrics.UpdatesHandled.WithLabelValues("unknown_callback").Inc()
	return h.track(h.messenger.Answer(ctx, query.ID, h.t("stale")))
}
