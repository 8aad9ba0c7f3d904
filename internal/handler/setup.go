package handler

import (
	"context"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-cognito/internal/models"
	"tg-cognito/internal/relay"
)

// Registry is the part of the chat registry the bot commands use
type Registry interface {
	Register(ctx context.Context, moderatorID int64, destination string) bool
	Unregister(ctx context.Context, moderatorID int64)
	LookupDestination(ctx context.Context, moderatorID int64) (string, bool)
	LookupModerator(ctx context.Context, destination string) (int64, bool)
	Count(ctx context.Context) int64
}

// Handler routes Telegram updates to the commands and the relay
type Handler struct {
	messenger   relay.Messenger
	registry    Registry
	relay       *relay.Relay
	lang        string
	botUsername string
}

func New(messenger relay.Messenger, registry Registry, rl *relay.Relay, lang, botUsername string) *Handler {
	if _, ok := models.Translations[lang]; !ok {
		lang = models.DefaultLanguage
	}
	return &Handler{
		messenger:   messenger,
		registry:    registry,
		relay:       rl,
		lang:        lang,
		botUsername: botUsername,
	}
}

// SetupMessageHandlers configures all bot message and callback handlers
func (h *Handler) SetupMessageHandlers(bh *th.BotHandler) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		return h.handleMessage(ctx, message)
	})

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		return h.handleSelectionCallback(ctx, query)
	}, th.CallbackDataPrefix(relay.DestinationPrefix))

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		return h.handleDecisionCallback(ctx, query)
	}, th.CallbackDataPrefix(relay.DecisionPrefix))

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		return h.handleUnknownCallback(ctx, query)
	}, th.AnyCallbackQuery())
}

func (h *Handler) t(key string) string {
	return models.GetTranslation(h.lang, key)
}
