package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"

	"tg-cognito/internal/logger"
	"tg-cognito/internal/metrics"
	"tg-cognito/internal/models"
	"tg-cognito/internal/relay"
)

// handleCommand runs a recognised command and reports whether it was one.
func (h *Handler) handleCommand(ctx context.Context, message telego.Message) (bool, error) {
	command, args, ok := parseCommand(message.Text, h.botUsername)
	if !ok {
		return false, nil
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	var err error
	switch command {
	case "start":
		err = h.reply(ctx, chatID, h.t("welcome"))
	case "help":
		err = h.sendHelpMessage(ctx, chatID)
	case "register":
		err = h.handleRegisterCommand(ctx, userID, chatID, args)
	case "unregister":
		err = h.handleUnregisterCommand(ctx, userID, chatID)
	default:
		return false, nil
	}

	metrics.UpdatesHandled.WithLabelValues("command").Inc()
	return true, err
}

// sendHelpMessage sends help information
func (h *Handler) sendHelpMessage(ctx context.Context, chatID int64) error {
	lines := []string{
		h.t("help_title"),
		"",
		h.t("help_cmd_start"),
		h.t("help_cmd_help"),
		h.t("help_cmd_register"),
		h.t("help_cmd_unregister"),
	}
	return h.reply(ctx, chatID, strings.Join(lines, "\n"))
}

// validateDestination returns the message explaining why a name cannot be
// registered, or an empty string.
func (h *Handler) validateDestination(name string) string {
	switch {
	case name == "":
		return h.t("register_usage")
	case !strings.HasPrefix(name, "@"):
		return fmt.Sprintf(h.t("register_need_at"), name)
	case len(name) > models.MaxDestinationLength || !relay.FitsCallbackData(name):
		return h.t("register_too_long")
	default:
		return ""
	}
}

// handleRegisterCommand greets the chat first and stores the registration
// only if the bot could post there
func (h *Handler) handleRegisterCommand(ctx context.Context, userID, chatID int64, args string) error {
	name := strings.TrimSpace(args)
	if problem := h.validateDestination(name); problem != "" {
		return h.reply(ctx, chatID, problem)
	}

	if owner, ok := h.registry.LookupModerator(ctx, name); ok && owner != userID {
		logger.Infof("User %d tried to register %s owned by %d", userID, name, owner)
		return h.reply(ctx, chatID, fmt.Sprintf(h.t("register_taken"), name))
	}

	if err := h.messenger.Publish(ctx, name, h.t("register_greeting")); err != nil {
		logger.Warningf("Greeting to %s for user %d failed: %v", name, userID, err)
		return h.reply(ctx, chatID, fmt.Sprintf(h.t("register_send_failed"), err))
	}

	if !h.registry.Register(ctx, userID, name) {
		return h.reply(ctx, chatID, h.t("register_failed"))
	}

	return h.reply(ctx, chatID, h.t("register_success"))
}

func (h *Handler) handleUnregisterCommand(ctx context.Context, userID, chatID int64) error {
	name, ok := h.registry.LookupDestination(ctx, userID)
	if !ok {
		return h.reply(ctx, chatID, h.t("unregister_nothing"))
	}

	h.registry.Unregister(ctx, userID)
	return h.reply(ctx, chatID, fmt.Sprintf(h.t("unregister_done"), name))
}
