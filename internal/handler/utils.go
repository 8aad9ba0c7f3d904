package handler

import (
	"context"
	"strings"
	"unicode"

	"tg-cognito/internal/relay"
)

// parseCommand splits "/cmd@bot args" into its parts. Commands addressed to
// another bot are reported as not a command.
func parseCommand(text, botUsername string) (command, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest := text[1:], ""
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head, rest = head[:i], head[i:]
	}
	command, target, addressed := strings.Cut(head, "@")
	if command == "" {
		return "", "", false
	}
	if addressed && botUsername != "" && !strings.EqualFold(target, botUsername) {
		return "", "", false
	}

	return strings.ToLower(command), strings.TrimSpace(rest), true
}

// reply sends a plain private message
func (h *Handler) reply(ctx context.Context, chatID int64, text string) error {
	_, err := h.messenger.SendText(ctx, relay.OutgoingText{ChatID: chatID, Text: text})
	return err
}
