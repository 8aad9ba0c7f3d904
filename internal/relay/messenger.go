//go:generate go run go.uber.org/mock/mockgen -source=messenger.go -destination=../mocks/mock_messenger.go -package=mocks
package relay

import (
	"context"
)

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// Keyboard is a list of button rows. A nil keyboard removes any markup.
type Keyboard [][]Button

// OutgoingText is a private message sent by the bot.
type OutgoingText struct {
	ChatID   int64
	Text     string
	ReplyTo  int
	Keyboard Keyboard
}

// Messenger performs the outbound Telegram calls the relay decides on.
type Messenger interface {
	// SendText sends a private message and returns its message id.
	SendText(ctx context.Context, msg OutgoingText) (int, error)
	// EditText replaces the text and keyboard of a message.
	EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard Keyboard) error
	// Publish posts text into a public chat addressed as @name.
	Publish(ctx context.Context, destination, text string) error
	// Answer acknowledges a callback query with a short notice.
	Answer(ctx context.Context, callbackID, text string) error
}

// Registry is the part of the chat registry the relay depends on.
type Registry interface {
	LookupDestination(ctx context.Context, moderatorID int64) (string, bool)
	LookupModerator(ctx context.Context, destination string) (int64, bool)
	ListDestinations(ctx context.Context) []string
	RecordDeliveryFailure(ctx context.Context, moderatorID int64)
	RecordDeliverySuccess(ctx context.Context, moderatorID int64)
}
