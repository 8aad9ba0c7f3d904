package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tg-cognito/internal/config"
	"tg-cognito/internal/mocks"
	"tg-cognito/internal/models"
	"tg-cognito/internal/relay"
	"tg-cognito/internal/service"
	"tg-cognito/internal/storage"
)

type queueScheduler struct {
	queued []func()
}

func (s *queueScheduler) AfterFunc(_ time.Duration, fn func()) {
	s.queued = append(s.queued, fn)
}

type fixture struct {
	handler   *Handler
	messenger *mocks.MockMessenger
	registry  *service.Registry
	relay     *relay.Relay
	scheduler *queueScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := storage.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, "ERROR")
	require.NoError(t, err)
	repo := storage.NewRegistrationRepository(db)
	require.NoError(t, repo.MigrateTable())

	ctrl := gomock.NewController(t)
	f := &fixture{
		messenger: mocks.NewMockMessenger(ctrl),
		registry:  service.NewRegistry(repo, 3),
		scheduler: &queueScheduler{},
	}
	f.relay = relay.New(f.registry, f.messenger,
		relay.WithScheduler(f.scheduler),
		relay.WithLanguage(models.LangEnglish),
	)
	f.handler = New(f.messenger, f.registry, f.relay, models.LangEnglish, "cognito_bot")
	return f
}

// expectReply captures the text of the next private message to chatID.
func (f *fixture) expectReply(chatID int64) *string {
	var text string
	f.messenger.EXPECT().
		SendText(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg relay.OutgoingText) (int, error) {
			if msg.ChatID != chatID {
				return 0, fmt.Errorf("unexpected chat %d", msg.ChatID)
			}
			text = msg.Text
			return 1, nil
		})
	return &text
}

func privateMessage(userID int64, text string) telego.Message {
	return telego.Message{
		MessageID: 10,
		From:      &telego.User{ID: userID, FirstName: "user"},
		Chat:      telego.Chat{ID: userID, Type: telego.ChatTypePrivate},
		Text:      text,
	}
}

func en(key string) string {
	return models.GetTranslation(models.LangEnglish, key)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		command string
		args    string
		ok      bool
	}{
		{text: "/start", command: "start", ok: true},
		{text: "/register @chat", command: "register", args: "@chat", ok: true},
		{text: "/register\n@chat ", command: "register", args: "@chat", ok: true},
		{text: "/Help@cognito_bot", command: "help", ok: true},
		{text: "/help@other_bot", ok: false},
		{text: "hello", ok: false},
		{text: "/", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			command, args, ok := parseCommand(tt.text, "cognito_bot")
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.command, command)
			require.Equal(t, tt.args, args)
		})
	}
}

func TestRegisterCommand_Validation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "missing name", text: "/register", want: en("register_usage")},
		{name: "missing at sign", text: "/register my_chat", want: fmt.Sprintf(en("register_need_at"), "my_chat")},
		{name: "too long", text: "/register @" + strings.Repeat("x", 70), want: en("register_too_long")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			f := newFixture(t)

			reply := f.expectReply(1)
			f.messenger.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			req.NoError(f.handler.handleMessage(context.Background(), privateMessage(1, tt.text)))
			req.Equal(tt.want, *reply)
			req.Equal(int64(0), f.registry.Count(context.Background()))
		})
	}
}

func TestRegisterCommand_Success(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	f.messenger.EXPECT().Publish(gomock.Any(), "@chat", en("register_greeting")).Return(nil)
	reply := f.expectReply(1)

	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "/register @chat")))
	req.Equal(en("register_success"), *reply)

	dest, ok := f.registry.LookupDestination(ctx, 1)
	req.True(ok)
	req.Equal("@chat", dest)
}

func TestRegisterCommand_GreetingFails(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	sendErr := errors.New("Bad Request: chat not found")
	f.messenger.EXPECT().Publish(gomock.Any(), "@chat", gomock.Any()).Return(sendErr)
	reply := f.expectReply(1)

	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "/register @chat")))
	req.Equal(fmt.Sprintf(en("register_send_failed"), sendErr), *reply)

	_, ok := f.registry.LookupDestination(ctx, 1)
	req.False(ok)
}

func TestRegisterCommand_OwnedByAnotherModerator(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	req.True(f.registry.Register(ctx, 2, "@chat"))
	f.messenger.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	reply := f.expectReply(1)

	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "/register @chat")))
	req.Equal(fmt.Sprintf(en("register_taken"), "@chat"), *reply)

	owner, ok := f.registry.LookupModerator(ctx, "@chat")
	req.True(ok)
	req.Equal(int64(2), owner)
}

func TestUnregisterCommand(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	reply := f.expectReply(1)
	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "/unregister")))
	req.Equal(en("unregister_nothing"), *reply)

	req.True(f.registry.Register(ctx, 1, "@chat"))
	reply = f.expectReply(1)
	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "/unregister")))
	req.Equal(fmt.Sprintf(en("unregister_done"), "@chat"), *reply)

	_, ok := f.registry.LookupDestination(ctx, 1)
	req.False(ok)
}

func TestStartAndHelp(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	reply := f.expectReply(1)
	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "/start")))
	req.Equal(en("welcome"), *reply)

	reply = f.expectReply(1)
	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "/help")))
	req.Contains(*reply, en("help_cmd_register"))
}

func TestNonTextMessage(t *testing.T) {
	f := newFixture(t)

	reply := f.expectReply(1)
	require.NoError(t, f.handler.handleMessage(context.Background(), privateMessage(1, "")))
	require.Equal(t, en("text_please"), *reply)
}

func TestGroupMessagesIgnored(t *testing.T) {
	f := newFixture(t)

	msg := privateMessage(1, "hello")
	msg.Chat = telego.Chat{ID: -100123, Type: telego.ChatTypeSupergroup}

	// no messenger expectations: any call fails the test
	require.NoError(t, f.handler.handleMessage(context.Background(), msg))
}

func TestTextShowsMenu(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	req.True(f.registry.Register(ctx, 5, "@news"))

	var sent relay.OutgoingText
	f.messenger.EXPECT().SendText(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg relay.OutgoingText) (int, error) {
			sent = msg
			return 11, nil
		})

	req.NoError(f.handler.handleMessage(ctx, privateMessage(1, "hello world")))
	req.Equal(int64(1), sent.ChatID)
	req.Equal(10, sent.ReplyTo)
	req.Equal(relay.Keyboard{{{Text: "@news", Data: "dest:@news"}}}, sent.Keyboard)
}

func TestUnknownCommandIsRelayedText(t *testing.T) {
	f := newFixture(t)

	reply := f.expectReply(1)
	require.NoError(t, f.handler.handleMessage(context.Background(), privateMessage(1, "/whatever")))
	require.Equal(t, en("no_chats"), *reply)
}

func TestSelectionCallback(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	req.True(f.registry.Register(ctx, 5, "@news"))

	f.messenger.EXPECT().EditText(gomock.Any(), int64(1), 11, gomock.Any(), gomock.Nil()).Return(nil)
	f.messenger.EXPECT().Answer(gomock.Any(), "cb", en("queued_ack")).Return(nil)

	query := telego.CallbackQuery{
		ID:   "cb",
		From: telego.User{ID: 1},
		Data: relay.DestinationData("@news"),
		Message: &telego.Message{
			MessageID: 11,
			Chat:      telego.Chat{ID: 1, Type: telego.ChatTypePrivate},
			ReplyToMessage: &telego.Message{
				MessageID: 10,
				Text:      "hello world",
			},
		},
	}

	req.NoError(f.handler.handleSelectionCallback(ctx, query))
	req.Equal(1, f.relay.PendingCount())
	req.Len(f.scheduler.queued, 1)

	// the moderator gets the text without the sender
	f.messenger.EXPECT().SendText(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg relay.OutgoingText) (int, error) {
			req.Equal(int64(5), msg.ChatID)
			req.Contains(msg.Text, "hello world")
			return 12, nil
		})
	f.scheduler.queued[0]()
}

func TestSelectionCallbackWithoutMessage(t *testing.T) {
	f := newFixture(t)

	f.messenger.EXPECT().Answer(gomock.Any(), "cb", en("stale")).Return(nil)

	query := telego.CallbackQuery{ID: "cb", From: telego.User{ID: 1}, Data: "dest:@news"}
	require.NoError(t, f.handler.handleSelectionCallback(context.Background(), query))
	require.Equal(t, 0, f.relay.PendingCount())
}

func TestDecisionCallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed", func(t *testing.T) {
		f := newFixture(t)
		f.messenger.EXPECT().Answer(gomock.Any(), "cb", en("stale")).Return(nil)
		require.NoError(t, f.handler.handleDecisionCallback(ctx, telego.CallbackQuery{ID: "cb", Data: "mod:zz"}))
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t)
		f.messenger.EXPECT().Answer(gomock.Any(), "cb", en("stale")).Return(nil)
		require.NoError(t, f.handler.handleDecisionCallback(ctx, telego.CallbackQuery{
			ID:   "cb",
			From: telego.User{ID: 5},
			Data: relay.DecisionData("gone", true),
		}))
	})

	t.Run("unknown callback", func(t *testing.T) {
		f := newFixture(t)
		f.messenger.EXPECT().Answer(gomock.Any(), "cb", en("stale")).Return(nil)
		require.NoError(t, f.handler.handleUnknownCallback(ctx, telego.CallbackQuery{ID: "cb", Data: "lang:en"}))
	})
}

func TestAnswerFailureIsCounted(t *testing.T) {
	f := newFixture(t)
	before := totalErrors

	f.messenger.EXPECT().Answer(gomock.Any(), "cb", gomock.Any()).Return(errors.New("query is too old"))
	err := f.handler.handleUnknownCallback(context.Background(), telego.CallbackQuery{ID: "cb"})
	require.Error(t, err)
	require.Equal(t, before+1, totalErrors)
}

func TestProcessingStats(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	stats := f.handler.GetProcessingStats(context.Background())
	req.Equal(0, stats["pending_items"])
	req.Equal(int64(0), stats["registered_chats"])
	req.Contains(f.handler.GetDetailedStatus(context.Background()), "Registered Chats: 0")
}
