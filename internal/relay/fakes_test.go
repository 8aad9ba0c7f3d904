package relay_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tg-cognito/internal/config"
	"tg-cognito/internal/models"
	"tg-cognito/internal/relay"
	"tg-cognito/internal/service"
	"tg-cognito/internal/storage"

	"github.com/stretchr/testify/require"
)

type sentText struct {
	relay.OutgoingText
	ID int
}

type editedText struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  relay.Keyboard
}

type publication struct {
	Destination string
	Text        string
}

type answer struct {
	CallbackID string
	Text       string
}

// fakeMessenger records outbound calls and fails the ones it is told to.
type fakeMessenger struct {
	mu         sync.Mutex
	nextID     int
	sent       []sentText
	edits      []editedText
	published  []publication
	answers    []answer
	sendErr    map[int64]error
	publishErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 100, sendErr: map[int64]error{}}
}

func (f *fakeMessenger) SendText(_ context.Context, msg relay.OutgoingText) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErr[msg.ChatID]; err != nil {
		return 0, err
	}
	f.nextID++
	f.sent = append(f.sent, sentText{OutgoingText: msg, ID: f.nextID})
	return f.nextID, nil
}

func (f *fakeMessenger) EditText(_ context.Context, chatID int64, messageID int, text string, keyboard relay.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editedText{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard})
	return nil
}

func (f *fakeMessenger) Publish(_ context.Context, destination, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publication{Destination: destination, Text: text})
	return nil
}

func (f *fakeMessenger) Answer(_ context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, answer{CallbackID: callbackID, Text: text})
	return nil
}

func (f *fakeMessenger) lastSent() sentText {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMessenger) lastAnswer() answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answers[len(f.answers)-1]
}

func (f *fakeMessenger) publishedCopy() []publication {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publication(nil), f.published...)
}

// manualScheduler holds delayed work until the test fires it.
type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	queued []func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.queued = append(s.queued, fn)
}

func (s *manualScheduler) FireAll() {
	s.mu.Lock()
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
}

func (s *manualScheduler) Scheduled() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

type harness struct {
	registry  *service.Registry
	messenger *fakeMessenger
	scheduler *manualScheduler
	relay     *relay.Relay

	mu      sync.Mutex
	settled []models.ModerationState
}

func newHarness(t *testing.T, opts ...relay.Option) *harness {
	t.Helper()

	db, err := storage.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, "ERROR")
	require.NoError(t, err)
	repo := storage.NewRegistrationRepository(db)
	require.NoError(t, repo.MigrateTable())

	h := &harness{
		registry:  service.NewRegistry(repo, 3),
		messenger: newFakeMessenger(),
		scheduler: &manualScheduler{},
	}

	base := []relay.Option{
		relay.WithScheduler(h.scheduler),
		relay.WithDelaySampler(func() int { return 5 }),
		relay.WithLanguage(models.LangEnglish),
		relay.WithSettledHook(func(item *models.PendingModeration) {
			h.mu.Lock()
			h.settled = append(h.settled, item.State())
			h.mu.Unlock()
		}),
	}
	h.relay = relay.New(h.registry, h.messenger, append(base, opts...)...)
	return h
}

func (h *harness) settledStates() []models.ModerationState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.ModerationState(nil), h.settled...)
}

// submit walks a sender message through menu and selection.
func (h *harness) submit(t *testing.T, senderID int64, text, destination string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, h.relay.HandleText(ctx, senderID, senderID, 1, text))
	menu := h.messenger.lastSent()

	require.NoError(t, h.relay.HandleSelection(ctx, relay.Selection{
		CallbackID:    "select",
		SenderID:      senderID,
		ChatID:        senderID,
		MenuMessageID: menu.ID,
		OriginalText:  text,
		Destination:   destination,
	}))
}

// lastItemID reads the item id from the approve button sent to a moderator.
func (h *harness) lastItemID(t *testing.T) string {
	t.Helper()
	msg := h.messenger.lastSent()
	require.NotEmpty(t, msg.Keyboard)
	id, approve, ok := relay.ParseDecisionData(msg.Keyboard[0][0].Data)
	require.True(t, ok)
	require.True(t, approve)
	return id
}

func en(key string) string {
	return models.GetTranslation(models.LangEnglish, key)
}
