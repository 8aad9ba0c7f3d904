package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tg-cognito/internal/crash"
	"tg-cognito/internal/logger"
	"tg-cognito/internal/metrics"
	"tg-cognito/internal/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultMinDelay = 3
	DefaultMaxDelay = 723

	DefaultPendingTTL = 24 * time.Hour

	sendTimeout = 30 * time.Second
)

// Selection is a tap on a destination menu button.
type Selection struct {
	CallbackID    string
	SenderID      int64
	ChatID        int64
	MenuMessageID int
	// text of the sender message the menu replied to
	OriginalText string
	Destination  string
}

// Decision is a tap on an approve or reject button.
type Decision struct {
	CallbackID  string
	ModeratorID int64
	ItemID      string
	Approve     bool
}

// Relay drives messages from anonymous senders through moderation into
// the destination chats.
type Relay struct {
	registry    Registry
	messenger   Messenger
	scheduler   Scheduler
	sampleDelay func() int
	newID       func() string
	lang        string
	onSettled   func(*models.PendingModeration)
	pendingTTL  time.Duration

	mu      sync.Mutex
	pending map[string]*models.PendingModeration
	// menu messages that already produced an item, until it settles
	menus map[menuKey]string
}

type menuKey struct {
	chatID    int64
	messageID int
}

type Option func(*Relay)

// WithScheduler replaces the runtime timer scheduler.
func WithScheduler(s Scheduler) Option {
	return func(r *Relay) { r.scheduler = s }
}

// WithDelayRange samples delays uniformly from [min, max) seconds.
func WithDelayRange(min, max int) Option {
	return func(r *Relay) {
		r.sampleDelay = func() int { return SampleDelaySeconds(min, max) }
	}
}

// WithDelaySampler replaces the delay sampler.
func WithDelaySampler(fn func() int) Option {
	return func(r *Relay) { r.sampleDelay = fn }
}

func WithLanguage(lang string) Option {
	return func(r *Relay) { r.lang = lang }
}

// WithPendingTTL sets how long an undecided item is kept. Zero keeps items forever.
func WithPendingTTL(ttl time.Duration) Option {
	return func(r *Relay) { r.pendingTTL = ttl }
}

// WithSettledHook is called after an item reaches a terminal state.
func WithSettledHook(fn func(*models.PendingModeration)) Option {
	return func(r *Relay) { r.onSettled = fn }
}

func New(registry Registry, messenger Messenger, opts ...Option) *Relay {
	r := &Relay{
		registry:  registry,
		messenger: messenger,
		scheduler: TimerScheduler{},
		newID:     uuid.NewString,
		lang:       models.DefaultLanguage,
		pendingTTL: DefaultPendingTTL,
		pending:    make(map[string]*models.PendingModeration),
		menus:      make(map[menuKey]string),
	}
	WithDelayRange(DefaultMinDelay, DefaultMaxDelay)(r)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Relay) t(key string) string {
	return models.GetTranslation(r.lang, key)
}

// Pending returns an item that has not reached a terminal state yet.
func (r *Relay) Pending(id string) *models.PendingModeration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[id]
}

// PendingCount returns the number of unsettled items.
func (r *Relay) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// DestinationMenu lays out the registered destinations two per row.
func (r *Relay) DestinationMenu(ctx context.Context) Keyboard {
	dests := lo.Filter(r.registry.ListDestinations(ctx), func(d string, _ int) bool {
		return FitsCallbackData(d)
	})
	buttons := lo.Map(dests, func(d string, _ int) Button {
		return Button{Text: d, Data: DestinationData(d)}
	})
	return lo.Chunk(buttons, 2)
}

// HandleText answers a private text message with the destination menu,
// replying to the message so the text can be read back on selection.
func (r *Relay) HandleText(ctx context.Context, senderID, chatID int64, messageID int, text string) error {
	menu := r.DestinationMenu(ctx)

	reply := OutgoingText{ChatID: chatID, ReplyTo: messageID}
	if len(menu) == 0 {
		reply.Text = r.t("no_chats")
	} else {
		reply.Text = r.t("choose_chat")
		reply.Keyboard = menu
	}

	if _, err := r.messenger.SendText(ctx, reply); err != nil {
		return fmt.Errorf("send destination menu to %d: %w", senderID, err)
	}
	logger.Debugf("Sent destination menu (%d rows) to %d for a %d-byte message", len(menu), senderID, len(text))
	return nil
}

// HandleSelection turns a menu tap into a pending item and acknowledges it.
func (r *Relay) HandleSelection(ctx context.Context, sel Selection) error {
	ack := r.t("stale")
	if sel.MenuMessageID != 0 && sel.OriginalText != "" && sel.Destination != "" {
		_, ack = r.Submit(ctx, sel)
	} else {
		logger.Debugf("Selection from %d without message context", sel.SenderID)
	}

	return r.answer(ctx, sel.CallbackID, ack)
}

// Submit resolves the selected destination, creates the pending item and
// schedules the moderator notification. The returned text acknowledges the tap.
func (r *Relay) Submit(ctx context.Context, sel Selection) (*models.PendingModeration, string) {
	moderatorID, ok := r.registry.LookupModerator(ctx, sel.Destination)
	if !ok {
		logger.Infof("Destination %s selected by %d is not registered", sel.Destination, sel.SenderID)
		r.refreshMenu(ctx, sel)
		return nil, fmt.Sprintf(r.t("destination_gone"), sel.Destination)
	}

	item := models.NewPendingModeration(r.newID(), moderatorID, sel.Destination, sel.OriginalText, r.sampleDelay())
	item.SenderChatID = sel.ChatID
	item.NoticeMessageID = sel.MenuMessageID

	key := menuKey{chatID: sel.ChatID, messageID: sel.MenuMessageID}
	r.mu.Lock()
	if existing, ok := r.menus[key]; ok {
		r.mu.Unlock()
		logger.Debugf("Menu message %d already produced item %s", sel.MenuMessageID, existing)
		return nil, r.t("queued_ack")
	}
	r.menus[key] = item.ID
	r.pending[item.ID] = item
	r.mu.Unlock()
	metrics.PendingItems.Inc()

	// scheduled before the notice edit so a slow edit does not extend the delay
	item.SetState(models.StateDelayed)
	notifyCtx := context.WithoutCancel(ctx)
	r.scheduler.AfterFunc(time.Duration(item.DelaySeconds)*time.Second, func() {
		r.notifyModerator(notifyCtx, item)
	})

	notice := fmt.Sprintf(r.t("queued"), item.DestinationName, r.formatDelay(item.DelaySeconds))
	if err := r.messenger.EditText(ctx, sel.ChatID, sel.MenuMessageID, notice, nil); err != nil {
		logger.Warningf("Failed to edit menu message %d for item %s: %v", sel.MenuMessageID, item.ID, err)
	}

	logger.Infof("Item %s for %s queued with delay %ds", item.ID, item.DestinationName, item.DelaySeconds)
	return item, r.t("queued_ack")
}

// refreshMenu re-renders a menu whose destination has disappeared.
func (r *Relay) refreshMenu(ctx context.Context, sel Selection) {
	if sel.MenuMessageID == 0 {
		return
	}
	menu := r.DestinationMenu(ctx)
	text := r.t("choose_chat")
	if len(menu) == 0 {
		text = r.t("no_chats")
	}
	if err := r.messenger.EditText(ctx, sel.ChatID, sel.MenuMessageID, text, menu); err != nil {
		logger.Debugf("Failed to refresh menu message %d: %v", sel.MenuMessageID, err)
	}
}

func (r *Relay) decisionKeyboard(itemID string) Keyboard {
	return Keyboard{{
		{Text: r.t("btn_approve"), Data: DecisionData(itemID, true)},
		{Text: r.t("btn_reject"), Data: DecisionData(itemID, false)},
	}}
}

func (r *Relay) moderatorText(item *models.PendingModeration) string {
	return fmt.Sprintf(r.t("moderation_request"), item.DestinationName, item.MessageText)
}

// notifyModerator runs once per item when its delay expires. A failed
// private send does not count against the registration.
func (r *Relay) notifyModerator(ctx context.Context, item *models.PendingModeration) {
	if r.Pending(item.ID) == nil {
		logger.Debugf("Item %s settled before its notification", item.ID)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msgID, err := r.messenger.SendText(ctx, OutgoingText{
		ChatID:   item.ModeratorID,
		Text:     r.moderatorText(item),
		Keyboard: r.decisionKeyboard(item.ID),
	})
	if err != nil {
		logger.Errorf("Failed to notify moderator %d about item %s: %v", item.ModeratorID, item.ID, err)
		r.settle(item, models.StateRouteFailed)
		return
	}

	item.SetModeratorMessage(msgID)
	logger.Infof("Item %s delivered to moderator %d", item.ID, item.ModeratorID)
}

// HandleDecision applies an approve or reject press. Only the first valid
// press of the item's moderator takes effect.
func (r *Relay) HandleDecision(ctx context.Context, d Decision) error {
	item := r.Pending(d.ItemID)
	if item == nil {
		logger.Debugf("Decision for unknown item %s", d.ItemID)
		return r.answer(ctx, d.CallbackID, r.t("stale"))
	}

	msgID, notified := item.ModeratorMessage()
	if item.ModeratorID != d.ModeratorID || !notified || item.State() != models.StateDelayed {
		logger.Debugf("Ignoring decision on item %s from %d", item.ID, d.ModeratorID)
		return r.answer(ctx, d.CallbackID, r.t("stale"))
	}

	if !item.Claim() {
		return r.answer(ctx, d.CallbackID, r.t("stale"))
	}

	if !d.Approve {
		item.SetState(models.StateRejected)
		r.markModeratorMessage(ctx, item, msgID, "rejected_note")
		r.settle(item, models.StateDiscarded)
		logger.Infof("Item %s rejected", item.ID)
		return r.answer(ctx, d.CallbackID, r.t("rejected"))
	}

	item.SetState(models.StateApproved)
	r.markModeratorMessage(ctx, item, msgID, "approved_note")

	return r.answer(ctx, d.CallbackID, r.publish(ctx, item))
}

// publish posts an approved item and returns the acknowledgement text.
func (r *Relay) publish(ctx context.Context, item *models.PendingModeration) string {
	destination, ok := r.registry.LookupDestination(ctx, item.ModeratorID)
	if !ok {
		logger.Warningf("Item %s approved but moderator %d has no registration", item.ID, item.ModeratorID)
		r.settle(item, models.StateRouteFailed)
		return r.t("no_destination")
	}

	if err := r.messenger.Publish(ctx, destination, item.MessageText); err != nil {
		logger.Errorf("Failed to publish item %s to %s: %v", item.ID, destination, err)
		metrics.PublishFailures.Inc()
		r.registry.RecordDeliveryFailure(ctx, item.ModeratorID)
		r.settle(item, models.StateRouteFailed)
		return fmt.Sprintf(r.t("publish_failed"), destination, err)
	}

	r.registry.RecordDeliverySuccess(ctx, item.ModeratorID)
	r.settle(item, models.StatePublished)
	logger.Infof("Item %s published to %s", item.ID, destination)
	return r.t("approved")
}

func (r *Relay) markModeratorMessage(ctx context.Context, item *models.PendingModeration, msgID int, noteKey string) {
	text := r.moderatorText(item) + r.t(noteKey)
	if err := r.messenger.EditText(ctx, item.ModeratorID, msgID, text, nil); err != nil {
		logger.Warningf("Failed to edit moderator message %d for item %s: %v", msgID, item.ID, err)
	}
}

func (r *Relay) settle(item *models.PendingModeration, state models.ModerationState) {
	item.SetState(state)

	r.mu.Lock()
	_, ok := r.pending[item.ID]
	delete(r.pending, item.ID)
	key := menuKey{chatID: item.SenderChatID, messageID: item.NoticeMessageID}
	if r.menus[key] == item.ID {
		delete(r.menus, key)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	metrics.PendingItems.Dec()
	metrics.ModerationSettled.WithLabelValues(state.String()).Inc()

	if r.onSettled != nil {
		r.onSettled(item)
	}
}

// ExpireStale settles undecided items created more than the pending TTL
// before now. A decision racing with expiry keeps the item.
func (r *Relay) ExpireStale(ctx context.Context, now time.Time) int {
	if r.pendingTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	var stale []*models.PendingModeration
	for _, item := range r.pending {
		if now.Sub(item.CreatedAt) > r.pendingTTL {
			stale = append(stale, item)
		}
	}
	r.mu.Unlock()

	expired := 0
	for _, item := range stale {
		if !item.Claim() {
			continue
		}
		if msgID, notified := item.ModeratorMessage(); notified {
			r.markModeratorMessage(ctx, item, msgID, "expired_note")
		}
		r.settle(item, models.StateExpired)
		expired++
	}
	if expired > 0 {
		logger.Infof("Expired %d undecided items older than %s", expired, r.pendingTTL)
	}
	return expired
}

// StartSweeper expires stale items every interval until ctx is done.
func (r *Relay) StartSweeper(ctx context.Context, interval time.Duration) {
	if r.pendingTTL <= 0 || interval <= 0 {
		logger.Infof("Pending item expiry disabled")
		return
	}

	crash.SafeGoroutine("relay-sweeper", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				r.ExpireStale(ctx, now)
			}
		}
	})
}

func (r *Relay) answer(ctx context.Context, callbackID, text string) error {
	if err := r.messenger.Answer(ctx, callbackID, text); err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}

func (r *Relay) formatDelay(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf(r.t("duration_seconds"), seconds)
	}
	return fmt.Sprintf(r.t("duration_minutes"), seconds/60, seconds%60)
}
