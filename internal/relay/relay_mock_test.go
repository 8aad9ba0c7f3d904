package relay_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tg-cognito/internal/mocks"
	"tg-cognito/internal/models"
	"tg-cognito/internal/relay"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// immediateScheduler runs delayed work synchronously.
type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(_ time.Duration, fn func()) { fn() }

func TestRelay_PublicationOutcomeUpdatesRegistry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		publishErr error
		expect     func(reg *mocks.MockRegistry)
		ack        string
	}{
		{
			name: "success resets counter",
			expect: func(reg *mocks.MockRegistry) {
				reg.EXPECT().RecordDeliverySuccess(gomock.Any(), int64(100)).Times(1)
				reg.EXPECT().RecordDeliveryFailure(gomock.Any(), gomock.Any()).Times(0)
			},
			ack: en("approved"),
		},
		{
			name:       "failure counts once",
			publishErr: errors.New("Forbidden: bot is not a member of the channel chat"),
			expect: func(reg *mocks.MockRegistry) {
				reg.EXPECT().RecordDeliveryFailure(gomock.Any(), int64(100)).Times(1)
				reg.EXPECT().RecordDeliverySuccess(gomock.Any(), gomock.Any()).Times(0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)

			reg := mocks.NewMockRegistry(ctrl)
			msg := mocks.NewMockMessenger(ctrl)

			var approveData string
			reg.EXPECT().LookupModerator(gomock.Any(), "@news").Return(int64(100), true)
			reg.EXPECT().LookupDestination(gomock.Any(), int64(100)).Return("@news", true)
			tt.expect(reg)

			msg.EXPECT().EditText(gomock.Any(), int64(1), 50, gomock.Any(), gomock.Nil()).Return(nil)
			msg.EXPECT().SendText(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, out relay.OutgoingText) (int, error) {
				req.Equal(int64(100), out.ChatID)
				approveData = out.Keyboard[0][0].Data
				return 77, nil
			})
			msg.EXPECT().Answer(gomock.Any(), "select", en("queued_ack")).Return(nil)
			msg.EXPECT().EditText(gomock.Any(), int64(100), 77, gomock.Any(), gomock.Nil()).Return(nil)
			msg.EXPECT().Publish(gomock.Any(), "@news", "hi").Return(tt.publishErr)

			var ack string
			msg.EXPECT().Answer(gomock.Any(), "decide", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, text string) error {
				ack = text
				return nil
			})

			r := relay.New(reg, msg,
				relay.WithScheduler(immediateScheduler{}),
				relay.WithLanguage(models.LangEnglish),
			)

			req.NoError(r.HandleSelection(ctx, relay.Selection{
				CallbackID: "select", SenderID: 1, ChatID: 1, MenuMessageID: 50, OriginalText: "hi", Destination: "@news",
			}))

			id, approve, ok := relay.ParseDecisionData(approveData)
			req.True(ok)
			req.True(approve)

			req.NoError(r.HandleDecision(ctx, relay.Decision{CallbackID: "decide", ModeratorID: 100, ItemID: id, Approve: true}))
			if tt.ack != "" {
				req.Equal(tt.ack, ack)
			} else {
				req.Contains(ack, "not a member")
			}
		})
	}
}

func TestRelay_NotificationFailureNotCounted(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	reg := mocks.NewMockRegistry(ctrl)
	msg := mocks.NewMockMessenger(ctrl)

	reg.EXPECT().LookupModerator(gomock.Any(), "@news").Return(int64(100), true)
	reg.EXPECT().RecordDeliveryFailure(gomock.Any(), gomock.Any()).Times(0)

	msg.EXPECT().EditText(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	msg.EXPECT().SendText(gomock.Any(), gomock.Any()).Return(0, errors.New("Forbidden: bot was blocked by the user"))
	msg.EXPECT().Answer(gomock.Any(), "select", gomock.Any()).Return(nil)

	var settled models.ModerationState
	r := relay.New(reg, msg,
		relay.WithScheduler(immediateScheduler{}),
		relay.WithSettledHook(func(item *models.PendingModeration) { settled = item.State() }),
	)

	req.NoError(r.HandleSelection(ctx, relay.Selection{
		CallbackID: "select", SenderID: 1, ChatID: 1, MenuMessageID: 50, OriginalText: "hi", Destination: "@news",
	}))
	req.Equal(models.StateRouteFailed, settled)
	req.Equal(0, r.PendingCount())
}

func TestRelay_AnswerErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	msg := mocks.NewMockMessenger(ctrl)
	reg := mocks.NewMockRegistry(ctrl)

	msg.EXPECT().Answer(gomock.Any(), "cb", gomock.Any()).Return(errors.New("query is too old"))

	r := relay.New(reg, msg)
	err := r.HandleDecision(context.Background(), relay.Decision{CallbackID: "cb", ModeratorID: 1, ItemID: "nope"})
	require.Error(t, err)
}
