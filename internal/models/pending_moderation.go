package models

import (
	"sync"
	"sync/atomic"
	"time"
)

// ModerationState is the lifecycle position of a relayed message.
type ModerationState int32

const (
	StateCollected ModerationState = iota
	StateDelayed
	StateApproved
	StateRejected
	StatePublished
	StateDiscarded
	StateRouteFailed
	StateExpired
)

func (s ModerationState) String() string {
	switch s {
	case StateCollected:
		return "collected"
	case StateDelayed:
		return "delayed"
	case StateApproved:
		return "approved"
	case StateRejected:
		return "rejected"
	case StatePublished:
		return "published"
	case StateDiscarded:
		return "discarded"
	case StateRouteFailed:
		return "route_failed"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s ModerationState) Terminal() bool {
	return s == StatePublished || s == StateDiscarded || s == StateRouteFailed || s == StateExpired
}

// PendingModeration is an in-memory item waiting for a moderator decision.
// It does not survive a restart.
type PendingModeration struct {
	ID              string
	ModeratorID     int64
	DestinationName string
	MessageText     string
	DelaySeconds    int
	CreatedAt       time.Time

	// sender side menu message, edited with the estimated wait
	SenderChatID    int64
	NoticeMessageID int

	mu                 sync.Mutex
	state              ModerationState
	moderatorMessageID int

	decided atomic.Bool
}

// NewPendingModeration creates an item in the collected state.
func NewPendingModeration(id string, moderatorID int64, destination, text string, delaySeconds int) *PendingModeration {
	return &PendingModeration{
		ID:              id,
		ModeratorID:     moderatorID,
		DestinationName: destination,
		MessageText:     text,
		DelaySeconds:    delaySeconds,
		CreatedAt:       time.Now(),
		state:           StateCollected,
	}
}

func (p *PendingModeration) State() ModerationState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *PendingModeration) SetState(s ModerationState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// SetModeratorMessage records the message carrying the approve/reject buttons.
func (p *PendingModeration) SetModeratorMessage(messageID int) {
	p.mu.Lock()
	p.moderatorMessageID = messageID
	p.mu.Unlock()
}

// ModeratorMessage returns the moderator-facing message id, if one was sent.
func (p *PendingModeration) ModeratorMessage() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.moderatorMessageID, p.moderatorMessageID != 0
}

// Claim takes the single-use decision latch. Only the first caller gets true.
func (p *PendingModeration) Claim() bool {
	return p.decided.CompareAndSwap(false, true)
}

// Decided reports whether the latch has been taken.
func (p *PendingModeration) Decided() bool {
	return p.decided.Load()
}
