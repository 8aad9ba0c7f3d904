package relay

import (
	"math/rand/v2"
	"time"

	"tg-cognito/internal/crash"
)

// Scheduler runs fn once after d. Scheduled work is not cancellable.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules on runtime timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, crash.SafeFunc("relay-timer", fn))
}

// SampleDelaySeconds returns a uniform integer in [min, max).
func SampleDelaySeconds(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min)
}
