package engine

import (
	"time"
)

// Thinking-time bounds applied by callers before a search.
const (
	MinThinkTime = 400 * time.Millisecond
	MaxThinkTime = 10 * time.Second
)

// ClampThinkTime restricts d to [MinThinkTime, MaxThinkTime].
func ClampThinkTime(d time.Duration) time.Duration {
	return Clamp(d, MinThinkTime, MaxThinkTime)
}

type TimeHandler struct {
	startTime        time.Time
	timeForMove      time.Time
	usingCustomDepth bool
}

// StartTime arms the deadline budget from now. time.Now carries a monotonic
// reading, so wall-clock jumps do not move the deadline.
func (th *TimeHandler) StartTime(budget time.Duration) {
	th.startTime = time.Now()
	th.timeForMove = th.startTime.Add(budget)
	th.usingCustomDepth = false
}

// StartDepth disables the deadline for a fixed-depth search.
func (th *TimeHandler) StartDepth() {
	th.startTime = time.Now()
	th.usingCustomDepth = true
}

/*
  - True if we're out of time and we're not using a custom depth search
  - False if we still got time
*/
func (th *TimeHandler) TimeStatus() bool {
	return !th.usingCustomDepth && time.Now().After(th.timeForMove)
}

func (th *TimeHandler) Elapsed() time.Duration {
	return time.Since(th.startTime)
}
