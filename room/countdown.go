/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package room

import "time"

// Countdown measures whole seconds left from a fixed start. A room holds a
// *Countdown per timer; setting it to nil cancels that timer.
type Countdown struct {
	start    time.Time
	duration time.Duration
}

func NewCountdown(start time.Time, duration time.Duration) *Countdown {
	return &Countdown{start: start, duration: duration}
}

// Remaining is max(0, duration - floor(elapsed)) in seconds.
func (c *Countdown) Remaining(now time.Time) int {
	elapsed := max(now.Sub(c.start), 0)

	return max(int(c.duration/time.Second)-int(elapsed/time.Second), 0)
}

func (c *Countdown) Expired(now time.Time) bool {
	return c.Remaining(now) == 0
}
