package utils

import (
	"math/rand"
	"time"
)

// RandomDelay sleeps for a random duration in [min, max).
// Used after clicks that load content, so the page has time to render
// and the pauses don't follow a fixed rhythm.
func RandomDelay(min, max time.Duration) {
	if max <= min {
		if min > 0 {
			time.Sleep(min)
		}
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}
