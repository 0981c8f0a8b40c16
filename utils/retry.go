package utils

import (
	"fmt"
	"time"
)

// Retry runs fn up to maxRetries times, stopping at the first nil error.
// Between attempts it backs off exponentially: 2s, 4s, 8s...
//
// Only storage calls go through Retry. Browser launch and navigation
// failures end the run on the first error.
func Retry(maxRetries int, fn func() error) error {
	return retry(maxRetries, time.Second, fn)
}

func retry(maxRetries int, unit time.Duration, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxRetries {
			wait := time.Duration(1<<uint(attempt)) * unit
			Warn("Attempt %d/%d failed: %v, retrying in %v", attempt, maxRetries, lastErr, wait)
			time.Sleep(wait)
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", maxRetries, lastErr)
}
