package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestRetry_StopsOnSuccess(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))

	calls := 0
	err := retry(3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("boom")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))

	sentinel := errors.New("still down")
	calls := 0
	err := retry(3, time.Millisecond, func() error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, calls)
}

func TestRetry_AtLeastOnce(t *testing.T) {
	calls := 0
	_ = retry(0, time.Millisecond, func() error {
		calls++
		return nil
	})
	assert.Equal(t, 1, calls)
}

func TestRandomDelay_Bounds(t *testing.T) {
	start := time.Now()
	RandomDelay(0, 0)
	RandomDelay(5*time.Millisecond, 5*time.Millisecond)
	RandomDelay(time.Millisecond, 3*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBrowserOpts_Headless(t *testing.T) {
	assert.Len(t, BrowserOpts(true), len(BrowserOpts(false))+2)
}
