package paginebianche

import (
	"context"
	"errors"
)

// Page is the part of a live browser tab the pipeline drives.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Visible reports, without waiting, whether the first element matching
	// sel is rendered.
	Visible(ctx context.Context, sel string) (bool, error)
	Click(ctx context.Context, sel string) error
	// Cards returns one accessor per element matching sel, in document order.
	Cards(ctx context.Context, sel string) ([]Card, error)
}

// Card gives scoped access to one result card. The underlying DOM node is
// looked up again on every call, so a Card must not outlive its session.
type Card interface {
	// Text returns the text content of the first descendant matching sel,
	// waiting for it to exist.
	Text(ctx context.Context, sel string) (string, error)
	Count(ctx context.Context, sel string) (int, error)
	WaitVisible(ctx context.Context, sel string) error
	WaitPresent(ctx context.Context, sel string) error
	Click(ctx context.Context, sel string) error
}

// Session is a Page owned by a single scrape run.
type Session interface {
	Page
	Close()
}

type Browser interface {
	Open(ctx context.Context) (Session, error)
}

// Outcome is the result of a best-effort page interaction.
type Outcome int

const (
	Succeeded Outcome = iota
	NotPresent
	TimedOut
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case NotPresent:
		return "not_present"
	case TimedOut:
		return "timed_out"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, context.DeadlineExceeded):
		return TimedOut
	default:
		return Failed
	}
}
