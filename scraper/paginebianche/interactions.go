package paginebianche

import (
	"context"

	"paginebianche-scraper/utils"

	"go.uber.org/zap"
)

// DismissConsent clicks the cookie-consent reject button if it is showing.
// One attempt; errors are logged and reported through the Outcome only.
func DismissConsent(ctx context.Context, page Page, sel string) Outcome {
	out, err := clickIfVisible(ctx, page, sel)
	switch out {
	case Succeeded:
		utils.Info("Consent banner dismissed")
	case NotPresent:
		utils.L().Debug("no consent banner")
	default:
		utils.L().Warn("could not dismiss consent banner", zap.Stringer("outcome", out), zap.Error(err))
	}
	return out
}

// ExpandResults clicks the "load more" control if it is showing. Only
// Succeeded means more results were requested.
func ExpandResults(ctx context.Context, page Page, sel string) Outcome {
	out, err := clickIfVisible(ctx, page, sel)
	switch out {
	case Succeeded:
		utils.Info("Requested more results")
	case NotPresent:
		utils.L().Debug("no load-more control")
	default:
		utils.L().Warn("could not load more results", zap.Stringer("outcome", out), zap.Error(err))
	}
	return out
}

func clickIfVisible(ctx context.Context, page Page, sel string) (Outcome, error) {
	visible, err := page.Visible(ctx, sel)
	if err != nil {
		return outcomeOf(err), err
	}
	if !visible {
		return NotPresent, nil
	}
	if err := page.Click(ctx, sel); err != nil {
		return outcomeOf(err), err
	}
	return Succeeded, nil
}
