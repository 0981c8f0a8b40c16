package paginebianche

import (
	"context"
	"strings"
	"time"

	"paginebianche-scraper/models"
)

// PhoneRevealer reads a phone number that is only rendered after its
// reveal button is clicked.
type PhoneRevealer struct {
	revealSel string
	phoneSel  string
	timeout   time.Duration
}

func NewPhoneRevealer(sel Selectors, timeout time.Duration) *PhoneRevealer {
	return &PhoneRevealer{
		revealSel: sel.PhoneReveal,
		phoneSel:  sel.Phone,
		timeout:   timeout,
	}
}

// Reveal clicks the card's reveal button once and waits, at most p.timeout
// in total, for the number to appear. The returned phone is never empty:
// models.PhoneUnavailable when the button or the number never shows up or
// an interaction fails, models.PhoneNotFound when the number element is
// there but holds nothing.
func (p *PhoneRevealer) Reveal(ctx context.Context, card Card) (string, Outcome) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := card.WaitVisible(ctx, p.revealSel); err != nil {
		return models.PhoneUnavailable, outcomeOf(err)
	}
	if err := card.Click(ctx, p.revealSel); err != nil {
		return models.PhoneUnavailable, outcomeOf(err)
	}
	if err := card.WaitPresent(ctx, p.phoneSel); err != nil {
		return models.PhoneUnavailable, outcomeOf(err)
	}

	n, err := card.Count(ctx, p.phoneSel)
	if err != nil {
		return models.PhoneUnavailable, outcomeOf(err)
	}
	if n == 0 {
		return models.PhoneNotFound, NotPresent
	}

	text, err := card.Text(ctx, p.phoneSel)
	if err != nil {
		return models.PhoneUnavailable, outcomeOf(err)
	}
	if phone := strings.TrimSpace(text); phone != "" {
		return phone, Succeeded
	}
	return models.PhoneNotFound, NotPresent
}
