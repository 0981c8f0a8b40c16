package paginebianche

import (
	"context"
	"errors"
	"testing"
	"time"

	"paginebianche-scraper/models"

	"github.com/stretchr/testify/assert"
)

func TestPhoneRevealer_Reveal(t *testing.T) {
	tests := []struct {
		name        string
		card        func() *fakeCard
		wantPhone   string
		wantOutcome Outcome
	}{
		{
			name:        "revealed",
			card:        func() *fakeCard { return newCard("Uno", "Via 1", " 02 1234567 ") },
			wantPhone:   "02 1234567",
			wantOutcome: Succeeded,
		},
		{
			name: "reveal control never visible",
			card: func() *fakeCard {
				c := newCard("Uno", "Via 1", "02 1234567")
				delete(c.text, sel.PhoneReveal)
				return c
			},
			wantPhone:   models.PhoneUnavailable,
			wantOutcome: TimedOut,
		},
		{
			name: "click fails",
			card: func() *fakeCard {
				c := newCard("Uno", "Via 1", "02 1234567")
				c.errs = map[string]error{sel.PhoneReveal: errDetached}
				return c
			},
			wantPhone:   models.PhoneUnavailable,
			wantOutcome: Failed,
		},
		{
			name: "number never loads",
			card: func() *fakeCard {
				c := newCard("Uno", "Via 1", "")
				c.onClick = nil
				return c
			},
			wantPhone:   models.PhoneUnavailable,
			wantOutcome: TimedOut,
		},
		{
			name:        "number element empty",
			card:        func() *fakeCard { return newCard("Uno", "Via 1", "   ") },
			wantPhone:   models.PhoneNotFound,
			wantOutcome: NotPresent,
		},
		{
			name: "wait for number fails",
			card: func() *fakeCard {
				c := newCard("Uno", "Via 1", "02 1234567")
				c.errs = map[string]error{sel.Phone: errors.New("stale node")}
				return c
			},
			wantPhone:   models.PhoneUnavailable,
			wantOutcome: Failed,
		},
		{
			name: "number gone before read",
			card: func() *fakeCard {
				c := newCard("Uno", "Via 1", "02 1234567")
				c.gone = map[string]bool{sel.Phone: true}
				return c
			},
			wantPhone:   models.PhoneNotFound,
			wantOutcome: NotPresent,
		},
		{
			name: "read fails",
			card: func() *fakeCard {
				c := newCard("Uno", "Via 1", "02 1234567")
				c.readErrs = map[string]error{sel.Phone: errors.New("node detached during read")}
				return c
			},
			wantPhone:   models.PhoneUnavailable,
			wantOutcome: Failed,
		},
	}

	r := NewPhoneRevealer(sel, 30*time.Millisecond)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, outcome := r.Reveal(context.Background(), tt.card())

			assert.Equal(t, tt.wantPhone, phone)
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}
}

func TestPhoneRevealer_ClicksOnce(t *testing.T) {
	card := newCard("Uno", "Via 1", "")
	card.onClick = nil

	NewPhoneRevealer(sel, 20*time.Millisecond).Reveal(context.Background(), card)

	assert.Equal(t, []string{sel.PhoneReveal}, card.clicks)
}

func TestPhoneRevealer_Bounded(t *testing.T) {
	card := newCard("Uno", "Via 1", "")
	delete(card.text, sel.PhoneReveal)

	start := time.Now()
	NewPhoneRevealer(sel, 40*time.Millisecond).Reveal(context.Background(), card)

	assert.Less(t, time.Since(start), time.Second)
}
