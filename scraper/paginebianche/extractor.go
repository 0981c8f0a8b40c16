package paginebianche

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paginebianche-scraper/models"
	"paginebianche-scraper/utils"

	"go.uber.org/zap"
)

// Extractor turns the result cards currently loaded on a page into records.
type Extractor struct {
	sel         Selectors
	cardTimeout time.Duration
	phone       *PhoneRevealer
}

func NewExtractor(sel Selectors, cardTimeout time.Duration, phone *PhoneRevealer) *Extractor {
	return &Extractor{sel: sel, cardTimeout: cardTimeout, phone: phone}
}

// Extract walks the cards in document order. A card that fails for any
// reason is logged and left out; it never stops the walk. onFound is called
// with each record's name right before the record is appended.
func (e *Extractor) Extract(ctx context.Context, page Page, onFound models.ProgressFunc) ([]models.Record, error) {
	cards, err := page.Cards(ctx, e.sel.Card)
	if err != nil {
		return nil, fmt.Errorf("%w: list result cards: %w", ErrSession, err)
	}
	utils.Info("Found %d result cards", len(cards))

	records := make([]models.Record, 0, len(cards))
	failed := 0
	for i, card := range cards {
		record, err := e.extractCard(ctx, card, onFound)
		if err != nil {
			failed++
			utils.L().Warn("skipping result card", zap.Int("card", i), zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	utils.Success("Records extracted: %d | Failed: %d", len(records), failed)
	return records, nil
}

func (e *Extractor) extractCard(ctx context.Context, card Card, onFound models.ProgressFunc) (record models.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var (
		cardCtx context.Context
		cancel  context.CancelFunc
	)
	if e.cardTimeout > 0 {
		cardCtx, cancel = context.WithTimeout(ctx, e.cardTimeout)
	} else {
		cardCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	name, err := card.Text(cardCtx, e.sel.Title)
	if err != nil {
		return models.Record{}, fmt.Errorf("read name: %w", err)
	}
	address, err := card.Text(cardCtx, e.sel.Address)
	if err != nil {
		return models.Record{}, fmt.Errorf("read address: %w", err)
	}

	phone, outcome := e.phone.Reveal(ctx, card)
	if outcome != Succeeded {
		utils.L().Debug("phone not revealed", zap.Stringer("outcome", outcome), zap.String("phone", phone))
	}

	record = models.Record{
		Name:    strings.TrimSpace(name),
		Phone:   phone,
		Address: strings.TrimSpace(address),
	}
	if onFound != nil {
		onFound(record.Name)
	}
	return record, nil
}
