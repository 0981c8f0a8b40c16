package paginebianche

import (
	"context"
	"errors"
	"time"

	"paginebianche-scraper/config"
)

var sel = DefaultSelectors()

// fakeCard is an in-memory result card. Selectors missing from text never
// appear: waiting on them blocks until the context ends. gone and readErrs
// only affect Count and Text, so waits on those selectors still succeed.
type fakeCard struct {
	text     map[string]string
	errs     map[string]error
	readErrs map[string]error
	gone     map[string]bool
	onClick  map[string]map[string]string
	clicks   []string
	panics   bool
}

func newCard(name, address, phone string) *fakeCard {
	return &fakeCard{
		text: map[string]string{
			sel.Title:       name,
			sel.Address:     address,
			sel.PhoneReveal: "Mostra numero",
		},
		onClick: map[string]map[string]string{
			sel.PhoneReveal: {sel.Phone: phone},
		},
	}
}

func waitDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (c *fakeCard) lookup(ctx context.Context, s string) (string, error) {
	if c.panics {
		panic("detached node")
	}
	if err := c.errs[s]; err != nil {
		return "", err
	}
	if t, ok := c.text[s]; ok {
		return t, nil
	}
	return "", waitDone(ctx)
}

func (c *fakeCard) Text(ctx context.Context, s string) (string, error) {
	if err := c.readErrs[s]; err != nil {
		return "", err
	}
	return c.lookup(ctx, s)
}

func (c *fakeCard) Count(ctx context.Context, s string) (int, error) {
	if err := c.errs[s]; err != nil {
		return 0, err
	}
	if c.gone[s] {
		return 0, nil
	}
	if _, ok := c.text[s]; ok {
		return 1, nil
	}
	return 0, nil
}

func (c *fakeCard) WaitVisible(ctx context.Context, s string) error {
	_, err := c.lookup(ctx, s)
	return err
}

func (c *fakeCard) WaitPresent(ctx context.Context, s string) error {
	_, err := c.lookup(ctx, s)
	return err
}

func (c *fakeCard) Click(ctx context.Context, s string) error {
	if _, err := c.lookup(ctx, s); err != nil {
		return err
	}
	c.clicks = append(c.clicks, s)
	for k, v := range c.onClick[s] {
		c.text[k] = v
	}
	return nil
}

// fakePage serves cards and simple click-to-hide controls. Each load-more
// click appends the next batch from more and hides the control once the
// batches run out.
type fakePage struct {
	navErr    error
	cardsErr  error
	visible   map[string]bool
	clickErrs map[string]error
	cards     []*fakeCard
	more      [][]*fakeCard
	clicks    map[string]int
	navigated []string
	closed    int
}

func newPage(cards ...*fakeCard) *fakePage {
	return &fakePage{
		visible:   map[string]bool{},
		clickErrs: map[string]error{},
		cards:     cards,
		clicks:    map[string]int{},
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return p.navErr
}

func (p *fakePage) Visible(ctx context.Context, s string) (bool, error) {
	if s == sel.LoadMore && len(p.more) > 0 {
		return true, nil
	}
	return p.visible[s], nil
}

func (p *fakePage) Click(ctx context.Context, s string) error {
	if err := p.clickErrs[s]; err != nil {
		return err
	}
	p.clicks[s]++
	if s == sel.LoadMore && len(p.more) > 0 {
		p.cards = append(p.cards, p.more[0]...)
		p.more = p.more[1:]
		return nil
	}
	p.visible[s] = false
	return nil
}

func (p *fakePage) Cards(ctx context.Context, s string) ([]Card, error) {
	if p.cardsErr != nil {
		return nil, p.cardsErr
	}
	cards := make([]Card, len(p.cards))
	for i, c := range p.cards {
		cards[i] = c
	}
	return cards, nil
}

func (p *fakePage) Close() {
	p.closed++
}

type fakeBrowser struct {
	page    *fakePage
	openErr error
	opened  int
}

func (b *fakeBrowser) Open(ctx context.Context) (Session, error) {
	b.opened++
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.page, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SearchURL = "https://www.paginebianche.it/ricerca"
	cfg.CardTimeout = 50 * time.Millisecond
	cfg.RevealTimeout = 30 * time.Millisecond
	cfg.ActionTimeout = 50 * time.Millisecond
	cfg.MinDelay = 0
	cfg.MaxDelay = 0
	return cfg
}

var errDetached = errors.New("node detached")
