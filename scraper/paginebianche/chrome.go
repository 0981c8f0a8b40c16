package paginebianche

import (
	"context"
	"fmt"
	"time"

	"paginebianche-scraper/config"
	"paginebianche-scraper/utils"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

const visibleJS = `(() => {
	const el = document.querySelector(%q);
	if (!el) return false;
	const style = window.getComputedStyle(el);
	const box = el.getBoundingClientRect();
	return style.display !== 'none' && style.visibility !== 'hidden' && box.width > 0 && box.height > 0;
})()`

// Chrome launches one local Chrome per session.
type Chrome struct {
	headless       bool
	requestTimeout time.Duration
	actionTimeout  time.Duration
}

func NewChrome(cfg *config.Config) *Chrome {
	return &Chrome{
		headless:       cfg.Headless,
		requestTimeout: cfg.RequestTimeout,
		actionTimeout:  cfg.ActionTimeout,
	}
}

func (c *Chrome) Open(ctx context.Context) (Session, error) {
	utils.Info("Launching Chrome browser (headless=%v)...", c.headless)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, utils.BrowserOpts(c.headless)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser and attaches the first tab.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	utils.Success("Browser ready")
	return &chromeSession{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
		requestTimeout: c.requestTimeout,
		actionTimeout:  c.actionTimeout,
	}, nil
}

type chromeSession struct {
	ctx            context.Context
	cancel         context.CancelFunc
	requestTimeout time.Duration
	actionTimeout  time.Duration
}

// run executes actions on the tab, bounded by the deadline and cancellation
// of the caller's ctx.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(s.ctx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := runCtx.Err(); ctxErr != nil {
			return fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return err
	}
	return nil
}

func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	ctx, cancel := withDefaultTimeout(ctx, s.requestTimeout)
	defer cancel()

	return s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		utils.HideWebDriver(),
	)
}

func (s *chromeSession) Visible(ctx context.Context, sel string) (bool, error) {
	ctx, cancel := withDefaultTimeout(ctx, s.actionTimeout)
	defer cancel()

	var visible bool
	err := s.run(ctx, chromedp.Evaluate(fmt.Sprintf(visibleJS, sel), &visible))
	return visible, err
}

func (s *chromeSession) Click(ctx context.Context, sel string) error {
	ctx, cancel := withDefaultTimeout(ctx, s.actionTimeout)
	defer cancel()

	return s.run(ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
}

func (s *chromeSession) Cards(ctx context.Context, sel string) ([]Card, error) {
	ctx, cancel := withDefaultTimeout(ctx, s.actionTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}

	cards := make([]Card, len(nodes))
	for i := range nodes {
		cards[i] = &chromeCard{session: s, sel: sel, index: i}
	}
	return cards, nil
}

func (s *chromeSession) Close() {
	if err := chromedp.Cancel(s.ctx); err != nil {
		utils.Warn("Browser did not close cleanly: %v", err)
	}
	s.cancel()
}

// chromeCard addresses the index-th match of sel on the page.
type chromeCard struct {
	session *chromeSession
	sel     string
	index   int
}

func (c *chromeCard) node(ctx context.Context) (*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := c.session.run(ctx, chromedp.Nodes(c.sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	if c.index >= len(nodes) {
		return nil, fmt.Errorf("card %d is no longer on the page (%d cards)", c.index, len(nodes))
	}
	return nodes[c.index], nil
}

func (c *chromeCard) Text(ctx context.Context, sel string) (string, error) {
	n, err := c.node(ctx)
	if err != nil {
		return "", err
	}
	var text string
	err = c.session.run(ctx, chromedp.TextContent(sel, &text, chromedp.ByQuery, chromedp.FromNode(n)))
	return text, err
}

func (c *chromeCard) Count(ctx context.Context, sel string) (int, error) {
	n, err := c.node(ctx)
	if err != nil {
		return 0, err
	}
	var matches []*cdp.Node
	err = c.session.run(ctx, chromedp.Nodes(sel, &matches, chromedp.ByQueryAll, chromedp.AtLeast(0), chromedp.FromNode(n)))
	return len(matches), err
}

func (c *chromeCard) WaitVisible(ctx context.Context, sel string) error {
	n, err := c.node(ctx)
	if err != nil {
		return err
	}
	return c.session.run(ctx, chromedp.WaitVisible(sel, chromedp.ByQuery, chromedp.FromNode(n)))
}

func (c *chromeCard) WaitPresent(ctx context.Context, sel string) error {
	n, err := c.node(ctx)
	if err != nil {
		return err
	}
	return c.session.run(ctx, chromedp.WaitReady(sel, chromedp.ByQuery, chromedp.FromNode(n)))
}

func (c *chromeCard) Click(ctx context.Context, sel string) error {
	n, err := c.node(ctx)
	if err != nil {
		return err
	}
	return c.session.run(ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible, chromedp.FromNode(n)))
}
