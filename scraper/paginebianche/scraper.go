package paginebianche

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"paginebianche-scraper/config"
	"paginebianche-scraper/models"
	"paginebianche-scraper/utils"
)

var (
	// ErrSession means the browser could not be launched or stopped responding.
	ErrSession = errors.New("browser session failed")
	// ErrNavigation means the results page could not be loaded.
	ErrNavigation = errors.New("navigation failed")
)

// Scraper extracts business listings from the paginebianche.it results
// page for one query and location. It implements models.DataSource.
type Scraper struct {
	cfg       *config.Config
	browser   Browser
	sel       Selectors
	extractor *Extractor
}

var _ models.DataSource = (*Scraper)(nil)

func NewScraper(cfg *config.Config) *Scraper {
	return NewScraperWithBrowser(cfg, NewChrome(cfg))
}

func NewScraperWithBrowser(cfg *config.Config, browser Browser) *Scraper {
	sel := DefaultSelectors()
	return &Scraper{
		cfg:       cfg,
		browser:   browser,
		sel:       sel,
		extractor: NewExtractor(sel, cfg.CardTimeout, NewPhoneRevealer(sel, cfg.RevealTimeout)),
	}
}

// SearchURL fills the query and location into the configured results URL.
func (s *Scraper) SearchURL(q models.ScrapeQuery) (string, error) {
	u, err := url.Parse(s.cfg.SearchURL)
	if err != nil {
		return "", fmt.Errorf("bad search url %q: %w", s.cfg.SearchURL, err)
	}
	params := u.Query()
	params.Set("qs", q.Query)
	params.Set("dv", q.Location)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Scrape runs one full extraction. The browser is closed on every return
// path. An error is returned only when the session could not be started or
// the page could not be loaded; an empty result with a nil error means the
// page had no listings.
func (s *Scraper) Scrape(ctx context.Context, q models.ScrapeQuery, onFound models.ProgressFunc) ([]models.Record, error) {
	target, err := s.SearchURL(q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	session, err := s.browser.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSession, err)
	}
	defer func() {
		utils.Info("Closing browser...")
		session.Close()
	}()

	utils.Info("Opening %s", target)
	if err := session.Navigate(ctx, target); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNavigation, target, err)
	}

	DismissConsent(ctx, session, s.sel.ConsentReject)
	s.expand(ctx, session)

	return s.extractor.Extract(ctx, session, onFound)
}

// expand clicks "load more" up to MaxExpansions times and stops at the
// first attempt that does not succeed. It returns the number of clicks.
func (s *Scraper) expand(ctx context.Context, page Page) int {
	expansions := 0
	for expansions < s.cfg.MaxExpansions {
		if ExpandResults(ctx, page, s.sel.LoadMore) != Succeeded {
			break
		}
		expansions++
		utils.RandomDelay(s.cfg.MinDelay, s.cfg.MaxDelay)
	}
	return expansions
}
