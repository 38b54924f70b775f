// Package crawler collects AI news articles from the Naver news search page
// using a headless Chromium instance.
package crawler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrPageNotReady signals that the result page never produced the expected
// headline elements within the wait budget. It is distinct from a genuinely
// empty result page, so callers can tell "site changed or blocked us" apart
// from "no AI news today".
var ErrPageNotReady = errors.New("crawler: search page did not become ready")

const (
	searchURL = "https://search.naver.com/search.naver?ssc=tab.news.all&where=news&sm=tab_jum&query=AI"

	headlineSelector = "span.sds-comps-text-type-headline1"

	navigationTimeout = 60 * time.Second
	readinessTimeout  = 20 * time.Second

	scrollPasses = 5
	maxArticles  = 20
)

// Article is one extracted news entry.
type Article struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	SourceURL   string `json:"sourceUrl"`
	SourceSite  string `json:"sourceSite"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PublishedAt string `json:"publishedAt"`
}

// rawEntry is what the in-page extraction script returns.
type rawEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
}

// extractScript walks from each headline span up to its enclosing anchor,
// then up again to the card container to pull the body snippet.
const extractScript = `(() => {
	const results = [];
	document.querySelectorAll('span.sds-comps-text-type-headline1').forEach((titleSpan) => {
		const title = (titleSpan.textContent || '').trim();
		if (!title) return;

		let aTag = null;
		let current = titleSpan;
		while (current && !aTag) {
			if (current.tagName === 'A') { aTag = current; break; }
			current = current.parentElement;
		}
		if (!aTag || !aTag.href) return;

		let content = '';
		let card = null;
		current = aTag;
		while (current && !card) {
			if (current.tagName === 'DIV' && typeof current.className === 'string' &&
				current.className.includes('sds-comps-base-layout')) {
				card = current;
				break;
			}
			current = current.parentElement;
		}
		if (card) {
			const bodySpan = card.querySelector('span.sds-comps-text-type-body1');
			if (bodySpan) content = (bodySpan.textContent || '').trim();
		}

		results.push({ title: title, content: content, link: aTag.href });
	});
	return results;
})()`

// Crawler drives a headless browser against the Naver news search page.
type Crawler struct {
	logger *slog.Logger
	// url is swappable for tests pointing at a local fixture server.
	url string
}

// New creates a Crawler.
func New(logger *slog.Logger) *Crawler {
	return &Crawler{logger: logger, url: searchURL}
}

// Crawl launches the browser, waits for the result page, scrolls to load
// additional entries, extracts title/link/snippet triples, dedupes by link
// and returns at most maxArticles articles. The browser is always released,
// success or failure.
func (c *Crawler) Crawl(ctx context.Context) ([]Article, error) {
	ctx, cancel := context.WithTimeout(ctx, navigationTimeout)
	defer cancel()

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	c.logger.Info("crawl started", slog.String("url", c.url))

	if err := chromedp.Run(taskCtx, chromedp.Navigate(c.url)); err != nil {
		return nil, err
	}

	if err := c.waitReady(taskCtx); err != nil {
		return nil, err
	}

	// Scroll to trigger lazy loading of additional entries.
	for i := 0; i < scrollPasses; i++ {
		if err := chromedp.Run(taskCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(time.Second),
		); err != nil {
			return nil, err
		}
	}

	var entries []rawEntry
	if err := chromedp.Run(taskCtx, chromedp.Evaluate(extractScript, &entries)); err != nil {
		return nil, err
	}

	articles := BuildArticles(entries, time.Now().UTC())
	c.logger.Info("crawl finished", slog.Int("articles", len(articles)))
	return articles, nil
}

// waitReady polls for the headline selector with exponential backoff until
// readinessTimeout. A bounded condition-wait rather than a fixed sleep, so a
// fast page proceeds immediately and a broken page fails with ErrPageNotReady.
func (c *Crawler) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(readinessTimeout)
	backoff := 250 * time.Millisecond

	for {
		var ready bool
		err := chromedp.Run(ctx, chromedp.Evaluate(
			`document.querySelector('`+headlineSelector+`') !== null`, &ready))
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		if time.Now().Add(backoff).After(deadline) {
			c.logger.Error("headline selector never appeared",
				slog.String("selector", headlineSelector))
			return ErrPageNotReady
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 4*time.Second {
			backoff *= 2
		}
	}
}

// BuildArticles converts raw page entries into articles: entries without a
// title or link are dropped, duplicate links keep the first occurrence, and
// the result is truncated to maxArticles.
func BuildArticles(entries []rawEntry, now time.Time) []Article {
	seen := make(map[string]struct{}, len(entries))
	articles := make([]Article, 0, len(entries))

	for _, e := range entries {
		if e.Title == "" || e.Link == "" {
			continue
		}
		if _, dup := seen[e.Link]; dup {
			continue
		}
		seen[e.Link] = struct{}{}

		articles = append(articles, Article{
			Title:       e.Title,
			Content:     e.Content,
			SourceURL:   e.Link,
			SourceSite:  "네이버 뉴스",
			PublishedAt: now.Format(time.RFC3339),
		})
		if len(articles) == maxArticles {
			break
		}
	}
	return articles
}
