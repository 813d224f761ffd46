package fetch

import (
	"context"
	"log"

	"github.com/chromedp/chromedp"
)

// renderURL navigates to a URL in headless Chrome, waits for the body plus
// the configured settle delay, and returns the rendered HTML. Product
// listings build most of the DOM client-side, so a plain GET returns a
// near-empty shell. Requires Chrome/Chromium on the system.
func (c *Client) renderURL(ctx context.Context, urlStr string) (string, error) {
	if c.opts.Verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", urlStr)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		// Settle wait for client-side rendering to finish
		chromedp.Sleep(c.opts.SettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{Source: urlStr, Message: "browser rendering failed", Cause: err}
	}

	if c.opts.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}
