package extract

import "strings"

// DefaultImageBaseURL is the CDN domain used to absolutize root-relative
// image paths when none is configured.
const DefaultImageBaseURL = "https://http2.mlstatic.com"

// CleanImageURL normalizes a gallery image URL to its canonical full-size
// form: the webp variant is rewritten to jpg, quality-reduction tokens are
// replaced with their full-size counterparts, and protocol-relative or
// root-relative URLs are absolutized against baseDomain.
//
// The transformation is a fixed point: cleaning an already-clean URL
// returns it unchanged, so the gallery dedup can run on cleaned URLs.
func CleanImageURL(url, baseDomain string) string {
	if url == "" {
		return ""
	}
	if baseDomain == "" {
		baseDomain = DefaultImageBaseURL
	}

	if strings.Contains(url, "webp") {
		url = strings.ReplaceAll(url, ".webp", ".jpg")
		url = strings.ReplaceAll(url, "D_Q_NP", "D_NQ_NP")
		url = strings.ReplaceAll(url, "-R.", "-F.")
	}

	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	} else if strings.HasPrefix(url, "/") {
		url = baseDomain + url
	}

	return url
}
