package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vladimir/product-scraper/internal/schema"
)

// SiteMercadoLibre is the registry identifier for the MercadoLibre extractor.
const SiteMercadoLibre = "mercadolibre"

// MercadoLibre extracts product data from MercadoLibre product pages.
type MercadoLibre struct {
	imageBaseURL string
}

// NewMercadoLibre builds a MercadoLibre extractor. imageBaseURL absolutizes
// root-relative gallery URLs; empty means the default CDN domain.
func NewMercadoLibre(imageBaseURL string) *MercadoLibre {
	if imageBaseURL == "" {
		imageBaseURL = DefaultImageBaseURL
	}
	return &MercadoLibre{imageBaseURL: imageBaseURL}
}

// Site returns the registry identifier.
func (m *MercadoLibre) Site() string { return SiteMercadoLibre }

// rawPage holds the page fragments before they are mapped into the
// canonical schema.
type rawPage struct {
	title       string
	images      []string
	features    []string
	specs       *orderedSpecs
	description string
}

// Extract parses a MercadoLibre product page. Each extraction step is
// independent and tolerant of missing nodes; empty input returns the
// all-null base structure.
func (m *MercadoLibre) Extract(html string) (*schema.Product, error) {
	p := schema.New()
	if strings.TrimSpace(html) == "" {
		return p, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return p, fmt.Errorf("failed to parse HTML: %w", err)
	}

	raw := &rawPage{
		title:       strings.TrimSpace(doc.Find("h1.ui-pdp-title").First().Text()),
		images:      m.extractImages(doc),
		features:    extractHighlightedFeatures(doc),
		specs:       extractSpecifications(doc),
		description: extractDescription(doc),
	}

	m.structure(raw, p)
	return p, nil
}

// extractImages collects gallery image URLs in display order. Cleaning and
// dedup run together so two raw URLs that normalize to the same canonical
// form collapse into one entry.
func (m *MercadoLibre) extractImages(doc *goquery.Document) []string {
	images := []string{}
	seen := make(map[string]bool)

	doc.Find("img.ui-pdp-image").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			src, _ = s.Attr("data-zoom")
		}
		if src == "" || strings.HasPrefix(src, "data:image/gif") {
			return
		}
		clean := CleanImageURL(src, m.imageBaseURL)
		if clean != "" && !seen[clean] {
			seen[clean] = true
			images = append(images, clean)
		}
	})

	return images
}

func extractHighlightedFeatures(doc *goquery.Document) []string {
	var features []string
	doc.Find("ul.ui-vpp-highlighted-specs__features-list").First().
		Find("li.ui-vpp-highlighted-specs__features-list-item").
		Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				features = append(features, text)
			}
		})
	return features
}

// extractSpecifications merges the highlighted key/value blocks and the
// detail tables into one flat map, preserving first-seen key order.
func extractSpecifications(doc *goquery.Document) *orderedSpecs {
	specs := newOrderedSpecs()

	doc.Find("div.ui-vpp-highlighted-specs__key-value").Each(func(_ int, s *goquery.Selection) {
		labels := strings.TrimSpace(s.Find("div.ui-vpp-highlighted-specs__key-value__labels").Text())
		if key, value, found := strings.Cut(labels, ":"); found {
			if key, value = strings.TrimSpace(key), strings.TrimSpace(value); key != "" && value != "" {
				specs.Set(key, value)
			}
		}
	})

	doc.Find("table.andes-table").Each(func(_ int, table *goquery.Selection) {
		keys := table.Find("th.andes-table__header")
		values := table.Find("td.andes-table__column")
		n := keys.Length()
		if values.Length() < n {
			n = values.Length()
		}
		for i := 0; i < n; i++ {
			key := strings.TrimSpace(keys.Eq(i).Text())
			value := strings.TrimSpace(values.Eq(i).Text())
			if key != "" && value != "" {
				specs.Set(key, value)
			}
		}
	})

	return specs
}

func extractDescription(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("div.ui-pdp-description").First().
		Find(`p[data-testid="content"]`).First().Text())
}

// structure maps the raw page fragments into the canonical schema via the
// ordered rule tables.
func (m *MercadoLibre) structure(raw *rawPage, p *schema.Product) {
	if raw.title != "" {
		p.BasicInfo.Name = &raw.title
	}

	applyFeatureRules(p, raw.features)
	applySpecRules(p, raw.specs)

	if raw.description != "" {
		p.Composition = mineComposition(raw.description)
		p.FullDescription = &raw.description
	}

	p.Images = raw.images
}
