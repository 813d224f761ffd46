// Package schema defines the canonical product shape that every site
// extractor must produce and the persister consumes.
package schema

import "time"

// BasicInfo holds the identifying attributes of a product.
type BasicInfo struct {
	Name         *string `json:"name"`
	Brand        *string `json:"brand"`
	UnitsPerPack *string `json:"units_per_pack"`
	NetVolume    *string `json:"net_volume"`
}

// Features holds flavor, format and the boolean product flags.
// Boolean flags default to false meaning "unknown"; extraction rules may
// only ever set them to true.
type Features struct {
	Flavor      *string  `json:"flavor"`
	Format      *string  `json:"format"`
	Benefits    []string `json:"benefits"`
	GlutenFree  bool     `json:"gluten_free"`
	Vegan       bool     `json:"vegan"`
	Whitening   bool     `json:"whitening"`
	ForChildren bool     `json:"for_children"`
	ParabenFree bool     `json:"paraben_free"`
}

// Composition holds the ingredient lists mined from the description.
type Composition struct {
	NaturalIngredients []string `json:"natural_ingredients"`
	ExcludedChemicals  []string `json:"excluded_chemicals"`
}

// TechnicalSpecs holds regulatory and shelf-life details.
type TechnicalSpecs struct {
	ShelfLife             *string `json:"shelf_life"`
	OperationNoticeNumber *string `json:"operation_notice_number"`
}

// Product is the canonical extraction output. The top-level groups are
// always present (possibly empty) so downstream code never branches on
// missing keys; every leaf field is optional.
type Product struct {
	BasicInfo       BasicInfo      `json:"basic_info"`
	Features        Features       `json:"features"`
	Composition     Composition    `json:"composition"`
	TechnicalSpecs  TechnicalSpecs `json:"technical_specs"`
	Images          []string       `json:"images"`
	Categories      []string       `json:"categories,omitempty"`
	FullDescription *string        `json:"full_description"`
	SourceURL       *string        `json:"source_url"`
	ScrapedAt       *time.Time     `json:"scraped_at"`
}

// New returns the base structure with all groups present and empty.
// An extractor that finds no content returns exactly this shape.
func New() *Product {
	return &Product{
		Images: []string{},
	}
}

// DisplayName returns the product name for logs and batch error reports,
// or "Unknown" when the name was never extracted.
func (p *Product) DisplayName() string {
	if p == nil || p.BasicInfo.Name == nil || *p.BasicInfo.Name == "" {
		return "Unknown"
	}
	return *p.BasicInfo.Name
}
