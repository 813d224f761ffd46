package extract

import (
	"regexp"
	"strings"

	"github.com/vladimir/product-scraper/internal/schema"
)

// Marker phrases delimiting the composition sub-sections inside the free
// text description. These match the listing copy verbatim.
const (
	naturalIngredientsMarker = "Ingredientes Naturales:"
	excludedChemicalsMarker  = "(No Contiene Químicos Nocivos):"
	excludedChemicalsEnd     = "Vegana"
)

// excludedItemRe captures each "-Sin X" entry in the excluded-chemicals
// section.
var excludedItemRe = regexp.MustCompile(`-Sin\s+([^-\n]+)`)

// mineComposition extracts the natural-ingredients and excluded-chemicals
// lists from the description text. Sections that are absent yield empty
// lists, never an error.
func mineComposition(description string) schema.Composition {
	var comp schema.Composition

	if _, after, found := strings.Cut(description, naturalIngredientsMarker); found {
		ingredientsText, _, _ := strings.Cut(after, excludedChemicalsMarker)
		for _, item := range strings.Split(ingredientsText, ",") {
			if item = strings.TrimSpace(item); item != "" {
				comp.NaturalIngredients = append(comp.NaturalIngredients, item)
			}
		}
	}

	if _, after, found := strings.Cut(description, excludedChemicalsMarker); found {
		excludedText, _, _ := strings.Cut(after, excludedChemicalsEnd)
		for _, match := range excludedItemRe.FindAllStringSubmatch(excludedText, -1) {
			if item := strings.TrimSpace(match[1]); item != "" {
				comp.ExcludedChemicals = append(comp.ExcludedChemicals, item)
			}
		}
	}

	return comp
}
