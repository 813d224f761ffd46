package extract

import (
	"strings"

	"github.com/vladimir/product-scraper/internal/schema"
)

// featureRule maps a highlighted-feature list item onto a canonical field
// by substring presence. Boolean flags are only ever set true by a match;
// absence of a keyword leaves them at their default.
type featureRule struct {
	keyword  string
	foldCase bool
	apply    func(p *schema.Product, item string)
}

// featureRules is evaluated in order per list item; the first matching
// rule wins. Keep the label rules ahead of the bare keyword rules so an
// item like "Sabor: menta" binds the value instead of just the flag.
var featureRules = []featureRule{
	{keyword: "Unidades por pack", apply: func(p *schema.Product, item string) {
		p.BasicInfo.UnitsPerPack = labelValue(item, "Unidades por pack:")
	}},
	{keyword: "Volumen neto", apply: func(p *schema.Product, item string) {
		p.BasicInfo.NetVolume = labelValue(item, "Volumen neto:")
	}},
	{keyword: "Sabor", apply: func(p *schema.Product, item string) {
		p.Features.Flavor = labelValue(item, "Sabor")
	}},
	{keyword: "Beneficios", apply: func(p *schema.Product, item string) {
		if v := labelValue(item, "Beneficios:"); v != nil {
			p.Features.Benefits = splitList(*v)
		}
	}},
	{keyword: "libre de gluten", foldCase: true, apply: func(p *schema.Product, _ string) {
		p.Features.GlutenFree = true
	}},
	{keyword: "vegano", foldCase: true, apply: func(p *schema.Product, _ string) {
		p.Features.Vegan = true
	}},
	{keyword: "Blanqueamiento", apply: func(p *schema.Product, _ string) {
		p.Features.Whitening = true
	}},
}

func applyFeatureRules(p *schema.Product, items []string) {
	for _, item := range items {
		for _, rule := range featureRules {
			if matchKeyword(item, rule.keyword, rule.foldCase) {
				rule.apply(p, item)
				break
			}
		}
	}
}

// specRule maps a specification key onto a canonical field by
// case-insensitive substring match on the key.
type specRule struct {
	keyword string
	apply   func(p *schema.Product, value string)
}

// specRules is evaluated in order per specification key; the first
// matching rule wins, so narrower keywords ("volumen neto") must come
// before any broader ones they contain.
var specRules = []specRule{
	{"marca", func(p *schema.Product, v string) { p.BasicInfo.Brand = &v }},
	{"formato", func(p *schema.Product, v string) { p.Features.Format = &v }},
	{"volumen neto", func(p *schema.Product, v string) { p.BasicInfo.NetVolume = &v }},
	{"sabor", func(p *schema.Product, v string) { p.Features.Flavor = &v }},
	{"beneficios", func(p *schema.Product, v string) { p.Features.Benefits = splitList(v) }},
	{"infantil", func(p *schema.Product, v string) {
		if isAffirmative(v) {
			p.Features.ForChildren = true
		}
	}},
	{"gluten", func(p *schema.Product, v string) {
		if isAffirmative(v) {
			p.Features.GlutenFree = true
		}
	}},
	{"parabenos", func(p *schema.Product, v string) {
		if isAffirmative(v) {
			p.Features.ParabenFree = true
		}
	}},
	{"vegano", func(p *schema.Product, v string) {
		if isAffirmative(v) {
			p.Features.Vegan = true
		}
	}},
	{"vida útil", func(p *schema.Product, v string) { p.TechnicalSpecs.ShelfLife = &v }},
	{"número de aviso", func(p *schema.Product, v string) { p.TechnicalSpecs.OperationNoticeNumber = &v }},
}

func applySpecRules(p *schema.Product, specs *orderedSpecs) {
	specs.Each(func(key, value string) {
		keyLower := strings.ToLower(key)
		for _, rule := range specRules {
			if strings.Contains(keyLower, rule.keyword) {
				rule.apply(p, value)
				break
			}
		}
	})
}

// isAffirmative reports whether a spec value asserts the feature. A "No"
// value leaves the flag at its default rather than setting it false.
func isAffirmative(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "sí")
}

func matchKeyword(item, keyword string, foldCase bool) bool {
	if foldCase {
		return strings.Contains(strings.ToLower(item), strings.ToLower(keyword))
	}
	return strings.Contains(item, keyword)
}

// labelValue strips a label prefix anywhere in the item and returns the
// trimmed remainder, or nil when nothing is left.
func labelValue(item, label string) *string {
	v := strings.TrimSpace(strings.Replace(item, label, "", 1))
	if v == "" {
		return nil
	}
	return &v
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ", ") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// orderedSpecs is a key→value map that preserves first-insertion order so
// rule application stays deterministic across merged sources.
type orderedSpecs struct {
	keys   []string
	values map[string]string
}

func newOrderedSpecs() *orderedSpecs {
	return &orderedSpecs{values: make(map[string]string)}
}

// Set inserts or overwrites a key; overwriting keeps the original position.
func (s *orderedSpecs) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *orderedSpecs) Len() int { return len(s.keys) }

func (s *orderedSpecs) Each(fn func(key, value string)) {
	for _, k := range s.keys {
		fn(k, s.values[k])
	}
}
