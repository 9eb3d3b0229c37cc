package template

import (
	"context"
	"regexp"
	"time"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// DefaultTemplates maps document types to naming templates. A "default"
// entry backs any type without its own template.
func DefaultTemplates() map[string]string {
	return map[string]string{
		"Invoice":       "{organization}_Invoice_{date}",
		"Contract":      "Contract_{organization}_{date}",
		"ID":            "{doc_type}_{person}_{date}",
		"BankStatement": "{organization}_Statement_{date}",
		"Receipt":       "Receipt_{organization}_{date}",
		"default":       "{doc_type}_{primary_entity}_{date}",
	}
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// fallbackRule is one rung of the ordered fallback chain: a predicate over
// the available inputs and the stem it renders. Evaluated first-match-wins
// when the configured template cannot be filled.
type fallbackRule struct {
	applies func(md domain.Metadata, cls domain.Classification) bool
	render  func(md domain.Metadata, cls domain.Classification, now time.Time) string
}

var fallbackChain = []fallbackRule{
	{
		// all fields available
		applies: func(md domain.Metadata, cls domain.Classification) bool {
			return cls.DocumentType != domain.DocTypeUnknown && md.PrimaryEntity() != "" && md.Date != ""
		},
		render: func(md domain.Metadata, cls domain.Classification, _ time.Time) string {
			return cls.DocumentType + "_" + md.PrimaryEntity() + "_" + md.Date
		},
	},
	{
		// entity missing
		applies: func(md domain.Metadata, cls domain.Classification) bool {
			return cls.DocumentType != domain.DocTypeUnknown && md.Date != ""
		},
		render: func(md domain.Metadata, cls domain.Classification, _ time.Time) string {
			return cls.DocumentType + "_" + md.Date
		},
	},
	{
		// unclassified
		applies: func(md domain.Metadata, cls domain.Classification) bool {
			return md.Date != ""
		},
		render: func(md domain.Metadata, _ domain.Classification, _ time.Time) string {
			return domain.DocTypeUnknown + "_" + md.Date
		},
	},
	{
		// metadata entirely unavailable; unreachable for the bundled
		// extractor but custom ones may bypass the date guarantee
		applies: func(domain.Metadata, domain.Classification) bool { return true },
		render: func(_ domain.Metadata, cls domain.Classification, now time.Time) string {
			docType := cls.DocumentType
			if docType == "" {
				docType = domain.DocTypeUnknown
			}
			return docType + "_NoMetadata_" + now.Format("20060102_150405")
		},
	},
}

// Generator builds filename stems from per-type templates with named
// placeholders, falling back down the chain when a template cannot be
// filled. The reference implementation never returns an error.
type Generator struct {
	templates map[string]string
	now       func() time.Time
}

func New(templates map[string]string) *Generator {
	if len(templates) == 0 {
		templates = DefaultTemplates()
	}
	return &Generator{templates: templates, now: time.Now}
}

func (g *Generator) Generate(_ context.Context, md domain.Metadata, cls domain.Classification, _ string) (string, error) {
	tmpl, ok := g.templates[cls.DocumentType]
	if !ok {
		tmpl = g.templates["default"]
	}
	if tmpl != "" && cls.DocumentType != domain.DocTypeUnknown {
		if stem, ok := g.fill(tmpl, md, cls); ok {
			return stem, nil
		}
	}
	return g.fallback(md, cls), nil
}

// fill substitutes every placeholder; it reports failure when any
// placeholder has no value, handing control to the fallback chain.
func (g *Generator) fill(tmpl string, md domain.Metadata, cls domain.Classification) (string, bool) {
	vars := map[string]string{
		"doc_type":       cls.DocumentType,
		"date":           md.Date,
		"organization":   md.Organization,
		"person":         md.Person,
		"primary_entity": md.PrimaryEntity(),
	}
	if len(md.Keywords) > 0 {
		vars["keyword"] = md.Keywords[0]
	}
	if len(md.Date) >= 7 {
		vars["year"] = md.Date[:4]
		vars["month"] = md.Date[5:7]
	}

	complete := true
	stem := placeholderRe.ReplaceAllStringFunc(tmpl, func(ph string) string {
		name := ph[1 : len(ph)-1]
		value := vars[name]
		if value == "" {
			complete = false
		}
		return value
	})
	if !complete {
		return "", false
	}
	return stem, true
}

func (g *Generator) fallback(md domain.Metadata, cls domain.Classification) string {
	for _, rule := range fallbackChain {
		if rule.applies(md, cls) {
			return rule.render(md, cls, g.now())
		}
	}
	// the last rung always applies
	return domain.DocTypeUnknown + "_" + g.now().Format("20060102_150405")
}
