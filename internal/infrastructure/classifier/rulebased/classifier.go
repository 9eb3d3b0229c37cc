package rulebased

import (
	"context"
	"strings"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// Rule pairs a document-type label with the keywords that identify it.
// Rules are evaluated in order; the first rule that matches wins.
type Rule struct {
	Label    string
	Required []string // all present (>=2) -> 0.9, exactly one -> 0.6
	Weak     []string // any present with no required hit -> 0.3
}

// DefaultRules is the ordered reference rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Label:    "Invoice",
			Required: []string{"invoice", "amount"},
			Weak:     []string{"bill", "payment due"},
		},
		{
			Label:    "Contract",
			Required: []string{"agreement", "contract"},
			Weak:     []string{"terms and conditions", "hereinafter"},
		},
		{
			Label:    "ID",
			Required: []string{"passport", "identification"},
			Weak:     []string{"driver license", "id number"},
		},
		{
			Label:    "BankStatement",
			Required: []string{"statement", "account"},
			Weak:     []string{"opening balance", "closing balance"},
		},
		{
			Label:    "Receipt",
			Required: []string{"receipt", "total"},
			Weak:     []string{"cashier", "change due"},
		},
		{
			Label:    "Resume",
			Required: []string{"experience", "education"},
			Weak:     []string{"curriculum vitae", "career objective"},
		},
		{
			Label:    "Report",
			Required: []string{"report", "findings"},
			Weak:     []string{"executive summary", "conclusion"},
		},
	}
}

// Classifier is the reference rule-based implementation: ordered rules,
// case-insensitive substring matching, first match wins. It never fails.
type Classifier struct {
	rules []Rule
}

func New(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(_ context.Context, text string) (domain.Classification, error) {
	if text == "" {
		return domain.Unclassified(), nil
	}
	lower := strings.ToLower(text)

	for _, rule := range c.rules {
		hits := 0
		for _, kw := range rule.Required {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		switch {
		case hits == len(rule.Required) && len(rule.Required) >= 2:
			return domain.Classification{DocumentType: rule.Label, Confidence: 0.9}, nil
		case hits == 1:
			return domain.Classification{DocumentType: rule.Label, Confidence: 0.6}, nil
		}
		for _, kw := range rule.Weak {
			if strings.Contains(lower, kw) {
				return domain.Classification{DocumentType: rule.Label, Confidence: 0.3}, nil
			}
		}
	}
	return domain.Unclassified(), nil
}
