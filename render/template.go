package render

import "strings"

// Template names one of the three cover-sheet layouts.
type Template string

const (
	TemplateBuyer     Template = "Buyer"
	TemplateSeller    Template = "Seller"
	TemplateDualAgent Template = "DualAgent"
)

// Select resolves the cover-sheet template for an agent role. Matching is
// deliberately loose: the role text is case-folded and stripped to letters
// before substring tests, so "Buyer's Agent", "BUYERS_AGENT" and
// "buyers agent" all land on the same template.
func Select(role string) (Template, error) {
	normalized := normalizeRole(role)
	switch {
	case strings.Contains(normalized, "DUAL"):
		return TemplateDualAgent, nil
	case strings.Contains(normalized, "BUYER"):
		return TemplateBuyer, nil
	case strings.Contains(normalized, "LISTING"), strings.Contains(normalized, "SELLER"):
		return TemplateSeller, nil
	default:
		return "", &SelectionError{Role: role}
	}
}

func normalizeRole(role string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(role) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
