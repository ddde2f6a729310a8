package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Block constructs are resolved before plain placeholder substitution so a
// discarded span never leaks its inner placeholders into the output.
var (
	ifRe     = regexp.MustCompile(`(?s)\{\{#if\s+([^}]+?)\s*\}\}(.*?)\{\{/if\}\}`)
	unlessRe = regexp.MustCompile(`(?s)\{\{#unless\s+([^}]+?)\s*\}\}(.*?)\{\{/unless\}\}`)
	eqRe     = regexp.MustCompile(`(?s)\{\{#eq\s+([^}"]+?)\s+"([^"]*)"\s*\}\}(.*?)\{\{/eq\}\}`)
	fieldRe  = regexp.MustCompile(`\{\{\s*([^#/}][^}]*?)\s*\}\}`)
)

const maxResolve = 16

// Resolve evaluates block constructs against fields, then substitutes plain
// placeholders. A placeholder whose field is absent renders as the empty
// string: cover sheets must still render with partial data.
func Resolve(tpl string, fields map[string]any) string {
	out := tpl
	// Re-run until stable so consecutive blocks of the same type all
	// resolve. Blocks must not nest within a block of their own type: the
	// lazy match would pair an outer open with an inner close. The shipped
	// templates keep every block flat.
	for i := 0; i < maxResolve; i++ {
		next := resolveBlocks(out, fields)
		if next == out {
			break
		}
		out = next
	}
	return fieldRe.ReplaceAllStringFunc(out, func(m string) string {
		name := strings.TrimSpace(fieldRe.FindStringSubmatch(m)[1])
		v, ok := fields[name]
		if !ok {
			return ""
		}
		return displayValue(v)
	})
}

func resolveBlocks(tpl string, fields map[string]any) string {
	tpl = eqRe.ReplaceAllStringFunc(tpl, func(m string) string {
		parts := eqRe.FindStringSubmatch(m)
		if displayValue(fields[strings.TrimSpace(parts[1])]) == parts[2] {
			return parts[3]
		}
		return ""
	})
	tpl = ifRe.ReplaceAllStringFunc(tpl, func(m string) string {
		parts := ifRe.FindStringSubmatch(m)
		if truthy(fields[strings.TrimSpace(parts[1])]) {
			return parts[2]
		}
		return ""
	})
	return unlessRe.ReplaceAllStringFunc(tpl, func(m string) string {
		parts := unlessRe.FindStringSubmatch(m)
		if !truthy(fields[strings.TrimSpace(parts[1])]) {
			return parts[2]
		}
		return ""
	})
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return strings.TrimSpace(t) != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// displayValue formats a mapped value for the document. Booleans print as the
// answers the paper form expects.
func displayValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
