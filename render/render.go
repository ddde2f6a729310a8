// Package render turns mapped transaction fields into finished cover-sheet
// PDFs. Two strategies implement the same contract: an HTML template pass
// rasterized by headless Chromium, and a fixed-coordinate canvas for
// pixel-identical reproduction of the paper form. Both are deterministic for
// identical input so retries re-produce byte-equivalent documents.
package render

import (
	"context"
	"errors"
	"fmt"
)

// Renderer is the single rendering contract; the strategy is chosen by
// configuration so callers and tests never depend on a concrete engine.
type Renderer interface {
	Render(ctx context.Context, tpl Template, fields map[string]any) ([]byte, error)
}

// ErrTemplateNotFound is fatal: delivery must abort rather than ship a
// partial document.
var ErrTemplateNotFound = errors.New("render: template not found")

// SelectionError reports an agent role that maps to no cover-sheet template.
type SelectionError struct {
	Role string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("render: no template for role %q", e.Role)
}
