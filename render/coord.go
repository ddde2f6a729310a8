package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PositionEntry pins one field to a literal point on the page, expressed in
// points from the bottom-left corner as the paper form was measured.
type PositionEntry struct {
	Field    string
	X        float64
	Y        float64
	FontSize float64
	Bold     bool
}

// letterHeightPt converts the bottom-left position table into gofpdf's
// top-left coordinate space.
const letterHeightPt = 792.0

// CoordinateRenderer draws values at fixed positions on a Letter canvas.
// It exists for pixel-identical reproduction of the paper cover sheet: no
// reflow happens and text must fit its pre-measured space. Font-metric drift
// across environments is a known risk of this strategy, accepted as-is.
type CoordinateRenderer struct {
	positions map[Template][][]PositionEntry
}

func NewCoordinateRenderer() *CoordinateRenderer {
	return &CoordinateRenderer{positions: positionTables}
}

// Render draws every positioned field whose value is present. Fields missing
// from the input leave their slot blank; partial data still yields a valid
// document.
func (r *CoordinateRenderer) Render(_ context.Context, tpl Template, fields map[string]any) ([]byte, error) {
	pages, ok := r.positions[tpl]
	if !ok {
		return nil, fmt.Errorf("%w: no position table for %s", ErrTemplateNotFound, tpl)
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	// Pin the document metadata clock; retries must produce byte-identical
	// output for the upsert overwrite to be a true no-op.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetModificationDate(time.Unix(0, 0).UTC())
	for _, page := range pages {
		pdf.AddPage()
		for _, entry := range page {
			v, present := fields[entry.Field]
			if !present {
				continue
			}
			text := displayValue(v)
			if text == "" {
				continue
			}
			style := ""
			if entry.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, entry.FontSize)
			pdf.Text(entry.X, letterHeightPt-entry.Y, text)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: write pdf canvas: %w", err)
	}
	return buf.Bytes(), nil
}
