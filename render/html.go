package render

import (
	"context"
	"embed"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

//go:embed templates/*.html
var templateFS embed.FS

// Letter paper with fixed margins, in inches.
const (
	paperWidthIn  = 8.5
	paperHeightIn = 11.0
	marginIn      = 0.4
)

// HTMLRenderer substitutes fields into an HTML template and prints the
// resulting page to PDF through headless Chromium. Preferred strategy: the
// browser reflows the layout as content length varies.
type HTMLRenderer struct {
	// BrowserBin optionally pins the Chromium binary; empty lets the
	// launcher resolve one.
	BrowserBin string
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render resolves the template and rasterizes it. The browser is a scoped
// resource: launched for exactly one render and torn down on every exit path
// so failed renders cannot leak OS processes.
func (r *HTMLRenderer) Render(ctx context.Context, tpl Template, fields map[string]any) ([]byte, error) {
	html, err := LoadTemplate(tpl)
	if err != nil {
		return nil, err
	}
	resolved := Resolve(html, fields)

	l := launcher.New().Headless(true)
	if r.BrowserBin != "" {
		l = l.Bin(r.BrowserBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("render: launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("render: connect browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("render: open page: %w", err)
	}
	defer page.Close()

	if err := page.SetDocumentContent(resolved); err != nil {
		return nil, fmt.Errorf("render: set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("render: wait for layout: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      f64(paperWidthIn),
		PaperHeight:     f64(paperHeightIn),
		MarginTop:       f64(marginIn),
		MarginBottom:    f64(marginIn),
		MarginLeft:      f64(marginIn),
		MarginRight:     f64(marginIn),
	})
	if err != nil {
		return nil, fmt.Errorf("render: print to pdf: %w", err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("render: read pdf stream: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("render: empty pdf output")
	}
	return pdf, nil
}

// LoadTemplate returns the raw HTML for a cover-sheet template.
func LoadTemplate(tpl Template) (string, error) {
	b, err := templateFS.ReadFile("templates/" + string(tpl) + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, tpl)
	}
	return string(b), nil
}

func f64(v float64) *float64 { return &v }
