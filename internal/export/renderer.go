package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/web"
)

// Renderer turns a draft view model into the print-ready HTML that feeds
// the PDF conversion.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded print layouts.
func NewRenderer() (*Renderer, error) {
	printer := message.NewPrinter(language.Indonesian)
	funcMap := template.FuncMap{
		"formatMoney": func(v float64) string {
			return printer.Sprintf("Rp %.2f", v)
		},
		"formatDate": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("02 January 2006")
		},
		"now": func() string {
			return time.Now().Format("02 January 2006")
		},
	}

	tpl, err := template.New("documents").Funcs(funcMap).ParseFS(
		web.Templates, "templates/documents/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse document templates: %w", err)
	}
	return &Renderer{templates: tpl}, nil
}

// Render executes the print layout for the view model's kind. An unknown
// kind or a missing layout is fatal for the save flow: it is reported,
// not retried.
func (r *Renderer) Render(vm ViewModel) (string, error) {
	if r == nil || r.templates == nil {
		return "", fmt.Errorf("renderer not initialised")
	}
	var name string
	switch vm.Kind {
	case document.KindQuotation:
		name = "quotation_pdf.html"
	case document.KindInvoice:
		name = "invoice_pdf.html"
	default:
		return "", document.ErrInvalidKind
	}

	buf := &bytes.Buffer{}
	if err := r.templates.ExecuteTemplate(buf, name, vm); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
