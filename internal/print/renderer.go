// Package print renders persisted documents for the browser print flow.
// Rendering is side-effect free: the document and company profile are
// re-fetched for every render and nothing is written back.
package print

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/web"
)

// DocumentSource supplies the figures to print. Printed values always come
// from the persisted document, never from local form state.
type DocumentSource interface {
	GetReturn(ctx context.Context, headerID int64) (*erpapi.ReturnDocument, error)
	GetCompanyProfile(ctx context.Context) (*erpapi.CompanyProfile, error)
}

// PDFConverter turns rendered HTML into a PDF document.
type PDFConverter interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Service renders credit notes from persisted sale returns.
type Service struct {
	source    DocumentSource
	converter PDFConverter
	templates *template.Template
}

type creditNotePayload struct {
	Company  *erpapi.CompanyProfile
	Document *erpapi.ReturnDocument
	Words    string
	Now      time.Time
}

// NewService parses the document templates and builds the renderer.
func NewService(source DocumentSource, converter PDFConverter) (*Service, error) {
	inr := message.NewPrinter(language.MustParse("en-IN"))
	funcMap := template.FuncMap{
		// money is rounded to two decimals here and nowhere earlier
		"money": func(v float64) string {
			return inr.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"words": AmountInWords,
		"add":   func(a, b int) int { return a + b },
	}
	tpl, err := template.New("documents").Funcs(funcMap).ParseFS(
		web.Templates, "templates/documents/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse document templates: %w", err)
	}
	return &Service{source: source, converter: converter, templates: tpl}, nil
}

// RenderCreditNote re-fetches the return and the company profile and renders
// the credit note HTML.
func (s *Service) RenderCreditNote(ctx context.Context, headerID int64) ([]byte, error) {
	doc, err := s.source.GetReturn(ctx, headerID)
	if err != nil {
		return nil, fmt.Errorf("fetch return: %w", err)
	}
	company, err := s.source.GetCompanyProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch company profile: %w", err)
	}

	payload := creditNotePayload{
		Company:  company,
		Document: doc,
		Words:    AmountInWords(doc.GrandTotal),
		Now:      time.Now(),
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "credit_note.html", payload); err != nil {
		return nil, fmt.Errorf("render credit note: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCreditNotePDF renders the credit note and converts it through the
// PDF service.
func (s *Service) RenderCreditNotePDF(ctx context.Context, headerID int64) ([]byte, error) {
	if s.converter == nil {
		return nil, fmt.Errorf("pdf conversion not configured")
	}
	html, err := s.RenderCreditNote(ctx, headerID)
	if err != nil {
		return nil, err
	}
	return s.converter.RenderHTML(ctx, string(html))
}
