package document

import (
	"fmt"
	"math"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	// Runs whose Y differs by less than this are treated as the same line.
	pdfLineTolerance = 2.0
	// Horizontal gap beyond this fraction of the font size is a word break.
	pdfWordSpaceMultiplier = 0.3
)

// PDFFormat implements Format for PDF files.
type PDFFormat struct{}

func init() {
	Register(&PDFFormat{})
}

func (f *PDFFormat) Name() string         { return "PDF" }
func (f *PDFFormat) Extensions() []string { return []string{".pdf"} }

func (f *PDFFormat) Open(filename string) (Document, error) {
	// pdfcpu owns structural validation; a malformed file fails here rather
	// than deep inside text extraction.
	if err := api.ValidateFile(filename, nil); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	file, reader, err := pdflib.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	if reader.NumPage() < 1 {
		file.Close()
		return nil, fmt.Errorf("pdf has no pages")
	}
	return &pdfDocument{file: file, reader: reader}, nil
}

type pdfDocument struct {
	file   *os.File
	reader *pdflib.Reader
}

func (d *pdfDocument) PageCount() int { return d.reader.NumPage() }

func (d *pdfDocument) Outline() []OutlineEntry { return nil }

func (d *pdfDocument) Close() error { return d.file.Close() }

func (d *pdfDocument) PageFragments(page int) ([]Fragment, error) {
	if page < 1 || page > d.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range [1,%d]", page, d.reader.NumPage())
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d has no content", page)
	}
	return mergeRuns(p.Content().Text, page), nil
}

// mergeRuns joins consecutive text runs that share a baseline into one line
// fragment, preserving the parser's emission order. It does not reorder runs.
func mergeRuns(runs []pdflib.Text, page int) []Fragment {
	var frags []Fragment

	var line strings.Builder
	var box Box
	var prevEnd float64
	var fontSize float64
	open := false

	flush := func() {
		if !open {
			return
		}
		open = false
		text := strings.TrimSpace(line.String())
		line.Reset()
		if text == "" {
			return
		}
		b := box
		frags = append(frags, Fragment{Text: text, Page: page, Box: &b})
	}

	for _, run := range runs {
		if strings.TrimSpace(run.S) == "" {
			continue
		}
		if open && math.Abs(run.Y-box.Y) >= pdfLineTolerance {
			flush()
		}
		if !open {
			open = true
			box = Box{X: run.X, Y: run.Y, Width: run.W, Height: run.FontSize}
			fontSize = run.FontSize
			prevEnd = run.X + run.W
			line.WriteString(run.S)
			continue
		}
		if run.FontSize > fontSize {
			fontSize = run.FontSize
			box.Height = run.FontSize
		}
		gap := run.X - prevEnd
		if gap > pdfWordSpaceMultiplier*fontSize && !hasBoundarySpace(line.String(), run.S) {
			line.WriteByte(' ')
		}
		line.WriteString(run.S)
		if end := run.X + run.W; end > box.X+box.Width {
			box.Width = end - box.X
		}
		prevEnd = run.X + run.W
	}
	flush()

	return frags
}

func hasBoundarySpace(left, right string) bool {
	return strings.HasSuffix(left, " ") || strings.HasPrefix(right, " ")
}
