package document

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat implements Format for Markdown files. Top-level sections
// (split at # and ## headings) become pages; each block becomes a fragment.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// Headings at this level or shallower start a new page.
const mdPageHeadingLevel = 2

func (f *MarkdownFormat) Open(filename string) (Document, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var pages [][]Fragment
	var outline []OutlineEntry
	var cur []Fragment

	flushPage := func() {
		if len(cur) > 0 {
			pages = append(pages, cur)
			cur = nil
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			if h.Level <= mdPageHeadingLevel {
				flushPage()
			}
			title := strings.TrimSpace(string(h.Text(src)))
			if title != "" {
				cur = append(cur, Fragment{Text: title, Page: len(pages) + 1})
				outline = append(outline, OutlineEntry{
					Title: title,
					Page:  len(pages) + 1,
					Level: h.Level - 1,
				})
			}
			continue
		}
		if t := blockText(n, src); t != "" {
			cur = append(cur, Fragment{Text: t, Page: len(pages) + 1})
		}
	}
	flushPage()

	if len(pages) == 0 {
		return nil, fmt.Errorf("markdown file has no text content")
	}
	return &sectionDocument{pages: pages, outline: outline}, nil
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.ChildCount() == 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			if s := blockText(c, src); s != "" {
				if buf.Len() > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(s)
			}
		}
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

// sectionDocument serves formats whose pages are materialized up front
// (markdown sections, plain-text paragraphs).
type sectionDocument struct {
	pages   [][]Fragment
	outline []OutlineEntry
}

func (d *sectionDocument) PageCount() int { return len(d.pages) }

func (d *sectionDocument) Outline() []OutlineEntry { return d.outline }

func (d *sectionDocument) Close() error { return nil }

func (d *sectionDocument) PageFragments(page int) ([]Fragment, error) {
	if page < 1 || page > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range [1,%d]", page, len(d.pages))
	}
	return d.pages[page-1], nil
}
