package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBFormat implements Format for EPUB files. Spine items become pages;
// block-level text becomes fragments. EPUB has no page geometry, so
// fragments carry no bounding box.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Open(filename string) (Document, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	if len(rc.Rootfiles) == 0 {
		rc.Close()
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	book := rc.Rootfiles[0]
	if len(book.Spine.Itemrefs) == 0 {
		rc.Close()
		return nil, fmt.Errorf("epub has an empty spine")
	}
	return &epubDocument{rc: rc, book: book}, nil
}

type epubDocument struct {
	rc   *epub.ReadCloser
	book *epub.Rootfile
}

func (d *epubDocument) PageCount() int { return len(d.book.Spine.Itemrefs) }

func (d *epubDocument) Outline() []OutlineEntry { return nil }

func (d *epubDocument) Close() error {
	d.rc.Close()
	return nil
}

func (d *epubDocument) PageFragments(page int) ([]Fragment, error) {
	if page < 1 || page > d.PageCount() {
		return nil, fmt.Errorf("page %d out of range [1,%d]", page, d.PageCount())
	}
	ref := d.book.Spine.Itemrefs[page-1]
	if ref.Item == nil {
		return nil, fmt.Errorf("spine item %d has no content", page)
	}
	r, err := ref.Item.Open()
	if err != nil {
		return nil, fmt.Errorf("open spine item %d: %w", page, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read spine item %d: %w", page, err)
	}
	return htmlFragments(string(data), page)
}

// Block-level elements that delimit fragments.
var blockElements = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "li": true, "blockquote": true, "div": true, "td": true,
	"figcaption": true, "pre": true,
}

func htmlFragments(src string, page int) ([]Fragment, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var frags []Fragment
	var cur strings.Builder

	flush := func() {
		text := strings.TrimSpace(cur.String())
		cur.Reset()
		if text != "" {
			frags = append(frags, Fragment{Text: text, Page: page})
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
			if blockElements[n.Data] {
				flush()
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if cur.Len() > 0 {
					cur.WriteString(" ")
				}
				cur.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()

	return frags, nil
}
