package document

import "strings"

// newTextDocument wraps plain text as a single-page document with one
// fragment per blank-line-separated paragraph.
func newTextDocument(content string) Document {
	var frags []Fragment
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para != "" {
			frags = append(frags, Fragment{Text: para, Page: 1})
		}
	}
	return &sectionDocument{pages: [][]Fragment{frags}}
}
