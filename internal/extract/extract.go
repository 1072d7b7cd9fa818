// Package extract pulls raw text fragments out of an open document. It is a
// thin layer over the document engines: failures propagate, nothing is
// retried or repaired here.
package extract

import (
	"fmt"

	"github.com/harkreader/hark/internal/document"
)

// Page returns the fragments of a single 1-based page.
func Page(doc document.Document, page int) ([]document.Fragment, error) {
	frags, err := doc.PageFragments(page)
	if err != nil {
		return nil, fmt.Errorf("extract page %d: %w", page, err)
	}
	return frags, nil
}

// Range returns fragments for pages start..end inclusive, in ascending page
// order. A failing page aborts the whole range.
func Range(doc document.Document, start, end int) ([]document.Fragment, error) {
	if start < 1 || end > doc.PageCount() || start > end {
		return nil, fmt.Errorf("invalid page range [%d,%d] for %d-page document",
			start, end, doc.PageCount())
	}

	var all []document.Fragment
	for page := start; page <= end; page++ {
		frags, err := Page(doc, page)
		if err != nil {
			return nil, err
		}
		all = append(all, frags...)
	}
	return all, nil
}
