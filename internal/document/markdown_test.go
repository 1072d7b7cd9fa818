package document

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMarkdown(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMarkdownPagesSplitAtHeadings(t *testing.T) {
	src := `# Chapter One

First paragraph of chapter one.

Second paragraph.

## Section 1.1

Nested section stays informative.

# Chapter Two

Chapter two text.
`
	doc, err := Open(writeMarkdown(t, src))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer doc.Close()

	// "# Chapter One" and "## Section 1.1" both start pages (level <= 2),
	// plus "# Chapter Two".
	if doc.PageCount() != 3 {
		t.Fatalf("PageCount = %d, want 3", doc.PageCount())
	}

	frags, err := doc.PageFragments(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(frags) != 3 {
		t.Fatalf("page 1: got %d fragments, want 3", len(frags))
	}
	if frags[0].Text != "Chapter One" {
		t.Errorf("page 1 fragment 0 = %q, want heading text", frags[0].Text)
	}
	if frags[1].Text != "First paragraph of chapter one." {
		t.Errorf("page 1 fragment 1 = %q", frags[1].Text)
	}

	frags, err = doc.PageFragments(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(frags) != 2 || frags[0].Text != "Chapter Two" {
		t.Errorf("page 3 fragments = %+v", frags)
	}
	for _, f := range frags {
		if f.Page != 3 {
			t.Errorf("page 3 fragment has page %d", f.Page)
		}
	}
}

func TestMarkdownOutline(t *testing.T) {
	src := "# Alpha\n\ntext\n\n## Beta\n\nmore\n"
	doc, err := Open(writeMarkdown(t, src))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer doc.Close()

	outline := doc.Outline()
	if len(outline) != 2 {
		t.Fatalf("got %d outline entries, want 2", len(outline))
	}
	if outline[0].Title != "Alpha" || outline[0].Page != 1 || outline[0].Level != 0 {
		t.Errorf("entry 0 = %+v", outline[0])
	}
	if outline[1].Title != "Beta" || outline[1].Page != 2 || outline[1].Level != 1 {
		t.Errorf("entry 1 = %+v", outline[1])
	}
}

func TestMarkdownNoHeadings(t *testing.T) {
	doc, err := Open(writeMarkdown(t, "Just a paragraph.\n\nAnd another one.\n"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1", doc.PageCount())
	}
	frags, err := doc.PageFragments(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(frags) != 2 {
		t.Errorf("got %d fragments, want 2", len(frags))
	}
}

func TestMarkdownEmpty(t *testing.T) {
	if _, err := Open(writeMarkdown(t, "")); err == nil {
		t.Error("expected error for empty markdown file")
	}
}

func TestMarkdownInlineFormatting(t *testing.T) {
	doc, err := Open(writeMarkdown(t, "Some *emphasized* and **bold** words.\n"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer doc.Close()

	frags, _ := doc.PageFragments(1)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Text != "Some emphasized and bold words." {
		t.Errorf("fragment = %q", frags[0].Text)
	}
}
