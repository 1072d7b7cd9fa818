package document

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

func run(s string, x, y, w, size float64) pdflib.Text {
	return pdflib.Text{S: s, X: x, Y: y, W: w, FontSize: size}
}

func TestMergeRunsSameLine(t *testing.T) {
	// Two runs on one baseline separated by more than 30% of the font size.
	runs := []pdflib.Text{
		run("Hello", 10, 700, 30, 12),
		run("world", 50, 700, 30, 12),
	}

	frags := mergeRuns(runs, 3)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	f := frags[0]
	if f.Text != "Hello world" {
		t.Errorf("text = %q, want %q", f.Text, "Hello world")
	}
	if f.Page != 3 {
		t.Errorf("page = %d, want 3", f.Page)
	}
	if f.Box == nil {
		t.Fatal("expected a bounding box")
	}
	if f.Box.X != 10 || f.Box.Y != 700 {
		t.Errorf("box origin = (%v,%v), want (10,700)", f.Box.X, f.Box.Y)
	}
	if f.Box.Width != 70 {
		t.Errorf("box width = %v, want 70", f.Box.Width)
	}
	if f.Box.Height != 12 {
		t.Errorf("box height = %v, want 12", f.Box.Height)
	}
}

func TestMergeRunsAdjacentNoSpace(t *testing.T) {
	// Sub-word runs with no gap must not get a space inserted.
	runs := []pdflib.Text{
		run("Hel", 10, 700, 15, 12),
		run("lo", 25, 700, 10, 12),
	}

	frags := mergeRuns(runs, 1)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Text != "Hello" {
		t.Errorf("text = %q, want %q", frags[0].Text, "Hello")
	}
}

func TestMergeRunsLineBreak(t *testing.T) {
	runs := []pdflib.Text{
		run("line one", 10, 700, 40, 12),
		run("line two", 10, 686, 40, 12),
		run("line three", 10, 672, 50, 12),
	}

	frags := mergeRuns(runs, 1)
	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3", len(frags))
	}
	want := []string{"line one", "line two", "line three"}
	for i, w := range want {
		if frags[i].Text != w {
			t.Errorf("fragment %d = %q, want %q", i, frags[i].Text, w)
		}
	}
	// Emission order preserved: Y decreases down the page.
	if !(frags[0].Box.Y > frags[1].Box.Y && frags[1].Box.Y > frags[2].Box.Y) {
		t.Error("fragments not in emission order")
	}
}

func TestMergeRunsDropsWhitespace(t *testing.T) {
	runs := []pdflib.Text{
		run("  ", 10, 700, 5, 12),
		run("\n", 15, 700, 0, 12),
	}
	if frags := mergeRuns(runs, 1); len(frags) != 0 {
		t.Errorf("got %d fragments from whitespace-only runs, want 0", len(frags))
	}
}

func TestMergeRunsEmpty(t *testing.T) {
	if frags := mergeRuns(nil, 1); len(frags) != 0 {
		t.Errorf("got %d fragments from empty input, want 0", len(frags))
	}
}

func TestMergeRunsMixedFontSize(t *testing.T) {
	runs := []pdflib.Text{
		run("Big", 10, 700, 20, 18),
		run("small", 45, 701, 20, 9),
	}

	frags := mergeRuns(runs, 1)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Box.Height != 18 {
		t.Errorf("box height = %v, want max font size 18", frags[0].Box.Height)
	}
}
