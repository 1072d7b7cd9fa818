package document

import "testing"

func TestHTMLFragments(t *testing.T) {
	src := `<html><body>
<h1>Chapter One</h1>
<p>The first paragraph has <em>inline</em> markup.</p>
<p>  </p>
<p>Second paragraph.</p>
<ul><li>item one</li><li>item two</li></ul>
<script>ignore();</script>
</body></html>`

	frags, err := htmlFragments(src, 2)
	if err != nil {
		t.Fatalf("htmlFragments failed: %v", err)
	}

	want := []string{
		"Chapter One",
		"The first paragraph has inline markup.",
		"Second paragraph.",
		"item one",
		"item two",
	}
	if len(frags) != len(want) {
		t.Fatalf("got %d fragments, want %d: %+v", len(frags), len(want), frags)
	}
	for i, w := range want {
		if frags[i].Text != w {
			t.Errorf("fragment %d = %q, want %q", i, frags[i].Text, w)
		}
		if frags[i].Page != 2 {
			t.Errorf("fragment %d page = %d, want 2", i, frags[i].Page)
		}
		if frags[i].Box != nil {
			t.Errorf("fragment %d should have no box", i)
		}
	}
}

func TestHTMLFragmentsEmptyBody(t *testing.T) {
	frags, err := htmlFragments("<html><body>   </body></html>", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(frags) != 0 {
		t.Errorf("got %d fragments, want 0", len(frags))
	}
}
