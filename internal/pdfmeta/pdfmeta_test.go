package pdfmeta

// Notes:
// - Fixtures are hand-written PDF fragments shaped like Chromium output; the
//   patcher never looks past the first object, so the tail is a placeholder.
// - Idempotency is checked on the merged tag set, not on raw bytes.

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const chromiumPDF = "%PDF-1.4\n%\xd3\xeb\xe9\xe1\n1 0 obj\n<</Creator (Chromium)\n/Producer (Skia/PDF m120)\n/CreationDate (D:20240101000000+00'00')\n/ModDate (D:20240101000000+00'00')>>\nendobj\n3 0 obj\n<</Type /Catalog>>\nendobj\ntrailer\n%%EOF"

// ---------------------------------------------------------------------------
// TestSpan - Anchor location
// ---------------------------------------------------------------------------

func TestSpan(t *testing.T) {
	t.Parallel()

	start, end, ok := Span([]byte(chromiumPDF))
	if !ok {
		t.Fatal("Span() ok = false on Chromium fixture")
	}
	got := chromiumPDF[start:end]
	if got[:len("/Creator")] != "/Creator" || got[len(got)-len("+00'00')"):] != "+00'00')" {
		t.Errorf("Span() = %q", got)
	}

	for _, bad := range []string{"", "no anchors here", "1 0 obj <</A (b)", "1 0 obj /A (b) endobj"} {
		if _, _, ok := Span([]byte(bad)); ok {
			t.Errorf("Span(%q) ok = true, want false", bad)
		}
	}
}

// ---------------------------------------------------------------------------
// TestExtract - Dictionary line parsing
// ---------------------------------------------------------------------------

func TestExtract(t *testing.T) {
	t.Parallel()

	want := []Tag{
		{Name: "Creator", Value: "Chromium"},
		{Name: "Producer", Value: "Skia/PDF m120"},
		{Name: "CreationDate", Value: "D:20240101000000+00'00'"},
		{Name: "ModDate", Value: "D:20240101000000+00'00'"},
	}
	if diff := cmp.Diff(want, Extract([]byte(chromiumPDF))); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestMerge - Caller wins, empties dropped, stable order
// ---------------------------------------------------------------------------

func TestMerge(t *testing.T) {
	t.Parallel()

	extracted := []Tag{
		{Name: "Creator", Value: "Chromium"},
		{Name: "Producer", Value: "Skia"},
		{Name: "Title", Value: "Old"},
	}
	custom := Tags{
		"Producer": "go-render/1.0.0",
		"Title":    "",
		"Author":   "Jane",
		"Subject":  "Invoice",
	}

	want := []Tag{
		{Name: "Creator", Value: "Chromium"},
		{Name: "Producer", Value: "go-render/1.0.0"},
		{Name: "Author", Value: "Jane"},
		{Name: "Subject", Value: "Invoice"},
	}
	if diff := cmp.Diff(want, Merge(extracted, custom)); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_NonBreakingSpaceInNames(t *testing.T) {
	t.Parallel()

	got := Encode([]Tag{{Name: "Project Code", Value: "X 1"}, {Name: "Author", Value: "Jane"}})
	want := "/Project\xc2\xa0Code (X 1)\n/Author (Jane)"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncode_EscapesLiteralStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"closing paren", "a)b", `/Title (a\)b)`},
		{"both parens", "Report (draft)", `/Title (Report \(draft\))`},
		{"backslash", `C:\docs`, `/Title (C:\\docs)`},
		{"line break", "one\ntwo", `/Title (one\ntwo)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Encode([]Tag{{Name: "Title", Value: tt.value}}); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPatch_SpecialCharactersSurviveExtraction(t *testing.T) {
	t.Parallel()

	custom := Tags{
		"Title":   "Q1 (final) report",
		"Subject": "a)b",
		"Author":  `Dept\Finance`,
	}
	out, ok := Patch([]byte(chromiumPDF), custom)
	if !ok {
		t.Fatal("Patch() ok = false")
	}

	got := map[string]string{}
	for _, tag := range Extract(out) {
		got[tag.Name] = tag.Value
	}
	for name, want := range custom {
		if got[name] != want {
			t.Errorf("Extract()[%s] = %q, want %q", name, got[name], want)
		}
	}
}

func TestExtract_DecodesEscapes(t *testing.T) {
	t.Parallel()

	pdf := "1 0 obj\n<</Title (a\\)b \\(c\\))\n/Author (x\\\\y)\n/Subject (\\101\\102)>>\nendobj"
	want := []Tag{
		{Name: "Title", Value: "a)b (c)"},
		{Name: "Author", Value: `x\y`},
		{Name: "Subject", Value: "AB"},
	}
	if diff := cmp.Diff(want, Extract([]byte(pdf))); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestPatch - Splicing
// ---------------------------------------------------------------------------

func TestPatch_NoCustomTagsIsNoop(t *testing.T) {
	t.Parallel()

	in := []byte(chromiumPDF)
	out, ok := Patch(in, nil)
	if !ok {
		t.Error("Patch() ok = false for empty tags")
	}
	if !bytes.Equal(out, in) {
		t.Error("Patch() changed bytes with no custom tags")
	}
}

func TestPatch_MissingAnchors(t *testing.T) {
	t.Parallel()

	in := []byte("not a pdf")
	out, ok := Patch(in, Tags{"Author": "Jane"})
	if ok {
		t.Error("Patch() ok = true without anchors")
	}
	if !bytes.Equal(out, in) {
		t.Error("Patch() changed bytes without anchors")
	}
}

func TestPatch_MergesAndPreservesSurroundings(t *testing.T) {
	t.Parallel()

	in := []byte(chromiumPDF)
	original := append([]byte(nil), in...)
	out, ok := Patch(in, Tags{"Author": "Jane Doe", "Creator": "Acme"})
	if !ok {
		t.Fatal("Patch() ok = false")
	}
	if !bytes.Equal(in, original) {
		t.Error("Patch() modified its input")
	}

	want := []Tag{
		{Name: "Creator", Value: "Acme"},
		{Name: "Producer", Value: "Skia/PDF m120"},
		{Name: "CreationDate", Value: "D:20240101000000+00'00'"},
		{Name: "ModDate", Value: "D:20240101000000+00'00'"},
		{Name: "Author", Value: "Jane Doe"},
	}
	if diff := cmp.Diff(want, Extract(out)); diff != "" {
		t.Errorf("Extract(Patch()) mismatch (-want +got):\n%s", diff)
	}

	if !bytes.HasPrefix(out, []byte("%PDF-1.4\n%\xd3\xeb\xe9\xe1\n1 0 obj\n<<")) {
		t.Errorf("header not preserved: %q", out[:30])
	}
	if !bytes.HasSuffix(out, []byte(">>\nendobj\n3 0 obj\n<</Type /Catalog>>\nendobj\ntrailer\n%%EOF")) {
		t.Error("tail not preserved")
	}
}

func TestPatch_IdempotentTagSet(t *testing.T) {
	t.Parallel()

	custom := Tags{"Author": "Jane", "Keywords": "a; b", "Project Code": "P-1"}
	in := []byte(chromiumPDF)

	once, _ := Patch(in, custom)
	twice, _ := Patch(once, custom)

	first := Merge(Extract(once), custom)
	second := Merge(Extract(twice), custom)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("tag set changed on second pass (-first +second):\n%s", diff)
	}
	if !bytes.Equal(once, twice) {
		t.Error("second pass changed the bytes")
	}
}
