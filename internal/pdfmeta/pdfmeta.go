// Package pdfmeta merges document information tags into a rendered PDF.
//
// It is deliberately not a PDF parser. The first indirect object of the file
// (between the literal anchors "obj" and "endobj") is assumed to hold the
// information dictionary, which is how Chromium lays out its output. The
// dictionary lines matching /Name (value) are extracted, merged with the
// caller's tags and written back at the same byte offsets.
//
// Known limitation: the splice changes the length of the object without
// rewriting the cross-reference table, so byte offsets of later objects are
// stale. Most readers rebuild the table and open such files without complaint.
package pdfmeta

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
)

// Standard information dictionary keys.
const (
	TagAuthor       = "Author"
	TagSubject      = "Subject"
	TagKeywords     = "Keywords"
	TagCreator      = "Creator"
	TagProducer     = "Producer"
	TagCreationDate = "CreationDate"
	TagModDate      = "ModDate"
	TagTitle        = "Title"
)

// nbsp replaces spaces inside tag names; a bare space ends a PDF name token.
const nbsp = "\xc2\xa0"

var (
	objOpen    = []byte("obj")
	objClose   = []byte("endobj")
	dictOpen   = []byte("<<")
	dictClose  = []byte(">>")
	tagPattern = regexp.MustCompile(`/(\w+) \(((?:[^()\\]|\\.)+)\)`)

	literalEscaper = strings.NewReplacer(
		`\`, `\\`,
		"(", `\(`,
		")", `\)`,
		"\r", `\r`,
		"\n", `\n`,
	)
)

// Tag is one name/value pair in document order. Value holds the decoded
// text, not the escaped literal string.
type Tag struct {
	Name  string
	Value string
}

// Tags maps tag names to values as supplied by the caller.
type Tags map[string]string

// Span locates the information dictionary body, the bytes between "<<" and
// ">>" inside the first object. ok is false when an anchor is missing.
func Span(pdf []byte) (start, end int, ok bool) {
	objAt := bytes.Index(pdf, objOpen)
	if objAt == -1 {
		return 0, 0, false
	}
	bodyStart := objAt + len(objOpen)
	endAt := bytes.Index(pdf[bodyStart:], objClose)
	if endAt == -1 {
		return 0, 0, false
	}
	body := pdf[bodyStart : bodyStart+endAt]

	open := bytes.Index(body, dictOpen)
	if open == -1 {
		return 0, 0, false
	}
	inner := body[open+len(dictOpen):]
	closeAt := bytes.Index(inner, dictClose)
	if closeAt == -1 {
		return 0, 0, false
	}
	start = bodyStart + open + len(dictOpen)
	return start, start + closeAt, true
}

// Extract returns the tags of the information dictionary in document order.
func Extract(pdf []byte) []Tag {
	start, end, ok := Span(pdf)
	if !ok {
		return nil
	}
	return parseLines(string(pdf[start:end]))
}

// parseLines applies the /Name (value) pattern to each line of a dictionary.
func parseLines(dict string) []Tag {
	var tags []Tag
	for _, line := range strings.Split(dict, "\n") {
		m := tagPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		tags = append(tags, Tag{Name: m[1], Value: unescapeLiteral(m[2])})
	}
	return tags
}

// Merge overlays custom on extracted. Extracted names keep their position,
// names only present in custom follow in sorted order, and empty values are
// dropped.
func Merge(extracted []Tag, custom Tags) []Tag {
	merged := make([]Tag, 0, len(extracted)+len(custom))
	seen := make(map[string]bool, len(extracted))
	for _, t := range extracted {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		if v, ok := custom[t.Name]; ok {
			t.Value = v
		}
		if t.Value != "" {
			merged = append(merged, t)
		}
	}

	extra := make([]string, 0, len(custom))
	for name := range custom {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		if v := custom[name]; v != "" {
			merged = append(merged, Tag{Name: name, Value: v})
		}
	}
	return merged
}

// Encode renders tags as newline separated /Name (value) lines. Values are
// written as PDF literal strings: backslash and parentheses are escaped, and
// so are line breaks, which would otherwise split a line.
func Encode(tags []Tag) string {
	lines := make([]string, len(tags))
	for i, t := range tags {
		lines[i] = "/" + strings.ReplaceAll(t.Name, " ", nbsp) + " (" + literalEscaper.Replace(t.Value) + ")"
	}
	return strings.Join(lines, "\n")
}

// unescapeLiteral decodes the escape sequences of a PDF literal string.
// Unknown escapes yield the escaped byte, as readers do.
func unescapeLiteral(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n := 0
			j := i
			for ; j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7'; j++ {
				n = n*8 + int(s[j]-'0')
			}
			b.WriteByte(byte(n))
			i = j - 1
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}

// Patch merges custom into the information dictionary of pdf.
// With no custom tags the input is returned as is and ok is true. When the
// dictionary cannot be located the input is returned as is and ok is false.
// The input slice is never modified.
func Patch(pdf []byte, custom Tags) (out []byte, ok bool) {
	if len(custom) == 0 {
		return pdf, true
	}
	start, end, found := Span(pdf)
	if !found {
		return pdf, false
	}

	tags := Merge(parseLines(string(pdf[start:end])), custom)
	dict := "\n" + Encode(tags) + "\n"

	out = make([]byte, 0, len(pdf)-(end-start)+len(dict))
	out = append(out, pdf[:start]...)
	out = append(out, dict...)
	out = append(out, pdf[end:]...)
	return out, true
}
