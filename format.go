package render

import (
	"fmt"
	"strings"
)

// Format is the output kind of a render.
type Format string

// Supported output formats.
const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatMJML Format = "mjml"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatHTML, FormatPDF, FormatPNG, FormatJPG, FormatMJML}
}

// ParseFormat parses a format name, case-insensitively. "jpeg" is accepted
// as an alias of jpg.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "jpeg" {
		f = FormatJPG
	}
	if _, ok := variants[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return f, nil
}

// Extension returns the file extension of the format's output.
func (f Format) Extension() string {
	if v, ok := variants[f]; ok {
		return v.extension
	}
	return string(f)
}

// PaperFormat is a named PDF paper size.
type PaperFormat string

// Paper formats understood by the renderer.
const (
	PaperA0      PaperFormat = "A0"
	PaperA1      PaperFormat = "A1"
	PaperA2      PaperFormat = "A2"
	PaperA3      PaperFormat = "A3"
	PaperA4      PaperFormat = "A4"
	PaperA5      PaperFormat = "A5"
	PaperA6      PaperFormat = "A6"
	PaperLetter  PaperFormat = "Letter"
	PaperLegal   PaperFormat = "Legal"
	PaperTabloid PaperFormat = "Tabloid"
	PaperLedger  PaperFormat = "Ledger"
)

// PaperFormats returns the supported paper formats.
func PaperFormats() []PaperFormat {
	return []PaperFormat{
		PaperA0, PaperA1, PaperA2, PaperA3, PaperA4, PaperA5, PaperA6,
		PaperLetter, PaperLegal, PaperTabloid, PaperLedger,
	}
}

func isPaperFormat(p PaperFormat) bool {
	for _, known := range PaperFormats() {
		if p == known {
			return true
		}
	}
	return false
}

// Unit is a CSS length unit for margins.
type Unit string

// Length units. UnitCM is the default.
const (
	UnitPX Unit = "px"
	UnitMM Unit = "mm"
	UnitCM Unit = "cm"
	UnitIN Unit = "in"

	DefaultUnit = UnitCM
)

// Units returns the supported length units.
func Units() []Unit {
	return []Unit{UnitPX, UnitMM, UnitCM, UnitIN}
}

func isUnit(u Unit) bool {
	for _, known := range Units() {
		if u == known {
			return true
		}
	}
	return false
}

// appendUnit normalizes a margin value. Strings already ending in a known
// unit pass through. Otherwise a known unit is appended; an unknown unit
// leaves the value as given.
func appendUnit(value string, unit Unit) string {
	for _, u := range Units() {
		if strings.HasSuffix(value, string(u)) {
			return value
		}
	}
	if unit == "" {
		unit = DefaultUnit
	}
	if isUnit(unit) {
		return value + string(unit)
	}
	return value
}

// WaitUntil values accepted by the renderer.
const (
	WaitLoad             = "load"
	WaitDOMContentLoaded = "domcontentloaded"
	WaitNetworkIdle      = "networkidle0"
	WaitNetworkSettled   = "networkidle2"
)

// Emulated media types.
const (
	MediaScreen = "screen"
	MediaPrint  = "print"
)
