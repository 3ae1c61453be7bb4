package render

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
)

// Margin holds the four page margins as CSS lengths, e.g. "1cm".
type Margin struct {
	Top    string `json:"top,omitempty"`
	Right  string `json:"right,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
}

// Clip is a screenshot rectangle in CSS pixels.
type Clip struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Options is the options object of a render request. A nil field is absent
// from the request and leaves the service default in place.
type Options struct {
	DPI       *float64 `json:"dpi,omitempty"`
	Timeout   *int     `json:"timeout,omitempty"`
	WaitUntil *string  `json:"waitUntil,omitempty"`

	// PDF
	Format              *string  `json:"format,omitempty"`
	Width               *int     `json:"width,omitempty"`
	Height              *int     `json:"height,omitempty"`
	Margin              *Margin  `json:"margin,omitempty"`
	EmulatedMedia       *string  `json:"emulatedMedia,omitempty"`
	DisplayHeaderFooter *bool    `json:"displayHeaderFooter,omitempty"`
	HeaderTemplate      *string  `json:"headerTemplate,omitempty"`
	FooterTemplate      *string  `json:"footerTemplate,omitempty"`
	PageRanges          *string  `json:"pageRanges,omitempty"`
	PrintBackground     *bool    `json:"printBackground,omitempty"`
	PreferCSSPageSize   *bool    `json:"preferCSSPageSize,omitempty"`
	Landscape           *bool    `json:"landscape,omitempty"`
	Scale               *float64 `json:"scale,omitempty"`

	// PNG and JPG
	FullPage       *bool   `json:"fullPage,omitempty"`
	Clip           *Clip   `json:"clip,omitempty"`
	Selector       *string `json:"selector,omitempty"`
	OmitBackground *bool   `json:"omitBackground,omitempty"`
	Quality        *int    `json:"quality,omitempty"`

	// Extra holds keys without a typed field. It is serialized alongside
	// the typed fields.
	Extra map[string]any `json:"-"`
}

// plainOptions has the fields of Options without its methods.
type plainOptions Options

// MarshalJSON encodes the options as one object with sorted keys.
func (o Options) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(plainOptions(o))
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	merged := map[string]any{}
	if err := dec.Decode(&merged); err != nil {
		return nil, err
	}
	for k, v := range o.Extra {
		if _, typed := optionFields[k]; typed || v == nil {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes typed keys into fields and the rest into Extra.
func (o *Options) UnmarshalJSON(data []byte) error {
	var plain plainOptions
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	*o = Options(plain)
	for k, v := range all {
		if _, typed := optionFields[k]; typed || v == nil {
			continue
		}
		if o.Extra == nil {
			o.Extra = map[string]any{}
		}
		o.Extra[k] = v
	}
	return nil
}

// Set stores value under key, or removes key when value is nil. Values of
// the wrong type for a typed key are ignored.
func (o *Options) Set(key string, value any) {
	field, typed := optionFields[key]
	if !typed {
		if value == nil {
			delete(o.Extra, key)
			return
		}
		if o.Extra == nil {
			o.Extra = map[string]any{}
		}
		o.Extra[key] = value
		return
	}
	if value == nil {
		field.clear(o)
		return
	}
	field.set(o, value)
}

// Get returns the value stored under key.
func (o Options) Get(key string) (any, bool) {
	if field, typed := optionFields[key]; typed {
		return field.get(&o)
	}
	v, ok := o.Extra[key]
	return v, ok
}

// Has reports whether key is set.
func (o Options) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the set keys in sorted order.
func (o Options) Keys() []string {
	var keys []string
	for k, field := range optionFields {
		if _, ok := field.get(&o); ok {
			keys = append(keys, k)
		}
	}
	for k := range o.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	out := Options{}
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		switch t := v.(type) {
		case Margin:
			out.Set(k, t)
		case Clip:
			out.Set(k, t)
		default:
			out.Set(k, v)
		}
	}
	return out
}

// optionField binds a wire key to a typed field.
type optionField struct {
	set   func(o *Options, v any) bool
	clear func(o *Options)
	get   func(o *Options) (any, bool)
}

func field[T any](ref func(o *Options) **T, coerce func(any) (T, bool)) optionField {
	return optionField{
		set: func(o *Options, v any) bool {
			val, ok := coerce(v)
			if ok {
				*ref(o) = &val
			}
			return ok
		},
		clear: func(o *Options) { *ref(o) = nil },
		get: func(o *Options) (any, bool) {
			p := *ref(o)
			if p == nil {
				return nil, false
			}
			return *p, true
		},
	}
}

var optionFields = map[string]optionField{
	"dpi":                 field(func(o *Options) **float64 { return &o.DPI }, toFloat),
	"timeout":             field(func(o *Options) **int { return &o.Timeout }, toInt),
	"waitUntil":           field(func(o *Options) **string { return &o.WaitUntil }, toString),
	"format":              field(func(o *Options) **string { return &o.Format }, toString),
	"width":               field(func(o *Options) **int { return &o.Width }, toInt),
	"height":              field(func(o *Options) **int { return &o.Height }, toInt),
	"margin":              field(func(o *Options) **Margin { return &o.Margin }, toMargin),
	"emulatedMedia":       field(func(o *Options) **string { return &o.EmulatedMedia }, toString),
	"displayHeaderFooter": field(func(o *Options) **bool { return &o.DisplayHeaderFooter }, toBool),
	"headerTemplate":      field(func(o *Options) **string { return &o.HeaderTemplate }, toString),
	"footerTemplate":      field(func(o *Options) **string { return &o.FooterTemplate }, toString),
	"pageRanges":          field(func(o *Options) **string { return &o.PageRanges }, toString),
	"printBackground":     field(func(o *Options) **bool { return &o.PrintBackground }, toBool),
	"preferCSSPageSize":   field(func(o *Options) **bool { return &o.PreferCSSPageSize }, toBool),
	"landscape":           field(func(o *Options) **bool { return &o.Landscape }, toBool),
	"scale":               field(func(o *Options) **float64 { return &o.Scale }, toFloat),
	"fullPage":            field(func(o *Options) **bool { return &o.FullPage }, toBool),
	"clip":                field(func(o *Options) **Clip { return &o.Clip }, toClip),
	"selector":            field(func(o *Options) **string { return &o.Selector }, toString),
	"omitBackground":      field(func(o *Options) **bool { return &o.OmitBackground }, toBool),
	"quality":             field(func(o *Options) **int { return &o.Quality }, toInt),
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func toString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func toMargin(v any) (Margin, bool) {
	switch m := v.(type) {
	case Margin:
		return m, true
	case *Margin:
		if m != nil {
			return *m, true
		}
	}
	return Margin{}, false
}

func toClip(v any) (Clip, bool) {
	switch c := v.(type) {
	case Clip:
		return c, true
	case *Clip:
		if c != nil {
			return *c, true
		}
	}
	return Clip{}, false
}
