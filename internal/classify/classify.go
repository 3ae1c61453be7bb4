// Package classify turns failure payloads of the remote render service into
// a message and an optional human readable description.
//
// Payloads are either structured objects such as
// {"error":"NetError","message":"net::ERR_CONNECTION_REFUSED at https://..."}
// or arbitrary text that may embed such an object. Descriptions are matched
// against an ordered catalog of Chromium network error codes; on the first
// match the roles swap so the message carries the full browser text and the
// description carries the catalog hint, or the bare code when there is none.
package classify

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DocsURL points operators at the renderer documentation.
const DocsURL = "https://github.com/alnah/go-render#readme"

// netPrefix is the Chromium network stack prefix stripped from descriptions.
const netPrefix = "net::"

// entry is one catalog line. An empty Hint means the code describes itself.
type entry struct {
	Code string
	Hint string
}

// Result is a classified failure.
type Result struct {
	// Code is the matched catalog code, or the error/type category of a
	// structured payload when nothing matched. Empty for plain text.
	Code string
	// Message is the short category, or the full browser text after a match.
	Message string
	// Description is the operator hint. Nil when the payload had none.
	Description *string
}

// Classify inspects a failure body. contentType is the response Content-Type
// and only decides whether the body is decoded as JSON up front.
func Classify(body []byte, contentType string) Result {
	if payload, ok := decodeStructured(body, contentType); ok {
		return normalize(classifyValue(payload))
	}
	return normalize(classifyText(string(body)))
}

// Codes returns a copy of the catalog codes in matching order.
func Codes() []string {
	codes := make([]string, len(catalog))
	for i, e := range catalog {
		codes[i] = e.Code
	}
	return codes
}

// Lookup returns the catalog hint for code and whether code is catalogued.
func Lookup(code string) (hint string, ok bool) {
	for _, e := range catalog {
		if e.Code == code {
			return e.Hint, true
		}
	}
	return "", false
}

// decodeStructured decodes body as JSON when the response declares it.
func decodeStructured(body []byte, contentType string) (any, bool) {
	if !strings.Contains(strings.ToLower(contentType), "json") {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	return v, true
}

// classifyText handles a raw text payload, extracting the outermost
// {...} span as a best effort JSON object.
func classifyText(text string) Result {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return Result{Message: text}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return Result{Message: text}
	}
	if isCategorized(obj) {
		return classifyObject(obj)
	}
	if msg, ok := obj["message"]; ok && msg != nil {
		return Result{Message: stringify(msg)}
	}
	return Result{Message: text}
}

// classifyValue handles a decoded JSON payload of any shape.
func classifyValue(v any) Result {
	obj, ok := v.(map[string]any)
	if !ok {
		return Result{Message: stringify(v)}
	}
	if isCategorized(obj) {
		return classifyObject(obj)
	}
	if msg, ok := obj["message"].(string); ok {
		return Result{Message: msg}
	}
	return Result{Message: stringify(obj)}
}

// isCategorized reports whether obj carries message and error or type.
func isCategorized(obj map[string]any) bool {
	_, hasMessage := obj["message"]
	_, hasError := obj["error"]
	_, hasType := obj["type"]
	return hasMessage && (hasError || hasType)
}

// classifyObject applies the catalog to a categorized object.
func classifyObject(obj map[string]any) Result {
	description := strings.ReplaceAll(stringify(obj["message"]), netPrefix, "")

	category := obj["error"]
	if category == nil {
		category = obj["type"]
	}
	message := stringify(category)

	res := Result{Code: message, Message: message, Description: &description}
	if e, ok := match(description); ok {
		hint := e.Hint
		if hint == "" {
			hint = e.Code
		}
		res.Code = e.Code
		res.Message = description
		res.Description = &hint
	}
	return res
}

// match returns the first catalog entry whose code occurs in description.
func match(description string) (entry, bool) {
	for _, e := range catalog {
		if strings.Contains(description, e.Code) {
			return e, true
		}
	}
	return entry{}, false
}

// stringify returns strings as is and pretty prints anything else as JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// normalize renames the wire protocol's float type to the public one.
func normalize(r Result) Result {
	r.Message = strings.ReplaceAll(r.Message, "double", "float")
	if r.Description != nil {
		d := strings.ReplaceAll(*r.Description, "double", "float")
		r.Description = &d
	}
	return r
}
