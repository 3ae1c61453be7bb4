// Package fingerprint derives stable cache keys.
//
// Two derivations exist. RenderKey digests the canonical JSON of a render
// request so that requests with the same semantic content collide. RequestKey
// digests the identity tuple of an inbound HTTP request for server-side
// render caching. Both produce 32-character lowercase hex MD5 digests.
package fingerprint

import (
	"crypto/md5" // #nosec G501 -- cache key digest, not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// partSeparator joins the identity tuple before hashing.
const partSeparator = "|"

// RenderKeyPrefix namespaces render cache entries in a shared store.
const RenderKeyPrefix = "render"

// Digest returns the hex MD5 of data.
func Digest(data []byte) string {
	sum := md5.Sum(data) // #nosec G401 -- see import note
	return hex.EncodeToString(sum[:])
}

// Canonical returns the canonical JSON encoding of v.
// Values are round-tripped through a generic decode so that struct field
// order never leaks into the result: every object is re-encoded with its
// keys sorted, which encoding/json does for maps.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: encoding value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("fingerprint: normalizing value: %w", err)
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: encoding value: %w", err)
	}
	return out, nil
}

// RenderKey returns the cache key for a render request of the given format.
// The key has the form render:<format>:<digest>.
func RenderKey(format string, request any) (string, error) {
	canonical, err := Canonical(request)
	if err != nil {
		return "", err
	}
	return RenderKeyPrefix + ":" + format + ":" + Digest(canonical), nil
}

// RequestIdentity is the tuple that identifies an inbound request.
type RequestIdentity struct {
	Marker  string // caller type, e.g. "*http.Request"
	Method  string
	URL     string // absolute URL without the query string
	Headers string // serialized headers, empty when not keyed
	Params  string // serialized query and form parameters
	User    string // authenticated user identifier, empty when anonymous
}

// Parts returns the tuple in hashing order with empty parts dropped.
func (id RequestIdentity) Parts() []string {
	all := []string{id.Marker, id.Method, id.URL, id.Headers, id.Params, id.User}
	parts := make([]string, 0, len(all))
	for _, p := range all {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Key returns the digest of the non-empty parts joined by "|".
func (id RequestIdentity) Key() string {
	return Digest([]byte(strings.Join(id.Parts(), partSeparator)))
}

// IdentityOptions selects which optional parts of a request are keyed.
type IdentityOptions struct {
	Headers bool
	Params  bool
	User    string
}

// Identify builds the identity tuple of r.
// The form is parsed when Params is set, which consumes a urlencoded body.
func Identify(r *http.Request, opts IdentityOptions) RequestIdentity {
	id := RequestIdentity{
		Marker: fmt.Sprintf("%T", r),
		Method: r.Method,
		URL:    absoluteURL(r),
		User:   opts.User,
	}
	if opts.Headers {
		id.Headers = url.Values(r.Header).Encode()
	}
	if opts.Params {
		id.Params = requestParams(r).Encode()
	}
	return id
}

// RequestKey is shorthand for Identify(r, opts).Key().
func RequestKey(r *http.Request, opts IdentityOptions) string {
	return Identify(r, opts).Key()
}

// absoluteURL rebuilds scheme://host/path for r.
func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	u := url.URL{Scheme: scheme, Host: host, Path: r.URL.Path}
	return strings.TrimSuffix(u.String(), "/")
}

// requestParams merges query and form values.
func requestParams(r *http.Request) url.Values {
	params := url.Values{}
	for k, vs := range r.URL.Query() {
		params[k] = append(params[k], vs...)
	}
	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		if err := r.ParseForm(); err == nil {
			for k, vs := range r.PostForm {
				params[k] = append(params[k], vs...)
			}
		}
	}
	return params
}

// Policy is the freshness rule of a cache entry.
type Policy struct {
	TTL time.Duration
}

// Forever reports whether entries never expire.
func (p Policy) Forever() bool {
	return p.TTL <= 0
}
