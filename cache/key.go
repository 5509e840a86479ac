package cache

import (
	"net/url"
	"strings"
)

// Key identifies a cached query: a resource path plus the request filter parameters.
// Two different filter sets for the same resource are distinct entries.
type Key struct {
	Parts  []string
	Params url.Values
}

// NewKey creates a key from resource path parts
func NewKey(parts ...string) Key {
	return Key{Parts: parts}
}

// With returns a copy of the key carrying params; empty values are dropped.
func (k Key) With(params url.Values) Key {
	ret := Key{Parts: append([]string(nil), k.Parts...)}
	for name, values := range params {
		for _, value := range values {
			if value == "" {
				continue
			}
			if ret.Params == nil {
				ret.Params = url.Values{}
			}
			ret.Params.Add(name, value)
		}
	}
	return ret
}

// String returns canonical key representation, params are sorted.
func (k Key) String() string {
	ret := strings.Join(k.Parts, "/")
	if encoded := k.Params.Encode(); encoded != "" {
		ret += "?" + encoded
	}
	return ret
}

// Equal reports exact key match
func (k Key) Equal(other Key) bool {
	return k.String() == other.String()
}

// HasPrefix reports whether k falls under prefix: prefix parts lead k's parts and
// prefix params, when given, match exactly. A prefix without params matches every filter variant.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.Parts) > len(k.Parts) {
		return false
	}
	for i, part := range prefix.Parts {
		if k.Parts[i] != part {
			return false
		}
	}
	if len(prefix.Params) == 0 {
		return true
	}
	return prefix.Params.Encode() == k.Params.Encode()
}
