package shttp

import (
	"net/textproto"
)

// Header is a case-insensitive header map. Keys are stored in canonical
// MIME form; every accessor canonicalizes, so lookups work regardless
// of the casing the caller (or the wire) used.
type Header map[string][]string

func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	k := textproto.CanonicalMIMEHeaderKey(key)
	if vv, ok := h[k]; ok && len(vv) > 0 {
		return vv[0]
	}
	return ""
}

// Values returns all values stored for key, in the order they were added.
func (h Header) Values(key string) []string {
	if h == nil {
		return nil
	}
	return h[textproto.CanonicalMIMEHeaderKey(key)]
}

func (h Header) Set(key, value string) {
	if h == nil {
		return
	}
	h[textproto.CanonicalMIMEHeaderKey(key)] = []string{value}
}

func (h Header) Add(key, value string) {
	if h == nil {
		return
	}
	k := textproto.CanonicalMIMEHeaderKey(key)
	h[k] = append(h[k], value)
}

func (h Header) Del(key string) {
	if h == nil {
		return
	}
	delete(h, textproto.CanonicalMIMEHeaderKey(key))
}
