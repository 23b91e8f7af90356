package shttp

import "testing"

func TestHeaderCanonicalization(t *testing.T) {
	h := Header{}
	h.Add("x-foo", "a")
	h.Add("X-Foo", "b")
	if got := h.Get("X-FOO"); got != "a" {
		t.Fatalf("Get canonical = %q, want %q", got, "a")
	}
	if got := len(h.Values("x-FOO")); got != 2 {
		t.Fatalf("len values = %d, want 2", got)
	}
	h.Set("content-type", "text/plain")
	if got := h.Get("Content-Type"); got != "text/plain" {
		t.Fatalf("content-type = %q", got)
	}
	h.Del("x-foo")
	if got := h.Get("X-Foo"); got != "" {
		t.Fatalf("after Del, got %q, want empty", got)
	}
}

func TestHeaderNilSafe(t *testing.T) {
	var h Header
	if got := h.Get("Host"); got != "" {
		t.Fatalf("nil Get = %q", got)
	}
	h.Set("Host", "x") // must not panic
	h.Del("Host")
	if vv := h.Values("Host"); vv != nil {
		t.Fatalf("nil Values = %v", vv)
	}
}
