package http1

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func writeResp(t *testing.T, status int, hdr map[string][]string, body []byte, keepAlive bool) string {
	t.Helper()
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := WriteResponse(bw, status, "", hdr, body, keepAlive); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String()
}

func TestWriteResponse_StatusLineAndLength(t *testing.T) {
	out := writeResp(t, 200, nil, []byte("hi"), false)
	if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("status line: %q", out)
	}
	if !strings.Contains(out, "Content-Length: 2\r\n") {
		t.Fatalf("missing computed Content-Length: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\nhi") {
		t.Fatalf("body placement: %q", out)
	}
	if !strings.Contains(out, "Connection: close\r\n") {
		t.Fatalf("missing Connection: close: %q", out)
	}
}

func TestWriteResponse_ExplicitContentLengthWins(t *testing.T) {
	hdr := map[string][]string{"Content-Length": {"2"}}
	out := writeResp(t, 200, hdr, []byte("hi"), true)
	if strings.Count(out, "Content-Length:") != 1 {
		t.Fatalf("Content-Length written twice: %q", out)
	}
	if !strings.Contains(out, "Connection: keep-alive\r\n") {
		t.Fatalf("missing Connection: keep-alive: %q", out)
	}
}

func TestWriteResponse_SortedHeaderOrder(t *testing.T) {
	hdr := map[string][]string{
		"X-B":          {"2"},
		"Content-Type": {"text/plain"},
		"X-A":          {"1"},
	}
	out := writeResp(t, 200, hdr, nil, false)
	ct := strings.Index(out, "Content-Type:")
	xa := strings.Index(out, "X-A:")
	xb := strings.Index(out, "X-B:")
	if ct < 0 || xa < 0 || xb < 0 || !(ct < xa && xa < xb) {
		t.Fatalf("headers not in sorted order: %q", out)
	}
}

func TestWriteResponse_SanitizesValues(t *testing.T) {
	hdr := map[string][]string{"X-Bad": {"a\r\nInjected: yes"}}
	out := writeResp(t, 200, hdr, nil, false)
	if strings.Contains(out, "\r\nInjected: yes\r\n") {
		t.Fatalf("header value not sanitized: %q", out)
	}
	if !strings.Contains(out, "X-Bad: aInjected: yes\r\n") {
		t.Fatalf("unexpected sanitized form: %q", out)
	}
}

func TestWriteResponse_UnknownStatusReason(t *testing.T) {
	out := writeResp(t, 799, nil, nil, false)
	if !strings.HasPrefix(out, "HTTP/1.1 799 Status 799\r\n") {
		t.Fatalf("status line: %q", out)
	}
}

func TestStatusText(t *testing.T) {
	if got := StatusText(404); got != "Not Found" {
		t.Fatalf("StatusText(404)=%q", got)
	}
	if got := StatusText(299); got != "Status 299" {
		t.Fatalf("StatusText(299)=%q", got)
	}
}
