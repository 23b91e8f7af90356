package http1

import (
	"bufio"
	"errors"
	"strings"
	"testing"
)

func readReq(t *testing.T, raw string) (*ParsedRequest, error) {
	t.Helper()
	r := &Reader{BR: bufio.NewReader(strings.NewReader(raw)), MaxHeaderBytes: 8 << 10}
	return r.ReadRequest()
}

func TestReader_ContentLengthBody(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: x\r\nContent-Length: 5\r\n\r\nhello"
	pr, err := readReq(t, raw)
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if pr.ContentLength != 5 {
		t.Fatalf("ContentLength=%d", pr.ContentLength)
	}
	if string(pr.Body) != "hello" {
		t.Fatalf("body=%q", string(pr.Body))
	}
}

func TestReader_NoBodyWithoutContentLength(t *testing.T) {
	pr, err := readReq(t, "GET /x HTTP/1.1\r\nHost: x\r\n\r\n")
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if len(pr.Body) != 0 || pr.ContentLength != 0 {
		t.Fatalf("body=%q cl=%d", pr.Body, pr.ContentLength)
	}
	if pr.Method != "GET" || pr.RequestURI != "/x" || pr.Proto != "HTTP/1.1" {
		t.Fatalf("request line parsed as %s %s %s", pr.Method, pr.RequestURI, pr.Proto)
	}
}

func TestReader_ShortBody(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: x\r\nContent-Length: 10\r\n\r\nhi"
	if _, err := readReq(t, raw); !errors.Is(err, ErrShortBody) {
		t.Fatalf("err=%v, want ErrShortBody", err)
	}
}

func TestReader_BadRequestLine(t *testing.T) {
	for _, raw := range []string{
		"GARBAGE\r\n\r\n",
		"GET /\r\n\r\n",
		"GET / HTTP/1.1 junk\r\n\r\n",
		" / HTTP/1.1\r\n\r\n",
	} {
		if _, err := readReq(t, raw); !errors.Is(err, ErrRequestLine) {
			t.Fatalf("raw=%q err=%v, want ErrRequestLine", raw, err)
		}
	}
}

func TestReader_UnsupportedVersion(t *testing.T) {
	if _, err := readReq(t, "GET / HTTP/2.0\r\n\r\n"); !errors.Is(err, ErrVersion) {
		t.Fatalf("err=%v, want ErrVersion", err)
	}
}

func TestReader_HeaderWithoutColon(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost x\r\n\r\n"
	if _, err := readReq(t, raw); !errors.Is(err, ErrHeaderLine) {
		t.Fatalf("err=%v, want ErrHeaderLine", err)
	}
}

func TestReader_InvalidHeaderName(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nBad( : v\r\n\r\n"
	if _, err := readReq(t, raw); !errors.Is(err, ErrHeaderLine) {
		t.Fatalf("err=%v, want ErrHeaderLine", err)
	}
}

func TestReader_TruncatedHeaders(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost: x\r\n"
	if _, err := readReq(t, raw); !errors.Is(err, ErrHeaderLine) {
		t.Fatalf("err=%v, want ErrHeaderLine", err)
	}
}

func TestReader_RepeatedHeadersFold(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nX-Tag: a\r\nx-tag: b\r\n\r\n"
	pr, err := readReq(t, raw)
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	vv := pr.Header[CanonicalHeaderKey("X-TAG")]
	if len(vv) != 2 || vv[0] != "a" || vv[1] != "b" {
		t.Fatalf("folded values=%v", vv)
	}
}

func TestReader_ChunkedRejected(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n"
	if _, err := readReq(t, raw); !errors.Is(err, ErrChunkedBody) {
		t.Fatalf("err=%v, want ErrChunkedBody", err)
	}
}

func TestReader_InvalidContentLength(t *testing.T) {
	for _, v := range []string{"abc", "-1", "5x"} {
		raw := "POST / HTTP/1.1\r\nContent-Length: " + v + "\r\n\r\n"
		if _, err := readReq(t, raw); !errors.Is(err, ErrContentLength) {
			t.Fatalf("cl=%q err=%v, want ErrContentLength", v, err)
		}
	}
}

func TestReader_BodyLimit(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\n"
	r := &Reader{BR: bufio.NewReader(strings.NewReader(raw)), MaxBodyBytes: 10}
	if _, err := r.ReadRequest(); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("err=%v, want ErrBodyTooLarge", err)
	}
}

func TestReader_HeaderLineLimit(t *testing.T) {
	raw := "GET /" + strings.Repeat("a", 100) + " HTTP/1.1\r\n\r\n"
	r := &Reader{BR: bufio.NewReader(strings.NewReader(raw)), MaxHeaderBytes: 32}
	if _, err := r.ReadRequest(); !errors.Is(err, ErrHeaderTooLarge) {
		t.Fatalf("err=%v, want ErrHeaderTooLarge", err)
	}
}

func TestReader_ExpectContinueCallback(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nExpect: 100-continue\r\nContent-Length: 2\r\n\r\nok"
	called := false
	r := &Reader{
		BR:         bufio.NewReader(strings.NewReader(raw)),
		OnContinue: func() { called = true },
	}
	pr, err := r.ReadRequest()
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if !called {
		t.Fatal("OnContinue not called")
	}
	if string(pr.Body) != "ok" {
		t.Fatalf("body=%q", pr.Body)
	}
}

func TestCanonicalHeaderKey(t *testing.T) {
	for in, want := range map[string]string{
		"content-length": "Content-Length",
		"X-REQUEST-ID":   "X-Request-Id",
		"hOst":           "Host",
	} {
		if got := CanonicalHeaderKey(in); got != want {
			t.Fatalf("CanonicalHeaderKey(%q)=%q, want %q", in, got, want)
		}
	}
}
