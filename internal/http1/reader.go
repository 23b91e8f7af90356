package http1

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse errors. Each names the expectation the input violated so the
// server can log something more useful than "bad request".
var (
	ErrRequestLine    = errors.New("http1: malformed request line")
	ErrVersion        = errors.New("http1: unsupported protocol version")
	ErrHeaderLine     = errors.New("http1: malformed header line")
	ErrHeaderTooLarge = errors.New("http1: header too large")
	ErrContentLength  = errors.New("http1: invalid Content-Length")
	ErrShortBody      = errors.New("http1: body shorter than declared Content-Length")
	ErrBodyTooLarge   = errors.New("http1: body too large")
	ErrChunkedBody    = errors.New("http1: chunked transfer encoding not supported")
)

// ParsedRequest is a minimal representation parsed from the wire.
// The body is read eagerly and bounded by Content-Length.
type ParsedRequest struct {
	Method        string
	RequestURI    string
	Proto         string
	Header        map[string][]string
	ContentLength int64
	Body          []byte
}

// Reader parses HTTP/1.1 requests from any buffered byte source.
// It has no knowledge of sockets; deadlines are the caller's job.
type Reader struct {
	BR             *bufio.Reader
	MaxHeaderBytes int
	MaxBodyBytes   int64
	// OnContinue, if non-nil, is called after the headers are parsed and
	// before the body is read when the client sent Expect: 100-continue.
	OnContinue func()
}

// ReadRequest reads one full request. A clean io.EOF before the first
// byte is returned as-is so callers can tell an idle close from a
// truncated message.
func (r *Reader) ReadRequest() (*ParsedRequest, error) {
	line, err := r.readLine()
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %w", ErrRequestLine, io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || strings.ContainsAny(parts[2], " ") {
		return nil, fmt.Errorf("%w: %q", ErrRequestLine, line)
	}
	method, uri, proto := parts[0], parts[1], parts[2]
	if !strings.HasPrefix(proto, "HTTP/1.") {
		return nil, fmt.Errorf("%w: %q", ErrVersion, proto)
	}
	hdr, err := r.readHeaders()
	if err != nil {
		return nil, err
	}
	if hasChunkedTE(hdr) {
		return nil, ErrChunkedBody
	}
	var cl int64
	if v := getHeader(hdr, "Content-Length"); v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrContentLength, v)
		}
		cl = n
	}
	if r.MaxBodyBytes > 0 && cl > r.MaxBodyBytes {
		return nil, fmt.Errorf("%w: %d bytes declared", ErrBodyTooLarge, cl)
	}
	var body []byte
	if cl > 0 {
		if r.OnContinue != nil && strings.EqualFold(getHeader(hdr, "Expect"), "100-continue") {
			r.OnContinue()
		}
		body = make([]byte, cl)
		if _, err := io.ReadFull(r.BR, body); err != nil {
			// Keep the underlying error in the chain so the caller can
			// still detect read deadline expiry.
			return nil, fmt.Errorf("%w: %w", ErrShortBody, err)
		}
	}
	return &ParsedRequest{
		Method:        method,
		RequestURI:    uri,
		Proto:         proto,
		Header:        hdr,
		ContentLength: cl,
		Body:          body,
	}, nil
}

func (r *Reader) readHeaders() (map[string][]string, error) {
	h := make(map[string][]string)
	for {
		line, err := r.readLine()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("%w: %w", ErrHeaderLine, err)
		}
		if line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrHeaderLine, line)
		}
		k := strings.TrimSpace(line[:i])
		v := strings.TrimSpace(line[i+1:])
		if SanitizeHeaderKey(k) == "" {
			return nil, fmt.Errorf("%w: %q", ErrHeaderLine, line)
		}
		addHeader(h, k, v)
	}
	return h, nil
}

func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.BR.ReadByte()
		if err != nil {
			return sb.String(), err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if r.MaxHeaderBytes > 0 && sb.Len() > r.MaxHeaderBytes {
			return "", ErrHeaderTooLarge
		}
	}
	return sb.String(), nil
}

// Repeated header names fold by appending, never by overwriting.
func addHeader(h map[string][]string, k, v string) {
	hk := CanonicalHeaderKey(k)
	h[hk] = append(h[hk], v)
}

func getHeader(h map[string][]string, k string) string {
	hk := CanonicalHeaderKey(k)
	if vv, ok := h[hk]; ok && len(vv) > 0 {
		return vv[0]
	}
	return ""
}

func hasChunkedTE(h map[string][]string) bool {
	for _, v := range h[CanonicalHeaderKey("Transfer-Encoding")] {
		if strings.Contains(strings.ToLower(v), "chunked") {
			return true
		}
	}
	return false
}

// CanonicalHeaderKey is a very small canonicalizer to avoid importing
// textproto here.
func CanonicalHeaderKey(s string) string {
	b := []byte(strings.ToLower(s))
	upper := true
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			if upper {
				b[i] = byte(c - 'a' + 'A')
			}
			upper = false
			continue
		}
		upper = c == '-'
	}
	return string(b)
}
