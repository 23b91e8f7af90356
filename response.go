package shttp

// Response is what a handler returns. It is consumed exactly once by
// the connection handler, which serializes it to the wire. The
// serializer computes Content-Length from the body; a handler that sets
// Content-Length itself must set it consistently or the response is
// treated as a handler failure.
type Response struct {
	StatusCode int
	Header     Header
	Body       []byte

	// File-backed bodies are resolved by the server just before
	// serialization, see content.go.
	filePath   string
	serverFile bool
}

// Text builds a plain response with the given status and body.
func Text(status int, body string) *Response {
	return &Response{StatusCode: status, Header: Header{}, Body: []byte(body)}
}

// HTML builds a response with Content-Type text/html.
func HTML(status int, body string) *Response {
	r := Text(status, body)
	r.Header.Set("Content-Type", "text/html; charset=utf-8")
	return r
}

// File builds a response whose body is read from path when the
// response is serialized. A read failure degrades to a 500 at that
// point, not at build time.
func File(status int, path string) *Response {
	return &Response{StatusCode: status, Header: Header{}, filePath: path}
}

// ServerFile is File with the path resolved against the server's
// resource directory.
func ServerFile(status int, rel string) *Response {
	r := File(status, rel)
	r.serverFile = true
	return r
}
