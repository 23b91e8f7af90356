package shttp

// Method is an HTTP request method. The common methods have constants;
// anything else the wire carries is kept verbatim as a string and will
// simply never match a registered route.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPatch   Method = "PATCH"
)

// Request represents one parsed HTTP request. It is built by the
// connection handler and is immutable for the duration of the handler
// call; the body is fully read before the handler runs.
type Request struct {
	Method Method
	// Path is the percent-decoded path component of the request target.
	Path string
	// RawQuery is everything after '?' in the target, undecoded. Empty
	// if the target had no query component.
	RawQuery string
	Proto    string
	Header   Header
	Body     []byte
	// RequestID identifies this request in logs and in the X-Request-Id
	// response header. Taken from the client's X-Request-Id when present,
	// generated otherwise.
	RequestID string

	params map[string]string
}

// Param returns the value captured by the named route parameter
// (currently only catch-all segments), or "" if the route captured
// nothing under that name.
func (r *Request) Param(name string) string {
	return r.params[name]
}
