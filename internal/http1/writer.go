package http1

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
)

// WriteResponse writes a complete HTTP/1.1 response. Headers are
// written in sorted key order so the output is stable. Content-Length
// is computed from body unless the caller already set it; hdr keys
// should be canonicalized by the caller.
func WriteResponse(bw *bufio.Writer, status int, reason string, hdr map[string][]string, body []byte, keepAlive bool) error {
	if reason == "" {
		reason = StatusText(status)
	}
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, reason); err != nil {
		return err
	}
	if len(hdr["Content-Length"]) == 0 {
		if _, err := fmt.Fprintf(bw, "Content-Length: %d\r\n", len(body)); err != nil {
			return err
		}
	}
	keys := make([]string, 0, len(hdr))
	for k := range hdr {
		// Connection is set below from keepAlive.
		if k == "Connection" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range hdr[k] {
			if _, err := fmt.Fprintf(bw, "%s: %s\r\n", k, SanitizeHeaderValue(v)); err != nil {
				return err
			}
		}
	}
	conn := "close"
	if keepAlive {
		conn = "keep-alive"
	}
	if _, err := fmt.Fprintf(bw, "Connection: %s\r\n\r\n", conn); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := bw.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// StatusText returns the canonical reason phrase, or a numeric
// placeholder for codes outside the table.
func StatusText(code int) string {
	if s := defaultReason(code); s != "" {
		return s
	}
	return "Status " + strconv.Itoa(code)
}

func defaultReason(code int) string {
	switch code {
	case 100:
		return "Continue"
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 413:
		return "Content Too Large"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	default:
		return ""
	}
}
