package shttp

import (
	"os"
	"path/filepath"
)

// resolveContent turns a file-backed response into a plain one by
// reading the file. Unreadable files degrade to a 500 with a short
// text body rather than killing the connection.
func (s *Server) resolveContent(resp *Response) *Response {
	if resp.filePath == "" {
		return resp
	}
	path := resp.filePath
	if resp.serverFile {
		path = filepath.Join(s.ResourceDir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		s.logger().Error("resource not readable", "path", path, "err", err)
		return Text(500, "Resource not available.")
	}
	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}
	if out.Header == nil {
		out.Header = Header{}
	}
	return out
}

// notFoundResponse serves 404.html from the resource directory when it
// exists, a plain text body otherwise.
func (s *Server) notFoundResponse() *Response {
	if s.ResourceDir != "" {
		if b, err := os.ReadFile(filepath.Join(s.ResourceDir, "404.html")); err == nil {
			r := &Response{StatusCode: 404, Header: Header{}, Body: b}
			r.Header.Set("Content-Type", "text/html; charset=utf-8")
			return r
		}
	}
	return Text(404, "not found")
}
