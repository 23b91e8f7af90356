package shttp

import (
	"fmt"
	"strings"
)

// Handler is the capability bound to a route: given the request and the
// shared state container, produce a response or signal failure. A nil
// response or a non-nil error is turned into a 500 by the server.
type Handler interface {
	Serve(r *Request, st *State) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(*Request, *State) (*Response, error)

func (f HandlerFunc) Serve(r *Request, st *State) (*Response, error) {
	return f(r, st)
}

type route struct {
	method   Method
	pattern  string
	segments []string
	// catchAll is the parameter name of a trailing "*name" segment,
	// empty for exact routes. segments excludes the catch-all.
	catchAll string
	handler  Handler
}

// Router maps (method, path) to a handler. Routes are registered at
// startup; the table is read-only while serving, so resolution needs
// no locking.
type Router struct {
	routes []route
}

func NewRouter() *Router {
	return &Router{}
}

// Register adds a route. The pattern is a '/'-separated path of exact
// segments, optionally ending in a "*name" catch-all that captures the
// remaining path tail verbatim. Registering the same (method, pattern)
// twice is a configuration error.
func (ro *Router) Register(method Method, pattern string, h Handler) error {
	if h == nil {
		return fmt.Errorf("route %s %s: %w", method, pattern, errNilHandler)
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("route %s %s: %w", method, pattern, errBadPattern)
	}
	for _, r := range ro.routes {
		if r.method == method && r.pattern == pattern {
			return fmt.Errorf("route %s %s: %w", method, pattern, ErrDuplicateRoute)
		}
	}
	segs := splitPath(pattern)
	catchAll := ""
	if n := len(segs); n > 0 && strings.HasPrefix(segs[n-1], "*") {
		catchAll = segs[n-1][1:]
		if catchAll == "" {
			return fmt.Errorf("route %s %s: %w", method, pattern, errBadPattern)
		}
		segs = segs[:n-1]
	}
	for _, s := range segs {
		if strings.HasPrefix(s, "*") {
			// Catch-all is only valid as the final segment.
			return fmt.Errorf("route %s %s: %w", method, pattern, errBadPattern)
		}
	}
	ro.routes = append(ro.routes, route{
		method:   method,
		pattern:  pattern,
		segments: segs,
		catchAll: catchAll,
		handler:  h,
	})
	return nil
}

// Get, Post etc. are Register shorthands for function handlers.
func (ro *Router) Get(pattern string, f HandlerFunc) error {
	return ro.Register(MethodGet, pattern, f)
}

func (ro *Router) Post(pattern string, f HandlerFunc) error {
	return ro.Register(MethodPost, pattern, f)
}

func (ro *Router) Put(pattern string, f HandlerFunc) error {
	return ro.Register(MethodPut, pattern, f)
}

func (ro *Router) Delete(pattern string, f HandlerFunc) error {
	return ro.Register(MethodDelete, pattern, f)
}

// resolve finds the handler for (method, path). Exact routes win over
// catch-alls; among catch-alls the longest literal prefix wins; any
// remaining tie goes to the first-registered route. The captured tail,
// if any, is returned under the catch-all's parameter name.
func (ro *Router) resolve(method Method, path string) (Handler, map[string]string, bool) {
	segs := splitPath(path)

	for _, r := range ro.routes {
		if r.method != method || r.catchAll != "" {
			continue
		}
		if exactMatch(r.segments, segs) {
			return r.handler, nil, true
		}
	}

	var best *route
	for i := range ro.routes {
		r := &ro.routes[i]
		if r.method != method || r.catchAll == "" {
			continue
		}
		if !prefixMatch(r.segments, segs) {
			continue
		}
		if best == nil || len(r.segments) > len(best.segments) {
			best = r
		}
	}
	if best == nil {
		return nil, nil, false
	}
	tail := tailAfter(path, len(best.segments))
	return best.handler, map[string]string{best.catchAll: tail}, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func exactMatch(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i := range pattern {
		if pattern[i] != path[i] {
			return false
		}
	}
	return true
}

func prefixMatch(pattern, path []string) bool {
	if len(pattern) > len(path) {
		return false
	}
	for i := range pattern {
		if pattern[i] != path[i] {
			return false
		}
	}
	return true
}

// tailAfter returns the raw remainder of path after skipping n leading
// segments, without the joining slash. The tail keeps its own internal
// slashes verbatim.
func tailAfter(path string, n int) string {
	p := strings.TrimPrefix(path, "/")
	for i := 0; i < n; i++ {
		j := strings.IndexByte(p, '/')
		if j < 0 {
			return ""
		}
		p = p[j+1:]
	}
	return p
}
