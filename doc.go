// Package shttp is a small, embeddable HTTP/1.1 server engine: it
// accepts TCP connections, parses requests off the wire, routes them
// to registered handlers, and serializes the results back as
// responses. It does not use net/http.
//
// Handlers receive the parsed request plus a shared state container
// holding an immutable configuration value and a lock-guarded dynamic
// value, so the sharing contract is visible at every call site:
//
//	st := shttp.NewState(cfg, &appState{})
//	ro := shttp.NewRouter()
//	ro.Get("/hello", func(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
//	    return shttp.Text(200, "hi"), nil
//	})
//	s := &shttp.Server{Addr: ":8080", Router: ro, State: st}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
//
// Route patterns are exact segments with an optional trailing
// catch-all ("/man/*page") that captures the remaining path tail
// verbatim, reachable via Request.Param.
//
// Out of scope: HTTP/2 and 3, TLS, chunked transfer decoding,
// trailers, WebSocket, and compression. Requests framed with
// Transfer-Encoding: chunked are rejected with 400.
package shttp
