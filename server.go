package shttp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nerdfault/shttp/internal/http1"
)

// Server accepts TCP connections and serves one HTTP/1.1 request at a
// time per connection until the peer stops keeping the connection
// alive. Handlers run on the accepting goroutine for that connection:
// one goroutine per connection by default, or one of Workers pooled
// goroutines when Workers > 0.
type Server struct {
	Addr   string
	Router *Router
	// State is handed to every handler invocation. May be nil when no
	// handler uses shared state.
	State *State
	// ResourceDir is the base directory for ServerFile responses and
	// the 404.html fallback page.
	ResourceDir string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait for the next request on a kept-alive
	// connection. Falls back to ReadTimeout when zero.
	IdleTimeout time.Duration

	MaxHeaderBytes int
	MaxBodyBytes   int64

	// Workers > 0 serves connections from a bounded pool of that size
	// instead of spawning a goroutine per connection.
	Workers int

	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics is optional; nil disables instrumentation.
	Metrics *Metrics

	mu         sync.Mutex
	ln         net.Listener
	active     sync.WaitGroup
	inShutdown atomic.Bool
}

func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = ":8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("shttp: bind %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on l until l fails or Shutdown is called,
// in which case it returns ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.ln = l
	s.mu.Unlock()
	defer l.Close()

	var pool *connPool
	if s.Workers > 0 {
		pool = newConnPool(s.Workers, s.serveConn)
		defer pool.close()
	}

	for {
		c, err := l.Accept()
		if err != nil {
			if s.inShutdown.Load() {
				return ErrServerClosed
			}
			return err
		}
		s.active.Add(1)
		if pool != nil {
			pool.dispatch(c)
		} else {
			go s.serveConn(c)
		}
	}
}

// Shutdown stops accepting and waits for in-flight connections to
// finish, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.mu.Lock()
	if s.ln != nil {
		_ = s.ln.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.active.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) serveConn(c net.Conn) {
	defer s.active.Done()
	defer c.Close()
	s.Metrics.connOpened()
	defer s.Metrics.connClosed()

	remote := c.RemoteAddr().String()
	br := bufio.NewReader(c)
	bw := bufio.NewWriter(c)

	for {
		if s.ReadTimeout > 0 {
			_ = c.SetReadDeadline(time.Now().Add(s.ReadTimeout))
		}
		rr := &http1.Reader{
			BR:             br,
			MaxHeaderBytes: s.headerLimit(),
			MaxBodyBytes:   s.MaxBodyBytes,
			OnContinue: func() {
				_ = http1.WriteContinue(bw)
				_ = bw.Flush()
			},
		}
		pr, err := rr.ReadRequest()
		if err != nil {
			s.handleReadError(c, bw, remote, err)
			return
		}

		start := time.Now()
		req := s.buildRequest(pr)
		keepAlive := wantKeepAlive(pr)

		resp := s.dispatch(req)
		resp = s.resolveContent(resp)
		if !lengthConsistent(resp) {
			s.logger().Error("handler set inconsistent Content-Length",
				"id", req.RequestID, "path", req.Path)
			resp = Text(500, "Failed to process request")
		}
		finishHeaders(resp, req)

		if s.WriteTimeout > 0 {
			_ = c.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
		}
		if err := http1.WriteResponse(bw, resp.StatusCode, "", resp.Header, resp.Body, keepAlive); err != nil {
			s.logger().Warn("write failed", "id", req.RequestID, "remote", remote, "err", err)
			return
		}
		if err := bw.Flush(); err != nil {
			s.logger().Warn("flush failed", "id", req.RequestID, "remote", remote, "err", err)
			return
		}

		s.Metrics.observe(req.Method, resp.StatusCode, time.Since(start))
		s.logger().Info("request",
			"id", req.RequestID,
			"remote", remote,
			"method", string(req.Method),
			"path", req.Path,
			"status", resp.StatusCode,
			"dur", time.Since(start),
		)

		if !keepAlive || s.inShutdown.Load() {
			return
		}
		if t := s.idleTimeout(); t > 0 {
			_ = c.SetReadDeadline(time.Now().Add(t))
		} else {
			_ = c.SetReadDeadline(time.Time{})
		}
	}
}

// handleReadError maps a parse or I/O failure to a best-effort error
// response. A clean EOF before the first byte is an idle close, not an
// error; a timeout mid-message gets a 408 if the write side still
// works.
func (s *Server) handleReadError(c net.Conn, bw *bufio.Writer, remote string, err error) {
	// Bare io.EOF means the peer closed an idle connection cleanly; a
	// truncated message comes back wrapped in a parse error instead.
	if err == io.EOF {
		return
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		s.logger().Warn("read timeout", "remote", remote, "err", err)
		s.writeError(c, bw, 408, "Request timeout")
		return
	}
	s.Metrics.parseFailed()
	s.logger().Warn("bad request", "remote", remote, "err", err)
	status := 400
	if errors.Is(err, http1.ErrHeaderTooLarge) || errors.Is(err, http1.ErrBodyTooLarge) {
		status = 413
	}
	s.writeError(c, bw, status, "Bad request")
}

func (s *Server) writeError(c net.Conn, bw *bufio.Writer, status int, body string) {
	if s.WriteTimeout > 0 {
		_ = c.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	}
	hdr := Header{}
	hdr.Set("Content-Type", "text/plain; charset=utf-8")
	_ = http1.WriteResponse(bw, status, "", hdr, []byte(body), false)
	_ = bw.Flush()
}

// dispatch resolves the route and invokes the handler. Every failure
// mode comes back as a response; nothing a handler does can take the
// connection loop down.
func (s *Server) dispatch(req *Request) *Response {
	if s.Router == nil {
		return s.notFoundResponse()
	}
	h, params, ok := s.Router.resolve(req.Method, req.Path)
	if !ok {
		return s.notFoundResponse()
	}
	req.params = params
	resp, err := s.invoke(h, req)
	if err != nil {
		s.logger().Error("handler failed", "id", req.RequestID, "path", req.Path, "err", err)
		return Text(500, "Failed to process request")
	}
	if resp == nil {
		s.logger().Error("handler returned no response", "id", req.RequestID, "path", req.Path)
		return Text(500, "Failed to process request")
	}
	return resp
}

func (s *Server) invoke(h Handler, req *Request) (resp *Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return h.Serve(req, s.State)
}

func (s *Server) buildRequest(pr *http1.ParsedRequest) *Request {
	rawPath, rawQuery, _ := strings.Cut(pr.RequestURI, "?")
	hdr := Header(pr.Header)
	id := hdr.Get("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	return &Request{
		Method:    Method(pr.Method),
		Path:      DecodePath(rawPath),
		RawQuery:  rawQuery,
		Proto:     pr.Proto,
		Header:    hdr,
		Body:      pr.Body,
		RequestID: id,
	}
}

// finishHeaders fills in the response headers the engine owns: the
// request id echo and the no-store cache policy unless the handler
// chose its own.
func finishHeaders(resp *Response, req *Request) {
	if resp.Header == nil {
		resp.Header = Header{}
	}
	resp.Header.Set("X-Request-Id", req.RequestID)
	if resp.Header.Get("Cache-Control") == "" {
		resp.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	}
}

// lengthConsistent reports whether an explicitly set Content-Length
// agrees with the actual body. Explicit wins only when consistent.
func lengthConsistent(resp *Response) bool {
	v := resp.Header.Get("Content-Length")
	if v == "" {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n == len(resp.Body)
}

func wantKeepAlive(pr *http1.ParsedRequest) bool {
	conn := strings.ToLower(Header(pr.Header).Get("Connection"))
	if pr.Proto == "HTTP/1.1" {
		return conn != "close"
	}
	return conn == "keep-alive"
}

func (s *Server) headerLimit() int {
	if s.MaxHeaderBytes <= 0 {
		return 8 << 10
	}
	return s.MaxHeaderBytes
}

func (s *Server) idleTimeout() time.Duration {
	if s.IdleTimeout > 0 {
		return s.IdleTimeout
	}
	return s.ReadTimeout
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
