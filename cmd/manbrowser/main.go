// Command manbrowser serves man pages rendered as HTML. The page name
// is the route tail: /man/printf shows printf(1). Rendering shells out
// to an external formatter selected with --formatter.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/nerdfault/shttp"
)

type appConfig struct {
	Name      string
	Formatter Formatter
}

type appState struct {
	ReqCnt int
}

func main() {
	var (
		addr      string
		workers   int
		timeout   time.Duration
		formatter string
	)
	root := &cobra.Command{
		Use:   "manbrowser",
		Short: "A man page web browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormatter(formatter)
			if err != nil {
				return err
			}
			return run(addr, workers, timeout, f)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&addr, "addr", "a", ":7878", "listen address")
	root.Flags().IntVarP(&workers, "workers", "w", 8, "worker pool size (0 = goroutine per connection)")
	root.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-connection read/write timeout")
	root.Flags().StringVarP(&formatter, "formatter", "f", string(FormatterMan), "man page HTML formatter (man, roffit, man2html, pandoc)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(addr string, workers int, timeout time.Duration, formatter Formatter) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	st := shttp.NewState(
		&appConfig{Name: "manbrowser", Formatter: formatter},
		&appState{},
	)

	ro := shttp.NewRouter()
	if err := ro.Get("/", serveIndex); err != nil {
		return err
	}
	if err := ro.Get("/man/*page", serveManPage); err != nil {
		return err
	}
	if err := ro.Get("/metrics", serveMetrics); err != nil {
		return err
	}

	s := &shttp.Server{
		Addr:         addr,
		Router:       ro,
		State:        st,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		Workers:      workers,
		Logger:       logger,
		Metrics:      shttp.NewMetrics(prometheus.DefaultRegisterer),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()
	logger.Info("listening", "addr", addr, "formatter", string(formatter))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(sctx)
	}
}

func serveIndex(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
	cfg := st.Config().(*appConfig)
	var cnt int
	st.Update(func(dyn any) {
		as := dyn.(*appState)
		as.ReqCnt++
		cnt = as.ReqCnt
	})
	body := fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>%s</title></head><body>
<h1>Man page browser</h1>
<p>Open <code>/man/&lt;page&gt;</code>, e.g. <a href="/man/printf">/man/printf</a>.</p>
<p>Formatter: %s. Requests served: %d.</p>
</body></html>
`, cfg.Name, cfg.Formatter, cnt)
	return shttp.HTML(200, body), nil
}

func serveManPage(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
	page := r.Param("page")
	if page == "" {
		return shttp.Text(400, "Missing man page name"), nil
	}
	// The tail is decoded client input headed for an argv; keep it to a
	// bare page name.
	if strings.ContainsAny(page, "/\\") || strings.HasPrefix(page, "-") {
		return shttp.Text(400, "Invalid man page name"), nil
	}

	cfg := st.Config().(*appConfig)
	st.Update(func(dyn any) { dyn.(*appState).ReqCnt++ })

	html, found, err := cfg.Formatter.manAsHTML(page)
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", page, err)
	}
	if !found {
		return shttp.HTML(404, fmt.Sprintf("<div class='error'>%s</div>", html)), nil
	}
	return shttp.HTML(200, html), nil
}

// serveMetrics exposes the default registry in the Prometheus text
// format. The engine is not net/http, so promhttp does not apply;
// encoding through expfmt is all the exposition needs.
func serveMetrics(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return nil, err
		}
	}
	resp := &shttp.Response{StatusCode: 200, Header: shttp.Header{}, Body: buf.Bytes()}
	resp.Header.Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	return resp, nil
}
