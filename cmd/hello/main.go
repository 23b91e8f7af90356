// Command hello is the minimal example application: a few fixed
// routes, a file-backed front page, and a request counter kept in the
// shared state container.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerdfault/shttp"
)

type appConfig struct {
	Name    string
	Version string
}

type appState struct {
	ReqCnt int
}

func main() {
	var (
		addr    string
		workers int
		resDir  string
	)
	root := &cobra.Command{
		Use:   "hello",
		Short: "A simple HTTP server example",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, workers, resDir)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&addr, "addr", "a", "0.0.0.0:7878", "listen address")
	root.Flags().IntVarP(&workers, "workers", "w", 8, "worker pool size (0 = goroutine per connection)")
	root.Flags().StringVarP(&resDir, "resource-dir", "r", "res", "directory with hello.html and 404.html")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(addr string, workers int, resDir string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	st := shttp.NewState(
		&appConfig{Name: "My Web App", Version: "0.1"},
		&appState{},
	)

	ro := shttp.NewRouter()
	routes := []struct {
		pattern string
		h       shttp.HandlerFunc
	}{
		{"/", serveHome},
		{"/info", serveInfo},
		{"/time", serveTime},
		{"/sleep", serveSleep},
	}
	for _, rt := range routes {
		if err := ro.Get(rt.pattern, rt.h); err != nil {
			return err
		}
	}

	s := &shttp.Server{
		Addr:         addr,
		Router:       ro,
		State:        st,
		ResourceDir:  resDir,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Workers:      workers,
		Logger:       logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()
	logger.Info("listening", "addr", addr, "resources", resDir)

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

func countRequest(st *shttp.State) int {
	var cnt int
	st.Update(func(dyn any) {
		as := dyn.(*appState)
		as.ReqCnt++
		cnt = as.ReqCnt
	})
	return cnt
}

func serveHome(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
	countRequest(st)
	return shttp.ServerFile(200, "hello.html"), nil
}

func serveInfo(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
	cnt := countRequest(st)
	cfg := st.Config().(*appConfig)
	return shttp.Text(200, fmt.Sprintf("%s\nVersion: %s\nRequests: %d", cfg.Name, cfg.Version, cnt)), nil
}

func serveTime(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
	countRequest(st)
	return shttp.Text(200, fmt.Sprintf("Unix time: %d", time.Now().Unix())), nil
}

// serveSleep blocks its connection for five seconds. Hit it twice in
// parallel to see that connections are served independently.
func serveSleep(r *shttp.Request, st *shttp.State) (*shttp.Response, error) {
	countRequest(st)
	time.Sleep(5 * time.Second)
	return shttp.ServerFile(200, "hello.html"), nil
}
