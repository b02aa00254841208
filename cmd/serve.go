package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eksi-rss/internal/cache"
	"eksi-rss/internal/config"
	"eksi-rss/internal/eksi"
	"eksi-rss/internal/feed"
	"eksi-rss/internal/fetch"
	"eksi-rss/internal/ratelimit"
	"eksi-rss/internal/redisclient"
	"eksi-rss/internal/server"
	"eksi-rss/internal/subs"
	"eksi-rss/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feed server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, co, closeFn, err := newPipeline(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		as := feed.NewAssembler(cfg.Source.BaseURL, "http://"+cfg.Server.Addr)
		srv := server.New(store, co, as, cfg.Subscriptions.MergedLimit)

		ttl, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			return err
		}
		mgr := worker.NewManager(&worker.Refresher{
			Store:       store,
			Coordinator: co,
			Interval:    ttl,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Handler()}
		go func() {
			slog.Info("serving feeds", "addr", cfg.Server.Addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server stopped", "error", err)
				cancel()
			}
		}()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = httpSrv.Shutdown(shutCtx)
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

// newPipeline wires the store, cache backend, rate gate, and coordinator from
// configuration. The returned close function releases the cache backend.
func newPipeline(cfg config.Config) (*subs.Store, *fetch.Coordinator, func(), error) {
	store, err := subs.Open(cfg.Subscriptions.File)
	if err != nil {
		return nil, nil, nil, err
	}

	ttl, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		return nil, nil, nil, err
	}
	timeout, err := time.ParseDuration(cfg.Source.Timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	interval, err := time.ParseDuration(cfg.Source.MinRequestInterval)
	if err != nil {
		return nil, nil, nil, err
	}

	closeFn := func() {}
	var snapshots cache.Cache
	if cfg.Cache.Backend == "redis" {
		rdb := redisclient.New(cfg.Redis)
		snapshots = cache.NewRedis(rdb)
		closeFn = func() { _ = rdb.Close() }
	} else {
		snapshots = cache.NewMemory()
	}

	client := eksi.NewClient(cfg.Source.BaseURL, cfg.Source.UserAgent, timeout)
	gate := ratelimit.NewGate(interval)
	co := fetch.NewCoordinator(client, snapshots, gate, ttl, cfg.Source.MaxPages, timeout)
	return store, co, closeFn, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
