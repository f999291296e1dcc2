package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/toolboard/internal/adapters/http/api"
	"github.com/okian/toolboard/internal/adapters/http/site"
	"github.com/okian/toolboard/internal/adapters/http/swagger"
	service "github.com/okian/toolboard/internal/app"
	"github.com/okian/toolboard/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout         = 10 * time.Second
	writeTimeout        = 10 * time.Second
	idleTimeout         = 60 * time.Second
	readHeaderTimeout   = 5 * time.Second
	shutdownTimeout     = 30 * time.Second
	statsUpdateInterval = 30 * time.Second
)

type serveFlags struct {
	addr             string
	snapshotOnStart  bool
	snapshotInterval time.Duration
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard API",
		Long: `Serve the leaderboard, tool, movers and snapshot routes over HTTP, plus
/metrics, /stats, the API reference at /api-docs and an HTML leaderboard at /.

With --snapshot-interval the weekly batch runs on a timer inside the server.
Runs within an already-captured week are skipped, so a short interval is safe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "Listen address (overrides config addr)")
	cmd.Flags().BoolVar(&flags.snapshotOnStart, "snapshot-on-start", false, "Run the weekly batch once before serving")
	cmd.Flags().DurationVar(&flags.snapshotInterval, "snapshot-interval", 0, "Run the weekly batch on this interval (0 disables)")
	return cmd
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	cfg := configFrom(cmd)
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	if flags.snapshotOnStart {
		if _, err := svc.RunSnapshot(ctx); err != nil {
			return fmt.Errorf("initial snapshot: %w", err)
		}
	}

	addr := cfg.Addr
	if flags.addr != "" {
		addr = flags.addr
	}

	// api registers the shared middleware, so it goes first.
	r := chi.NewRouter()
	api.NewServer(svc, svc, cfg.MaxMoversLimit, api.WithLogger(logger.Named("http"))).Register(ctx, r)
	swagger.Register(ctx, r)
	site.Register(ctx, r, svc)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
			return err
		}
		log.Info(shutdownCtx, "server stopped")
		return nil
	})

	g.Go(func() error {
		every(gctx, statsUpdateInterval, func() { svc.GetStats() })
		return nil
	})

	if flags.snapshotInterval > 0 {
		g.Go(func() error {
			every(gctx, flags.snapshotInterval, func() {
				runScheduledSnapshot(gctx, svc, log)
			})
			return nil
		})
	}

	return g.Wait()
}

// runScheduledSnapshot runs one batch and logs instead of failing the server.
func runScheduledSnapshot(ctx context.Context, svc *service.Service, log logger.Logger) {
	res, err := svc.RunSnapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error(ctx, "scheduled snapshot failed", logger.Error(err))
		}
		return
	}
	log.Debug(ctx, "scheduled snapshot finished",
		logger.String("week", res.Week),
		logger.Bool("written", res.Written),
	)
}

// every calls fn on each tick until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
