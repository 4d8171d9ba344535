// @title           QSR POS API
// @version         1.0
// @description     Order entry, kitchen display, checkout and back office for a quick-service restaurant.
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/qsr-pos/internal/catalog"
	"github.com/MikeMC777/qsr-pos/internal/checkout"
	"github.com/MikeMC777/qsr-pos/internal/config"
	"github.com/MikeMC777/qsr-pos/internal/display"
	"github.com/MikeMC777/qsr-pos/internal/logging"
	"github.com/MikeMC777/qsr-pos/internal/order"
	"github.com/MikeMC777/qsr-pos/internal/receipt"
	"github.com/MikeMC777/qsr-pos/internal/session"
	"github.com/MikeMC777/qsr-pos/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "pos-server",
		Short:         "Quick-service restaurant point of sale",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "config", "", "env file with POS_* settings (default: ./.env if present)")

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply the schema and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(envFile)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides POS_HTTP_ADDR)")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(envFile)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			pool, err := store.Connect(cmd.Context(), cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := store.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

func setup(envFile string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return cfg, nil, err
	}
	log.Info("config loaded", cfg.Fields()...)
	return cfg, log, nil
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := checkout.ParsePricePolicy(cfg.PricePolicy)
	if err != nil {
		return err
	}

	pool, err := store.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := store.Migrate(ctx, pool); err != nil {
		return err
	}

	a := newApp(
		catalog.NewPGRepo(pool),
		order.NewPGRepo(pool),
		policy,
		cfg.TaxCents,
		receiptSink(cfg),
		cfg.DisplayRefresh,
		log,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	lis, err := net.Listen("tcp", cfg.HealthAddr)
	if err != nil {
		return fmt.Errorf("health listener: %w", err)
	}
	go func() {
		if err := gs.Serve(lis); err != nil {
			log.Error("health server stopped", zap.Error(err))
		}
	}()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errc := make(chan error, 1)
	go func() {
		log.Info("pos-server listening", zap.String("addr", cfg.HTTPAddr), zap.String("health_addr", cfg.HealthAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		gs.Stop()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	hs.Shutdown()
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(sctx)
	gs.GracefulStop()
	return err
}

func receiptSink(cfg config.Config) receipt.Sink {
	if cfg.PrinterAddr != "" {
		return receipt.NewPrinterSink(cfg.PrinterAddr, cfg.PrinterTimeout)
	}
	return receipt.NewFileSink(cfg.ReceiptDir)
}

// app bundles the services behind the HTTP handlers.
type app struct {
	catalog  catalog.Repository
	orders   *order.Service
	pricer   *checkout.Pricer
	settler  *checkout.Settler
	views    *display.Service
	sessions *session.Store
	log      *zap.Logger
}

func newApp(cat catalog.Repository, orders order.Repository, policy checkout.PricePolicy, tax int64,
	sink receipt.Sink, refresh time.Duration, log *zap.Logger) *app {
	svc := order.NewService(orders, log)
	pricer := checkout.NewPricer(cat, policy)
	return &app{
		catalog:  cat,
		orders:   svc,
		pricer:   pricer,
		settler:  checkout.NewSettler(svc, pricer, tax, sink, log),
		views:    display.NewService(orders, pricer, refresh),
		sessions: session.NewStore(),
		log:      log,
	}
}
