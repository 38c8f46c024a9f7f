package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caiomarques/debtdesk/internal/adapters/notify"
	"github.com/caiomarques/debtdesk/internal/adapters/storage/sqlite"
	"github.com/caiomarques/debtdesk/internal/adapters/syncdir"
	portssvc "github.com/caiomarques/debtdesk/internal/core/ports/services"
	"github.com/caiomarques/debtdesk/internal/core/services"
	"github.com/caiomarques/debtdesk/internal/handlers"
	"github.com/caiomarques/debtdesk/internal/middleware"
	"github.com/caiomarques/debtdesk/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "debtdesk",
	Short: "Debt collection management backend",
	Long: `DebtDesk keeps a small collection portfolio (clients, debts, payments)
in a local embedded database and mirrors it as a JSON file into a
user-designated folder, reconciling the two copies by last writer wins.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Recompute interest for every open debt once and exit",
	RunE:  runSweep,
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a dated backup snapshot into the sync folder and exit",
	RunE:  runBackup,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(backupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// application bundles everything a command needs after wiring.
type application struct {
	cfg       *config.Config
	store     *sqlite.Store
	container *portssvc.ServiceContainer
	sync      *services.SyncService
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("Error closing store", slog.String("error", err.Error()))
	}
}

// buildApplication opens the store, applies migrations and wires every
// service. The record store and sync coordinator are cross-wired: mutations
// trigger reconciles, and a reconcile the file wins refreshes the store.
func buildApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	store, err := sqlite.NewStore(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.ApplyMigrations(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	docRepo := sqlite.NewDocumentRepository(store, cfg.DataOwner, nil)
	handleRepo := sqlite.NewFolderHandleRepository(store)
	mirror := syncdir.NewAdapter(cfg.SyncEnabled, "")

	record, err := services.NewRecordService(ctx, docRepo, nil)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load document: %w", err)
	}

	syncSvc := services.NewSyncService(docRepo, handleRepo, mirror, cfg.SyncFileName, cfg.SyncInterval, nil)
	syncSvc.SetReloader(record)
	record.SetNotifier(syncSvc)

	dispatcher := notify.NewWhatsAppDispatcher(cfg.WhatsAppAPIURL)

	container := &portssvc.ServiceContainer{
		Record:    record,
		Sync:      syncSvc,
		Interest:  services.NewInterestService(record, nil),
		Reporting: services.NewReportingService(record, nil),
		Message:   services.NewMessageService(record, dispatcher, nil),
	}

	return &application{cfg: cfg, store: store, container: container, sync: syncSvc}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Stop on SIGINT/SIGTERM; the sync coordinator flushes on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.sync.Bootstrap(ctx); err != nil {
		return fmt.Errorf("sync bootstrap: %w", err)
	}
	app.sync.Start(ctx)

	// Periodic interest sweep, plus one pass at startup so figures are
	// current after a long downtime.
	go func() {
		if _, err := app.container.Interest.Sweep(ctx); err != nil {
			logger.Error("Startup interest sweep failed", slog.String("error", err.Error()))
		}
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := app.container.Interest.Sweep(ctx); err != nil {
					logger.Error("Interest sweep failed", slog.String("error", err.Error()))
				}
			}
		}
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}
	if err := handlers.RegisterRoutes(r, cfg, app.container); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	// Final flush before the process exits, so the mirror file carries the
	// latest local state.
	if _, err := app.sync.ReconcileNow(shutdownCtx); err != nil {
		logger.Warn("Final reconcile failed", slog.String("error", err.Error()))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	changed, err := app.container.Interest.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	fmt.Printf("Interest sweep complete: %d debt(s) adjusted\n", changed)
	return nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	name, err := app.container.Sync.Backup(ctx)
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	fmt.Printf("Backup written: %s\n", name)
	return nil
}
