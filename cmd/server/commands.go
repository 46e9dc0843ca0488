package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"hardware_shop_backend/internal/config"
	"hardware_shop_backend/internal/database"
	"hardware_shop_backend/internal/metrics"
	"hardware_shop_backend/internal/repositories"
	"hardware_shop_backend/internal/router"
	"hardware_shop_backend/internal/services"
	"hardware_shop_backend/pkg/utils"
)

var (
	// Serve flags
	port string

	// Migrate flags
	dryRun bool
)

// rootCmd represents the base command. Without a subcommand it serves the API.
var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Hardware shop master-data backend",
	Long: `Hardware shop master-data backend.

Serves the JSON API for categories, items, stores, customers, suppliers and employees,
backed by PostgreSQL or, for development, an in-memory store.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes",
	Long: `Apply the embedded PostgreSQL schema. Every statement is idempotent, so running
it against an up-to-date database changes nothing.

Examples:
  server migrate             # Apply the schema to DB_NAME on DB_HOST
  server migrate --dry-run   # Print the schema without connecting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "Port to listen on (overrides PORT)")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the schema instead of applying it")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if port != "" {
		cfg.Server.Port = port
	}
	utils.InitLogger(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runMigrate(ctx context.Context) error {
	if dryRun {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Print(database.Schema(services.TableDefs(cfg.Database.ReuseDeletedUniqueValues)))
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.ApplySchema(ctx, db, services.TableDefs(cfg.Database.ReuseDeletedUniqueValues))
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	utils.LogInfo("Configuration loaded", cfg.Summary())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.Metrics.Prefix, reg)

	store, db, err := openStore(ctx, cfg, m)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	deps := services.Deps{
		Store:                    store,
		Metrics:                  m,
		ReuseDeletedUniqueValues: cfg.Database.ReuseDeletedUniqueValues,
		Settings:                 cfg.Business.Settings(),
	}
	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	auth := services.NewAuthService(deps, tokens)
	if cfg.Admin.Email != "" {
		created, err := auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		if created {
			utils.LogInfo("Admin account created", map[string]interface{}{"email": cfg.Admin.Email})
		}
	}

	engine := router.New(router.Dependencies{
		Config:   cfg,
		Store:    store,
		Services: services.NewServices(deps),
		Auth:     auth,
		Tokens:   tokens,
		Metrics:  m,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Server.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// openStore returns the store selected by STORE_DRIVER. The *sql.DB is nil for the memory driver.
func openStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (repositories.Store, *sql.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		utils.LogWarn("Using the in-memory store; data is lost on restart")
		return repositories.NewMemoryStore(services.TableDefs(cfg.Database.ReuseDeletedUniqueValues)...), nil, nil
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewPostgresStore(db, m), db, nil
}
