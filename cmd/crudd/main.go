package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"crudd/internal/config"
	"crudd/internal/crud"
	"crudd/internal/httpapi"
	"crudd/internal/registry"
	"crudd/internal/store"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crudd",
		Short:         "Auto-generated CRUD API server driven by resource definition files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to config file (.yaml/.json/.toml)")
	root.PersistentFlags().String("addr", "", "HTTP listen address, e.g. :8080")
	root.PersistentFlags().String("schema-dir", "", "Directory to scan for resource definition files")
	root.PersistentFlags().String("database-url", "", "Database DSN (postgres:// or an SQLite file path)")
	root.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the schema directory and print the discovered resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			resources, err := registry.LoadDir(cfg.SchemaDir)
			if err != nil {
				return err
			}
			for _, r := range resources {
				fmt.Printf("%-20s table=%-20s route=%-20s fields=%d\n",
					r.Name, r.Table(), r.Route(), len(r.Fields))
			}
			return nil
		},
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("crudd", version)
		},
	}
	root.AddCommand(serve, validate, versionCmd)
	root.RunE = serve.RunE
	return root
}

// resolveConfig layers defaults, config file, environment, and flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg, err = config.Merge(cfg, fileCfg)
		if err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := cmd.Flags().GetString("schema-dir"); v != "" {
		cfg.SchemaDir = v
	}
	if v, _ := cmd.Flags().GetString("database-url"); v != "" {
		cfg.DatabaseURL = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl)
}

func runServe(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)

	resources, err := registry.LoadDir(cfg.SchemaDir)
	if err != nil {
		return fmt.Errorf("load resource definitions: %w", err)
	}
	if len(resources) == 0 {
		logger.Warn().Str("dir", cfg.SchemaDir).Msg("no resource definitions found")
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := st.Migrate(migrateCtx, resources); err != nil {
		return err
	}
	for _, r := range resources {
		logger.Info().
			Str("resource", r.Name).
			Str("table", r.Table()).
			Str("route", r.Route()).
			Int("fields", len(r.Fields)).
			Msg("registered resource")
	}

	svc := crud.New(st, resources)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetListLimits(cfg.DefaultLimit, cfg.MaxLimit)
	httpapi.SetAPIInfo(cfg.APITitle, cfg.APIVersion, cfg.APIDescription)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders)

	mux := httpapi.NewMux(svc)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("schema_dir", cfg.SchemaDir).
			Str("dialect", st.Dialect()).
			Int("resources", len(resources)).
			Msg("crudd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
