// Command chatlytics-server runs the analysis HTTP API with a SQLite report
// store and periodic expiry pruning.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chatlytics/chatlytics/config"
	"github.com/chatlytics/chatlytics/server"
)

type Config struct {
	Addr       string
	DBPath     string
	Retention  time.Duration
	ConfigFile string
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("missing -addr")
	}
	if c.DBPath == "" {
		return errors.New("missing -db")
	}
	if c.Retention <= 0 {
		return errors.New("retention must be positive")
	}
	return nil
}

func defaultConfig() Config {
	addr := os.Getenv("CHATLYTICS_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	dbPath := os.Getenv("CHATLYTICS_DB")
	if dbPath == "" {
		dbPath = filepath.FromSlash("data/reports.db")
	}
	return Config{
		Addr:      addr,
		DBPath:    dbPath,
		Retention: server.DefaultRetention,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	engineCfg, err := config.LoadEngine(cfg.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatalf("create db directory: %v", err)
	}
	store, err := server.OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("open report store: %v", err)
	}
	defer store.Close()

	go pruneLoop(ctx, store, cfg.Retention)

	srv := server.New(store, engineCfg, cfg.Retention)
	startServer(ctx, cfg.Addr, srv.Router())
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (or CHATLYTICS_ADDR)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite report database path (or CHATLYTICS_DB)")
	fs.DurationVar(&cfg.Retention, "retention", cfg.Retention, "How long stored reports stay fetchable")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Optional YAML file overriding engine thresholds and weights")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.DBPath = filepath.Clean(cfg.DBPath)
	return cfg, nil
}

// pruneLoop removes expired reports periodically until the context ends. The
// interval is a quarter of the retention window, bounded to [1m, 1h].
func pruneLoop(ctx context.Context, store *server.Store, retention time.Duration) {
	interval := retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > time.Hour {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PruneExpired(ctx)
			if err != nil {
				log.Printf("prune expired reports: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("pruned %d expired report(s)", n)
			}
		}
	}
}

func startServer(ctx context.Context, addr string, router http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("chatlytics server listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
