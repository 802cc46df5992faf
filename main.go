////////////////////////////////////////////////////////////////////////////////
// Moloch DAO: membership governance with a shared guild bank.
// Replays newline-delimited transactions from stdin against a local store.
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mborders/logmatic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moloch_dao/config"
	"moloch_dao/contract"
	"moloch_dao/sdk"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	log := logmatic.NewLogger()
	log.ExitOnFatal = true

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("config: %v", err)
	}
	log.SetLevel(logLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("store: %v", err)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	metrics := contract.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		go serveMetrics(log, cfg.MetricsAddr, reg)
	}

	engine := contract.NewEngine(store, newLogHost(log), contract.WithMetrics(metrics))
	if !engine.IsInitialized() {
		env := sdk.Env{
			Sender:    cfg.DAO.Summoner,
			Timestamp: uint64(time.Now().UnixNano()),
			TxID:      uuid.NewString(),
		}
		if _, err := engine.Summon(ctx, env, cfg.DAO); err != nil {
			log.Fatal("summon: %v", err)
		}
	}

	stats, err := replay(ctx, os.Stdin, engine, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("replay stopped: %v", err)
	}
	log.Info("replay done: %d ok, %d failed", stats.ok, stats.failed)
}

func serveMetrics(log *logmatic.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	log.Info("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server: %v", err)
	}
}

func logLevel(s string) logmatic.LogLevel {
	switch s {
	case "trace":
		return logmatic.TRACE
	case "debug":
		return logmatic.DEBUG
	case "warn":
		return logmatic.WARN
	case "error":
		return logmatic.ERROR
	default:
		return logmatic.INFO
	}
}

// openStore returns the configured backend and its close func.
func openStore(ctx context.Context, cfg *config.Config) (contract.State, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreFile:
		fs, err := contract.OpenFileState(cfg.StoreDSN)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() { _ = fs.Flush() }, nil
	case config.StoreSQLite:
		st, err := contract.OpenSQLState(ctx, contract.DriverSQLite, cfg.StoreDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	case config.StorePostgres:
		st, err := contract.OpenSQLState(ctx, contract.DriverPostgres, cfg.StoreDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return contract.NewMockState(), func() {}, nil
	}
}
