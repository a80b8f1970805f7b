// Command server runs the HTTP simulation API alongside a Prometheus
// metrics listener.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jude-pinkman/Hypercar-Sim/internal/api"
	"github.com/jude-pinkman/Hypercar-Sim/internal/config"
	"github.com/jude-pinkman/Hypercar-Sim/internal/metrics"
	"github.com/jude-pinkman/Hypercar-Sim/internal/sim"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

func main() {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	catalog, err := vehicle.NewCatalog(cfg.CatalogPath)
	if err != nil {
		log.Warn("catalog load failed, serving built-in vehicles only",
			zap.String("path", cfg.CatalogPath),
			zap.Error(err))
		catalog, err = vehicle.NewCatalog("")
		if err != nil {
			log.Fatal("built-in catalog", zap.Error(err))
		}
	}
	log.Info("catalog ready", zap.Int("vehicles", catalog.Len()))

	runner := sim.NewRunner(catalog, log)
	srv := api.New(cfg.ServerAddr, runner, catalog, log)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler()}
	go func() {
		log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()

	go func() {
		log.Info("api listening", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("api shutdown", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		log.Error("metrics shutdown", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
