// OpenStock API — операционный HTTP API mail-подсистемы:
// статус рассылки, lookup jobs, ручной триггер digest и постановка
// welcome-писем.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HarveyGG/OpenStock/internal/api"
	"github.com/HarveyGG/OpenStock/internal/ledger"
	"github.com/HarveyGG/OpenStock/internal/mq"
	"github.com/HarveyGG/OpenStock/internal/queue"
	"github.com/HarveyGG/OpenStock/internal/repo"
	"github.com/HarveyGG/OpenStock/internal/scheduler"
	"github.com/HarveyGG/OpenStock/internal/telemetry"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openstock_api_http_requests_total",
		Help: "Total HTTP requests handled by openstock_api",
	})
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting openstock-api")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Redis ledger
	rdb, err := ledger.NewClient(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	store := ledger.New(rdb, logger)
	logger.Info("redis connected")

	// RabbitMQ — опционально
	var publisher *mq.Publisher
	mqConn, err := mq.Dial(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, enqueued jobs rely on worker polling", "error", err)
	} else {
		defer mqConn.Close()
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		publisher = mq.NewPublisher(mqConn, logger)
		logger.Info("RabbitMQ connected")
	}

	q := queue.New(repo.NewJobRepo(pool), publisher, logger)
	clock := scheduler.NewClockFromEnv()
	sched := scheduler.New(scheduler.Config{
		Ledger: store,
		Jobs:   q,
		Clock:  clock,
		Logger: logger,
	})

	handler := api.NewHandler(api.Config{
		Ledger:    store,
		Queue:     q,
		Scheduler: sched,
		Clock:     clock,
		Logger:    logger,
	})

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
