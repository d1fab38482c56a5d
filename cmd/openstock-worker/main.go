// OpenStock Worker — выполняет mail jobs.
//
// Worker:
//   - Получает digest и welcome jobs из RabbitMQ
//   - Периодически опрашивает WAITING jobs в БД (fallback)
//   - Собирает дайджест (AI-сводка или детерминированный HTML)
//     и отправляет письма через SMTP
//
// Workers масштабируются горизонтально: single-flight рассылки
// одного дня обеспечивает SendLock в Redis.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HarveyGG/OpenStock/internal/content"
	"github.com/HarveyGG/OpenStock/internal/digest"
	"github.com/HarveyGG/OpenStock/internal/ledger"
	"github.com/HarveyGG/OpenStock/internal/mailer"
	"github.com/HarveyGG/OpenStock/internal/mq"
	"github.com/HarveyGG/OpenStock/internal/newsapi"
	"github.com/HarveyGG/OpenStock/internal/repo"
	"github.com/HarveyGG/OpenStock/internal/scheduler"
	"github.com/HarveyGG/OpenStock/internal/telemetry"
	"github.com/HarveyGG/OpenStock/internal/worker"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting openstock-worker")

	// graceful shutdown
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

	// RabbitMQ — опционально: без него worker живёт на polling
	mqConn, err := mq.Dial(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
		mqConn = nil
	} else {
		defer mqConn.Close()
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		logger.Info("RabbitMQ connected")
	}

	gen := content.NewFromEnv(logger)

	w := worker.New(worker.Config{
		Jobs:      repo.NewJobRepo(pool),
		Ledger:    store,
		Users:     repo.NewUserRepo(pool),
		News:      newsapi.NewClientFromEnv(),
		Mailer:    mailer.NewSenderFromEnv(),
		Assembler: digest.NewAssembler(gen, logger),
		Clock:     scheduler.NewClockFromEnv(),
		Conn:      mqConn,
		Logger:    logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	w.Stop()
	logger.Info("openstock-worker stopped")
}
