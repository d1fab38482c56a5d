// OpenStock Scheduler — запускает ежедневную рассылку дайджеста.
//
// Scheduler:
//   - Ставит digest job раз в сутки по cron в таймзоне рассылки
//   - Ведёт catch-up цикл, который дотриггеривает пропущенный день
//   - Инстансов может быть несколько: дубликаты гасятся блокировками
//     в Redis и детерминированным ID job
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/HarveyGG/OpenStock/internal/ledger"
	"github.com/HarveyGG/OpenStock/internal/mq"
	"github.com/HarveyGG/OpenStock/internal/queue"
	"github.com/HarveyGG/OpenStock/internal/repo"
	"github.com/HarveyGG/OpenStock/internal/scheduler"
	"github.com/HarveyGG/OpenStock/internal/telemetry"
)

const defaultCatchUpInterval = 5 * time.Minute

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting openstock-scheduler")

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

	// RabbitMQ — опционально: без него jobs доедут через polling worker'а
	var publisher *mq.Publisher
	mqConn, err := mq.Dial(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, jobs will be picked up by worker polling", "error", err)
	} else {
		defer mqConn.Close()
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		publisher = mq.NewPublisher(mqConn, logger)
		logger.Info("RabbitMQ connected")
	}

	jobRepo := repo.NewJobRepo(pool)
	q := queue.New(jobRepo, publisher, logger)

	clock := scheduler.NewClockFromEnv()
	sched := scheduler.New(scheduler.Config{
		Ledger: store,
		Jobs:   q,
		Clock:  clock,
		Logger: logger,
	})

	// Суточный cron-тик в таймзоне рассылки
	c := cron.New(cron.WithLocation(clock.Location()))
	spec := fmt.Sprintf("0 %d * * *", clock.DigestHour())
	if _, err := c.AddFunc(spec, func() { sched.OnCadenceTick(ctx) }); err != nil {
		logger.Error("failed to register cron entry", "spec", spec, "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()
	logger.Info("cadence registered", "spec", spec, "tz", clock.Location().String())

	// Catch-up цикл
	interval := defaultCatchUpInterval
	if v := os.Getenv("CATCHUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}
	go sched.RunCatchUpLoop(ctx, interval)

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
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
	logger.Info("openstock-scheduler stopped")
}
