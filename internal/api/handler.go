package api

import (
	"log/slog"

	"github.com/HarveyGG/OpenStock/internal/ledger"
	"github.com/HarveyGG/OpenStock/internal/queue"
	"github.com/HarveyGG/OpenStock/internal/scheduler"
)

// Handler — обработчик операционного API с зависимостями.
type Handler struct {
	ledger *ledger.Store
	queue  *queue.Queue
	sched  *scheduler.Scheduler
	clock  scheduler.Clock
	logger *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Ledger    *ledger.Store
	Queue     *queue.Queue
	Scheduler *scheduler.Scheduler
	Clock     scheduler.Clock
	Logger    *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		ledger: cfg.Ledger,
		queue:  cfg.Queue,
		sched:  cfg.Scheduler,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}
}
