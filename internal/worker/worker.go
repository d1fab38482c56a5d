package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
	"github.com/HarveyGG/OpenStock/internal/mq"
	"github.com/HarveyGG/OpenStock/internal/scheduler"
)

// Default configuration values.
const (
	defaultPollInterval = 30 * time.Second
	defaultBatchSize    = 20
	defaultPrefetch     = 1
)

// Ledger — операции координации, нужные воркеру.
// Реализуется ledger.Store.
type Ledger interface {
	SendLockState(ctx context.Context, runDate string) (string, error)
	AcquireSendLock(ctx context.Context, runDate string) (bool, error)
	ClearSendLock(ctx context.Context, runDate string) error
	MarkSent(ctx context.Context, runDate string) error
}

// JobStore — доступ к таблице jobs. Реализуется repo.JobRepo.
type JobStore interface {
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	MarkActive(ctx context.Context, id string) (*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	ListWaiting(ctx context.Context, limit int) ([]domain.Job, error)
}

// Users — внешняя пользовательская директория.
// Реализуется repo.UserRepo.
type Users interface {
	ListDigestUsers(ctx context.Context) ([]domain.User, error)
	WatchlistSymbols(ctx context.Context, email string) ([]string, error)
}

// News — внешний источник новостей. Реализуется newsapi.Client.
type News interface {
	FetchArticles(ctx context.Context, symbols []string) ([]domain.Article, error)
}

// Mailer — исходящий email-транспорт. Реализуется mailer.Sender.
type Mailer interface {
	SendWelcome(user domain.User, introHTML string) error
	SendNewsSummary(email, date, contentHTML string) error
}

// Assembler — сборка контента писем. Реализуется digest.Assembler.
type Assembler interface {
	NewsHTML(ctx context.Context, articles []domain.Article) string
	WelcomeIntro(ctx context.Context, userProfile string) string
}

// Worker выполняет mail jobs.
//
// Worker — stateless компонент системы, который:
//   - Получает jobs из очередей RabbitMQ (event-driven)
//   - Периодически проверяет WAITING jobs в БД (polling fallback)
//   - Выполняет daily digest рассылку под SendLock
//   - Отправляет welcome-письма
//
// Workers масштабируются горизонтально — single-flight рассылки
// одного дня обеспечивает SendLock в ledger, не процесс.
type Worker struct {
	jobs      JobStore
	ledger    Ledger
	users     Users
	news      News
	mailer    Mailer
	assembler Assembler
	clock     scheduler.Clock

	conn *mq.Connection

	pollInterval time.Duration
	batchSize    int

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	consumers  []*mq.Consumer
	stopped    bool
	stoppedMu  sync.RWMutex

	// now подменяется в тестах
	now func() time.Time
}

// Config — конфигурация Worker.
type Config struct {
	Jobs      JobStore
	Ledger    Ledger
	Users     Users
	News      News
	Mailer    Mailer
	Assembler Assembler
	Clock     scheduler.Clock

	// Conn — соединение с RabbitMQ (nil — только polling).
	Conn *mq.Connection

	// Polling configuration
	PollInterval time.Duration // интервал polling (default: 30s)
	BatchSize    int           // количество jobs за один poll (default: 20)

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		jobs:         cfg.Jobs,
		ledger:       cfg.Ledger,
		users:        cfg.Users,
		news:         cfg.News,
		mailer:       cfg.Mailer,
		assembler:    cfg.Assembler,
		clock:        cfg.Clock,
		conn:         cfg.Conn,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger,
		now:          time.Now,
	}
}

// Start запускает Worker.
//
// Запускает consumers для mail.digest и mail.welcome (если есть
// соединение с RabbitMQ) и polling горутину для fallback.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	if w.conn != nil {
		w.startConsumer(ctx, mq.QueueMailDigest)
		w.startConsumer(ctx, mq.QueueMailWelcome)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// startConsumer запускает consumer одной очереди.
func (w *Worker) startConsumer(ctx context.Context, q mq.Queue) {
	consumer := mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:    q,
		Handler:  w.handleMessage,
		Prefetch: defaultPrefetch,
	})
	w.consumers = append(w.consumers, consumer)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("consumer error", "queue", q, "error", err)
		}
	}()
}

// Stop останавливает Worker.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	for _, c := range w.consumers {
		c.Stop()
	}

	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}

// handleMessage — обработчик сообщения из RabbitMQ.
func (w *Worker) handleMessage(ctx context.Context, msg *mq.Message) error {
	switch msg.Type {
	case mq.MessageTypeDigestTrigger:
		return w.handleDigestJob(ctx, msg.JobID)
	case mq.MessageTypeWelcomeRequested:
		return w.handleWelcomeJob(ctx, msg.JobID)
	default:
		w.logger.Warn("unknown message type, dropping", "type", msg.Type)
		return nil
	}
}

// pollLoop — цикл polling для fallback.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем jobs, созданные
	// пока worker был выключен или RabbitMQ был недоступен)
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
func (w *Worker) poll(ctx context.Context) {
	jobs, err := w.jobs.ListWaiting(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list waiting jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	w.logger.Debug("poll found waiting jobs", "count", len(jobs))

	for i := range jobs {
		job := &jobs[i]

		var err error
		switch job.Kind {
		case domain.JobKindDigest:
			err = w.handleDigestJob(ctx, job.ID)
		case domain.JobKindWelcome:
			err = w.handleWelcomeJob(ctx, job.ID)
		default:
			err = ErrUnknownJobKind
		}
		if err != nil {
			w.logger.Error("failed to process job from poll",
				"job_id", job.ID,
				"error", err,
			)
		}
	}
}
