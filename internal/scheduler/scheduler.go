package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
	"github.com/HarveyGG/OpenStock/internal/queue"
	"github.com/HarveyGG/OpenStock/internal/telemetry"
)

// Ledger — операции координации, нужные планировщику.
// Реализуется ledger.Store.
type Ledger interface {
	AcquireQueueLock(ctx context.Context, runDate string) (bool, error)
	SendLockState(ctx context.Context, runDate string) (string, error)
	ClearSendLock(ctx context.Context, runDate string) error
	LastSentDate(ctx context.Context) (string, error)
}

// Jobs — операции очереди, нужные планировщику.
// Реализуется queue.Queue.
type Jobs interface {
	EnqueueDigest(ctx context.Context, runDate string) (*domain.Job, error)
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
}

// Scheduler решает, пора ли запускать сегодняшний digest, и ставит
// ровно один логический job в день — при любом числе параллельно
// работающих инстансов.
//
// Корректность здесь — *eventual* triggering, не пунктуальность:
// любые инфраструктурные ошибки проглатываются с логом, следующая
// попытка — очередной тик или catch-up цикл.
type Scheduler struct {
	ledger Ledger
	jobs   Jobs
	clock  Clock
	logger *slog.Logger

	// now подменяется в тестах
	now func() time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	Ledger Ledger
	Jobs   Jobs
	Clock  Clock
	Logger *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		ledger: cfg.Ledger,
		jobs:   cfg.Jobs,
		clock:  cfg.Clock,
		logger: logger,
		now:    time.Now,
	}
}

// OnCadenceTick — обработчик суточного cron-тика.
// Вычисляет run_date текущего момента и триггерит рассылку.
func (s *Scheduler) OnCadenceTick(ctx context.Context) {
	runDate := s.clock.RunDate(s.now())
	s.logger.Info("digest cadence tick", "run_date", runDate)
	s.TriggerRun(ctx, runDate)
}

// TriggerRun ставит digest job за дату runDate.
//
// Протокол:
//  1. QueueLock (SETNX, короткий TTL) — проигрыш гонки означает,
//     что другой инстанс уже ставит эту дату; не ошибка.
//  2. Lookup job по детерминированному ID — защита от случаев,
//     когда окно хранения jobs переживает TTL лока.
//  3. Постановка job, если его ещё нет.
//
// Никогда не возвращает ошибку наружу: страховка от пропуска —
// catch-up проверка, не этот вызов.
func (s *Scheduler) TriggerRun(ctx context.Context, runDate string) {
	log := telemetry.WithRunDate(s.logger, runDate)

	acquired, err := s.ledger.AcquireQueueLock(ctx, runDate)
	if err != nil {
		log.Error("queue lock attempt failed", "error", err)
		return
	}
	if !acquired {
		log.Debug("another instance is queuing this date")
		telemetry.DigestRunsSkipped.WithLabelValues("queue_lock").Inc()
		return
	}

	jobID := queue.DigestJobID(runDate)
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		log.Error("job lookup failed", "job_id", jobID, "error", err)
		return
	}
	if job != nil && job.Status.IsPendingOrDone() {
		log.Info("job already exists, skipping enqueue",
			"job_id", jobID,
			"status", job.Status,
		)
		telemetry.DigestRunsSkipped.WithLabelValues("job_exists").Inc()
		return
	}

	if _, err := s.jobs.EnqueueDigest(ctx, runDate); err != nil {
		log.Error("failed to enqueue digest job", "job_id", jobID, "error", err)
		return
	}

	telemetry.DigestRunsTriggered.Inc()
	log.Info("digest job enqueued", "job_id", jobID)
}

// CatchUpCheck — периодическая сверка, чинящая пропущенный триггер.
//
// Срабатывает, когда за сегодняшнюю дату ещё ничего не отправлено и
// либо час рассылки уже наступил, либо сменились сутки с момента
// последней отправки (missed day). Ретриггерится только *текущая*
// дата — пропущенные исторические дни не добираются.
func (s *Scheduler) CatchUpCheck(ctx context.Context) {
	now := s.now()
	runDate := s.clock.RunDate(now)
	hour := s.clock.HourOf(now)

	lastSent, err := s.ledger.LastSentDate(ctx)
	if err != nil {
		s.logger.Error("catch-up: last sent date read failed", "error", err)
		return
	}

	if lastSent == runDate {
		return
	}

	missedDay := lastSent != "" && lastSent < runDate
	if hour < s.clock.DigestHour() && !missedDay {
		return
	}

	log := telemetry.WithRunDate(s.logger, runDate)
	log.Info("catch-up: digest not sent yet, re-triggering",
		"last_sent", lastSent,
		"hour", hour,
	)

	// Осиротевшая отметка sent без соответствующего LastSentDate
	// блокировала бы worker — снимаем её перед ретриггером.
	// processing не трогаем: это живой (или недавно упавший) worker,
	// его лок снимет TTL.
	state, err := s.ledger.SendLockState(ctx, runDate)
	if err != nil {
		log.Error("catch-up: send lock read failed", "error", err)
		return
	}
	if state == "sent" {
		log.Warn("catch-up: clearing stale sent marker")
		if err := s.ledger.ClearSendLock(ctx, runDate); err != nil {
			log.Error("catch-up: send lock clear failed", "error", err)
			return
		}
	}

	telemetry.CatchUpRetriggers.Inc()
	s.TriggerRun(ctx, runDate)
}

// RunCatchUpLoop гоняет CatchUpCheck с фиксированным периодом.
//
// Это reconciliation loop, не retry с backoff: период постоянный,
// каждая итерация сама решает, есть ли что чинить. Первая проверка
// выполняется сразу — рестартовавший в момент триггера процесс
// восстановится в течение одного интервала.
func (s *Scheduler) RunCatchUpLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.CatchUpCheck(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CatchUpCheck(ctx)
		}
	}
}
