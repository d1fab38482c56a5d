package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HarveyGG/OpenStock/internal/domain"
	"github.com/HarveyGG/OpenStock/internal/mq"
	"github.com/HarveyGG/OpenStock/internal/repo"
)

// DigestJobID детерминированно выводит имя digest job из даты.
// Чистая функция: одна дата ⇒ один ID на всех инстансах и после
// любых рестартов. На этом держится идемпотентность постановки.
func DigestJobID(runDate string) string {
	return domain.JobKindDigest + "-" + runDate
}

// WelcomeJobID возвращает имя welcome job. В отличие от digest,
// у welcome нет суточной идемпотентности — ID случаен.
func WelcomeJobID() string {
	return domain.JobKindWelcome + "-" + uuid.New().String()
}

// Queue — очередь jobs с именованной идентичностью.
//
// Составная конструкция: JobRepo хранит идентичность и состояние
// (lookup по ID переживает рестарты), Publisher доставляет
// уведомление worker'ам. Неудачная публикация не откатывает
// вставку — WAITING запись подберёт polling fallback worker'а.
type Queue struct {
	jobs      *repo.JobRepo
	publisher *mq.Publisher
	logger    *slog.Logger
}

// New создаёт Queue.
func New(jobs *repo.JobRepo, publisher *mq.Publisher, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{jobs: jobs, publisher: publisher, logger: logger}
}

// EnqueueDigest ставит digest job за дату.
//
// Если job с таким ID уже существует, вставка схлопывается в no-op
// и повторная публикация не выполняется. Возвращает актуальную
// запись job в обоих случаях.
func (q *Queue) EnqueueDigest(ctx context.Context, runDate string) (*domain.Job, error) {
	jobID := DigestJobID(runDate)

	job := &domain.Job{
		ID:        jobID,
		Kind:      domain.JobKindDigest,
		Status:    domain.JobStatusWaiting,
		CreatedAt: time.Now(),
	}

	created, err := q.jobs.CreateIfAbsent(ctx, job)
	if err != nil {
		return nil, err
	}
	if !created {
		// Запись уже есть. FAILED день возвращаем в очередь —
		// только терминальный провал освобождает детерминированный
		// ID для новой попытки.
		requeued, err := q.jobs.Requeue(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if !requeued {
			return q.jobs.GetByID(ctx, jobID)
		}
		q.logger.Info("requeued failed digest job", "job_id", jobID)
	}

	if q.publisher != nil {
		if err := q.publisher.PublishDigestTrigger(ctx, jobID); err != nil {
			// Не фатально: job уже в БД, worker заберёт его polling'ом
			q.logger.Warn("failed to publish digest trigger",
				"job_id", jobID,
				"error", err,
			)
		}
	}

	return job, nil
}

// EnqueueWelcome ставит welcome job для пользователя.
func (q *Queue) EnqueueWelcome(ctx context.Context, user domain.User) (*domain.Job, error) {
	job := &domain.Job{
		ID:     WelcomeJobID(),
		Kind:   domain.JobKindWelcome,
		Status: domain.JobStatusWaiting,
		Payload: map[string]any{
			"email":              user.Email,
			"name":               user.Name,
			"country":            user.Country,
			"investment_goals":   user.InvestmentGoals,
			"risk_tolerance":     user.RiskTolerance,
			"preferred_industry": user.PreferredIndustry,
		},
		CreatedAt: time.Now(),
	}

	if _, err := q.jobs.CreateIfAbsent(ctx, job); err != nil {
		return nil, err
	}

	if q.publisher != nil {
		if err := q.publisher.PublishWelcomeRequested(ctx, job.ID); err != nil {
			q.logger.Warn("failed to publish welcome request",
				"job_id", job.ID,
				"error", err,
			)
		}
	}

	return job, nil
}

// GetJob возвращает job по ID или nil, если job не существует.
func (q *Queue) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := q.jobs.GetByID(ctx, jobID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return job, err
}
