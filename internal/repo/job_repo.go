package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

// JobRepo — хранилище jobs с именованной идентичностью.
//
// Таблица jobs — источник правды о состоянии очереди. RabbitMQ
// только доставляет уведомления; потерянное сообщение не теряет
// job — worker подхватит WAITING запись через polling.
//
// Записи в терминальных статусах не удаляются: lookup по ID должен
// оставаться валидным дольше, чем TTL локов в ledger и окна
// redelivery брокера.
type JobRepo struct {
	pool *pgxpool.Pool
}

// NewJobRepo создаёт новый JobRepo.
func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

// CreateIfAbsent вставляет job, если записи с таким ID ещё нет.
// Возвращает true, если вставка произошла. Конфликт по ID — не
// ошибка: это штатный исход гонки двух scheduler'ов.
func (r *JobRepo) CreateIfAbsent(ctx context.Context, job *domain.Job) (bool, error) {
	payloadJSON, err := json.Marshal(job.Payload)
	if err != nil {
		return false, fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		INSERT INTO jobs (id, kind, status, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Kind,
		job.Status,
		payloadJSON,
		job.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetByID возвращает job по ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		SELECT id, kind, status, payload, result, error, started_at, finished_at, created_at
		FROM jobs
		WHERE id = $1
	`
	return r.scanJob(r.pool.QueryRow(ctx, query, id))
}

// Update обновляет статус и результат job.
func (r *JobRepo) Update(ctx context.Context, job *domain.Job) error {
	resultJSON, err := json.Marshal(job.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	query := `
		UPDATE jobs
		SET status = $2, result = $3, error = $4, started_at = $5, finished_at = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		resultJSON,
		nullString(job.Error),
		job.StartedAt,
		job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkActive атомарно переводит job WAITING → ACTIVE.
// Возвращает ErrNotFound, если job нет или он уже взят другим worker'ом.
func (r *JobRepo) MarkActive(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = 'ACTIVE', started_at = now()
		WHERE id = $1 AND status = 'WAITING'
		RETURNING id, kind, status, payload, result, error, started_at, finished_at, created_at
	`
	return r.scanJob(r.pool.QueryRow(ctx, query, id))
}

// Requeue возвращает FAILED job в статус WAITING для новой попытки.
// Возвращает true, если переход произошёл.
func (r *JobRepo) Requeue(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE jobs
		SET status = 'WAITING', result = NULL, error = NULL,
		    started_at = NULL, finished_at = NULL
		WHERE id = $1 AND status = 'FAILED'
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("requeue job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListWaiting возвращает jobs в статусе WAITING (polling fallback).
func (r *JobRepo) ListWaiting(ctx context.Context, limit int) ([]domain.Job, error) {
	query := `
		SELECT id, kind, status, payload, result, error, started_at, finished_at, created_at
		FROM jobs
		WHERE status = 'WAITING'
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list waiting jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := r.scanJobFromRows(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// --- Helpers ---

func (r *JobRepo) scanJob(row pgx.Row) (*domain.Job, error) {
	return scanJobRow(row)
}

func (r *JobRepo) scanJobFromRows(rows pgx.Rows) (*domain.Job, error) {
	return scanJobRow(rows)
}

func scanJobRow(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	var payloadJSON, resultJSON []byte
	var jobError *string

	err := row.Scan(
		&job.ID,
		&job.Kind,
		&job.Status,
		&payloadJSON,
		&resultJSON,
		&jobError,
		&job.StartedAt,
		&job.FinishedAt,
		&job.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}

	if payloadJSON != nil {
		if err := json.Unmarshal(payloadJSON, &job.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	if resultJSON != nil {
		if err := json.Unmarshal(resultJSON, &job.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
	}
	if jobError != nil {
		job.Error = *jobError
	}

	return &job, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
