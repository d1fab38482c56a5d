package domain

import "time"

// JobStatus — статус job в очереди.
//
// Жизненный цикл:
//
//	WAITING → ACTIVE → COMPLETED
//	                 ↘ FAILED
//
// DELAYED зарезервирован для отложенных jobs: текущий код их не
// создаёт, но scheduler обязан трактовать такой job как уже
// существующий и не ставить дубликат.
type JobStatus string

const (
	JobStatusWaiting   JobStatus = "WAITING"
	JobStatusActive    JobStatus = "ACTIVE"
	JobStatusDelayed   JobStatus = "DELAYED"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// IsPendingOrDone сообщает, считается ли job с таким статусом
// уже обработанным с точки зрения триггера: для любого из
// WAITING/ACTIVE/DELAYED/COMPLETED повторная постановка не нужна.
// Только FAILED освобождает идентификатор для новой попытки.
func (s JobStatus) IsPendingOrDone() bool {
	switch s {
	case JobStatusWaiting, JobStatusActive, JobStatusDelayed, JobStatusCompleted:
		return true
	default:
		return false
	}
}

// Виды jobs.
const (
	JobKindDigest  = "daily-news"
	JobKindWelcome = "welcome-email"
)

// Job — единица работы в очереди с именованной идентичностью.
//
// ID детерминирован для digest jobs (одна дата ⇒ один ID на всех
// инстансах), случаен для welcome jobs. Записи намеренно не
// удаляются в терминальных статусах: scheduler опирается на lookup
// по ID, который должен переживать рестарты и окна redelivery.
type Job struct {
	// ID — имя job, первичный ключ.
	ID string `json:"id"`

	// Kind — вид работы: daily-news или welcome-email.
	Kind string `json:"kind"`

	// Status — текущий статус.
	Status JobStatus `json:"status"`

	// Payload — входные данные (для digest jobs пустые: job — это
	// триггер, а не носитель данных).
	Payload map[string]any `json:"payload,omitempty"`

	// Result — итог выполнения, заполняется worker'ом.
	Result map[string]any `json:"result,omitempty"`

	// Error — текст ошибки при неудаче.
	Error string `json:"error,omitempty"`

	// StartedAt — время взятия в работу.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время постановки в очередь.
	CreatedAt time.Time `json:"created_at"`
}

// MarkActive переводит job в статус ACTIVE.
func (j *Job) MarkActive() {
	now := time.Now()
	j.Status = JobStatusActive
	j.StartedAt = &now
}

// MarkCompleted переводит job в статус COMPLETED с результатом.
func (j *Job) MarkCompleted(result map[string]any) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.FinishedAt = &now
	j.Result = result
}

// MarkFailed переводит job в статус FAILED с ошибкой.
func (j *Job) MarkFailed(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.FinishedAt = &now
	j.Error = err
}
