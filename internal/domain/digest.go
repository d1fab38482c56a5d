package domain

// RunState — состояние daily digest run.
//
// Жизненный цикл:
//
//	UNSCHEDULED → QUEUING → QUEUED → SENDING → SENT
//	                                         ↘ FAILED
//
// Для одного run_date одновременно не более одного run
// в состояниях {QUEUING, QUEUED, SENDING} — это обеспечивают
// QueueLock и SendLock в ledger, не этот тип.
type RunState string

const (
	// RunStateUnscheduled — день ещё не запускался.
	RunStateUnscheduled RunState = "UNSCHEDULED"

	// RunStateQueuing — scheduler выиграл QueueLock и ставит job в очередь.
	RunStateQueuing RunState = "QUEUING"

	// RunStateQueued — job поставлен, ожидает worker'а.
	RunStateQueued RunState = "QUEUED"

	// RunStateSending — worker держит SendLock и рассылает письма.
	RunStateSending RunState = "SENDING"

	// RunStateSent — хотя бы одно письмо подтверждённо отправлено.
	RunStateSent RunState = "SENT"

	// RunStateFailed — run завершился без единой успешной отправки.
	RunStateFailed RunState = "FAILED"
)

// IsTerminal возвращает true, если состояние финальное.
func (s RunState) IsTerminal() bool {
	switch s {
	case RunStateSent, RunStateFailed:
		return true
	default:
		return false
	}
}

// DigestRun — один логический запуск рассылки за календарный день.
//
// Идентифицируется run_date (YYYY-MM-DD в таймзоне рассылки).
// Концептуально существует ровно один DigestRun на день; он не
// удаляется, а вытесняется run'ом следующего дня.
type DigestRun struct {
	// RunDate — календарная дата в таймзоне рассылки, "2006-01-02".
	RunDate string `json:"run_date"`

	// State — текущее состояние run.
	State RunState `json:"state"`

	// SuccessCount — количество успешно отправленных писем.
	SuccessCount int `json:"success_count"`

	// FailCount — количество неудачных отправок.
	FailCount int `json:"fail_count"`
}

// RecordSuccess учитывает успешную отправку одному пользователю.
func (r *DigestRun) RecordSuccess() {
	r.SuccessCount++
}

// RecordFailure учитывает неудачную отправку.
func (r *DigestRun) RecordFailure() {
	r.FailCount++
}

// Finalize переводит run в терминальное состояние.
//
// SENT — если хотя бы одно письмо ушло; частичные сбои не делают
// день проваленным. FAILED — только при нуле успехов, такой день
// остаётся кандидатом на повторный запуск через catch-up.
func (r *DigestRun) Finalize() {
	if r.SuccessCount > 0 {
		r.State = RunStateSent
	} else {
		r.State = RunStateFailed
	}
}
