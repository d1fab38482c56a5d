package api

import (
	"net/http"
	"time"

	"github.com/HarveyGG/OpenStock/internal/queue"
)

// DigestStatus возвращает состояние рассылки за текущую дату.
// GET /api/v1/digest/status
func (h *Handler) DigestStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runDate := h.clock.RunDate(time.Now())

	lastSent, err := h.ledger.LastSentDate(ctx)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	lockState, err := h.ledger.SendLockState(ctx, runDate)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	resp := DigestStatusResponse{
		RunDate:      runDate,
		LastSentDate: lastSent,
		SendLock:     lockState,
	}

	job, err := h.queue.GetJob(ctx, queue.DigestJobID(runDate))
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}
	if job != nil {
		jr := JobFromDomain(*job)
		resp.Job = &jr
	}

	Success(w, resp)
}

// TriggerDigest вручную запускает постановку digest job за текущую
// дату. Проходит тот же путь, что и cron-тик: queue lock и проверка
// существующего job сохраняются, так что повторный вызов безопасен.
// POST /api/v1/digest/trigger
func (h *Handler) TriggerDigest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runDate := h.clock.RunDate(time.Now())

	h.sched.TriggerRun(ctx, runDate)

	resp := TriggerDigestResponse{RunDate: runDate}

	job, err := h.queue.GetJob(ctx, queue.DigestJobID(runDate))
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}
	if job != nil {
		jr := JobFromDomain(*job)
		resp.Job = &jr
	}

	Accepted(w, resp)
}
