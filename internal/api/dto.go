package api

import (
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

// JobResponse — ответ с job.
type JobResponse struct {
	ID         string           `json:"id"`
	Kind       string           `json:"kind"`
	Status     domain.JobStatus `json:"status"`
	Result     map[string]any   `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// JobFromDomain конвертирует domain.Job в JobResponse.
func JobFromDomain(j domain.Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		Kind:       j.Kind,
		Status:     j.Status,
		Result:     j.Result,
		Error:      j.Error,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
		CreatedAt:  j.CreatedAt,
	}
}

// DigestStatusResponse — сводка состояния рассылки за текущую дату.
type DigestStatusResponse struct {
	RunDate      string       `json:"run_date"`
	LastSentDate string       `json:"last_sent_date,omitempty"`
	SendLock     string       `json:"send_lock,omitempty"`
	Job          *JobResponse `json:"job,omitempty"`
}

// TriggerDigestResponse — результат ручного триггера.
type TriggerDigestResponse struct {
	RunDate string       `json:"run_date"`
	Job     *JobResponse `json:"job,omitempty"`
}

// SendWelcomeRequest — запрос на постановку welcome-письма.
type SendWelcomeRequest struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Country           string `json:"country,omitempty"`
	InvestmentGoals   string `json:"investment_goals,omitempty"`
	RiskTolerance     string `json:"risk_tolerance,omitempty"`
	PreferredIndustry string `json:"preferred_industry,omitempty"`
}
