package worker

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/HarveyGG/OpenStock/internal/content"
	"github.com/HarveyGG/OpenStock/internal/domain"
	"github.com/HarveyGG/OpenStock/internal/repo"
	"github.com/HarveyGG/OpenStock/internal/telemetry"
)

// DigestResult — итог выполнения digest job.
type DigestResult struct {
	// Skipped — run этого дня уже выполнен или выполняется другим
	// worker'ом; job завершён без работы.
	Skipped bool `json:"skipped,omitempty"`

	// Success — хотя бы одно письмо отправлено.
	Success bool `json:"success"`

	UsersProcessed int `json:"users_processed"`
	SuccessCount   int `json:"success_count"`
	FailCount      int `json:"fail_count"`
}

func (r DigestResult) asMap() map[string]any {
	return map[string]any{
		"skipped":         r.Skipped,
		"success":         r.Success,
		"users_processed": r.UsersProcessed,
		"success_count":   r.SuccessCount,
		"fail_count":      r.FailCount,
	}
}

// handleDigestJob выполняет digest job от клейма до финализации.
//
// Возвращаемая ошибка означает "вернуть сообщение в очередь";
// все содержательные исходы (skip, частичный сбой, полный провал)
// завершают job в БД и не ошибочны с точки зрения очереди.
func (w *Worker) handleDigestJob(ctx context.Context, jobID string) error {
	log := telemetry.WithJobID(w.logger, jobID)

	job, err := w.jobs.MarkActive(ctx, jobID)
	if errors.Is(err, repo.ErrNotFound) {
		// Уже взят другим worker'ом, завершён или неизвестен —
		// redelivery штатно схлопывается
		log.Debug("digest job not claimable, dropping")
		return nil
	}
	if err != nil {
		return err
	}

	result := w.runDigest(ctx, log)

	if !result.Skipped && !result.Success {
		job.MarkFailed("no emails sent")
		job.Result = result.asMap()
	} else {
		job.MarkCompleted(result.asMap())
	}
	if err := w.jobs.Update(ctx, job); err != nil {
		// Письма уже ушли — job не возвращаем в очередь
		log.Error("failed to finalize job record", "error", err)
	}

	log.Info("digest job finished",
		"skipped", result.Skipped,
		"success", result.Success,
		"users_processed", result.UsersProcessed,
		"success_count", result.SuccessCount,
		"fail_count", result.FailCount,
	)
	return nil
}

// runDigest — рассылка одного дня под SendLock.
//
// run_date вычисляется на момент выполнения, не из payload: job —
// триггер, а не носитель данных. Залежавшийся в очереди job
// разошлёт контент того дня, когда он реально выполнился.
func (w *Worker) runDigest(ctx context.Context, log *slog.Logger) DigestResult {
	now := w.now()
	runDate := w.clock.RunDate(now)

	// Идемпотентный short-circuit для redelivery: любое значение
	// SendLock означает выполненный или выполняющийся run
	state, err := w.ledger.SendLockState(ctx, runDate)
	if err != nil {
		log.Error("send lock read failed", "run_date", runDate, "error", err)
		return DigestResult{}
	}
	if state != "" {
		log.Info("digest already handled for date", "run_date", runDate, "state", state)
		return DigestResult{Skipped: true}
	}

	acquired, err := w.ledger.AcquireSendLock(ctx, runDate)
	if err != nil {
		log.Error("send lock acquire failed", "run_date", runDate, "error", err)
		return DigestResult{}
	}
	if !acquired {
		log.Info("lost send lock race", "run_date", runDate)
		return DigestResult{Skipped: true}
	}

	users, err := w.users.ListDigestUsers(ctx)
	if err != nil {
		log.Error("failed to list digest users", "error", err)
		w.releaseSendLock(ctx, runDate, log)
		return DigestResult{}
	}
	if len(users) == 0 {
		log.Warn("no digest users, releasing date for retry")
		w.releaseSendLock(ctx, runDate, log)
		return DigestResult{}
	}

	tasks := w.collectUserNews(ctx, users, log)

	run := domain.DigestRun{RunDate: runDate, State: domain.RunStateSending}
	date := content.FormatDigestDate(now.In(w.clock.Location()))

	for _, task := range tasks {
		html := w.assembler.NewsHTML(ctx, task.Articles)
		if strings.TrimSpace(html) == "" {
			// Assembler всегда отдаёт fallback-блок; пустой контент
			// не отправляем, но и сбоем не считаем
			log.Warn("empty digest content, skipping send", "email", task.User.Email)
			continue
		}

		if err := w.mailer.SendNewsSummary(task.User.Email, date, html); err != nil {
			log.Error("failed to send digest email", "email", task.User.Email, "error", err)
			telemetry.EmailsFailed.WithLabelValues("news").Inc()
			run.RecordFailure()
			continue
		}

		telemetry.EmailsSent.WithLabelValues("news").Inc()
		run.RecordSuccess()
	}
	run.Finalize()

	// Финализация дня: единственный случай активного отката
	// состояния — ни одного успеха, день остаётся retryable
	if run.SuccessCount > 0 {
		if err := w.ledger.MarkSent(ctx, runDate); err != nil {
			log.Error("failed to mark date as sent", "run_date", runDate, "error", err)
		}
	} else {
		w.releaseSendLock(ctx, runDate, log)
	}

	return DigestResult{
		Success:        run.SuccessCount > 0,
		UsersProcessed: len(users),
		SuccessCount:   run.SuccessCount,
		FailCount:      run.FailCount,
	}
}

// collectUserNews собирает персональные статьи для каждого
// пользователя.
//
// Любая ошибка этой фазы локальна для пользователя: он получает
// пустой список статей (и затем письмо с fallback-блоком), но не
// выпадает из рассылки.
func (w *Worker) collectUserNews(ctx context.Context, users []domain.User, log *slog.Logger) []domain.UserDigestTask {
	tasks := make([]domain.UserDigestTask, 0, len(users))

	for _, user := range users {
		symbols, err := w.users.WatchlistSymbols(ctx, user.Email)
		if err != nil {
			log.Warn("watchlist lookup failed", "email", user.Email, "error", err)
			symbols = nil
		}

		articles, err := w.news.FetchArticles(ctx, symbols)
		if err != nil {
			log.Warn("article fetch failed", "email", user.Email, "error", err)
			articles = nil
		}

		// Пустая персональная выборка — падаем на общую ленту
		if len(articles) == 0 && len(symbols) > 0 {
			articles, err = w.news.FetchArticles(ctx, nil)
			if err != nil {
				log.Warn("general news fetch failed", "email", user.Email, "error", err)
				articles = nil
			}
		}

		tasks = append(tasks, domain.UserDigestTask{
			User:     user,
			Articles: domain.CapArticles(articles),
		})
	}

	return tasks
}

// releaseSendLock снимает SendLock, логируя неудачу.
func (w *Worker) releaseSendLock(ctx context.Context, runDate string, log *slog.Logger) {
	if err := w.ledger.ClearSendLock(ctx, runDate); err != nil {
		log.Error("failed to release send lock", "run_date", runDate, "error", err)
	}
}

// handleWelcomeJob отправляет welcome-письмо по payload job'а.
func (w *Worker) handleWelcomeJob(ctx context.Context, jobID string) error {
	log := telemetry.WithJobID(w.logger, jobID)

	job, err := w.jobs.MarkActive(ctx, jobID)
	if errors.Is(err, repo.ErrNotFound) {
		log.Debug("welcome job not claimable, dropping")
		return nil
	}
	if err != nil {
		return err
	}

	user := userFromPayload(job.Payload)
	if user.Email == "" {
		job.MarkFailed("payload has no email")
		if err := w.jobs.Update(ctx, job); err != nil {
			log.Error("failed to finalize job record", "error", err)
		}
		return nil
	}

	intro := w.assembler.WelcomeIntro(ctx, user.Profile())

	if err := w.mailer.SendWelcome(user, intro); err != nil {
		log.Error("failed to send welcome email", "email", user.Email, "error", err)
		telemetry.EmailsFailed.WithLabelValues("welcome").Inc()
		job.MarkFailed(err.Error())
	} else {
		telemetry.EmailsSent.WithLabelValues("welcome").Inc()
		job.MarkCompleted(map[string]any{"success": true, "email": user.Email})
		log.Info("welcome email sent", "email", user.Email)
	}

	if err := w.jobs.Update(ctx, job); err != nil {
		log.Error("failed to finalize job record", "error", err)
	}
	return nil
}

// userFromPayload восстанавливает пользователя из payload job'а.
func userFromPayload(payload map[string]any) domain.User {
	str := func(key string) string {
		v, _ := payload[key].(string)
		return v
	}
	return domain.User{
		Email:             str("email"),
		Name:              str("name"),
		Country:           str("country"),
		InvestmentGoals:   str("investment_goals"),
		RiskTolerance:     str("risk_tolerance"),
		PreferredIndustry: str("preferred_industry"),
	}
}
