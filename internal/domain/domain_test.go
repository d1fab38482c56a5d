package domain

import (
	"strings"
	"testing"
)

func TestJobStatus_IsPendingOrDone(t *testing.T) {
	pending := []JobStatus{JobStatusWaiting, JobStatusActive, JobStatusDelayed, JobStatusCompleted}
	for _, s := range pending {
		if !s.IsPendingOrDone() {
			t.Errorf("%s should block re-enqueue", s)
		}
	}
	if JobStatusFailed.IsPendingOrDone() {
		t.Error("FAILED must free the job id for retry")
	}
}

func TestJob_Lifecycle(t *testing.T) {
	job := &Job{ID: "daily-news-2025-06-01", Kind: JobKindDigest, Status: JobStatusWaiting}

	job.MarkActive()
	if job.Status != JobStatusActive || job.StartedAt == nil {
		t.Fatalf("after MarkActive: %+v", job)
	}

	job.MarkCompleted(map[string]any{"success": true})
	if job.Status != JobStatusCompleted || job.FinishedAt == nil {
		t.Fatalf("after MarkCompleted: %+v", job)
	}
	if !job.Status.IsTerminal() {
		t.Error("COMPLETED must be terminal")
	}
}

func TestJob_MarkFailed(t *testing.T) {
	job := &Job{ID: "x", Status: JobStatusActive}
	job.MarkFailed("smtp down")
	if job.Status != JobStatusFailed || job.Error != "smtp down" {
		t.Fatalf("after MarkFailed: %+v", job)
	}
}

func TestDigestRun_FinalizePartialFailureIsSent(t *testing.T) {
	run := DigestRun{RunDate: "2025-06-01", State: RunStateSending}
	run.RecordSuccess()
	run.RecordFailure()
	run.RecordFailure()
	run.Finalize()

	if run.State != RunStateSent {
		t.Fatalf("state = %s, want SENT (partial failures do not fail the day)", run.State)
	}
}

func TestDigestRun_FinalizeZeroSuccessIsFailed(t *testing.T) {
	run := DigestRun{RunDate: "2025-06-01", State: RunStateSending}
	run.RecordFailure()
	run.Finalize()

	if run.State != RunStateFailed {
		t.Fatalf("state = %s, want FAILED", run.State)
	}
	if !run.State.IsTerminal() {
		t.Error("FAILED must be terminal")
	}
}

func TestCapArticles(t *testing.T) {
	many := make([]Article, MaxArticlesPerUser+4)
	if got := CapArticles(many); len(got) != MaxArticlesPerUser {
		t.Fatalf("len = %d, want %d", len(got), MaxArticlesPerUser)
	}

	few := make([]Article, 2)
	if got := CapArticles(few); len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got := CapArticles(nil); got != nil {
		t.Fatalf("nil in, nil out; got %v", got)
	}
}

func TestUser_Profile(t *testing.T) {
	u := User{
		Email:             "a@example.com",
		Country:           "US",
		InvestmentGoals:   "Growth",
		RiskTolerance:     "High",
		PreferredIndustry: "Tech",
	}
	p := u.Profile()
	for _, want := range []string{"Country: US", "Investment goals: Growth", "Risk tolerance: High", "Preferred industry: Tech"} {
		if !strings.Contains(p, want) {
			t.Errorf("profile missing %q:\n%s", want, p)
		}
	}
}
