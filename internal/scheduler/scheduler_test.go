package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
	"github.com/HarveyGG/OpenStock/internal/queue"
)

// fakeLedger — in-memory реплика координационного состояния в Redis.
// Мьютекс имитирует атомарность SETNX.
type fakeLedger struct {
	mu         sync.Mutex
	queueLocks map[string]bool
	sendLocks  map[string]string
	lastSent   string

	clearedDates []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		queueLocks: make(map[string]bool),
		sendLocks:  make(map[string]string),
	}
}

func (f *fakeLedger) AcquireQueueLock(_ context.Context, runDate string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queueLocks[runDate] {
		return false, nil
	}
	f.queueLocks[runDate] = true
	return true, nil
}

func (f *fakeLedger) SendLockState(_ context.Context, runDate string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendLocks[runDate], nil
}

func (f *fakeLedger) ClearSendLock(_ context.Context, runDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sendLocks, runDate)
	f.clearedDates = append(f.clearedDates, runDate)
	return nil
}

func (f *fakeLedger) LastSentDate(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSent, nil
}

// fakeJobs — in-memory очередь с детерминированными ID.
type fakeJobs struct {
	mu       sync.Mutex
	jobs     map[string]*domain.Job
	enqueues int
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: make(map[string]*domain.Job)}
}

func (f *fakeJobs) EnqueueDigest(_ context.Context, runDate string) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueues++
	id := queue.DigestJobID(runDate)
	if existing, ok := f.jobs[id]; ok {
		return existing, nil
	}
	job := &domain.Job{ID: id, Kind: domain.JobKindDigest, Status: domain.JobStatusWaiting}
	f.jobs[id] = job
	return job, nil
}

func (f *fakeJobs) GetJob(_ context.Context, jobID string) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[jobID], nil
}

func (f *fakeJobs) enqueueCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enqueues
}

func newTestScheduler(ledger *fakeLedger, jobs *fakeJobs, at time.Time) *Scheduler {
	s := New(Config{
		Ledger: ledger,
		Jobs:   jobs,
		Clock:  NewClock("UTC", 12),
		Logger: slog.Default(),
	})
	s.now = func() time.Time { return at }
	return s
}

func TestTriggerRun_Once(t *testing.T) {
	ledger := newFakeLedger()
	jobs := newFakeJobs()
	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	s.TriggerRun(context.Background(), "2025-06-01")

	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1", jobs.enqueueCount())
	}
	job, _ := jobs.GetJob(context.Background(), queue.DigestJobID("2025-06-01"))
	if job == nil || job.Status != domain.JobStatusWaiting {
		t.Fatalf("expected WAITING job, got %+v", job)
	}
}

func TestTriggerRun_SecondCallLosesQueueLock(t *testing.T) {
	ledger := newFakeLedger()
	jobs := newFakeJobs()
	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	s.TriggerRun(context.Background(), "2025-06-01")
	s.TriggerRun(context.Background(), "2025-06-01")

	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1", jobs.enqueueCount())
	}
}

func TestTriggerRun_ConcurrentInstances(t *testing.T) {
	// Несколько "инстансов" с общим ledger: постановка ровно одна
	ledger := newFakeLedger()
	jobs := newFakeJobs()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := newTestScheduler(ledger, jobs, at)
			s.TriggerRun(context.Background(), "2025-06-01")
		}()
	}
	wg.Wait()

	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1", jobs.enqueueCount())
	}
}

func TestTriggerRun_ExistingJobSkipsEnqueue(t *testing.T) {
	// Окно хранения jobs может пережить TTL лока: новый лок берётся,
	// но существующий job в нетерминальном/успешном статусе гасит
	// постановку
	for _, status := range []domain.JobStatus{
		domain.JobStatusWaiting,
		domain.JobStatusActive,
		domain.JobStatusDelayed,
		domain.JobStatusCompleted,
	} {
		ledger := newFakeLedger()
		jobs := newFakeJobs()
		id := queue.DigestJobID("2025-06-01")
		jobs.jobs[id] = &domain.Job{ID: id, Kind: domain.JobKindDigest, Status: status}

		s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		s.TriggerRun(context.Background(), "2025-06-01")

		if jobs.enqueueCount() != 0 {
			t.Errorf("status %s: enqueues = %d, want 0", status, jobs.enqueueCount())
		}
	}
}

func TestTriggerRun_FailedJobAllowsRetry(t *testing.T) {
	ledger := newFakeLedger()
	jobs := newFakeJobs()
	id := queue.DigestJobID("2025-06-01")
	jobs.jobs[id] = &domain.Job{ID: id, Kind: domain.JobKindDigest, Status: domain.JobStatusFailed}

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.TriggerRun(context.Background(), "2025-06-01")

	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1 (FAILED frees the id)", jobs.enqueueCount())
	}
}

func TestCatchUpCheck_AlreadySentToday(t *testing.T) {
	ledger := newFakeLedger()
	ledger.lastSent = "2025-06-01"
	jobs := newFakeJobs()

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC))
	s.CatchUpCheck(context.Background())

	if jobs.enqueueCount() != 0 {
		t.Fatalf("enqueues = %d, want 0", jobs.enqueueCount())
	}
}

func TestCatchUpCheck_BeforeDigestHourNoMissedDay(t *testing.T) {
	// До часа рассылки и без пропущенного дня триггерить рано
	ledger := newFakeLedger()
	jobs := newFakeJobs()

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	s.CatchUpCheck(context.Background())

	if jobs.enqueueCount() != 0 {
		t.Fatalf("enqueues = %d, want 0", jobs.enqueueCount())
	}
}

func TestCatchUpCheck_AfterDigestHourTriggers(t *testing.T) {
	ledger := newFakeLedger()
	ledger.lastSent = "2025-05-31"
	jobs := newFakeJobs()

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
	s.CatchUpCheck(context.Background())

	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1", jobs.enqueueCount())
	}
	job, _ := jobs.GetJob(context.Background(), queue.DigestJobID("2025-06-01"))
	if job == nil {
		t.Fatal("expected job for current date")
	}
}

func TestCatchUpCheck_MissedDayTriggersBeforeHour(t *testing.T) {
	// Сменились сутки с последней отправки: ретриггер не ждёт часа
	// рассылки
	ledger := newFakeLedger()
	ledger.lastSent = "2025-05-31"
	jobs := newFakeJobs()

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC))
	s.CatchUpCheck(context.Background())

	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1", jobs.enqueueCount())
	}
}

func TestCatchUpCheck_TwoDaysBehindTriggersOnlyToday(t *testing.T) {
	// Исторические дни не добираются: при отставании на два дня
	// ставится единственный job за текущую дату
	ledger := newFakeLedger()
	ledger.lastSent = "2025-05-30"
	jobs := newFakeJobs()

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
	s.CatchUpCheck(context.Background())

	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1", jobs.enqueueCount())
	}
	if job, _ := jobs.GetJob(context.Background(), queue.DigestJobID("2025-05-31")); job != nil {
		t.Error("historical date must not be backfilled")
	}
	if job, _ := jobs.GetJob(context.Background(), queue.DigestJobID("2025-06-01")); job == nil {
		t.Error("current date must be triggered")
	}
}

func TestCatchUpCheck_ClearsStaleSentMarker(t *testing.T) {
	// sent-отметка без LastSentDate — осиротевшее состояние,
	// блокирующее worker; catch-up снимает её перед ретриггером
	ledger := newFakeLedger()
	ledger.sendLocks["2025-06-01"] = "sent"
	jobs := newFakeJobs()

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
	s.CatchUpCheck(context.Background())

	if len(ledger.clearedDates) != 1 || ledger.clearedDates[0] != "2025-06-01" {
		t.Fatalf("cleared = %v, want [2025-06-01]", ledger.clearedDates)
	}
	if jobs.enqueueCount() != 1 {
		t.Fatalf("enqueues = %d, want 1", jobs.enqueueCount())
	}
}

func TestCatchUpCheck_LeavesProcessingLockAlone(t *testing.T) {
	// processing — живой или недавно упавший worker, его лок
	// снимает TTL, не catch-up
	ledger := newFakeLedger()
	ledger.sendLocks["2025-06-01"] = "processing"
	jobs := newFakeJobs()

	s := newTestScheduler(ledger, jobs, time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
	s.CatchUpCheck(context.Background())

	if len(ledger.clearedDates) != 0 {
		t.Fatalf("cleared = %v, want none", ledger.clearedDates)
	}
	if got := ledger.sendLocks["2025-06-01"]; got != "processing" {
		t.Fatalf("send lock = %q, want processing", got)
	}
}

func TestOnCadenceTick_UsesClockDate(t *testing.T) {
	ledger := newFakeLedger()
	jobs := newFakeJobs()

	// 2025-06-02 02:00 UTC = 2025-06-01 в Нью-Йорке
	s := New(Config{
		Ledger: ledger,
		Jobs:   jobs,
		Clock:  NewClock("America/New_York", 12),
		Logger: slog.Default(),
	})
	s.now = func() time.Time { return time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC) }

	s.OnCadenceTick(context.Background())

	if job, _ := jobs.GetJob(context.Background(), queue.DigestJobID("2025-06-01")); job == nil {
		t.Fatal("expected job keyed by digest-timezone date")
	}
}
