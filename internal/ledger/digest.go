package ledger

import (
	"context"
	"time"
)

// Префиксы координационных ключей.
const (
	queueLockPrefix = "digest:queue-lock:"
	sendLockPrefix  = "digest:send-lock:"
	lastSentDateKey = "digest:last-sent-date"
)

// Значения SendLock.
const (
	// SendLockProcessing — worker выполняет рассылку этого дня.
	SendLockProcessing = "processing"

	// SendLockSent — день успешно разослан, терминальная отметка.
	SendLockSent = "sent"
)

// TTL локов.
//
// QueueLockTTL ограничивает, как долго упавший между захватом лока
// и постановкой job scheduler блокирует повторный триггер.
// SendLockTTL ограничивает, как долго упавший посреди рассылки
// worker блокирует повторную попытку того же дня.
const (
	QueueLockTTL = 10 * time.Minute
	SendLockTTL  = 24 * time.Hour
)

// QueueLockKey возвращает ключ QueueLock для даты.
func QueueLockKey(runDate string) string {
	return queueLockPrefix + runDate
}

// SendLockKey возвращает ключ SendLock для даты.
func SendLockKey(runDate string) string {
	return sendLockPrefix + runDate
}

// AcquireQueueLock пытается захватить право постановки job за день.
// false — другой scheduler уже ставит job этой даты (ожидаемо при
// нескольких инстансах, не ошибка).
func (s *Store) AcquireQueueLock(ctx context.Context, runDate string) (bool, error) {
	return s.SetIfAbsent(ctx, QueueLockKey(runDate), "queuing", QueueLockTTL)
}

// AcquireSendLock пытается захватить право рассылки за день.
// false — другой worker уже рассылает (или разослал) эту дату.
func (s *Store) AcquireSendLock(ctx context.Context, runDate string) (bool, error) {
	return s.SetIfAbsent(ctx, SendLockKey(runDate), SendLockProcessing, SendLockTTL)
}

// SendLockState возвращает текущее значение SendLock
// ("" при отсутствии).
func (s *Store) SendLockState(ctx context.Context, runDate string) (string, error) {
	val, _, err := s.Get(ctx, SendLockKey(runDate))
	return val, err
}

// ClearSendLock снимает SendLock, делая день доступным для повтора.
func (s *Store) ClearSendLock(ctx context.Context, runDate string) error {
	return s.Delete(ctx, SendLockKey(runDate))
}

// MarkSent фиксирует успешную рассылку дня: SendLock переводится в
// sent со свежим TTL, LastSentDate обновляется. Две записи не
// атомарны между собой; критична только вторая — catch-up сверяет
// именно LastSentDate и сам чинит расхождение.
func (s *Store) MarkSent(ctx context.Context, runDate string) error {
	if err := s.Set(ctx, SendLockKey(runDate), SendLockSent, SendLockTTL); err != nil {
		return err
	}
	return s.Set(ctx, lastSentDateKey, runDate, 0)
}

// LastSentDate возвращает дату последней подтверждённой рассылки
// ("" — рассылок ещё не было).
func (s *Store) LastSentDate(ctx context.Context) (string, error) {
	val, _, err := s.Get(ctx, lastSentDateKey)
	return val, err
}
