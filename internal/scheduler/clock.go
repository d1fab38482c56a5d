package scheduler

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// DateLayout — формат run_date, календарного ключа дня рассылки.
// Лексикографический порядок строк совпадает с хронологическим.
const DateLayout = "2006-01-02"

// Clock — часы рассылки: одна таймзона и час отправки.
//
// Все вычисления "какой сегодня день" и "наступил ли час рассылки"
// проходят через Clock, чтобы arithmetic по датам нигде не
// опирался на локаль процесса.
type Clock struct {
	loc  *time.Location
	hour int
}

// NewClock создаёт Clock для таймзоны tz и часа hour (0–23).
// Невалидная таймзона — fallback на UTC.
func NewClock(tz string, hour int) Clock {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("invalid digest timezone, falling back to UTC", "tz", tz, "error", err)
		loc = time.UTC
	}
	if hour < 0 || hour > 23 {
		hour = 12
	}
	return Clock{loc: loc, hour: hour}
}

// NewClockFromEnv создаёт Clock из переменных окружения DIGEST_TZ
// (default UTC) и DIGEST_HOUR (default 12).
func NewClockFromEnv() Clock {
	tz := os.Getenv("DIGEST_TZ")
	if tz == "" {
		tz = "UTC"
	}
	hour := 12
	if v := os.Getenv("DIGEST_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			hour = h
		}
	}
	return NewClock(tz, hour)
}

// RunDate возвращает календарную дату момента t в таймзоне рассылки.
func (c Clock) RunDate(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// HourOf возвращает час момента t в таймзоне рассылки.
func (c Clock) HourOf(t time.Time) int {
	return t.In(c.loc).Hour()
}

// DigestHour возвращает настроенный час рассылки.
func (c Clock) DigestHour() int {
	return c.hour
}

// Location возвращает таймзону рассылки.
func (c Clock) Location() *time.Location {
	return c.loc
}
