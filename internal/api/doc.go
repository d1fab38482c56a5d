// Package api реализует операционный HTTP API mail-подсистемы:
// статус рассылки за текущую дату, lookup jobs, ручной триггер
// digest и постановка welcome-писем.
//
// Ручной триггер проходит через те же блокировки, что и cron-тик,
// поэтому не может породить дубликат рассылки.
package api
