// Package ledger реализует координацию инстансов через Redis.
//
// Три вида записей:
//   - QueueLock — короткий лок на постановку job за дату
//     (гонка нескольких scheduler'ов)
//   - SendLock — суточный лок на выполнение рассылки за дату
//     (гонка нескольких worker'ов), значения processing/sent
//   - LastSentDate — дата последней подтверждённой рассылки,
//     опора catch-up проверки
//
// Вся взаимная блокировка построена на одном примитиве —
// атомарном SETNX с TTL. Упавший процесс ничего не освобождает
// явно: локи истекают сами.
package ledger
