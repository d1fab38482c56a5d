// Package worker выполняет mail jobs: daily digest и welcome.
//
// Гарантии digest рассылки:
//   - single-flight на дату: SendLock (SETNX, TTL 24h) пропускает
//     ровно один worker, остальные завершают job как skipped
//   - частичные сбои не валят run: ошибка одного пользователя
//     логируется и учитывается в fail_count, цикл продолжается
//   - полный провал (ноль успехов) откатывает SendLock — день
//     остаётся доступным для catch-up повтора
//
// Повторная доставка сообщения или повторный poll одного job
// безопасны: клейм через условный UPDATE статуса и SendLock
// схлопывают дубликаты.
package worker
