// Package scheduler реализует триггер daily digest рассылки.
//
// Два независимых контура:
//   - суточный cron-тик в таймзоне рассылки → TriggerRun
//   - catch-up цикл с коротким периодом → CatchUpCheck
//
// Несколько инстансов scheduler'а могут работать одновременно:
// право постановки job за дату разыгрывается через QueueLock
// (SETNX в ledger), а детерминированный job ID делает постановку
// идемпотентной даже после истечения лока.
//
// Leader election не используется: каждый инстанс тикает сам,
// выигрывает ровно один.
package scheduler
