// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений
//   - consumer.go   — потребление сообщений
//
// Типы сообщений:
//   - digest.trigger     — триггер daily digest рассылки
//   - welcome.requested  — запрос welcome-письма новому пользователю
//
// Exchanges:
//   - openstock.mail — события рассылки
//   - openstock.dlq  — dead letter queue
//
// Брокер здесь — только транспорт уведомлений: источник правды о
// jobs — таблица jobs в Postgres, идемпотентность обеспечивает
// ledger в Redis.
package mq
