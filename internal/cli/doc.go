// Package cli реализует команды openstock CLI поверх операционного
// HTTP API. Пакет не импортирует internal/api: типы ответов
// дублируются, чтобы CLI можно было собирать и распространять
// отдельно от сервера.
package cli
