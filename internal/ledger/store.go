package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store — тонкая обёртка над Redis для координации.
//
// Хранит только координационные записи (локи, last-sent-date),
// никогда — бизнес-данные. Единственный примитив корректности всей
// подсистемы — атомарный SetIfAbsent с TTL (SETNX): никаких
// read-modify-write поверх обычных Get/Set здесь быть не должно.
type Store struct {
	client redis.Cmdable
	logger *slog.Logger
}

// New создаёт Store поверх существующего клиента.
// Жизненным циклом клиента владеет вызывающая сторона.
func New(client redis.Cmdable, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, logger: logger}
}

// NewClient создаёт Redis-клиент из REDIS_URL и проверяет соединение.
func NewClient(ctx context.Context) (*redis.Client, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// SetIfAbsent атомарно записывает значение, если ключа ещё нет.
// Возвращает true, если запись произошла (мы выиграли гонку).
func (s *Store) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return ok, nil
}

// Get возвращает значение ключа. Отсутствие ключа — не ошибка:
// возвращается ("", false, nil).
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return val, true, nil
}

// Set записывает значение безусловно. ttl=0 — без истечения.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствие ключа — не ошибка.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}
