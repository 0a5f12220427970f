//go:build !integration

package postgres

import (
	"context"
	"time"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
	red "meditation-platform/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCategoryRepo mocks the database repository that the decorator wraps.
type mockInnerCategoryRepo struct {
	ListFunc                  func(ctx context.Context, tx repository.Tx) ([]*model.Category, error)
	FindByIDFunc              func(ctx context.Context, tx repository.Tx, id string) (*model.Category, error)
	SaveFunc                  func(ctx context.Context, tx repository.Tx, c *model.Category) error
	IncrementSessionCountFunc func(ctx context.Context, tx repository.Tx, id string) error
}

func (m *mockInnerCategoryRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	return m.ListFunc(ctx, tx)
}
func (m *mockInnerCategoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Category, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	return m.SaveFunc(ctx, tx, c)
}
func (m *mockInnerCategoryRepo) IncrementSessionCount(ctx context.Context, tx repository.Tx, id string) error {
	return m.IncrementSessionCountFunc(ctx, tx, id)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc        func(ctx context.Context, key string) (string, error)
	SetFunc        func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc        func(ctx context.Context, keys ...string) error
	PingFunc       func(ctx context.Context) error
	IncrWindowFunc func(ctx context.Context, key string, window time.Duration) (int64, error)
	CloseFunc      func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	return m.IncrWindowFunc(ctx, key, window)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
