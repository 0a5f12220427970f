//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
	red "meditation-platform/internal/infra/redis"
)

func TestCategoryRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	cats := []*model.Category{{ID: "c1", Name: "Sleep"}, {ID: "c2", Name: "Focus"}}

	t.Run("List should fetch from DB and set cache on miss", func(t *testing.T) {
		// Arrange
		innerCalls := 0
		var stored sync.Map
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) { return "", red.Nil },
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				stored.Store(key, value)
				return nil
			},
		}
		inner := &mockInnerCategoryRepo{
			ListFunc: func(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
				innerCalls++
				return cats, nil
			},
		}
		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, time.Minute, nil)

		// Act
		got, err := decorator.List(ctx, nil)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerCalls != 1 {
			t.Errorf("inner repository should be called once on a miss, got %d", innerCalls)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 categories, got %d", len(got))
		}
		if _, ok := stored.Load(categoriesKey); !ok {
			t.Error("expected the list to be written to cache")
		}
	})

	t.Run("List should return cached value on hit", func(t *testing.T) {
		// Arrange
		payload, _ := json.Marshal(cats)
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) { return string(payload), nil },
		}
		inner := &mockInnerCategoryRepo{
			ListFunc: func(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
				t.Fatal("inner repository must not be called on a hit")
				return nil, nil
			},
		}
		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, time.Minute, nil)

		// Act
		got, err := decorator.List(ctx, nil)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 || got[0].Name != "Sleep" {
			t.Errorf("unexpected cached categories: %+v", got)
		}
	})

	t.Run("IncrementSessionCount should invalidate entry and list", func(t *testing.T) {
		// Arrange
		var deleted []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deleted = append(deleted, keys...)
				return nil
			},
		}
		inner := &mockInnerCategoryRepo{
			IncrementSessionCountFunc: func(ctx context.Context, tx repository.Tx, id string) error { return nil },
		}
		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, time.Minute, nil)

		// Act
		err := decorator.IncrementSessionCount(ctx, nil, "c1")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deleted) != 2 || deleted[0] != "category:c1" || deleted[1] != categoriesKey {
			t.Errorf("unexpected invalidated keys: %v", deleted)
		}
	})

	t.Run("Save should not invalidate when the write fails", func(t *testing.T) {
		// Arrange
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				t.Fatal("cache must not be touched when the write fails")
				return nil
			},
		}
		inner := &mockInnerCategoryRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, c *model.Category) error { return context.Canceled },
		}
		decorator := NewCategoryRepoCacheDecorator(inner, mockRedis, time.Minute, nil)

		// Act
		err := decorator.Save(ctx, nil, &model.Category{ID: "c1"})

		// Assert
		if err != context.Canceled {
			t.Fatalf("expected inner error, got %v", err)
		}
	})
}
