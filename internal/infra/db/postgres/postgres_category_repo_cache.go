package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
	"meditation-platform/internal/infra/logging"
	"meditation-platform/internal/infra/metrics"
	red "meditation-platform/internal/infra/redis"
)

const categoriesKey = "categories:all"

var _ repository.CategoryRepository = (*categoryRepoCacheDecorator)(nil)

// categoryRepoCacheDecorator caches category reads; the catalog rarely changes
// but is fetched on every dashboard load.
type categoryRepoCacheDecorator struct {
	inner repository.CategoryRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewCategoryRepoCacheDecorator(inner repository.CategoryRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.CategoryRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &categoryRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   logging.Component(logger, "category_cache"),
	}
}

func categoryKey(id string) string { return "category:" + id }

func (d *categoryRepoCacheDecorator) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	val, err := d.cache.Get(ctx, categoriesKey)
	if err == nil {
		var cats []*model.Category
		if json.Unmarshal([]byte(val), &cats) == nil {
			metrics.IncCacheRequest("category_list", "hit")
			return cats, nil
		}
	} else if !errors.Is(err, red.Nil) {
		d.log.Warn().Err(err).Msg("category cache read failed")
	}

	metrics.IncCacheRequest("category_list", "miss")
	cats, err := d.inner.List(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		bytes, _ := json.Marshal(cats)
		_ = d.cache.Set(ctx, categoriesKey, bytes, d.ttl)
	}
	return cats, nil
}

func (d *categoryRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Category, error) {
	key := categoryKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var c model.Category
		if json.Unmarshal([]byte(val), &c) == nil {
			metrics.IncCacheRequest("category", "hit")
			return &c, nil
		}
	} else if !errors.Is(err, red.Nil) {
		d.log.Warn().Err(err).Msg("category cache read failed")
	}

	metrics.IncCacheRequest("category", "miss")
	c, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	bytes, _ := json.Marshal(c)
	_ = d.cache.Set(ctx, key, bytes, d.ttl)
	return c, nil
}

// Writes invalidate both the single entry and the list.
func (d *categoryRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	if err := d.inner.Save(ctx, tx, c); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, categoryKey(c.ID), categoriesKey)
	return nil
}

func (d *categoryRepoCacheDecorator) IncrementSessionCount(ctx context.Context, tx repository.Tx, id string) error {
	if err := d.inner.IncrementSessionCount(ctx, tx, id); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, categoryKey(id), categoriesKey)
	return nil
}
