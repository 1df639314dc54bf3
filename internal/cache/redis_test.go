package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis is an in-memory stand-in for the go-redis client.
type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "product_data_42", Key(42))
}

func TestNewSummary(t *testing.T) {
	summary := NewSummary(&model.Product{
		ID:          1,
		Name:        "Lamp",
		Description: "Bright",
		Price:       decimal.RequireFromString("20"),
	})

	assert.Equal(t, Summary{Name: "Lamp", Description: "Bright", Price: "20.00"}, summary)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := NewRedisCache(client, 5*time.Minute)

	t.Run("miss", func(t *testing.T) {
		_, err := cache.Get(ctx, 1)
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("set then get", func(t *testing.T) {
		summary := Summary{Name: "New Product", Description: "Awesome Product", Price: "20.00"}

		require.NoError(t, cache.Set(ctx, 1, summary))
		assert.JSONEq(t, `{"name":"New Product","description":"Awesome Product","price":"20.00"}`, client.data["product_data_1"])
		assert.Equal(t, 5*time.Minute, client.ttls["product_data_1"])

		got, err := cache.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, 1))
		assert.NotContains(t, client.data, "product_data_1")

		require.NoError(t, cache.Delete(ctx, 1), "evicting a missing entry succeeds")
	})

	t.Run("corrupt entry", func(t *testing.T) {
		client.data["product_data_9"] = "not json"
		_, err := cache.Get(ctx, 9)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode summary")
	})
}

func TestRedisCache_ClientErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	client := newFakeRedis()
	client.failErr = boom
	cache := NewRedisCache(client, time.Minute)

	_, err := cache.Get(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrMiss)

	err = cache.Set(ctx, 1, Summary{Name: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to write summary")

	err = cache.Delete(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to evict summary")
}
