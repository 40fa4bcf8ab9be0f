package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client = nil
		mr.Close()
	})
	return mr
}

func TestAside(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss fetches and populates the cache", func(t *testing.T) {
		mr := useTestRedis(t)

		calls := 0
		var got string
		err := Aside(ctx, "k", &got, time.Minute, func() error {
			calls++
			got = "fetched"
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "fetched", got)
		assert.Equal(t, 1, calls)
		assert.True(t, mr.Exists("k"))

		// second read is served from the cache
		var again string
		err = Aside(ctx, "k", &again, time.Minute, func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "fetched", again)
		assert.Equal(t, 1, calls)
	})

	t.Run("Fetch error propagates and caches nothing", func(t *testing.T) {
		mr := useTestRedis(t)

		boom := errors.New("db down")
		var got string
		err := Aside(ctx, "k", &got, time.Minute, func() error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.False(t, mr.Exists("k"))
	})

	t.Run("Nil client degrades to a direct fetch", func(t *testing.T) {
		client = nil

		calls := 0
		var got string
		for i := 0; i < 2; i++ {
			err := Aside(ctx, "k", &got, time.Minute, func() error {
				calls++
				got = "direct"
				return nil
			})
			assert.NoError(t, err)
		}
		assert.Equal(t, "direct", got)
		assert.Equal(t, 2, calls)
	})
}

func TestGetSetJSON(t *testing.T) {
	ctx := context.Background()
	useTestRedis(t)

	type payload struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}

	found, err := GetJSON(ctx, ProjectKey(1), &payload{})
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, ProjectKey(1), payload{ID: 1, Name: "Folio"}, ProjectTTL))

	var got payload
	found, err = GetJSON(ctx, ProjectKey(1), &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{ID: 1, Name: "Folio"}, got)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	mr := useTestRedis(t)

	require.NoError(t, SetJSON(ctx, ProjectKey(2), "v", ProjectTTL))
	require.NoError(t, SetJSON(ctx, ProjectsListKey, "v", ListTTL))
	require.NoError(t, SetJSON(ctx, UserPlanKey(3), "v", UserPlanTTL))

	InvalidateProject(ctx, 2)
	InvalidateProjectsList(ctx)
	InvalidateUserPlan(ctx, 3)

	assert.False(t, mr.Exists(ProjectKey(2)))
	assert.False(t, mr.Exists(ProjectsListKey))
	assert.False(t, mr.Exists(UserPlanKey(3)))
}
