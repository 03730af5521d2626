package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrFetch(t *testing.T) {
	t.Run("Caches Found Values", func(t *testing.T) {
		c := New[string]()
		calls := 0
		fetch := func(ctx context.Context) (string, bool, error) {
			calls++
			return "value", true, nil
		}

		value, found, err := c.GetOrFetch(context.Background(), "k", fetch)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "value", value)

		_, _, err = c.GetOrFetch(context.Background(), "k", fetch)
		assert.NoError(t, err)
		assert.Equal(t, 1, calls, "second lookup should hit the cache")
	})

	t.Run("Not Found Is Never Cached", func(t *testing.T) {
		c := New[string]()
		calls := 0
		fetch := func(ctx context.Context) (string, bool, error) {
			calls++
			return "", false, nil
		}

		_, found, err := c.GetOrFetch(context.Background(), "k", fetch)
		assert.NoError(t, err)
		assert.False(t, found)

		_, _, _ = c.GetOrFetch(context.Background(), "k", fetch)
		assert.Equal(t, 2, calls, "a miss should retry the fetch")
	})

	t.Run("Errors Are Never Cached", func(t *testing.T) {
		c := New[string]()
		calls := 0
		fetch := func(ctx context.Context) (string, bool, error) {
			calls++
			if calls == 1 {
				return "", false, errors.New("upstream down")
			}
			return "recovered", true, nil
		}

		_, _, err := c.GetOrFetch(context.Background(), "k", fetch)
		assert.Error(t, err)

		value, found, err := c.GetOrFetch(context.Background(), "k", fetch)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "recovered", value)
	})

	t.Run("Concurrent Lookups Share One Fetch", func(t *testing.T) {
		c := New[string]()
		var calls int32
		release := make(chan struct{})
		fetch := func(ctx context.Context) (string, bool, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return "shared", true, nil
		}

		var started, wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			started.Add(1)
			wg.Add(1)
			go func() {
				defer wg.Done()
				started.Done()
				value, found, err := c.GetOrFetch(context.Background(), "k", fetch)
				assert.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, "shared", value)
			}()
		}
		started.Wait()
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestInvalidatePrefix(t *testing.T) {
	c := New[int]()
	c.Put("ai-1#1", 1)
	c.Put("ai-1#2", 2)
	c.Put("ai-10#1", 3)

	c.InvalidatePrefix("ai-1#")

	_, found, _ := c.GetOrFetch(context.Background(), "ai-10#1", func(ctx context.Context) (int, bool, error) {
		return 0, false, nil
	})
	assert.True(t, found, "entries of other resources survive")

	refetched := false
	_, _, _ = c.GetOrFetch(context.Background(), "ai-1#1", func(ctx context.Context) (int, bool, error) {
		refetched = true
		return 0, false, nil
	})
	assert.True(t, refetched, "invalidated entries are fetched again")
}
