package webclient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "/api/projects", Key("/api/projects"))
	assert.Equal(t, "/api/projects?category=Branding&page=2", Key("/api/projects", "category=Branding", "page=2"))
}

func TestFetch_CachesAndDedupes(t *testing.T) {
	q := NewQueryCache()
	var calls atomic.Int32
	release := make(chan struct{})

	fn := func(context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"a"}, nil
	}

	var wg sync.WaitGroup
	results := make([][]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), q, "/api/projects", fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	// let the callers pile up on the in-flight call
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, []string{"a"}, r)
	}

	v, err := Fetch(context.Background(), q, "/api/projects", fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, int32(1), calls.Load(), "second fetch served from cache")
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	q := NewQueryCache()
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), q, "/api/user", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := q.Peek("/api/user")
	assert.False(t, ok)

	v, err := Fetch(context.Background(), q, "/api/user", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFetch_TypeMismatch(t *testing.T) {
	q := NewQueryCache()
	q.Set("/api/categories", 42)

	_, err := Fetch(context.Background(), q, "/api/categories", func(context.Context) ([]string, error) { return nil, nil })
	assert.Error(t, err)
}

func TestInvalidate_MatchesPrefixOnSegmentBoundary(t *testing.T) {
	q := NewQueryCache()
	q.Set("/api/projects", 1)
	q.Set("/api/projects/42", 2)
	q.Set("/api/projects?category=Branding", 3)
	q.Set("/api/projectsarchive", 4)
	q.Set("/api/user", 5)

	removed := q.Invalidate("/api/projects")
	assert.Equal(t, []string{"/api/projects", "/api/projects/42", "/api/projects?category=Branding"}, removed)

	_, ok := q.Peek("/api/projectsarchive")
	assert.True(t, ok)
	_, ok = q.Peek("/api/user")
	assert.True(t, ok)
}

func TestInvalidate_DropsInflightResult(t *testing.T) {
	q := NewQueryCache()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := Fetch(context.Background(), q, "/api/projects/1", func(context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "stale", v, "the caller still receives what it fetched")
	}()

	<-started
	q.Invalidate("/api/projects")
	close(release)
	<-done

	_, ok := q.Peek("/api/projects/1")
	assert.False(t, ok, "a fetch that raced an invalidation is not stored")
}

func TestInvalidate_LaterReadRefetches(t *testing.T) {
	q := NewQueryCache()
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string)
	go func() {
		v, err := Fetch(context.Background(), q, "/api/projects", func(context.Context) (string, error) {
			calls.Add(1)
			close(started)
			<-release
			return "before update", nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	q.Invalidate("/api/projects")

	v, err := Fetch(context.Background(), q, "/api/projects", func(context.Context) (string, error) {
		calls.Add(1)
		return "after update", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after update", v)

	close(release)
	assert.Equal(t, "before update", <-done)
	assert.Equal(t, int32(2), calls.Load())

	cached, ok := q.Peek("/api/projects")
	require.True(t, ok)
	assert.Equal(t, "after update", cached)
}

func TestSubscribe(t *testing.T) {
	q := NewQueryCache()
	var mu sync.Mutex
	var seen []string
	unsubscribe := q.Subscribe(func(key string) {
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
	})

	q.Set("/api/projects/2", "b")
	q.Set("/api/projects/1", "a")
	q.Invalidate("/api/projects")
	assert.Equal(t, []string{"/api/projects/2", "/api/projects/1", "/api/projects/1", "/api/projects/2"}, seen)

	unsubscribe()
	q.Set("/api/user", "x")
	assert.Len(t, seen, 4)
}
