// Package webclient is a typed client for the portfolio REST API with a read-through
// query cache that mutations invalidate.
package webclient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// QueryCache maps an endpoint signature to the last value fetched for it.
// Concurrent fetches of the same key share one underlying call.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]any
	subs    map[int]func(key string)
	nextSub int
	// gen is bumped by Invalidate so a fetch that started before it does not store a stale value
	gen   map[string]uint64
	group singleflight.Group
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: map[string]any{},
		subs:    map[int]func(string){},
		gen:     map[string]uint64{},
	}
}

// Key joins an endpoint and its parameters into a cache signature.
func Key(endpoint string, params ...string) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + strings.Join(params, "&")
}

// Fetch returns the cached value for key, or calls fn and caches its result.
// Errors are never cached.
func Fetch[T any](ctx context.Context, q *QueryCache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := q.Peek(key); ok {
		t, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("cache entry %q holds %T", key, v)
		}
		return t, nil
	}

	q.mu.Lock()
	startGen := q.gen[key]
	q.gen[key] = startGen
	q.mu.Unlock()

	// a read issued after an invalidation must not join a flight that started before it
	flight := fmt.Sprintf("%s#%d", key, startGen)
	v, err, _ := q.group.Do(flight, func() (any, error) {
		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		q.mu.Lock()
		if q.gen[key] == startGen {
			q.entries[key] = res
		}
		q.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %q holds %T", key, v)
	}
	return t, nil
}

func (q *QueryCache) Peek(key string) (any, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	v, ok := q.entries[key]
	return v, ok
}

// Set stores v under key and notifies subscribers.
func (q *QueryCache) Set(key string, v any) {
	q.mu.Lock()
	q.entries[key] = v
	subs := q.subscribers()
	q.mu.Unlock()
	for _, fn := range subs {
		fn(key)
	}
}

// Invalidate drops key and every key below it ("/api/projects" also drops
// "/api/projects/42"). Subscribers are told about each removed key, in order.
func (q *QueryCache) Invalidate(prefix string) []string {
	q.mu.Lock()
	var removed []string
	for k := range q.entries {
		if matches(k, prefix) {
			delete(q.entries, k)
			removed = append(removed, k)
		}
	}
	for k := range q.gen {
		if matches(k, prefix) {
			q.gen[k]++
		}
	}
	subs := q.subscribers()
	q.mu.Unlock()

	sort.Strings(removed)
	for _, k := range removed {
		for _, fn := range subs {
			fn(k)
		}
	}
	return removed
}

// Subscribe registers fn for change notifications. The returned func removes it.
func (q *QueryCache) Subscribe(fn func(key string)) func() {
	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}
}

func (q *QueryCache) subscribers() []func(string) {
	out := make([]func(string), 0, len(q.subs))
	for _, fn := range q.subs {
		out = append(out, fn)
	}
	return out
}

func matches(key, prefix string) bool {
	if key == prefix {
		return true
	}
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	next := key[len(prefix)]
	return next == '/' || next == '?'
}
