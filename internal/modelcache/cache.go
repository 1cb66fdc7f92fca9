// Package modelcache keeps trained evaluation bundles keyed by the content
// hash of the record set they were trained on.
package modelcache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"creditrisk/internal/dataset"
	"creditrisk/internal/evaluation"
)

// Trainer produces a bundle for a record set.
type Trainer interface {
	Run(ctx context.Context, rs *dataset.RecordSet) (*evaluation.Bundle, error)
}

// Recorder receives cache and training measurements.
type Recorder interface {
	RecordCacheLookup(ctx context.Context, hit bool)
	RecordTraining(ctx context.Context, duration time.Duration, err error)
}

// EventType names a cache lifecycle event.
type EventType string

const (
	EventTrainingStarted   EventType = "training_started"
	EventTrainingCompleted EventType = "training_completed"
	EventTrainingFailed    EventType = "training_failed"
	EventInvalidated       EventType = "cache_invalidated"
)

// Event describes a change in the cache.
type Event struct {
	Type     EventType     `json:"type"`
	Key      string        `json:"key,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Error    string        `json:"error,omitempty"`
	Time     time.Time     `json:"time"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder records lookups and training runs.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

// WithListener registers fn for every event. Listeners run synchronously
// and must not block.
func WithListener(fn func(Event)) Option {
	return func(c *Cache) { c.listeners = append(c.listeners, fn) }
}

// Cache maps record set keys to immutable bundles. Concurrent misses on one
// key share a single training run.
type Cache struct {
	trainer   Trainer
	logger    *slog.Logger
	recorder  Recorder
	listeners []func(Event)

	mu      sync.RWMutex
	entries map[string]*evaluation.Bundle
	group   singleflight.Group
}

// New returns an empty cache backed by trainer.
func New(trainer Trainer, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		trainer: trainer,
		logger:  logger,
		entries: make(map[string]*evaluation.Bundle),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the bundle for rs, training it on a miss.
func (c *Cache) Get(ctx context.Context, rs *dataset.RecordSet) (*evaluation.Bundle, error) {
	key := rs.Key()
	if b, ok := c.Peek(key); ok {
		c.recordLookup(ctx, true)
		return b, nil
	}
	c.recordLookup(ctx, false)

	// Training outlives the caller that started it so joined callers with
	// live contexts still get the bundle. Each caller stops waiting when its
	// own context ends.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		if b, ok := c.Peek(key); ok {
			return b, nil
		}
		return c.train(context.WithoutCancel(ctx), key, rs)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for models %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.DebugContext(ctx, "joined in-flight training", slog.String("key", key))
		}
		return res.Val.(*evaluation.Bundle), nil
	}
}

func (c *Cache) train(ctx context.Context, key string, rs *dataset.RecordSet) (*evaluation.Bundle, error) {
	c.emit(Event{Type: EventTrainingStarted, Key: key})
	c.logger.InfoContext(ctx, "training models", slog.String("key", key), slog.Int("rows", rs.Len()))

	start := time.Now()
	b, err := c.trainer.Run(ctx, rs)
	elapsed := time.Since(start)
	if c.recorder != nil {
		c.recorder.RecordTraining(ctx, elapsed, err)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "training failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		c.emit(Event{Type: EventTrainingFailed, Key: key, Duration: elapsed, Error: err.Error()})
		return nil, fmt.Errorf("train models for %s: %w", key, err)
	}

	c.mu.Lock()
	c.entries[key] = b
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "models trained",
		slog.String("key", key),
		slog.Duration("duration", elapsed),
		slog.Int("models", len(b.Results)))
	c.emit(Event{Type: EventTrainingCompleted, Key: key, Duration: elapsed})
	return b, nil
}

// Peek returns a cached bundle without training.
func (c *Cache) Peek(key string) (*evaluation.Bundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[key]
	return b, ok
}

// Invalidate drops key and reports whether it was cached.
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if ok {
		c.emit(Event{Type: EventInvalidated, Key: key})
	}
	return ok
}

// Purge drops every entry and returns how many were cached.
func (c *Cache) Purge() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*evaluation.Bundle)
	c.mu.Unlock()
	if n > 0 {
		c.emit(Event{Type: EventInvalidated})
	}
	return n
}

// Keys returns the cached keys, sorted.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) recordLookup(ctx context.Context, hit bool) {
	if c.recorder != nil {
		c.recorder.RecordCacheLookup(ctx, hit)
	}
}

func (c *Cache) emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	for _, fn := range c.listeners {
		fn(e)
	}
}
