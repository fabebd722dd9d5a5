package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"hompulse/console/internal/api"
	"hompulse/console/internal/log"
)

// Client is the part of the API client used by the entity services
type Client interface {
	Get(ctx context.Context, path string, out any) error
	GetList(ctx context.Context, path string, out any) error
	GetMappedList(ctx context.Context, path, entity string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Patch(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Collection holds the list state of one REST collection.
// The list is replaced only by a successful fetch; mutations refetch on success.
type Collection[T any] struct {
	client Client
	name   string
	path   string
	entity string
	logger *log.Logger

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// NewCollection creates a collection for path. entity selects the field map applied to rows.
func NewCollection[T any](client Client, name, path, entity string, logger *log.Logger) *Collection[T] {
	return &Collection[T]{client: client, name: name, path: path, entity: entity, logger: logger}
}

// Path returns the collection path
func (c *Collection[T]) Path() string {
	return c.path
}

// ItemPath returns the path of one row
func (c *Collection[T]) ItemPath(id int64, suffix ...string) string {
	parts := append([]string{strings.TrimRight(c.path, "/"), strconv.FormatInt(id, 10)}, suffix...)
	return strings.Join(parts, "/")
}

// Fetch reloads the list. On failure the previous list is kept.
func (c *Collection[T]) Fetch(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.client.GetMappedList(ctx, c.path, c.entity, &items); err != nil {
		c.logger.Warn(ctx, "List fetch failed", log.Fields{"entity": c.name, "path": c.path, "error": err})
		return nil, fmt.Errorf("failed to load %s list: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	c.items = items
	c.loaded = true
	c.mu.Unlock()

	return c.Items(), nil
}

// FetchOrEmpty reloads the list and degrades to an empty list on failure
func (c *Collection[T]) FetchOrEmpty(ctx context.Context) []T {
	items, err := c.Fetch(ctx)
	if err != nil {
		c.mu.Lock()
		c.items = []T{}
		c.loaded = true
		c.mu.Unlock()
		return []T{}
	}
	return items
}

// Items returns a copy of the current list
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Loaded reports whether the list has been fetched at least once
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Ensure fetches the list if it has never been loaded
func (c *Collection[T]) Ensure(ctx context.Context) ([]T, error) {
	if c.Loaded() {
		return c.Items(), nil
	}
	return c.Fetch(ctx)
}

// Find returns the first row matching match, fetching the list first if needed
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.Ensure(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if match(item) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Mutate runs call and refetches the list when it succeeds.
// A failed call returns *MutationError and leaves the list untouched.
func (c *Collection[T]) Mutate(ctx context.Context, op string, call func(ctx context.Context) error) error {
	if err := call(ctx); err != nil {
		c.logger.Warn(ctx, "Mutation failed", log.Fields{"entity": c.name, "op": op, "error": err})
		return &MutationError{Entity: c.name, Op: op, Detail: api.Detail(err), Err: err}
	}
	c.logger.Info(ctx, "Mutation applied", log.Fields{"entity": c.name, "op": op})

	if _, err := c.Fetch(ctx); err != nil {
		return fmt.Errorf("%s %s saved but the list could not be reloaded: %w", c.name, op, err)
	}
	return nil
}

// Create posts payload to the collection
func (c *Collection[T]) Create(ctx context.Context, payload any) error {
	return c.Mutate(ctx, "create", func(ctx context.Context) error {
		return c.client.Post(ctx, c.path, payload, nil)
	})
}

// Update patches the row id
func (c *Collection[T]) Update(ctx context.Context, id int64, patch any) error {
	return c.Mutate(ctx, "update", func(ctx context.Context) error {
		return c.client.Patch(ctx, c.ItemPath(id), patch, nil)
	})
}

// Remove deletes the row id
func (c *Collection[T]) Remove(ctx context.Context, id int64) error {
	return c.Mutate(ctx, "delete", func(ctx context.Context) error {
		return c.client.Delete(ctx, c.ItemPath(id), nil)
	})
}
