// Package viewcache holds the last-fetched collection for one entity
// type together with its view state (filter, sort, page). Each cache
// exclusively owns its collection: refreshes replace it wholesale and
// nothing outside the cache mutates it. The displayed collection is
// always sort(filter(items)).
package viewcache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"bookshop/internal/ui"
)

// SortKey selects one of the view's comparators. SortNone restores
// filter-only (server) order.
type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// PageInfo describes server-side pagination. Client-paginated fetchers
// return the zero value and the cache slices locally.
type PageInfo struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// FetchFunc retrieves the collection. Client-paginated lists ignore
// page and limit and return everything.
type FetchFunc[T any] func(ctx context.Context, page, limit int) ([]T, PageInfo, error)

type Cache[T any] struct {
	mu sync.Mutex

	fetch    FetchFunc[T]
	less     map[SortKey]func(a, b T) bool
	notify   ui.Notifier
	onChange func()

	items    []T
	filtered []T
	filter   func(T) bool
	sortKey  SortKey

	page       int
	pageSize   int
	serverPage PageInfo
	serverSide bool
	loaded     bool

	// monotonic refresh sequence; a response that resolves after a
	// newer refresh started is discarded instead of overwriting it
	seq atomic.Uint64
}

type Option[T any] func(*Cache[T])

// WithComparators installs the sort comparators available to ApplySort.
func WithComparators[T any](less map[SortKey]func(a, b T) bool) Option[T] {
	return func(c *Cache[T]) { c.less = less }
}

// WithPageSize enables client-side pagination over the filtered view.
func WithPageSize[T any](n int) Option[T] {
	return func(c *Cache[T]) { c.pageSize = n }
}

// WithServerPaging marks the list as server-paginated: SetPage re-fetches
// the requested page instead of re-slicing.
func WithServerPaging[T any](limit int) Option[T] {
	return func(c *Cache[T]) {
		c.serverSide = true
		c.pageSize = limit
	}
}

// WithNotifier routes refresh failures to a user-visible surface.
func WithNotifier[T any](n ui.Notifier) Option[T] {
	return func(c *Cache[T]) { c.notify = n }
}

// WithOnChange registers the re-render request hook.
func WithOnChange[T any](fn func()) Option[T] {
	return func(c *Cache[T]) { c.onChange = fn }
}

func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{fetch: fetch, notify: ui.LogNotifier{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh re-fetches the collection and replaces items wholesale. On
// failure the previous items stay in place (stale but available) and the
// error is surfaced through the notifier. A response belonging to a
// refresh that has since been superseded is dropped.
func (c *Cache[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	seq := c.seq.Add(1)
	page, limit := c.page, c.pageSize
	c.mu.Unlock()

	items, info, err := c.fetch(ctx, page, limit)
	if err != nil {
		c.notify.Errorf("refresh failed: %v", err)
		return err
	}

	c.mu.Lock()
	if c.seq.Load() != seq {
		c.mu.Unlock()
		return nil
	}
	c.items = items
	c.serverPage = info
	c.loaded = true
	c.reapply()
	c.mu.Unlock()

	c.changed()
	return nil
}

// ApplyFilter sets the filter and recomputes the derived view without a
// server round-trip. A nil predicate clears the filter.
func (c *Cache[T]) ApplyFilter(pred func(T) bool) {
	c.mu.Lock()
	c.filter = pred
	c.page = 0
	c.reapply()
	c.mu.Unlock()
	c.changed()
}

// ApplySort re-sorts the derived view with a stable comparator; ties
// keep their server order. An unknown key acts as SortNone.
func (c *Cache[T]) ApplySort(key SortKey) {
	c.mu.Lock()
	c.sortKey = key
	c.reapply()
	c.mu.Unlock()
	c.changed()
}

// SetPage moves to page n (0-based). Server-paginated caches re-fetch;
// client-paginated ones re-slice the filtered view.
func (c *Cache[T]) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if n < 0 {
		n = 0
	}
	c.page = n
	server := c.serverSide
	c.mu.Unlock()

	if server {
		return c.Refresh(ctx)
	}
	c.changed()
	return nil
}

// Current returns the slice of the derived view for the current page.
func (c *Cache[T]) Current() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.serverSide || c.pageSize <= 0 {
		return append([]T(nil), c.filtered...)
	}
	start := c.page * c.pageSize
	if start >= len(c.filtered) {
		return nil
	}
	end := start + c.pageSize
	if end > len(c.filtered) {
		end = len(c.filtered)
	}
	return append([]T(nil), c.filtered[start:end]...)
}

// All returns the whole derived view regardless of paging.
func (c *Cache[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.filtered...)
}

// Items returns the collection in server order, unfiltered.
func (c *Cache[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Loaded distinguishes "empty collection" from "not yet fetched"; the
// render layer shows a different empty state for each.
func (c *Cache[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Cache[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// TotalPages reports the page count: the server's for server-paginated
// lists, computed from the filtered view otherwise.
func (c *Cache[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.serverSide {
		return c.serverPage.TotalPages
	}
	if c.pageSize <= 0 {
		if len(c.filtered) > 0 {
			return 1
		}
		return 0
	}
	return (len(c.filtered) + c.pageSize - 1) / c.pageSize
}

// reapply recomputes filtered = sort(filter(items)). Caller holds mu.
func (c *Cache[T]) reapply() {
	if c.filter == nil {
		c.filtered = append([]T(nil), c.items...)
	} else {
		c.filtered = c.filtered[:0:0]
		for _, item := range c.items {
			if c.filter(item) {
				c.filtered = append(c.filtered, item)
			}
		}
	}

	less, ok := c.less[c.sortKey]
	if c.sortKey == SortNone || !ok {
		return
	}
	sort.SliceStable(c.filtered, func(i, j int) bool {
		return less(c.filtered[i], c.filtered[j])
	})
}

func (c *Cache[T]) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
