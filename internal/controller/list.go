package controller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/events"
	"github.com/trippal/admin-console/pkg/util"
)

// Fetcher retrieves one page of results for the given filters.
type Fetcher[T any] func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[T], error)

// ListConfig bundles dependencies for a list controller.
type ListConfig[T any] struct {
	// Name identifies the view in events and log records.
	Name       string
	Fetch      Fetcher[T]
	Debounce   time.Duration
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// ListController translates filter and pagination state into server
// queries and maintains the accumulated result list. One generic
// implementation serves both the ticket and the material views.
//
// Ordering guarantee: every issued request captures a generation
// number; a response is applied only while its generation is still
// the latest, so a stale filter result can never overwrite state a
// newer request already owns (last-issued-wins).
type ListController[T any] struct {
	mu       sync.Mutex
	name     string
	fetch    Fetcher[T]
	debounce time.Duration
	events   events.Dispatcher
	logger   *zap.Logger

	items          []T
	totalCount     int
	page           int
	loadingInitial bool
	loadingMore    bool
	lastErr        error

	filters  map[string]string
	gen      uint64
	timer    *time.Timer
	inFlight bool
}

// NewListController constructs a controller around a fetch function.
func NewListController[T any](cfg ListConfig[T]) *ListController[T] {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListController[T]{
		name:     cfg.Name,
		fetch:    cfg.Fetch,
		debounce: debounce,
		events:   cfg.Dispatcher,
		logger:   logger,
		filters:  map[string]string{},
	}
}

// Load issues one request for the given page under the given filters.
// Page 1 replaces the accumulated items; higher pages append to them.
// The total count is always overwritten from the response. On failure
// the last known-good items and count are left untouched.
func (l *ListController[T]) Load(ctx context.Context, page int, filters map[string]string) error {
	if page < 1 {
		return util.NewValidationError("page index must be at least 1")
	}

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.filters = cloneFilters(filters)
	l.inFlight = true
	l.lastErr = nil
	if page == 1 {
		l.loadingInitial = true
	} else {
		l.loadingMore = true
	}
	l.mu.Unlock()

	result, err := l.fetch(ctx, page, cloneFilters(filters))

	l.mu.Lock()
	if l.gen != gen {
		// A newer request was issued while this one was in flight.
		l.mu.Unlock()
		l.logger.Debug("stale list response discarded",
			zap.String("view", l.name),
			zap.Uint64("generation", gen),
		)
		return nil
	}
	l.inFlight = false
	l.loadingInitial = false
	l.loadingMore = false

	if err != nil {
		clientErr := util.ToClientError(err)
		l.lastErr = clientErr
		l.mu.Unlock()
		l.logger.Warn("list fetch failed",
			zap.String("view", l.name),
			zap.Int("page", page),
			zap.String("kind", string(clientErr.Kind)),
		)
		l.publishUpdated()
		return clientErr
	}

	if page == 1 {
		l.items = result.Results
	} else {
		l.items = append(l.items, result.Results...)
	}
	l.totalCount = result.Count
	l.page = page
	l.mu.Unlock()

	l.publishUpdated()
	return nil
}

// SetFilters schedules a page-1 load after the quiet period. A newer
// edit arriving before the timer fires replaces the pending load, so
// a burst of keystrokes produces at most one request.
func (l *ListController[T]) SetFilters(filters map[string]string) {
	pending := cloneFilters(filters)

	l.mu.Lock()
	l.filters = cloneFilters(filters)
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.debounce, func() {
		if err := l.Load(context.Background(), 1, pending); err != nil {
			l.logger.Debug("debounced load failed", zap.String("view", l.name), zap.Error(err))
		}
	})
	l.mu.Unlock()
}

// LoadMore appends the next page under the current filters. Not
// debounced; overlapping appends are prevented by refusing to start
// while any request is outstanding.
func (l *ListController[T]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.inFlight || len(l.items) >= l.totalCount {
		l.mu.Unlock()
		return nil
	}
	page := l.page + 1
	filters := cloneFilters(l.filters)
	l.mu.Unlock()

	return l.Load(ctx, page, filters)
}

// Reload re-fetches page 1 under the current filters. Mutation flows
// use this after a create, since the new item's sort position is
// server-determined.
func (l *ListController[T]) Reload(ctx context.Context) error {
	l.mu.Lock()
	filters := cloneFilters(l.filters)
	l.mu.Unlock()
	return l.Load(ctx, 1, filters)
}

// Replace swaps the first item matching the predicate for the given
// server representation.
func (l *ListController[T]) Replace(match func(T) bool, item T) bool {
	l.mu.Lock()
	replaced := false
	for i := range l.items {
		if match(l.items[i]) {
			l.items[i] = item
			replaced = true
			break
		}
	}
	l.mu.Unlock()
	if replaced {
		l.publishUpdated()
	}
	return replaced
}

// Items returns a copy of the accumulated results.
func (l *ListController[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// TotalCount returns the server-reported total for the current
// filters.
func (l *ListController[T]) TotalCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalCount
}

// Page returns the highest loaded page index.
func (l *ListController[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Err returns the failure recorded by the most recent request, if
// any.
func (l *ListController[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// IsLoadingInitial reports whether a page-1 request is in flight.
func (l *ListController[T]) IsLoadingInitial() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadingInitial
}

// IsLoadingMore reports whether an append request is in flight.
func (l *ListController[T]) IsLoadingMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadingMore
}

// HasMore is derived, not stored: more results exist and nothing is
// currently in flight.
func (l *ListController[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items) < l.totalCount && !l.inFlight
}

// Filters returns a copy of the active filter state.
func (l *ListController[T]) Filters() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneFilters(l.filters)
}

func (l *ListController[T]) publishUpdated() {
	if l.events == nil {
		return
	}
	l.events.Publish(events.Event{
		Type:   events.EventListUpdated,
		Source: l.name,
	})
}

func cloneFilters(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		out[k] = v
	}
	return out
}
