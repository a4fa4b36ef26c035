package controller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/events"
	"github.com/trippal/admin-console/pkg/util"
)

func newListForTest(fetch Fetcher[string]) *ListController[string] {
	return NewListController(ListConfig[string]{
		Name:       "test",
		Fetch:      fetch,
		Debounce:   20 * time.Millisecond,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
}

func TestList_PaginationAccumulates(t *testing.T) {
	t.Parallel()

	pages := map[int]dto.ListPage[string]{
		1: {Results: []string{"a", "b"}, Count: 3},
		2: {Results: []string{"c"}, Count: 3},
	}
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		return pages[page], nil
	})

	require.NoError(t, list.Load(context.Background(), 1, nil))
	require.NoError(t, list.Load(context.Background(), 2, nil))

	assert.Equal(t, []string{"a", "b", "c"}, list.Items())
	assert.Equal(t, 3, list.TotalCount())
	assert.Equal(t, 2, list.Page())
	assert.False(t, list.HasMore())
}

func TestList_PageOneReplaces(t *testing.T) {
	t.Parallel()

	calls := atomic.Int64{}
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		if calls.Add(1) == 1 {
			return dto.ListPage[string]{Results: []string{"old-1", "old-2"}, Count: 2}, nil
		}
		return dto.ListPage[string]{Results: []string{"new"}, Count: 1}, nil
	})

	require.NoError(t, list.Load(context.Background(), 1, nil))
	require.NoError(t, list.Load(context.Background(), 1, nil))

	assert.Equal(t, []string{"new"}, list.Items())
	assert.Equal(t, 1, list.TotalCount())
}

func TestList_FailureIsNonDestructive(t *testing.T) {
	t.Parallel()

	fail := atomic.Bool{}
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		if fail.Load() {
			return dto.ListPage[string]{}, errors.New("connection reset")
		}
		return dto.ListPage[string]{Results: []string{"a", "b"}, Count: 5}, nil
	})

	require.NoError(t, list.Load(context.Background(), 1, nil))
	fail.Store(true)

	err := list.Load(context.Background(), 2, nil)
	require.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, list.Items(), "items keep their last known-good value")
	assert.Equal(t, 5, list.TotalCount())
	assert.False(t, list.IsLoadingInitial())
	assert.False(t, list.IsLoadingMore())
	assert.True(t, util.IsKind(list.Err(), util.KindNetwork))
}

func TestList_LastIssuedWins(t *testing.T) {
	t.Parallel()

	releaseStale := make(chan struct{})
	staleStarted := make(chan struct{})
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		if filters[FilterQuery] == "hotel" {
			close(staleStarted)
			<-releaseStale
			return dto.ListPage[string]{Results: []string{"stale-hotel"}, Count: 1}, nil
		}
		return dto.ListPage[string]{Results: []string{"fresh-hotels"}, Count: 1}, nil
	})

	staleDone := make(chan error, 1)
	go func() {
		staleDone <- list.Load(context.Background(), 1, map[string]string{FilterQuery: "hotel"})
	}()
	<-staleStarted

	// A newer request is issued while the first is still in flight.
	require.NoError(t, list.Load(context.Background(), 1, map[string]string{FilterQuery: "hotels"}))

	close(releaseStale)
	require.NoError(t, <-staleDone)

	assert.Equal(t, []string{"fresh-hotels"}, list.Items(), "the stale response must be discarded even though it arrived last")
}

func TestList_DebounceCoalescesEdits(t *testing.T) {
	t.Parallel()

	calls := atomic.Int64{}
	var got atomic.Value
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		calls.Add(1)
		got.Store(filters[FilterQuery])
		return dto.ListPage[string]{Results: []string{"x"}, Count: 1}, nil
	})

	list.SetFilters(map[string]string{FilterQuery: "h"})
	list.SetFilters(map[string]string{FilterQuery: "ho"})
	list.SetFilters(map[string]string{FilterQuery: "hotels"})

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int64(1), calls.Load(), "a burst of edits inside the quiet period yields one request")
	assert.Equal(t, "hotels", got.Load())
	assert.Equal(t, []string{"x"}, list.Items())
}

func TestList_LoadMoreSerialized(t *testing.T) {
	t.Parallel()

	calls := atomic.Int64{}
	started := make(chan struct{})
	release := make(chan struct{})
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		n := calls.Add(1)
		if n == 2 {
			close(started)
			<-release
		}
		return dto.ListPage[string]{Results: []string{"item"}, Count: 10}, nil
	})

	require.NoError(t, list.Load(context.Background(), 1, nil))

	moreDone := make(chan error, 1)
	go func() {
		moreDone <- list.LoadMore(context.Background())
	}()
	<-started

	// While the append is outstanding the trigger is a no-op and
	// hasMore reads false.
	assert.False(t, list.HasMore())
	require.NoError(t, list.LoadMore(context.Background()))
	assert.Equal(t, int64(2), calls.Load())

	close(release)
	require.NoError(t, <-moreDone)
	assert.Equal(t, []string{"item", "item"}, list.Items())
	assert.True(t, list.HasMore())
}

func TestList_LoadMoreStopsAtTotal(t *testing.T) {
	t.Parallel()

	calls := atomic.Int64{}
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		calls.Add(1)
		return dto.ListPage[string]{Results: []string{"only"}, Count: 1}, nil
	})

	require.NoError(t, list.Load(context.Background(), 1, nil))
	require.NoError(t, list.LoadMore(context.Background()))

	assert.Equal(t, int64(1), calls.Load(), "no request when everything is already loaded")
}

func TestList_Replace(t *testing.T) {
	t.Parallel()

	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		return dto.ListPage[string]{Results: []string{"a", "b", "c"}, Count: 3}, nil
	})
	require.NoError(t, list.Load(context.Background(), 1, nil))

	replaced := list.Replace(func(s string) bool { return s == "b" }, "B")
	assert.True(t, replaced)
	assert.Equal(t, []string{"a", "B", "c"}, list.Items())

	assert.False(t, list.Replace(func(s string) bool { return s == "zz" }, "ZZ"))
}

func TestList_ReloadKeepsFilters(t *testing.T) {
	t.Parallel()

	var got atomic.Value
	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		got.Store(filters[FilterCategory])
		return dto.ListPage[string]{Results: []string{"x"}, Count: 1}, nil
	})

	require.NoError(t, list.Load(context.Background(), 1, map[string]string{FilterCategory: "faq"}))
	require.NoError(t, list.Reload(context.Background()))

	assert.Equal(t, "faq", got.Load())
	assert.Equal(t, 1, list.Page())
}

func TestList_RejectsBadPageIndex(t *testing.T) {
	t.Parallel()

	list := newListForTest(func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[string], error) {
		return dto.ListPage[string]{}, nil
	})

	err := list.Load(context.Background(), 0, nil)
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindValidation))
}
