package search

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func newTestEngine(assert *require.Assertions, contents ...string) *engine.Engine {
	e := engine.New(newTestLogger(), engine.DefaultConfig())
	for i, content := range contents {
		assert.NoError(e.AddDocument(engine.Document{ID: fmt.Sprintf("doc%d", i+1), Content: content}))
	}
	return e
}

func TestSearchPagination(t *testing.T) {
	assert := require.New(t)
	e := newTestEngine(assert, "apple pie", "apple tart", "apple crumble", "banana split")
	m := metrics.New()
	service := New(newTestLogger(), e, m)

	var paginationTestCases = []struct {
		name        string
		limit       int
		offset      int
		expectedIDs []string
	}{
		{name: "FirstPage", limit: 2, offset: 0, expectedIDs: []string{"doc1", "doc2"}},
		{name: "SecondPage", limit: 2, offset: 2, expectedIDs: []string{"doc3"}},
		{name: "PastTheEnd", limit: 2, offset: 10, expectedIDs: []string{}},
		{name: "ZeroLimit", limit: 0, offset: 0, expectedIDs: []string{}},
	}

	for _, testCase := range paginationTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			response, err := service.Search("app", engine.Options{FuzzyThreshold: 0, PrefixBoost: 1.5}, testCase.limit, testCase.offset)
			assert.NoError(err)
			assert.Equal(3, response.Total)
			ids := make([]string, len(response.Results))
			for i, result := range response.Results {
				ids[i] = result.Document.ID
			}
			assert.Equal(testCase.expectedIDs, ids)
		})
	}

	assert.Equal(float64(len(paginationTestCases)), testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(metrics.ResultTypeHit)))
}

func TestSearchZeroResults(t *testing.T) {
	assert := require.New(t)
	m := metrics.New()
	service := New(newTestLogger(), newTestEngine(assert, "apple pie"), m)

	response, err := service.Search("zzzzzzzzzz", engine.DefaultOptions(), 10, 0)
	assert.NoError(err)
	assert.Zero(response.Total)
	assert.Empty(response.Results)
	assert.Equal(1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(metrics.ResultTypeZeroResult)))
}

func TestSearchRejectsInvalidInput(t *testing.T) {
	assert := require.New(t)
	m := metrics.New()
	service := New(newTestLogger(), newTestEngine(assert, "apple pie"), m)

	_, err := service.Search("apple", engine.Options{FuzzyThreshold: -1}, 10, 0)
	assert.True(errors.Is(err, engine.ErrValidation))

	_, err = service.Search("apple", engine.DefaultOptions(), -1, 0)
	assert.Error(err)

	assert.Equal(2.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues(metrics.ResultTypeError)))
}

// slowRanker blocks until released so concurrent identical searches overlap.
type slowRanker struct {
	calls   atomic.Int32
	release chan struct{}
}

func (r *slowRanker) Rank(query string, opts engine.Options) []engine.Result {
	r.calls.Add(1)
	<-r.release
	return []engine.Result{{Document: engine.Document{ID: query}, Score: 1}}
}

func TestSearchCoalescesIdenticalQueries(t *testing.T) {
	assert := require.New(t)
	ranker := &slowRanker{release: make(chan struct{})}
	m := metrics.New()
	service := New(newTestLogger(), ranker, m)

	const callers = 5
	var wg sync.WaitGroup
	responses := make([]*Response, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			response, err := service.Search("same", engine.DefaultOptions(), 10, 0)
			assert.NoError(err)
			responses[i] = response
		}()
	}

	// give every caller time to join the in-flight search before releasing it
	time.Sleep(100 * time.Millisecond)
	close(ranker.release)
	wg.Wait()

	assert.Equal(int32(1), ranker.calls.Load())
	assert.Equal(float64(callers), testutil.ToFloat64(m.SearchesCoalesced), "the leader and every waiter report a shared result")
	for _, response := range responses {
		assert.Equal(1, response.Total)
		assert.Equal("same", response.Results[0].Document.ID)
	}
}

func TestSearchKeyDistinguishesOptions(t *testing.T) {
	assert := require.New(t)
	assert.NotEqual(searchKey("q", engine.Options{FuzzyThreshold: 1, PrefixBoost: 1.5}), searchKey("q", engine.Options{FuzzyThreshold: 2, PrefixBoost: 1.5}))
	assert.NotEqual(searchKey("q", engine.Options{FuzzyThreshold: 1, PrefixBoost: 1.5}), searchKey("q", engine.Options{FuzzyThreshold: 1, PrefixBoost: 1.25}))
	assert.Equal(searchKey("q", engine.DefaultOptions()), searchKey("q", engine.DefaultOptions()))
}
