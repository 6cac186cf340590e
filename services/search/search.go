package search

import (
	"fmt"
	"strconv"
	"time"

	"github.com/meghashyamc/catalogsearch/engine"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/metrics"
	"golang.org/x/sync/singleflight"
)

// Ranker scores the indexed corpus against a query.
type Ranker interface {
	Rank(query string, opts engine.Options) []engine.Result
}

type Response struct {
	Results    []engine.Result `json:"results"`
	Total      int             `json:"total"`
	SearchTime string          `json:"search_time"`
}

type Service struct {
	logger  logger.Logger
	ranker  Ranker
	metrics *metrics.Metrics
	group   singleflight.Group
}

func New(logger logger.Logger, ranker Ranker, metrics *metrics.Metrics) *Service {
	return &Service{
		logger:  logger,
		ranker:  ranker,
		metrics: metrics,
	}
}

// Search ranks query and returns the page selected by limit and offset.
// Identical searches running at the same time share one ranking pass.
func (s *Service) Search(query string, opts engine.Options, limit int, offset int) (*Response, error) {
	if err := opts.Validate(); err != nil {
		s.metrics.SearchQueriesTotal.WithLabelValues(metrics.ResultTypeError).Inc()
		return nil, err
	}
	if limit < 0 || offset < 0 {
		s.metrics.SearchQueriesTotal.WithLabelValues(metrics.ResultTypeError).Inc()
		return nil, fmt.Errorf("limit and offset must not be negative, got %d and %d", limit, offset)
	}

	start := time.Now()
	value, _, shared := s.group.Do(searchKey(query, opts), func() (any, error) {
		rankStart := time.Now()
		results := s.ranker.Rank(query, opts)
		s.metrics.SearchLatency.Observe(time.Since(rankStart).Seconds())
		s.metrics.SearchResultsCount.Observe(float64(len(results)))
		return results, nil
	})
	if shared {
		s.metrics.SearchesCoalesced.Inc()
	}
	ranked := value.([]engine.Result)

	resultType := metrics.ResultTypeHit
	if len(ranked) == 0 {
		resultType = metrics.ResultTypeZeroResult
	}
	s.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()

	searchTime := time.Since(start)
	s.logger.Debug("search completed", "query", query, "results", len(ranked), "search_time", searchTime.String())

	return &Response{
		Results:    paginate(ranked, limit, offset),
		Total:      len(ranked),
		SearchTime: searchTime.String(),
	}, nil
}

func searchKey(query string, opts engine.Options) string {
	return strconv.Itoa(opts.FuzzyThreshold) + "\x00" + strconv.FormatFloat(opts.PrefixBoost, 'g', -1, 64) + "\x00" + query
}

// paginate copies the requested window so callers sharing a ranking never share a backing array.
func paginate(results []engine.Result, limit int, offset int) []engine.Result {
	if offset >= len(results) {
		return []engine.Result{}
	}
	end := min(len(results), offset+limit)
	page := make([]engine.Result, end-offset)
	copy(page, results[offset:end])
	return page
}
