// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/cache"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

// Job search paging defaults.
const (
	DefaultResultsPerPage = 20
	MaxResultsPerPage     = 50
)

// NormalizeJobQuery builds a JobQuery from request query parameters. Both the
// provider's parameter names (what, where, results_per_page, ...) and the
// camelCase names used by the web client are accepted. Unparseable numbers
// are dropped; flags are true only for 1/true/yes/on.
func NormalizeJobQuery(raw url.Values) (domain.JobQuery, error) {
	q := domain.JobQuery{
		Keywords: first(raw, "what", "keywords"),
		Exclude:  first(raw, "what_exclude", "exclude"),
		Location: first(raw, "where", "location"),
		Category: first(raw, "category"),
		SortBy:   first(raw, "sort_by", "sortBy"),
		SortDir:  strings.ToLower(first(raw, "sort_dir", "sortDir")),
		Page:     1,

		ResultsPerPage: DefaultResultsPerPage,
	}

	if n, ok := parseInt(first(raw, "page")); ok {
		if n < 1 {
			return domain.JobQuery{}, domain.Invalid("page", "page must be at least 1")
		}
		q.Page = n
	}
	if n, ok := parseInt(first(raw, "results_per_page", "resultsPerPage")); ok && n > 0 {
		q.ResultsPerPage = min(n, MaxResultsPerPage)
	}
	if q.SortDir != "" && q.SortDir != "up" && q.SortDir != "down" {
		return domain.JobQuery{}, domain.Invalid("sort_dir", "sort_dir must be up or down")
	}

	q.Filters = domain.JobFilters{
		FullTime:  truthy(first(raw, "full_time", "fullTime")),
		PartTime:  truthy(first(raw, "part_time", "partTime")),
		Permanent: truthy(first(raw, "permanent")),
		Contract:  truthy(first(raw, "contract")),
	}
	if n, ok := parseInt(first(raw, "salary_min", "salaryMin")); ok {
		q.Filters.SalaryMin = &n
	}
	if n, ok := parseInt(first(raw, "salary_max", "salaryMax")); ok {
		q.Filters.SalaryMax = &n
	}
	if lo, hi := q.Filters.SalaryMin, q.Filters.SalaryMax; lo != nil && hi != nil && *lo > *hi {
		return domain.JobQuery{}, domain.Invalid("salary_min", "salary_min must not exceed salary_max")
	}
	return q, nil
}

func first(v url.Values, names ...string) string {
	for _, n := range names {
		if s := strings.TrimSpace(v.Get(n)); s != "" {
			return s
		}
	}
	return ""
}

// parseInt accepts integers and finite decimals (rounded). Anything else is
// reported as absent.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Round(f)), true
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// JobService serves job searches and categories from the listings provider
// through a read-through cache.
type JobService struct {
	Provider   domain.JobProvider
	search     *cache.Loader[domain.JobPage]
	categories *cache.Loader[[]domain.Category]
}

// NewJobService caches both searches and categories for ttl in store. A nil
// store disables caching.
func NewJobService(p domain.JobProvider, store cache.Store, ttl time.Duration, dedup bool) *JobService {
	s := &JobService{Provider: p}
	if store != nil {
		s.search = cache.NewLoader(cache.NewTyped[domain.JobPage](store, "jobs:search", ttl), dedup)
		s.categories = cache.NewLoader(cache.NewTyped[[]domain.Category](store, "jobs:categories", ttl), dedup)
	}
	return s
}

// Search fetches exactly one provider page for q. The page is passed through
// unclamped.
func (s *JobService) Search(ctx context.Context, q domain.JobQuery) (domain.JobPage, error) {
	load := func(ctx context.Context) (domain.JobPage, bool, error) {
		res, err := s.Provider.Search(ctx, q)
		if err != nil {
			return domain.JobPage{}, false, err
		}
		results := res.Results
		if results == nil {
			results = []domain.Job{}
		}
		return domain.JobPage{
			Results:        results,
			Count:          res.Count,
			Page:           q.Page,
			ResultsPerPage: q.ResultsPerPage,
			TotalPages:     domain.TotalPages(res.Count, q.ResultsPerPage),
		}, true, nil
	}
	page, err := getOrLoad(ctx, s.search, q, load)
	if err != nil {
		return domain.JobPage{}, fmt.Errorf("op=usecase.JobService.Search: %w", err)
	}
	return page, nil
}

// Categories lists provider categories; the list does not depend on any
// search filter.
func (s *JobService) Categories(ctx context.Context) ([]domain.Category, error) {
	load := func(ctx context.Context) ([]domain.Category, bool, error) {
		cats, err := s.Provider.Categories(ctx)
		if err != nil {
			return nil, false, err
		}
		if cats == nil {
			cats = []domain.Category{}
		}
		return cats, true, nil
	}
	cats, err := getOrLoad(ctx, s.categories, "all", load)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.JobService.Categories: %w", err)
	}
	return cats, nil
}
