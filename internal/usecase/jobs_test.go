package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/cache"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

func TestNormalizeJobQuery(t *testing.T) {
	t.Parallel()
	intp := func(n int) *int { return &n }
	tests := []struct {
		name string
		raw  url.Values
		want domain.JobQuery
	}{
		{
			name: "defaults",
			raw:  url.Values{},
			want: domain.JobQuery{Page: 1, ResultsPerPage: 20},
		},
		{
			name: "provider names",
			raw: url.Values{
				"what": {" golang "}, "where": {"Cape Town"}, "page": {"3"}, "results_per_page": {"10"},
				"sort_by": {"date"}, "sort_dir": {"DOWN"}, "full_time": {"1"}, "permanent": {"true"},
				"contract": {"no"}, "salary_min": {"25000"}, "salary_max": {"abc"},
			},
			want: domain.JobQuery{
				Keywords: "golang", Location: "Cape Town", Page: 3, ResultsPerPage: 10,
				SortBy: "date", SortDir: "down",
				Filters: domain.JobFilters{FullTime: true, Permanent: true, SalaryMin: intp(25000)},
			},
		},
		{
			name: "client names",
			raw: url.Values{
				"keywords": {"nurse"}, "location": {"Durban"}, "resultsPerPage": {"500"},
				"partTime": {"yes"}, "salaryMax": {"30000.4"}, "exclude": {"night"},
			},
			want: domain.JobQuery{
				Keywords: "nurse", Exclude: "night", Location: "Durban", Page: 1, ResultsPerPage: 50,
				Filters: domain.JobFilters{PartTime: true, SalaryMax: intp(30000)},
			},
		},
		{
			name: "non numeric page is dropped",
			raw:  url.Values{"page": {"two"}, "results_per_page": {"NaN"}},
			want: domain.JobQuery{Page: 1, ResultsPerPage: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeJobQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeJobQuery_Invalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []url.Values{
		{"page": {"0"}},
		{"sort_dir": {"sideways"}},
		{"salary_min": {"5000"}, "salary_max": {"100"}},
	} {
		_, err := NormalizeJobQuery(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "%v", raw)
	}
}

func TestNormalizeJobQuery_SameKeyRegardlessOfOrderOrNames(t *testing.T) {
	t.Parallel()
	a, err := NormalizeJobQuery(url.Values{"what": {"go"}, "where": {"jhb"}, "full_time": {"1"}})
	require.NoError(t, err)
	b, err := NormalizeJobQuery(url.Values{"fullTime": {"on"}, "location": {"jhb"}, "keywords": {"go"}})
	require.NoError(t, err)

	ka, err := cache.Key("jobs:search", a)
	require.NoError(t, err)
	kb, err := cache.Key("jobs:search", b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
}

func newMemoryStore(t *testing.T, clock cache.Clock) *cache.Memory {
	t.Helper()
	opts := []cache.MemoryOption{}
	if clock != nil {
		opts = append(opts, cache.WithClock(clock))
	}
	m, err := cache.NewMemory(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestJobService_Search(t *testing.T) {
	ctx := context.Background()
	jobs := make([]domain.Job, 5)
	p := &fakeJobs{result: domain.JobSearchResult{Results: jobs, Count: 45}}
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc := NewJobService(p, newMemoryStore(t, func() time.Time { return now }), 10*time.Hour, false)

	q := domain.JobQuery{Keywords: "go", Page: 3, ResultsPerPage: 20}
	page, err := svc.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 45, page.Count)
	assert.Len(t, page.Results, 5)

	_, err = svc.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, p.searchCalls)

	now = now.Add(10 * time.Hour)
	_, err = svc.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, p.searchCalls)
}

func TestJobService_Search_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	p := &fakeJobs{err: domain.NewUpstreamError("adzuna", "search", 500, nil, "Failed to fetch jobs from Adzuna API", nil)}
	svc := NewJobService(p, newMemoryStore(t, nil), time.Hour, false)

	q := domain.JobQuery{Page: 1, ResultsPerPage: 20}
	_, err := svc.Search(ctx, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	p.err = nil
	p.result = domain.JobSearchResult{Count: 0}
	page, err := svc.Search(ctx, q)
	require.NoError(t, err)
	assert.NotNil(t, page.Results)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 2, p.searchCalls)
}

func TestJobService_Categories(t *testing.T) {
	ctx := context.Background()
	p := &fakeJobs{categories: []domain.Category{{Label: "IT Jobs", Tag: "it-jobs"}}}
	svc := NewJobService(p, newMemoryStore(t, nil), time.Hour, true)

	for i := 0; i < 3; i++ {
		cats, err := svc.Categories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "it-jobs", cats[0].Tag)
	}
	assert.Equal(t, 1, p.catCalls)
}

func TestJobService_NoStore(t *testing.T) {
	p := &fakeJobs{}
	svc := NewJobService(p, nil, time.Hour, false)
	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cats)
	_, _ = svc.Categories(context.Background())
	assert.Equal(t, 2, p.catCalls)
}
