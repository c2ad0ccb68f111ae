// Package adzuna is the job listings provider client. It fetches exactly one
// page per search and the category list, mapping both to domain types.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
	"github.com/fairyhunter13/careerboost-api/pkg/textx"
)

const (
	providerAdzuna = "adzuna"
	opSearch       = "search"
	opCategories   = "categories"

	userAgent    = "CareerBoost-App/1.0"
	maxBodyBytes = 8 << 20
)

// Client implements domain.JobProvider.
type Client struct {
	baseURL           string
	country           string
	appID             string
	appKey            string
	http              *http.Client
	guard             *observability.Guard
	searchTimeout     time.Duration
	categoriesTimeout time.Duration
}

// New builds a client from configuration with a traced HTTP client.
func New(cfg config.Config, guard *observability.Guard) *Client {
	if guard == nil {
		guard = observability.NewGuard(providerAdzuna, nil)
	}
	return &Client{
		baseURL:           strings.TrimRight(cfg.AdzunaBaseURL, "/"),
		country:           cfg.AdzunaCountry,
		appID:             cfg.AdzunaAppID,
		appKey:            cfg.AdzunaAppKey,
		http:              observability.NewHTTPClient(providerAdzuna),
		guard:             guard,
		searchTimeout:     cfg.AdzunaSearchTimeout,
		categoriesTimeout: cfg.AdzunaCategoriesTimeout,
	}
}

type searchResponse struct {
	Results []result `json:"results"`
	Count   int      `json:"count"`
}

type result struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Company      named   `json:"company"`
	Location     named   `json:"location"`
	Category     label   `json:"category"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	RedirectURL  string  `json:"redirect_url"`
	Created      string  `json:"created"`
	ContractTime string  `json:"contract_time"`
	ContractType string  `json:"contract_type"`
}

type named struct {
	DisplayName string `json:"display_name"`
}

type label struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}

type categoriesResponse struct {
	Results []label `json:"results"`
}

// Search requests page q.Page; the page number is passed through unchecked.
func (c *Client) Search(ctx context.Context, q domain.JobQuery) (domain.JobSearchResult, error) {
	var resp searchResponse
	path := fmt.Sprintf("/%s/search/%d", url.PathEscape(c.country), q.Page)
	if err := c.get(ctx, opSearch, path, QueryParams(q), c.searchTimeout, &resp); err != nil {
		return domain.JobSearchResult{}, fmt.Errorf("op=adzuna.Client.Search: %w", err)
	}
	out := domain.JobSearchResult{Results: make([]domain.Job, 0, len(resp.Results)), Count: resp.Count}
	for _, r := range resp.Results {
		out.Results = append(out.Results, toJob(r))
	}
	return out, nil
}

// Categories lists the provider's job categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp categoriesResponse
	path := fmt.Sprintf("/%s/categories", url.PathEscape(c.country))
	if err := c.get(ctx, opCategories, path, url.Values{}, c.categoriesTimeout, &resp); err != nil {
		return nil, fmt.Errorf("op=adzuna.Client.Categories: %w", err)
	}
	out := make([]domain.Category, 0, len(resp.Results))
	for _, l := range resp.Results {
		out = append(out, domain.Category{Label: l.Label, Tag: l.Tag})
	}
	return out, nil
}

// QueryParams renders q as provider query parameters. Empty strings and
// false flags are omitted; salary bounds only appear when set.
func QueryParams(q domain.JobQuery) url.Values {
	v := url.Values{}
	setIf := func(k, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(k, val)
		}
	}
	setIf("what", q.Keywords)
	setIf("what_exclude", q.Exclude)
	setIf("where", q.Location)
	setIf("category", q.Category)
	setIf("sort_by", q.SortBy)
	setIf("sort_dir", q.SortDir)
	if q.ResultsPerPage > 0 {
		v.Set("results_per_page", strconv.Itoa(q.ResultsPerPage))
	}
	f := q.Filters
	if f.SalaryMin != nil {
		v.Set("salary_min", strconv.Itoa(*f.SalaryMin))
	}
	if f.SalaryMax != nil {
		v.Set("salary_max", strconv.Itoa(*f.SalaryMax))
	}
	for k, on := range map[string]bool{"full_time": f.FullTime, "part_time": f.PartTime, "permanent": f.Permanent, "contract": f.Contract} {
		if on {
			v.Set(k, "1")
		}
	}
	return v
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, timeout time.Duration, out any) error {
	// missing credentials are a local problem and must not trip the breaker
	if c.appID == "" || c.appKey == "" {
		return domain.NewUpstreamError(providerAdzuna, op, 0, domain.ErrUpstream, "Job search is not configured", nil)
	}
	return c.guard.Do(ctx, op, timeout, func(ctx context.Context) error {
		params.Set("app_id", c.appID)
		params.Set("app_key", c.appKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return statusError(op, resp.StatusCode)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return domain.NewUpstreamError(providerAdzuna, op, resp.StatusCode, domain.ErrUpstream, "malformed response from job provider", err)
		}
		return nil
	})
}

func statusError(op string, status int) error {
	msg := "Failed to fetch jobs from Adzuna API"
	if op == opCategories {
		msg = "Failed to fetch categories from Adzuna API"
	}
	kind := domain.ErrUpstream
	switch {
	case status == http.StatusTooManyRequests:
		kind = domain.ErrUpstreamRateLimit
		msg = "Job provider rate limit reached. Please try again later."
	case status == http.StatusNotFound:
		kind = domain.ErrUpstreamNotFound
	case status == http.StatusGatewayTimeout:
		kind = domain.ErrUpstreamTimeout
	}
	return domain.NewUpstreamError(providerAdzuna, op, status, kind, msg, nil)
}

func toJob(r result) domain.Job {
	j := domain.Job{
		ID:            r.ID,
		Title:         textx.HTMLToText(r.Title),
		Company:       r.Company.DisplayName,
		Location:      r.Location.DisplayName,
		Description:   textx.HTMLToText(r.Description),
		SalaryMin:     r.SalaryMin,
		SalaryMax:     r.SalaryMax,
		ContractTime:  r.ContractTime,
		ContractType:  r.ContractType,
		CategoryLabel: r.Category.Label,
		CategoryTag:   r.Category.Tag,
		RedirectURL:   r.RedirectURL,
	}
	if ts, err := time.Parse(time.RFC3339, r.Created); err == nil {
		j.Created = ts.UTC()
	}
	return j
}
