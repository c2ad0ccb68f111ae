package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/jobs/adzuna"
	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
	"github.com/fairyhunter13/careerboost-api/internal/usecase"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Search job listings",
}

var jobsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search one page of job listings",
	RunE:  runJobsSearch,
}

var jobsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List job categories",
	RunE:  runJobsCategories,
}

var (
	jobsWhat     string
	jobsWhere    string
	jobsCategory string
	jobsPage     int
	jobsPerPage  int
	jobsFullTime bool
)

func init() {
	f := jobsSearchCmd.Flags()
	f.StringVar(&jobsWhat, "what", "", "Keywords")
	f.StringVar(&jobsWhere, "where", "", "Location")
	f.StringVar(&jobsCategory, "category", "", "Category tag")
	f.IntVar(&jobsPage, "page", 1, "Page number (1-based)")
	f.IntVar(&jobsPerPage, "per-page", usecase.DefaultResultsPerPage, "Results per page")
	f.BoolVar(&jobsFullTime, "full-time", false, "Only full-time positions")

	jobsCmd.AddCommand(jobsSearchCmd, jobsCategoriesCmd)
	rootCmd.AddCommand(jobsCmd)
}

// jobService needs only the listings provider, so the generative and video
// keys are not required here.
func jobService(cfg config.Config) *usecase.JobService {
	guard := observability.NewGuard("adzuna", observability.NewCircuitBreaker("adzuna", cfg.CircuitMaxFailures, cfg.CircuitOpenFor))
	return usecase.NewJobService(adzuna.New(cfg, guard), nil, 0, false)
}

func runJobsSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	raw := url.Values{}
	set := func(k, v string) {
		if v != "" {
			raw.Set(k, v)
		}
	}
	set("what", jobsWhat)
	set("where", jobsWhere)
	set("category", jobsCategory)
	raw.Set("page", strconv.Itoa(jobsPage))
	raw.Set("results_per_page", strconv.Itoa(jobsPerPage))
	if jobsFullTime {
		raw.Set("full_time", "1")
	}
	q, err := usecase.NormalizeJobQuery(raw)
	if err != nil {
		return err
	}
	page, err := jobService(cfg).Search(cmd.Context(), q)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), page)
}

func runJobsCategories(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cats, err := jobService(cfg).Categories(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), cats)
}
