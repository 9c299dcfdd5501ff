package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobtab/jobtab/internal/config"
	"github.com/jobtab/jobtab/internal/jobsearch"
)

func newJobService() (*jobsearch.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return jobsearch.NewService(jobsearch.Options{
		USAJobsEmail: cfg.Jobs.USAJobsEmail,
		AdzunaAppID:  cfg.Jobs.AdzunaAppID,
		AdzunaAPIKey: cfg.Jobs.AdzunaAPIKey,
		RapidAPIKey:  cfg.Jobs.RapidAPIKey,
	}), nil
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Search external job boards",
}

var jobsSearchCmd = &cobra.Command{
	Use:   "search <keywords>",
	Short: "Search job boards for openings",
	Long: `Search job boards for openings. Providers are tried in order and
the first one that returns results wins; without any credentials
configured, sample data is returned.

Examples:
  jobtab jobs search golang developer
  jobtab jobs search backend --location "Berlin" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newJobService()
		if err != nil {
			return err
		}

		location, _ := cmd.Flags().GetString("location")
		limit, _ := cmd.Flags().GetInt("limit")
		queryText := strings.Join(args, " ")

		postings := svc.Search(cmd.Context(), queryText, location, limit)
		if len(postings) == 0 {
			fmt.Printf("No jobs found for %q.\n", queryText)
			return nil
		}

		for _, p := range postings {
			fmt.Printf("%s  %s\n", colorize(colorCyan, p.JobID), colorize(colorBold, p.Title))
			line := p.Company
			if p.Location != "" {
				line += " · " + p.Location
			}
			if p.Remote {
				line += " · remote"
			}
			if sal := p.SalaryRange(); sal != "" {
				line += " · " + sal
			}
			fmt.Printf("          %s  [%s]\n", line, p.Source)
		}
		fmt.Printf("\nTrack one with: jobtab jobs apply <job-id> --query %q\n", queryText)
		return nil
	},
}

var jobsApplyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Track an application for a posting from a previous search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queryText, _ := cmd.Flags().GetString("query")
		location, _ := cmd.Flags().GetString("location")
		if queryText == "" {
			return fmt.Errorf("--query is required to locate the posting again")
		}

		svc, err := newJobService()
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}

		for _, p := range svc.Search(cmd.Context(), queryText, location, jobsearch.DefaultSearchLimit) {
			if p.JobID != args[0] {
				continue
			}
			app, err := s.Add(p.Draft())
			if err != nil {
				return err
			}
			printSuccess("Tracking %s (%s)", app.String(), app.ShortID())
			return nil
		}
		return fmt.Errorf("job %q not found in results for %q, run the search again", args[0], queryText)
	},
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show job board provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newJobService()
		if err != nil {
			return err
		}

		for _, ps := range svc.Status(cmd.Context()) {
			mark := colorize(colorGreen, "✓")
			note := "ok"
			switch {
			case !ps.Configured:
				mark = colorize(colorYellow, "-")
				note = "not configured"
			case !ps.Reachable:
				mark = colorize(colorRed, "✗")
				note = ps.Detail
			}
			fmt.Printf("  %s %-10s %s\n", mark, ps.Name, note)
		}
		return nil
	},
}

func init() {
	jobsSearchCmd.Flags().String("location", "", "filter by location")
	jobsSearchCmd.Flags().Int("limit", jobsearch.DefaultSearchLimit, "maximum number of postings")
	jobsApplyCmd.Flags().String("query", "", "the keywords used in the search that listed the job")
	jobsApplyCmd.Flags().String("location", "", "the location used in that search")

	jobsCmd.AddCommand(jobsSearchCmd)
	jobsCmd.AddCommand(jobsApplyCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
}
