package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobtab/jobtab/internal/model"
	"github.com/jobtab/jobtab/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analytics over tracked applications",
}

var reportRatesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Pipeline conversion rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		r := report.ResponseRates(s.Applications())
		fmt.Printf("%s %d\n", colorize(colorBold, "Total applications:"), r.Total)
		if r.Total == 0 {
			return nil
		}
		fmt.Printf("  Response rate:    %5.1f%%\n", r.Response)
		fmt.Printf("  Interview rate:   %5.1f%%\n", r.Interview)
		fmt.Printf("  Offer rate:       %5.1f%%\n", r.Offer)
		fmt.Printf("  Acceptance rate:  %5.1f%%\n", r.Acceptance)
		fmt.Printf("  Rejection rate:   %5.1f%%\n", r.Rejection)
		return nil
	},
}

var reportCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Applications grouped by company",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		stats := report.CompanyStats(s.Applications())
		if len(stats) == 0 {
			fmt.Println("No applications found.")
			return nil
		}
		for _, cs := range stats {
			fmt.Printf("%s (%d)\n", colorize(colorBold, cs.Company), cs.Count)
			for _, st := range model.AllStatuses() {
				if n := cs.ByStatus[st]; n > 0 {
					fmt.Printf("  %s %d\n", colorize(st.Color(), st.Title()+":"), n)
				}
			}
		}
		return nil
	},
}

var reportStaleCmd = &cobra.Command{
	Use:   "stale",
	Short: "Open applications with no recent movement",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")
		stale := report.Stale(s.Applications(), days, timeNow())
		if len(stale) == 0 {
			printSuccess("Nothing stale: every open application moved in the last %d days.", days)
			return nil
		}
		printWarning("%d application(s) untouched for %d+ days:", len(stale), days)
		writeBrief(os.Stdout, stale)
		return nil
	},
}

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Applications per calendar week",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		weeks, _ := cmd.Flags().GetInt("weeks")
		for _, w := range report.WeeklyActivity(s.Applications(), weeks, timeNow()) {
			bar := ""
			for i := 0; i < w.Count; i++ {
				bar += "█"
			}
			fmt.Printf("  %s  %3d  %s\n", w.WeekStart.Format("2006-01-02"), w.Count, colorize(colorGreen, bar))
		}
		return nil
	},
}

func init() {
	reportStaleCmd.Flags().Int("days", report.DefaultStaleDays, "staleness threshold in days")
	reportWeeklyCmd.Flags().Int("weeks", 4, "number of trailing weeks")

	reportCmd.AddCommand(reportRatesCmd)
	reportCmd.AddCommand(reportCompaniesCmd)
	reportCmd.AddCommand(reportStaleCmd)
	reportCmd.AddCommand(reportWeeklyCmd)
}
