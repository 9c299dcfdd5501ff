package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobtab/jobtab/internal/model"
	"github.com/jobtab/jobtab/internal/query"
	"github.com/jobtab/jobtab/internal/store"
	"github.com/jobtab/jobtab/internal/validate"
)

// resolveOne looks up an id or prefix and turns an ambiguous match into
// an error that lists the candidates.
func resolveOne(s *store.Store, id string) (model.Application, error) {
	app, err := s.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		matches := s.Resolve(id)
		if len(matches) > 1 {
			printWarning("%q matches more than one application:", id)
			writeBrief(os.Stderr, matches)
			return model.Application{}, fmt.Errorf("ambiguous id %q, use more characters", id)
		}
		return model.Application{}, fmt.Errorf("no application matches %q", id)
	}
	return app, err
}

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add <company> <position>",
	Short: "Track a new job application",
	Long: `Track a new job application.

Examples:
  jobtab add "Acme Corp" "Backend Engineer"
  jobtab add "Acme Corp" "Backend Engineer" --date 2026-08-01 --location Berlin
  jobtab add "Acme Corp" "Backend Engineer" --status interviewed --notes "referred by Sam"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		d := store.Draft{Company: args[0], Position: args[1]}
		d.Status, _ = cmd.Flags().GetString("status")
		d.ApplicationDate, _ = cmd.Flags().GetString("date")
		d.JobURL, _ = cmd.Flags().GetString("url")
		d.SalaryRange, _ = cmd.Flags().GetString("salary")
		d.Location, _ = cmd.Flags().GetString("location")
		d.Notes, _ = cmd.Flags().GetString("notes")
		d.ContactPerson, _ = cmd.Flags().GetString("contact-person")
		d.ContactEmail, _ = cmd.Flags().GetString("contact-email")

		app, err := s.Add(d)
		if err != nil {
			return err
		}

		printSuccess("Added %s (%s)", app.String(), app.ShortID())
		return nil
	},
}

func init() {
	addCmd.Flags().String("status", "", "initial status (default: applied)")
	addCmd.Flags().String("date", "", "application date, YYYY-MM-DD (default: today)")
	addCmd.Flags().String("url", "", "job posting URL")
	addCmd.Flags().String("salary", "", "salary range, e.g. \"90k-120k\"")
	addCmd.Flags().String("location", "", "job location")
	addCmd.Flags().String("notes", "", "free-form notes")
	addCmd.Flags().String("contact-person", "", "contact person")
	addCmd.Flags().String("contact-email", "", "contact email")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		var f query.Filter
		if raw, _ := cmd.Flags().GetString("status"); raw != "" {
			st, err := model.ParseStatus(raw)
			if err != nil {
				return err
			}
			f.Status = &st
		}
		f.Company, _ = cmd.Flags().GetString("company")
		if raw, _ := cmd.Flags().GetString("from"); raw != "" {
			if f.From, err = validate.Date(raw); err != nil {
				return err
			}
		}
		if raw, _ := cmd.Flags().GetString("to"); raw != "" {
			if f.To, err = validate.Date(raw); err != nil {
				return err
			}
		}
		if raw, _ := cmd.Flags().GetString("sort"); raw != "" {
			if f.SortBy, err = query.ParseSortKey(raw); err != nil {
				return err
			}
		}
		f.Ascending, _ = cmd.Flags().GetBool("asc")
		f.Limit, _ = cmd.Flags().GetInt("limit")

		apps := query.List(s.Applications(), f)
		if len(apps) == 0 {
			fmt.Println("No applications found.")
			return nil
		}
		writeBrief(os.Stdout, apps)
		return nil
	},
}

func init() {
	listCmd.Flags().String("status", "", "filter by status")
	listCmd.Flags().String("company", "", "filter by company substring")
	listCmd.Flags().String("from", "", "only applications applied on or after this date (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "only applications applied on or before this date (YYYY-MM-DD)")
	listCmd.Flags().String("sort", "", "sort key: date_applied, company, position, status, created_at, updated_at")
	listCmd.Flags().Bool("asc", false, "sort ascending instead of descending")
	listCmd.Flags().Int("limit", 0, "maximum number of rows (0 = all)")
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one application in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		app, err := resolveOne(s, args[0])
		if err != nil {
			return err
		}
		writeDetail(os.Stdout, app)
		return nil
	},
}

// --- update ---

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an application",
	Long: `Update fields of an application. Only the flags you pass change;
everything else keeps its value. The id may be a unique prefix.

Examples:
  jobtab update a1b2c3d4 --status interviewed
  jobtab update a1b2c3d4 --notes "second round on Friday" --contact-person "Sam Lee"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		app, err := resolveOne(s, args[0])
		if err != nil {
			return err
		}

		var c store.Changes
		set := func(flag string, dst **string) {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		set("company", &c.Company)
		set("position", &c.Position)
		set("status", &c.Status)
		set("date", &c.ApplicationDate)
		set("url", &c.JobURL)
		set("salary", &c.SalaryRange)
		set("location", &c.Location)
		set("notes", &c.Notes)
		set("contact-person", &c.ContactPerson)
		set("contact-email", &c.ContactEmail)

		if c == (store.Changes{}) {
			return fmt.Errorf("nothing to update, pass at least one field flag")
		}

		updated, err := s.Update(app.ID, c)
		if err != nil {
			return err
		}
		printSuccess("Updated %s (%s)", updated.String(), updated.ShortID())
		return nil
	},
}

func init() {
	updateCmd.Flags().String("company", "", "company name")
	updateCmd.Flags().String("position", "", "position title")
	updateCmd.Flags().String("status", "", "new status")
	updateCmd.Flags().String("date", "", "application date, YYYY-MM-DD")
	updateCmd.Flags().String("url", "", "job posting URL")
	updateCmd.Flags().String("salary", "", "salary range")
	updateCmd.Flags().String("location", "", "job location")
	updateCmd.Flags().String("notes", "", "free-form notes")
	updateCmd.Flags().String("contact-person", "", "contact person")
	updateCmd.Flags().String("contact-email", "", "contact email")
}

// --- delete ---

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		app, err := resolveOne(s, args[0])
		if err != nil {
			return err
		}

		confirm, _ := cmd.Flags().GetBool("yes")
		if !confirm {
			printWarning("This will delete %s. Use --yes to proceed.", app.String())
			return nil
		}

		if err := s.Delete(app.ID); err != nil {
			return err
		}
		printSuccess("Deleted %s", app.String())
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("yes", false, "confirm deletion")
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Full-text search across applications",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		matches := query.Search(s.Applications(), text)
		if len(matches) == 0 {
			fmt.Printf("No applications match %q.\n", text)
			return nil
		}
		writeBrief(os.Stdout, matches)
		return nil
	},
}

// --- recent ---

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show applications applied to recently",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")
		apps := query.Recent(s.Applications(), days, timeNow())
		if len(apps) == 0 {
			fmt.Printf("No applications in the last %d days.\n", days)
			return nil
		}
		writeBrief(os.Stdout, apps)
		return nil
	},
}

func init() {
	recentCmd.Flags().Int("days", query.DefaultRecentDays, "trailing window in days")
}

// --- summary ---

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count applications per status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		apps := s.Applications()
		fmt.Printf("%s %d\n", colorize(colorBold, "Total applications:"), len(apps))
		for _, row := range query.Summary(apps) {
			title := fmt.Sprintf("%-19s", row.Status.Title())
			fmt.Printf("  %s %4d  (%.1f%%)\n",
				colorize(row.Status.Color(), title), row.Count, row.Percent)
		}
		return nil
	},
}
