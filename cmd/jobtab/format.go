package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jobtab/jobtab/internal/model"
)

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeBrief prints one application per line: short id, company,
// position, colored status, applied-on date. Status is padded before
// colorizing so the escape codes do not skew the columns.
func writeBrief(w io.Writer, apps []model.Application) {
	for _, app := range apps {
		status := fmt.Sprintf("%-19s", app.Status.Title())
		fmt.Fprintf(w, "%s  %-22s %-28s %s %s\n",
			colorize(colorCyan, app.ShortID()),
			clip(app.Company, 22),
			clip(app.Position, 28),
			colorize(app.Status.Color(), status),
			app.AppliedOn().Format("2006-01-02"),
		)
	}
}

func writeDetail(w io.Writer, app model.Application) {
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(w, "  %s %s\n", colorize(colorBold, label+":"), value)
	}

	fmt.Fprintf(w, "%s\n", colorize(colorBold, app.Company+" - "+app.Position))
	field("ID", app.ID)
	field("Status", colorize(app.Status.Color(), app.Status.Title()))
	field("Applied", app.ApplicationDate.Format("2006-01-02"))
	field("Location", app.Location)
	field("Salary", app.SalaryRange)
	field("URL", app.JobURL)
	field("Contact", app.ContactPerson)
	field("Email", app.ContactEmail)
	field("Source", app.JobPostingSource)
	field("Posting ID", app.JobPostingID)
	field("Created", app.CreatedAt.Format("2006-01-02 15:04"))
	field("Updated", app.UpdatedAt.Format("2006-01-02 15:04"))
	if app.Notes != "" {
		fmt.Fprintf(w, "  %s\n", colorize(colorBold, "Notes:"))
		for _, line := range strings.Split(app.Notes, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	if app.JobDescription != "" {
		fmt.Fprintf(w, "  %s\n", colorize(colorBold, "Description:"))
		fmt.Fprintf(w, "    %s\n", clip(app.JobDescription, 500))
	}
}
