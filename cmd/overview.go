package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/progress"
)

// printOverview prints a syllabus summary and its topic table.
func printOverview(cmd *cobra.Command, o apiclient.SyllabusOverview, style dates.Style) {
	out := cmd.OutOrStdout()
	s := o.Syllabus

	fmt.Fprintf(out, "%s  (%s, %d%%)\n", s.Title, o.Status().Label(), o.Aggregate())
	if s.Description != "" {
		fmt.Fprintln(out, s.Description)
	}
	fmt.Fprintf(out, "%s  ·  %d/%d topics  ·  %s total\n",
		progress.Timeline(s.StartDate, s.EndDate, style),
		progress.CompletedCount(o.Topics), len(o.Topics),
		progress.FormatDuration(progress.TotalDuration(o.Topics)))

	if len(o.Topics) == 0 {
		fmt.Fprintln(out, "\nNo topics yet.")
		return
	}

	next, hasNext := progress.NextTopic(o.Topics)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-3s  %-6s  %s  %-11s  %5s  %-8s  %s\n",
		"#", "ID", col("Topic", 32), "Status", "Done", "Time", "Due")
	fmt.Fprintln(out, rule(90))
	for i, t := range o.Topics {
		marker := ""
		if hasNext && t.ID == next.ID {
			marker = "  « next"
		}
		dur := ""
		if t.EstimatedDurationMinutes > 0 {
			dur = progress.FormatDuration(t.EstimatedDurationMinutes)
		}
		fmt.Fprintf(out, "%-3d  %-6d  %s  %-11s  %4d%%  %-8s  %s%s\n",
			i+1, t.ID, col(t.Title, 32), progress.TopicStatus(t).Label(),
			t.Percentage(), dur, t.Deadline.Format(style), marker)
	}

	done, total := progress.AssignmentCounts(o.Topics)
	if total == 0 {
		return
	}
	fmt.Fprintln(out, rule(90))
	fmt.Fprintf(out, "Assignments: %d/%d completed\n", done, total)
	for _, a := range progress.UpcomingAssignments(o.Topics) {
		due := a.DueDate.Format(style)
		if due == "" {
			due = "no due date"
		}
		fmt.Fprintf(out, "  ○ %s  (%s, %s)\n", a.Title, a.TopicTitle, due)
	}
}
