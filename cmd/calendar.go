package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyforge/internal/calendar"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar <syllabusID>",
	Short: "Export a syllabus schedule as an iCalendar file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		withAssignments, _ := cmd.Flags().GetBool("assignments")

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		o, err := e.client.LoadSyllabus(commandContext(cmd), id, withAssignments)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		syl := o.Syllabus
		syl.Topics = o.Topics
		if err := calendar.Write(w, syl, calendar.Options{Assignments: withAssignments}); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}
		if f, ok := w.(*os.File); ok && f != os.Stdout {
			if err := f.Sync(); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
		}
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	calendarCmd.Flags().BoolP("assignments", "a", false, "Include assignment due dates")
}
