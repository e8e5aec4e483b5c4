package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/progress"
)

var syllabiCmd = &cobra.Command{
	Use:   "syllabi",
	Short: "List your syllabi with their progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		dash, err := e.client.LoadDashboard(commandContext(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(dash.Syllabi) == 0 {
			fmt.Fprintln(out, "No syllabi yet. Upload one with `studyforge upload <file>`.")
			return nil
		}

		style := e.cfg.Style()
		fmt.Fprintf(out, "%-6s  %s  %-11s  %5s  %-7s  %s\n",
			"ID", col("Title", 30), "Status", "Done", "Topics", "Timeline")
		fmt.Fprintln(out, rule(96))
		for _, o := range dash.Syllabi {
			fmt.Fprintf(out, "%-6d  %s  %-11s  %4d%%  %-7s  %s\n",
				o.Syllabus.ID,
				col(o.Syllabus.Title, 30),
				o.Status().Label(),
				o.Aggregate(),
				fmt.Sprintf("%d/%d", progress.CompletedCount(o.Topics), len(o.Topics)),
				progress.Timeline(o.Syllabus.StartDate, o.Syllabus.EndDate, style),
			)
		}
		fmt.Fprintln(out, rule(96))

		st := dash.Stats
		fmt.Fprintf(out, "%d syllabi, %d completed, %d in progress. %d/%d topics done (%d%%).\n",
			st.TotalSyllabi, st.CompletedSyllabi, st.InProgressSyllabi,
			st.CompletedTopics, st.TotalTopics, st.AverageCompletion)
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <syllabusID>",
	Short: "Show topic progress for a syllabus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
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
		printOverview(cmd, o, e.cfg.Style())
		return nil
	},
}

var trackCmd = &cobra.Command{
	Use:   "track <topicID> <percent>",
	Short: "Set the completion percentage of a topic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseID(args[0])
		if err != nil {
			return err
		}
		pct, err := strconv.Atoi(args[1])
		if err != nil || pct < 0 || pct > 100 {
			return fmt.Errorf("percent must be a whole number between 0 and 100, got %q", args[1])
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		ctx := commandContext(cmd)
		u := progress.NewUpdate(pct)
		p, err := e.client.TopicProgress(ctx, topicID)
		switch {
		case err == nil:
			p, err = e.client.UpdateProgress(ctx, topicID, u)
		case apiclient.IsNotFound(err):
			p, err = e.client.TrackProgress(ctx, topicID, u)
		}
		if err != nil {
			return fmt.Errorf("track topic %d: %w", topicID, err)
		}
		e.log.Info("progress saved", zap.Int64("topic_id", topicID), zap.Int("percentage", p.CompletionPercentage))

		label := p.TopicTitle
		if label == "" {
			label = fmt.Sprintf("Topic %d", topicID)
		}
		state := "in progress"
		if p.Completed {
			state = "completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d%% (%s)\n", label, p.CompletionPercentage, state)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}

func init() {
	progressCmd.Flags().BoolP("assignments", "a", false, "Also fetch assignments for each topic")
}
