package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/study"
)

var syllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Create, edit or delete a syllabus",
}

var syllabusCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty syllabus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var s study.Syllabus
		if err := applySyllabusFlags(cmd.Flags(), &s); err != nil {
			return err
		}
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("--title is required")
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		created, err := e.client.CreateSyllabus(commandContext(cmd), s)
		if err != nil {
			return fmt.Errorf("create syllabus: %w", err)
		}
		e.log.Info("syllabus created", zap.Int64("syllabus_id", created.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Created syllabus %d: %s\n", created.ID, created.Title)
		return nil
	},
}

var syllabusEditCmd = &cobra.Command{
	Use:   "edit <syllabusID>",
	Short: "Change a syllabus's title, description or dates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
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
		s, err := e.client.Syllabus(ctx, id)
		if err != nil {
			return fmt.Errorf("load syllabus %d: %w", id, err)
		}
		if err := applySyllabusFlags(cmd.Flags(), &s); err != nil {
			return err
		}
		// Topics are saved on their own.
		s.Topics = nil

		updated, err := e.client.UpdateSyllabus(ctx, id, s)
		if err != nil {
			return fmt.Errorf("update syllabus %d: %w", id, err)
		}
		style := e.cfg.Style()
		fmt.Fprintf(cmd.OutOrStdout(), "Updated syllabus %d: %s (%s)\n",
			updated.ID, updated.Title, progress.Timeline(updated.StartDate, updated.EndDate, style))
		return nil
	},
}

var syllabusDeleteCmd = &cobra.Command{
	Use:   "delete <syllabusID>",
	Short: "Delete a syllabus and all its topics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if ok, err := confirmed(cmd, fmt.Sprintf("Delete syllabus %d and all its topics? [y/N]: ", id)); err != nil || !ok {
			return err
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		if err := e.client.DeleteSyllabus(commandContext(cmd), id); err != nil {
			return fmt.Errorf("delete syllabus %d: %w", id, err)
		}
		e.log.Info("syllabus deleted", zap.Int64("syllabus_id", id))
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted syllabus %d.\n", id)
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <syllabusID>",
	Short: "Generate topics from a syllabus document and save them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ctx := commandContext(cmd)
		if dryRun {
			topics, err := e.client.GenerateTopics(ctx, id)
			if err != nil {
				return fmt.Errorf("generate topics: %w", err)
			}
			fmt.Fprintf(out, "%d topics proposed (not saved):\n", len(topics))
			printTopicList(cmd, topics)
			return nil
		}

		topics, err := e.client.GenerateAndSaveTopics(ctx, id)
		if err != nil {
			return err
		}
		e.log.Info("topics generated", zap.Int64("syllabus_id", id), zap.Int("topics", len(topics)))
		fmt.Fprintf(out, "Syllabus %d now has %d topics:\n", id, len(topics))
		printTopicList(cmd, topics)
		return nil
	},
}

func printTopicList(cmd *cobra.Command, topics []study.Topic) {
	out := cmd.OutOrStdout()
	for i, t := range topics {
		order := t.OrderIndex
		if order == 0 {
			order = i + 1
		}
		line := fmt.Sprintf("  %2d. %s", order, t.Title)
		if t.EstimatedDurationMinutes > 0 {
			line += "  (" + progress.FormatDuration(t.EstimatedDurationMinutes) + ")"
		}
		fmt.Fprintln(out, line)
	}
}

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Add, edit or delete a topic",
}

var topicAddCmd = &cobra.Command{
	Use:   "add <syllabusID>",
	Short: "Add a topic to a syllabus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		syllabusID, err := parseID(args[0])
		if err != nil {
			return err
		}
		req := study.TopicRequest{SyllabusID: syllabusID}
		if err := applyTopicFlags(cmd.Flags(), &req); err != nil {
			return err
		}
		if strings.TrimSpace(req.Title) == "" {
			return fmt.Errorf("--title is required")
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
		if req.OrderIndex == 0 {
			existing, err := e.client.Topics(ctx, syllabusID)
			if err != nil {
				return fmt.Errorf("list topics: %w", err)
			}
			req.OrderIndex = len(existing) + 1
		}
		t, err := e.client.CreateTopic(ctx, req)
		if err != nil {
			return fmt.Errorf("add topic: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added topic %d: %d. %s\n", t.ID, t.OrderIndex, t.Title)
		return nil
	},
}

var topicEditCmd = &cobra.Command{
	Use:   "edit <topicID>",
	Short: "Change a topic's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
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
		t, err := e.client.Topic(ctx, id)
		if err != nil {
			return fmt.Errorf("load topic %d: %w", id, err)
		}
		req := study.RequestFor(t, t.SyllabusID)
		if err := applyTopicFlags(cmd.Flags(), &req); err != nil {
			return err
		}
		updated, err := e.client.UpdateTopic(ctx, id, req)
		if err != nil {
			return fmt.Errorf("update topic %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated topic %d: %d. %s\n", updated.ID, updated.OrderIndex, updated.Title)
		return nil
	},
}

var topicDeleteCmd = &cobra.Command{
	Use:   "delete <topicID>",
	Short: "Delete a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if ok, err := confirmed(cmd, fmt.Sprintf("Delete topic %d? [y/N]: ", id)); err != nil || !ok {
			return err
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		if err := e.client.DeleteTopic(commandContext(cmd), id); err != nil {
			return fmt.Errorf("delete topic %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %d.\n", id)
		return nil
	},
}

// confirmed is true with --yes, otherwise it asks on stdin.
func confirmed(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	answer, err := newPrompter(cmd).line(question)
	if err != nil {
		return false, err
	}
	if a := strings.ToLower(answer); a == "y" || a == "yes" {
		return true, nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	return false, nil
}

// parseDate reads a date flag. An empty value clears the date.
func parseDate(name, v string) (dates.Date, error) {
	if strings.TrimSpace(v) == "" {
		return dates.Date{}, nil
	}
	t, ok := dates.Normalize(dates.ISOString{Text: v})
	if !ok {
		return dates.Date{}, fmt.Errorf("--%s: %q is not a date like 2024-03-01", name, v)
	}
	return dates.Of(t), nil
}

// applySyllabusFlags copies the flags that were set onto s.
func applySyllabusFlags(f *pflag.FlagSet, s *study.Syllabus) error {
	if f.Changed("title") {
		s.Title, _ = f.GetString("title")
	}
	if f.Changed("description") {
		s.Description, _ = f.GetString("description")
	}
	for name, dst := range map[string]*dates.Date{"start": &s.StartDate, "end": &s.EndDate} {
		if !f.Changed(name) {
			continue
		}
		v, _ := f.GetString(name)
		d, err := parseDate(name, v)
		if err != nil {
			return err
		}
		*dst = d
	}
	return nil
}

// applyTopicFlags copies the flags that were set onto req.
func applyTopicFlags(f *pflag.FlagSet, req *study.TopicRequest) error {
	if f.Changed("title") {
		req.Title, _ = f.GetString("title")
	}
	if f.Changed("content") {
		req.Content, _ = f.GetString("content")
	}
	if f.Changed("minutes") {
		m, _ := f.GetInt("minutes")
		if m < 0 {
			return fmt.Errorf("--minutes must not be negative")
		}
		req.EstimatedDurationMinutes = m
	}
	if f.Changed("order") {
		o, _ := f.GetInt("order")
		if o < 1 {
			return fmt.Errorf("--order starts at 1")
		}
		req.OrderIndex = o
	}
	if f.Changed("deadline") {
		v, _ := f.GetString("deadline")
		d, err := parseDate("deadline", v)
		if err != nil {
			return err
		}
		req.Deadline = d
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{syllabusCreateCmd, syllabusEditCmd} {
		c.Flags().StringP("title", "t", "", "Syllabus title")
		c.Flags().StringP("description", "d", "", "Syllabus description")
		c.Flags().String("start", "", "Start date, e.g. 2024-03-01 (empty clears it)")
		c.Flags().String("end", "", "End date (empty clears it)")
	}
	syllabusDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")
	syllabusCmd.AddCommand(syllabusCreateCmd, syllabusEditCmd, syllabusDeleteCmd)

	for _, c := range []*cobra.Command{topicAddCmd, topicEditCmd} {
		c.Flags().StringP("title", "t", "", "Topic title")
		c.Flags().String("content", "", "Study notes for the topic")
		c.Flags().Int("minutes", 0, "Estimated study time in minutes")
		c.Flags().Int("order", 0, "Position in the syllabus (default: last)")
		c.Flags().String("deadline", "", "Deadline, e.g. 2024-03-01 (empty clears it)")
	}
	topicDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")
	topicCmd.AddCommand(topicAddCmd, topicEditCmd, topicDeleteCmd)

	generateCmd.Flags().Bool("dry-run", false, "Show the proposed topics without saving them")
}
