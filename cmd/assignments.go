package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/progress"
	"github.com/abhisek/studyforge/internal/study"
)

var assignmentsCmd = &cobra.Command{
	Use:   "assignments <topicID>",
	Short: "List or generate the assignments of a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseID(args[0])
		if err != nil {
			return err
		}
		f := cmd.Flags()
		generate, _ := f.GetBool("generate")
		var level study.Difficulty
		if v, _ := f.GetString("difficulty"); v != "" {
			if level, err = study.ParseDifficulty(v); err != nil {
				return err
			}
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
		out := cmd.OutOrStdout()
		if generate {
			made, err := e.client.GenerateAssignments(ctx, topicID)
			if err != nil {
				return fmt.Errorf("generate assignments: %w", err)
			}
			e.log.Info("assignments generated", zap.Int64("topic_id", topicID), zap.Int("count", len(made)))
			fmt.Fprintf(out, "Generated %d assignments.\n", len(made))
		}

		var list []study.Assignment
		if level != "" {
			list, err = e.client.AssignmentsByDifficulty(ctx, topicID, level)
		} else {
			list, err = e.client.Assignments(ctx, topicID)
		}
		if err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintf(out, "No assignments. Run `studyforge assignments %d --generate`.\n", topicID)
			return nil
		}
		printAssignments(cmd, list, e.cfg.Style())
		return nil
	},
}

func printAssignments(cmd *cobra.Command, list []study.Assignment, style dates.Style) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-6s  %s  %-10s  %-14s  %s\n", "ID", col("Title", 32), "Level", "Result", "Due")
	fmt.Fprintln(out, rule(80))
	for _, a := range list {
		result := "open"
		if a.Completed {
			result = fmt.Sprintf("%d%% (%d/%d)", progress.AssignmentScore(a.EarnedPoints, a.MaxPoints), a.EarnedPoints, a.MaxPoints)
		}
		fmt.Fprintf(out, "%-6d  %s  %-10s  %-14s  %s\n",
			a.ID, col(a.Title, 32), strings.ToLower(string(a.DifficultyLevel)), result, a.DueDate.Format(style))
	}
}

var assignmentCmd = &cobra.Command{
	Use:   "assignment <assignmentID>",
	Short: "Show an assignment, or take it with --take",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		take, _ := cmd.Flags().GetBool("take")

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		ctx := commandContext(cmd)
		a, err := e.client.Assignment(ctx, id)
		if err != nil {
			return fmt.Errorf("load assignment %d: %w", id, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  (%s, %d points)\n", a.Title, strings.ToLower(string(a.DifficultyLevel)), a.MaxPoints)
		if a.Content != "" {
			fmt.Fprintln(out, a.Content)
		}
		if !take || a.Completed {
			if take {
				fmt.Fprintln(out, "Already submitted.")
			}
			printQuestions(cmd, a)
			return nil
		}

		answers, err := askAnswers(newPrompter(cmd), a)
		if err != nil {
			return err
		}
		graded, err := e.client.SubmitAnswers(ctx, study.NewSubmitRequest(a, answers))
		if err != nil {
			return fmt.Errorf("submit assignment %d: %w", id, err)
		}
		e.log.Info("assignment submitted", zap.Int64("assignment_id", id), zap.Int("earned", graded.EarnedPoints))
		printQuestions(cmd, graded)
		return nil
	},
}

// askAnswers prompts for every question. Choice questions take the number
// or the text of a choice.
func askAnswers(p *prompter, a study.Assignment) (map[int64]string, error) {
	answers := make(map[int64]string, len(a.Questions))
	for i, q := range a.Questions {
		fmt.Fprintf(p.out, "\n%d. %s\n", i+1, q.Text)
		choices := q.Choices()
		for j, c := range choices {
			fmt.Fprintf(p.out, "   %d) %s\n", j+1, c)
		}
		for {
			v, err := p.line("Answer: ")
			if err != nil {
				return nil, err
			}
			if answer, ok := pickAnswer(v, choices); ok {
				answers[q.ID] = answer
				break
			}
			fmt.Fprintln(p.out, "Enter an answer.")
		}
	}
	return answers, nil
}

// pickAnswer maps input to a choice by number or case-insensitive text.
// Free text questions accept any non-empty input.
func pickAnswer(v string, choices []string) (string, bool) {
	if v == "" {
		return "", false
	}
	if len(choices) == 0 {
		return v, true
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], true
	}
	for _, c := range choices {
		if strings.EqualFold(c, v) {
			return c, true
		}
	}
	return "", false
}

func printQuestions(cmd *cobra.Command, a study.Assignment) {
	out := cmd.OutOrStdout()
	if a.Completed {
		fmt.Fprintf(out, "Score: %d%% (%d/%d points)\n",
			progress.AssignmentScore(a.EarnedPoints, a.MaxPoints), a.EarnedPoints, a.MaxPoints)
	}
	for i, q := range a.Questions {
		mark := " "
		if q.IsCorrect != nil {
			mark = "✗"
			if *q.IsCorrect {
				mark = "✓"
			}
		}
		fmt.Fprintf(out, "%s %d. %s\n", mark, i+1, q.Text)
		if !a.Completed {
			for j, c := range q.Choices() {
				fmt.Fprintf(out, "     %d) %s\n", j+1, c)
			}
			continue
		}
		if q.UserAnswer != "" {
			fmt.Fprintf(out, "     Your answer: %s\n", q.UserAnswer)
		}
		if q.CorrectAnswer != "" {
			fmt.Fprintf(out, "     Correct answer: %s\n", q.CorrectAnswer)
		}
	}
}

func init() {
	assignmentsCmd.Flags().String("difficulty", "", "Only this level: easy, medium, hard or god")
	assignmentsCmd.Flags().BoolP("generate", "g", false, "Generate new assignments first")
	assignmentCmd.Flags().Bool("take", false, "Answer the questions and submit")
}
