package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/apiclient"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a syllabus document (PDF, Word or text)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		generate, _ := cmd.Flags().GetBool("generate")

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireSession(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Uploading %s (%s)...\n", info.Name(), apiclient.DocumentTypeFor(path))
		ctx := commandContext(cmd)
		s, err := e.client.UploadFile(ctx, path, title, description)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		e.log.Info("syllabus uploaded", zap.Int64("syllabus_id", s.ID), zap.String("file", info.Name()))

		fmt.Fprintf(out, "Created syllabus %d: %s (%d topics)\n", s.ID, s.Title, len(s.Topics))
		if !generate {
			fmt.Fprintf(out, "Run `studyforge generate %d` to extract its topics.\n", s.ID)
			return nil
		}

		fmt.Fprintln(out, "Generating topics...")
		topics, err := e.client.GenerateAndSaveTopics(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("syllabus %d was uploaded but its topics were not: %w", s.ID, err)
		}
		printTopicList(cmd, topics)
		fmt.Fprintf(out, "Run `studyforge progress %d` to see its topics.\n", s.ID)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringP("title", "t", "", "Syllabus title (default: file name)")
	uploadCmd.Flags().StringP("description", "d", "", "Syllabus description")
	uploadCmd.Flags().BoolP("generate", "g", false, "Generate and save topics after uploading")
}
