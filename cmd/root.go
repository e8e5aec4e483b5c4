package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyforge",
	Short: "Terminal client for StudyForge study plans",
	Long:  "StudyForge: upload syllabi, follow their topics and track your progress from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the command line. Interrupts cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/studyforge/config.yaml)")
	pf.String("api-url", "", "Backend API base URL (overrides STUDYFORGE_API_URL)")
	pf.String("db", "", "Path to SQLite database file (env STUDYFORGE_DB_PATH)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "Log file path (default $XDG_STATE_HOME/studyforge/studyforge.log)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(syllabiCmd)
	rootCmd.AddCommand(syllabusCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(assignmentsCmd)
	rootCmd.AddCommand(assignmentCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(versionCmd)
}
