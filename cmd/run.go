package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	e.log.Info("starting tui",
		zap.String("api_url", e.cfg.APIURL),
		zap.Bool("signed_in", e.session.Get().Valid()),
	)
	return app.Run(commandContext(cmd), app.Deps{
		Client: e.client,
		Events: e.store.RequestEventRepo(),
		Style:  e.cfg.Style(),
		Log:    e.log,
	})
}
