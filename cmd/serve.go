package cmd

import (
	"github.com/spf13/cobra"

	"github.com/recapkit/recapkit/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, st, hub, err := wire()
		if err != nil {
			return err
		}
		defer st.Close()

		log.WithField("listen", cfg.Listen).Info("serving")
		return server.New(cfg, pipe, st, hub, log).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
