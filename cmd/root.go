package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/recapkit/recapkit/config"
	"github.com/recapkit/recapkit/diarize"
	"github.com/recapkit/recapkit/notify"
	"github.com/recapkit/recapkit/orchestrator"
	"github.com/recapkit/recapkit/store"
)

var (
	cfgPath string
	cfg     *config.Config
	log     *logrus.Entry
)

var rootCmd = &cobra.Command{
	Use:   "recapkit",
	Short: "Turn recorded audio into speaker-attributed transcripts and structured summaries",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		l := logrus.New()
		l.SetLevel(level)
		log = l.WithField("app", "recapkit")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// wire composes the pipeline and its collaborators from the loaded config.
func wire() (*orchestrator.Pipeline, *store.SQLiteStore, *notify.Hub, error) {
	if err := os.MkdirAll(cfg.Paths.Data, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(filepath.Join(cfg.Paths.Data, "recapkit.db"))
	if err != nil {
		return nil, nil, nil, err
	}

	hub := notify.NewHub(log)

	var diar *diarize.Adapter
	if cfg.Diarization.Enabled {
		loader := diarize.NewHTTPEngineLoader(cfg.Diarization.EngineURL, cfg.Timeouts.Receive())
		diar = diarize.NewAdapter(loader, log)
	}

	pipe := orchestrator.New(cfg, diar, st, hub, log)
	return pipe, st, hub, nil
}
