// Command supertasks runs the Super Tasks API server and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"super-tasks/internal/config"
	"super-tasks/internal/logging"
)

// cli carries what every subcommand needs after the root pre-run.
type cli struct {
	cfg    config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "supertasks",
		Short:         "Personal planner API for training, meals, study and mentor tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	root.AddCommand(newServeCmd(c), newMigrateCmd(c), newDigestCmd(c))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
