package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"super-tasks/internal/repository"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := repository.Open(c.cfg.DatabaseURL, c.logger)
			if err != nil {
				return err
			}
			defer closeDB(db)
			if err := repository.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(repository.Models))
			return nil
		},
	}
}
