package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newDigestCmd(c *cli) *cobra.Command {
	var (
		email string
		at    string
	)
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the daily report a user would receive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if strings.TrimSpace(at) != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				now = parsed
			}
			loc, err := c.cfg.Location()
			if err != nil {
				return err
			}

			a, err := openApp(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.users.FindByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("user %s: %w", email, err)
			}
			text, err := a.reminders.DailySummary(cmd.Context(), *user, now, loc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "user-email", "", "email of the user to report on")
	cmd.Flags().StringVar(&at, "at", "", "report as of this RFC 3339 instant (default now)")
	_ = cmd.MarkFlagRequired("user-email")
	return cmd
}
