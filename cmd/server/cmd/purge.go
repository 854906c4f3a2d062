package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"eventmanagement/config"
	"eventmanagement/internal/domain"
)

var purgeCmd = &cobra.Command{
	Use:   "purge-events",
	Short: "Delete events older than the retention period",
	Long: `Delete every event created more than EVENT_RETENTION_DAYS days ago (default 30).
Participants, invitations and feedback of those events are removed with them.

Suitable for a cron job. The same purge can run inside serve with PURGE_INTERVAL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := config.NewLogger()

		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		deleted, err := purgeOnce(cmd.Context(), newEventService(db, cfg, logger), logger)
		if err != nil {
			return fmt.Errorf("purge events: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), domain.PurgeMessage(deleted))
		return nil
	},
}
