package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	config "task-marketplace.com/task-marketplace/internal/configs"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
	"task-marketplace.com/task-marketplace/internal/services"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check every task against the task/offer coupling rules",
	Long:  "Runs one audit pass and exits non-zero when any violation is found",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		db, err := config.NewDatabase(cfg)
		if err != nil {
			return err
		}

		audit := services.NewAuditService(repository.NewRepositories(db), logger)
		violations, err := audit.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			return fmt.Errorf("%d invariant violations found", len(violations))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
