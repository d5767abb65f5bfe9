package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llante/llante_site/pkg/database"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the leads database if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			created, err := database.InitializeDatabase(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created database %q.\n", cfg.Database.DBName)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Database %q already exists.\n", cfg.Database.DBName)
			}
			return nil
		},
	}

	return cmd
}
