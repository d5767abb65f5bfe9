// Package content holds the CLI commands that inspect and publish the
// translated namespace files.
package content

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/llante/llante_site/config"
)

func NewContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Translation content commands",
	}

	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewPushCommand())

	return cmd
}

func readConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}
