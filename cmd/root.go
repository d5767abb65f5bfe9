package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	contentcmd "github.com/llante/llante_site/cmd/content"
	httpcmd "github.com/llante/llante_site/cmd/http"
	systemcmd "github.com/llante/llante_site/cmd/system"
	"github.com/llante/llante_site/pkg/logs"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "llante",
	Short: "Llante bilingual site backend.",
	Long: `Llante serves the bilingual (es/en) marketing site: locale-prefixed pages,
translated message bundles and the contact and "join us" form endpoints that
turn visitors into leads.`,
	SilenceUsage: true,
	// Commands that read the full config replace this with logs.New.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logs.Default())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(contentcmd.NewContentCommand())
}
