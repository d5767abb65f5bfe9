package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the commands that run the public site.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the site and its form endpoints",
		Long: `Serve the locale-prefixed site shell, the content API and the contact and
join endpoints. Postgres, Redis, NATS, S3 and SMTP are each optional and are
only used when configured.`,
	}

	cmd.PersistentFlags().Int("port", 0, "Listen on this port instead of server.port")
	cmd.AddCommand(NewStartCommand())

	return cmd
}
