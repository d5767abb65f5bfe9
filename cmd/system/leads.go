package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llante/llante_site/internal/repo"
	"github.com/llante/llante_site/internal/submission"
)

func NewLeadsCommand() *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Count stored leads per form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			conn, err := openLeadsDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			from := time.Now().Add(-since)
			client := repo.New(conn)
			for _, kind := range []submission.Kind{submission.KindContact, submission.KindJoin} {
				n, err := client.CountSince(ctx, kind, from)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d\n", kind, n)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 7*24*time.Hour, "Count leads received within this window")

	return cmd
}
