package content

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llante/llante_site/internal/content"
	s3pkg "github.com/llante/llante_site/pkg/s3"
)

func NewPushCommand() *cobra.Command {
	var (
		dir    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload namespace files to the content bucket",
		Long: `Upload every <locale>/<namespace>.json file to the S3 bucket under
site.content.prefix, where the s3 content source reads them. The files built
into the binary are pushed unless --dir names a directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			src := content.NewEmbedSource()
			if dir != "" {
				src = content.NewDirSource(dir)
			}

			var client *s3pkg.Client
			if !dryRun {
				if client, err = s3pkg.New(cfg.S3); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			out := cmd.OutOrStdout()
			n := 0
			err = src.Walk(func(loc, ns string, data []byte) error {
				key := content.ObjectKey(cfg.Site.Content.Prefix, loc, ns)
				if !dryRun {
					if err := client.Upload(ctx, key, "application/json", data); err != nil {
						return err
					}
				}
				fmt.Fprintf(out, "%s (%d bytes)\n", key, len(data))
				n++
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d files pushed to %s\n", n, cfg.S3.Bucket)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to push instead of the built-in content")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the object keys without uploading")

	return cmd
}
