package content

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/llante/llante_site/config"
	"github.com/llante/llante_site/internal/app"
	"github.com/llante/llante_site/internal/content"
	"github.com/llante/llante_site/internal/locale"
	s3pkg "github.com/llante/llante_site/pkg/s3"
)

func NewCheckCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report translations missing from non-default locales",
		Long: `Compare every locale against the default locale key by key, using the
configured content source. Missing content is served from the default locale at
runtime; with --strict any gap fails the command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}
			loader, err := newLoader(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			gaps, err := loader.Check(ctx)
			if err != nil {
				return err
			}
			missing := report(cmd.OutOrStdout(), gaps)
			if strict && missing > 0 {
				return fmt.Errorf("%d translation gaps", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any translation is missing")

	return cmd
}

func newLoader(cfg *config.Config) (*content.Loader, error) {
	set, err := locale.NewSet(cfg.Site.Locales, cfg.Site.DefaultLocale)
	if err != nil {
		return nil, err
	}

	var s3 *s3pkg.Client
	if strings.EqualFold(cfg.Site.Content.Source, "s3") {
		if s3, err = s3pkg.New(cfg.S3); err != nil {
			return nil, err
		}
	}
	src, err := app.NewContentSource(cfg, s3)
	if err != nil {
		return nil, err
	}
	return content.NewLoader(src, set, cfg.Site.Namespaces, nil), nil
}

// report prints one block per locale and returns the number of gaps.
func report(w io.Writer, gaps []content.Gap) int {
	total := 0
	for _, g := range gaps {
		if g.Empty() {
			fmt.Fprintf(w, "%s: complete\n", g.Locale)
			continue
		}
		fmt.Fprintf(w, "%s: %d namespaces, %d keys missing\n", g.Locale, len(g.MissingNamespaces), len(g.MissingKeys))
		for _, ns := range g.MissingNamespaces {
			fmt.Fprintf(w, "  namespace %s\n", ns)
		}
		for _, k := range g.MissingKeys {
			fmt.Fprintf(w, "  %s\n", k)
		}
		total += len(g.MissingNamespaces) + len(g.MissingKeys)
	}
	return total
}
