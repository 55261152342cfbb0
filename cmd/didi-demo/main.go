// Command didi-demo wires a small service graph with didi, loads its settings
// from the environment, and prints what it built.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/junioryono/didi"
	"github.com/junioryono/didi/digbridge"
	"github.com/junioryono/didi/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
)

type rootOptions struct {
	envFiles []string
	verbose  bool
	useDig   bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "didi-demo",
		Short:        "Compose and print a demo service graph",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to read settings from")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log composer activity to stderr")
	cmd.Flags().BoolVar(&opts.useDig, "dig", false, "resolve the service through a dig container")

	cmd.AddCommand(newFieldsCmd(), newGraphCmd())

	return cmd
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the settings fields available to references",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range newGraph().settings.Fields() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newGraphCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the dependency graph without resolving anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := newGraph()
			deps := didi.Inspect(g.service)

			switch format {
			case "dot":
				return deps.WriteDOT(cmd.OutOrStdout())
			case "text":
				return deps.WriteText(cmd.OutOrStdout())
			case "order":
				order, err := deps.Order()
				if err != nil {
					return err
				}
				for _, name := range order {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (want dot, text or order)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: dot, text or order")

	return cmd
}

func run(ctx context.Context, out, errOut io.Writer, opts *rootOptions) (err error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	g := newGraph()
	composer := didi.New(didi.WithLogger(logger))
	defer func() {
		err = errors.Join(err, composer.Close())
	}()

	if err := envconfig.Load(g.settings, envconfig.Files(opts.envFiles...)); err != nil {
		return err
	}

	if err := composer.Preload(ctx, g.db, g.api); err != nil {
		return fmt.Errorf("preload: %w", err)
	}

	var svc *UserService
	if opts.useDig {
		svc, err = resolveWithDig(composer, g)
	} else {
		svc, err = g.service.Resolve(composer)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(out, svc.Describe())
	return nil
}

func resolveWithDig(composer *didi.Composer, g *graph) (*UserService, error) {
	dc := dig.New()

	err := digbridge.ProvideAll(dc, composer,
		digbridge.Bind[*Database](g.db),
		digbridge.Bind[*APIClient](g.api),
	)
	if err != nil {
		return nil, err
	}

	if err := dc.Provide(func(db *Database, api *APIClient) *UserService {
		return &UserService{Repo: &UserRepository{DB: db}, API: api}
	}); err != nil {
		return nil, err
	}

	return digbridge.Extract[*UserService](dc)
}
