package cmd

import (
	"fmt"

	"github.com/grafana/gitobject/cli/internal/output"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newVerifyCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>...",
		Short: "Check every object reachable from the given ids",
		Long: `Walk every object reachable from the given ids, re-hash each record and
decode it as the kind its referrer expects. All problems are listed, not
just the first.

Example:
  gitobject verify $commit`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := make([]hash.Hash, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				roots = append(roots, id)
			}

			ctx := g.commandContext(cmd)
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}

			count, verifyErr := db.Verify(ctx, roots...)
			errs := multierr.Errors(verifyErr)
			if err := g.formatter(cmd).FormatVerify(output.VerifyResult{Objects: count, Errors: errs}); err != nil {
				return err
			}
			if len(errs) > 0 {
				return fmt.Errorf("verification failed with %d problem(s)", len(errs))
			}
			return nil
		},
	}
}
