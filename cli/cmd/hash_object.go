package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/cli/internal/output"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/spf13/cobra"
)

func newHashObjectCommand(g *globalOptions) *cobra.Command {
	var (
		kind      string
		write     bool
		showGitID bool
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "hash-object [file]",
		Short: "Compute the id of an object and optionally store it",
		Long: `Compute the id of the object whose encoding is read from a file or stdin.

The store id hashes the encoding alone. --git prints the id git would give
the same object instead. Objects other than blobs must decode cleanly.

Examples:
  gitobject hash-object README.md
  gitobject hash-object -w README.md
  printf 'hello' | gitobject hash-object --stdin --git`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromStdin == (len(args) == 1) {
				return fmt.Errorf("pass either a file or --stdin")
			}

			t, err := object.ParseType([]byte(kind))
			if err != nil {
				return err
			}

			var data []byte
			if fromStdin {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			obj, err := gitobject.DecodeObject(t, data)
			if err != nil {
				return err
			}

			result := output.HashResult{
				ID:        gitobject.ComputeID(obj),
				GitID:     gitobject.GitID(obj),
				Type:      obj.Type(),
				Size:      obj.Size(),
				ShowGitID: showGitID,
			}

			if write {
				ctx := g.commandContext(cmd)
				db, err := g.openDB(ctx)
				if err != nil {
					return err
				}
				if _, err := db.Write(ctx, obj); err != nil {
					return err
				}
				result.Written = true
			}

			return g.formatter(cmd).FormatHash(result)
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "blob", "Object type: blob, tree, commit or tag")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the object into the store")
	cmd.Flags().BoolVar(&showGitID, "git", false, "Print the id git would assign")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the object from stdin")

	return cmd
}
