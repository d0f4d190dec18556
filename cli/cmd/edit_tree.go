package cmd

import (
	"fmt"
	"strings"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/cli/internal/output"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/spf13/cobra"
)

func newEditTreeCommand(g *globalOptions) *cobra.Command {
	var (
		adds    []string
		removes []string
	)

	cmd := &cobra.Command{
		Use:   "edit-tree [tree-ish]",
		Short: "Add or remove paths and store the resulting tree",
		Long: `Start from an existing tree, or from nothing, apply the edits and store
every tree that changed. Removals run before additions. Directories left
empty by a removal disappear.

Each --add takes "<mode> <id> <path>".

Examples:
  gitobject edit-tree --add "100644 $blob docs/guide.md"
  gitobject edit-tree <commit> --remove docs/old.md --add "100755 $blob bin/run"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(adds) == 0 && len(removes) == 0 {
				return fmt.Errorf("nothing to do: pass --add or --remove")
			}

			ctx := g.commandContext(cmd)
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}

			builder := gitobject.NewTreeBuilder(db)
			if len(args) == 1 {
				base, err := parseID(args[0])
				if err != nil {
					return err
				}
				if builder, err = gitobject.LoadTreeBuilder(ctx, db, base); err != nil {
					return err
				}
			}

			for _, p := range removes {
				if err := builder.Remove(ctx, p); err != nil {
					return err
				}
			}
			for _, add := range adds {
				fields := strings.SplitN(strings.TrimSpace(add), " ", 3)
				if len(fields) != 3 {
					return fmt.Errorf("--add %q: expected \"<mode> <id> <path>\"", add)
				}
				mode, err := object.ParseMode([]byte(strings.TrimLeft(fields[0], "0")))
				if err != nil {
					return fmt.Errorf("--add %q: %w", add, err)
				}
				id, err := parseID(fields[1])
				if err != nil {
					return err
				}
				if err := builder.Add(ctx, fields[2], mode, id); err != nil {
					return err
				}
			}

			id, err := builder.Build(ctx)
			if err != nil {
				return err
			}

			return g.formatter(cmd).FormatHash(output.HashResult{
				ID:      id,
				Type:    object.TypeTree,
				Written: true,
			})
		},
	}

	cmd.Flags().StringArrayVar(&adds, "add", nil, "Add or replace a path: \"<mode> <id> <path>\"")
	cmd.Flags().StringArrayVar(&removes, "remove", nil, "Remove a file or directory")

	return cmd
}
