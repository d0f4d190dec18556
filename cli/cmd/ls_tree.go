package cmd

import (
	"context"
	"path"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/spf13/cobra"
)

func newLsTreeCommand(g *globalOptions) *cobra.Command {
	var (
		recursive bool
		showTrees bool
	)

	cmd := &cobra.Command{
		Use:   "ls-tree <tree-ish> [path]",
		Short: "List the entries of a tree",
		Long: `List the entries of a tree, or of the tree a commit or tag leads to.

With a path, list that subdirectory instead of the root.

Examples:
  gitobject ls-tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904
  gitobject ls-tree -r <commit> src`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 2 {
				prefix = args[1]
			}

			ctx := g.commandContext(cmd)
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}

			entries, err := listTree(ctx, db, id, prefix, recursive, showTrees)
			if err != nil {
				return err
			}
			return g.formatter(cmd).FormatTreeEntries(entries)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recurse into subdirectories")
	cmd.Flags().BoolVarP(&showTrees, "trees", "t", false, "Show directories while recursing")

	return cmd
}

func listTree(ctx context.Context, db *gitobject.ObjectDB, id hash.Hash, prefix string, recursive, showTrees bool) ([]gitobject.FlatTreeEntry, error) {
	tree, err := db.GetTreeByPath(ctx, id, prefix)
	if err != nil {
		return nil, err
	}

	if !recursive {
		entries := make([]gitobject.FlatTreeEntry, 0, tree.Len())
		for _, entry := range tree.Entries() {
			entries = append(entries, gitobject.FlatTreeEntry{
				Name: entry.Name,
				Path: path.Join(prefix, entry.Name),
				Mode: entry.Mode,
				ID:   entry.ID,
				Type: entry.Type(),
			})
		}
		return entries, nil
	}

	flat, err := db.GetFlatTree(ctx, gitobject.ComputeID(tree))
	if err != nil {
		return nil, err
	}

	entries := make([]gitobject.FlatTreeEntry, 0, len(flat.Entries))
	for _, entry := range flat.Entries {
		if entry.Mode == object.ModeTree && !showTrees {
			continue
		}
		entry.Path = path.Join(prefix, entry.Path)
		entries = append(entries, entry)
	}
	return entries, nil
}
