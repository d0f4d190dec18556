package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/cli/internal/output"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/spf13/cobra"
)

func newMktreeCommand(g *globalOptions) *cobra.Command {
	var allowMissing bool

	cmd := &cobra.Command{
		Use:   "mktree",
		Short: "Build a tree from ls-tree formatted lines on stdin",
		Long: `Read lines of the form "<mode> <type> <id>\t<name>" from stdin, store the
tree they describe and print its id. Entries are sorted into git order.

Example:
  printf '100644 blob %s\tREADME\n' "$id" | gitobject mktree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseTreeLines(cmd)
			if err != nil {
				return err
			}

			ctx := g.commandContext(cmd)
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}

			if !allowMissing {
				for _, entry := range entries {
					if entry.Mode == object.ModeCommit {
						continue
					}
					ok, err := db.Has(ctx, entry.ID)
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("entry %q: object %s not found", entry.Name, entry.ID)
					}
				}
			}

			gitobject.SortEntries(entries)
			tree, err := gitobject.NewTree(entries)
			if err != nil {
				return err
			}
			id, err := db.Write(ctx, tree)
			if err != nil {
				return err
			}

			return g.formatter(cmd).FormatHash(output.HashResult{
				ID:      id,
				GitID:   gitobject.GitID(tree),
				Type:    object.TypeTree,
				Size:    tree.Size(),
				Written: true,
			})
		},
	}

	cmd.Flags().BoolVar(&allowMissing, "missing", false, "Allow entries that point at objects not in the store")

	return cmd
}

func parseTreeLines(cmd *cobra.Command) ([]gitobject.TreeEntry, error) {
	var entries []gitobject.TreeEntry

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := parseTreeLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return entries, nil
}

func parseTreeLine(line string) (gitobject.TreeEntry, error) {
	meta, name, ok := strings.Cut(line, "\t")
	if !ok {
		return gitobject.TreeEntry{}, fmt.Errorf("missing tab before name")
	}

	fields := strings.Fields(meta)
	if len(fields) != 3 {
		return gitobject.TreeEntry{}, fmt.Errorf("expected \"<mode> <type> <id>\", got %q", meta)
	}

	// ls-tree pads directory modes to six digits
	mode, err := object.ParseMode([]byte(strings.TrimLeft(fields[0], "0")))
	if err != nil {
		return gitobject.TreeEntry{}, err
	}
	if kind := string(mode.Type().Bytes()); kind != fields[1] {
		return gitobject.TreeEntry{}, fmt.Errorf("mode %s names a %s, not a %s", fields[0], kind, fields[1])
	}
	id, err := parseID(fields[2])
	if err != nil {
		return gitobject.TreeEntry{}, err
	}

	return gitobject.NewTreeEntry(mode, name, id)
}
