package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCatFileCommand(g *globalOptions) *cobra.Command {
	var (
		showType   bool
		showSize   bool
		pretty     bool
		existsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "cat-file (-t | -s | -p | -e) <id>",
		Short: "Show the kind, size or content of a stored object",
		Long: `Show information about a stored object.

Examples:
  # Kind and size
  gitobject cat-file -t 8ab686eafeb1f44702738c8b0f24f2567c36da6d

  # Content, trees listed one entry per line
  gitobject cat-file -p 8ab686eafeb1f44702738c8b0f24f2567c36da6d

  # Exit with an error when the object is missing
  gitobject cat-file -e 8ab686eafeb1f44702738c8b0f24f2567c36da6d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := g.commandContext(cmd)
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}

			formatter := g.formatter(cmd)
			switch {
			case existsOnly:
				ok, err := db.Has(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("object %s not found", id)
				}
				return nil
			case showType, showSize:
				kind, size, err := db.ReadHeader(ctx, id)
				if err != nil {
					return err
				}
				return formatter.FormatObjectInfo(id, kind, size)
			default:
				obj, err := db.Read(ctx, id)
				if err != nil {
					return err
				}
				return formatter.FormatObject(id, obj)
			}
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "Show the object kind and size")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "Show the object kind and size")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Show the object content")
	cmd.Flags().BoolVarP(&existsOnly, "exists", "e", false, "Only check that the object exists")
	cmd.MarkFlagsOneRequired("type", "size", "pretty", "exists")
	cmd.MarkFlagsMutuallyExclusive("pretty", "exists")

	return cmd
}
