package cmd

import (
	"github.com/grafana/gitobject"
	"github.com/spf13/cobra"
)

func newCIDCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cid <id>",
		Short: "Print the IPLD content identifier of an object",
		Long: `Print the git-raw CID of a stored object. The CID wraps the id git would
assign to the object, so it matches what IPFS derives for the same git data.

Example:
  gitobject cid $blob`,
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

			obj, err := db.Read(ctx, id)
			if err != nil {
				return err
			}

			c, err := gitobject.GitCID(obj)
			if err != nil {
				return err
			}
			text, err := gitobject.FormatCID(c)
			if err != nil {
				return err
			}

			return g.formatter(cmd).FormatCID(id, gitobject.GitID(obj), text)
		},
	}
}
