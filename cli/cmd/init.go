package cmd

import (
	"path/filepath"

	"github.com/grafana/gitobject/config"
	"github.com/grafana/gitobject/storage"
	"github.com/spf13/cobra"
)

func newInitCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create an empty object store",
		Long: `Create the layout of a loose object store and write its config.toml.

Running init on an existing store is safe and leaves its config untouched.

Examples:
  gitobject init
  gitobject init /srv/objects`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := g.storePath
			if len(args) == 1 {
				dir = args[0]
			}

			ctx := g.commandContext(cmd)
			if err := storage.InitLoose(ctx, dir); err != nil {
				return err
			}

			configPath := filepath.Join(dir, config.FileName)
			created := !fileExists(configPath)
			if created {
				cfg := config.Default()
				cfg.Storage.Path = "."
				cfg.Log = g.cfg.Log
				if err := config.Write(configPath, cfg); err != nil {
					return err
				}
			}

			abs, err := filepath.Abs(dir)
			if err != nil {
				abs = dir
			}
			return g.formatter(cmd).FormatInit(abs, created)
		},
	}
}
