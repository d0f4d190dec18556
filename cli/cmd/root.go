package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/cli/internal/output"
	"github.com/grafana/gitobject/config"
	"github.com/grafana/gitobject/log"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/retry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions holds the persistent flags and what is derived from them
// before a command runs.
type globalOptions struct {
	configPath string
	storePath  string
	jsonOut    bool
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the gitobject command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "gitobject",
		Short: "Inspect and edit a content-addressed object store",
		Long: `gitobject stores blobs, trees, commits and tags by the SHA-1 of their
canonical encoding, and reads them back with their hashes checked.

The store location and settings come from the --store directory and its
config.toml, or from the file given with --config:
  - GITOBJECT_DIR:    default store directory
  - GITOBJECT_CONFIG: default config file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}

	defaultStore := os.Getenv("GITOBJECT_DIR")
	if defaultStore == "" {
		defaultStore = ".gitobject"
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", os.Getenv("GITOBJECT_CONFIG"), "Path to the config file (default <store>/config.toml)")
	flags.StringVar(&g.storePath, "store", defaultStore, "Object store directory")
	flags.BoolVar(&g.jsonOut, "json", false, "Output in JSON format")
	flags.BoolVar(&g.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(g),
		newHashObjectCommand(g),
		newCatFileCommand(g),
		newMktreeCommand(g),
		newLsTreeCommand(g),
		newEditTreeCommand(g),
		newCommitTreeCommand(g),
		newVerifyCommand(g),
		newVerifySignatureCommand(g),
		newCIDCommand(g),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err, jsonRequested(rootCmd))
	}
	return err
}

func jsonRequested(rootCmd *cobra.Command) bool {
	on, _ := rootCmd.PersistentFlags().GetBool("json")
	return on
}

func printError(w io.Writer, err error, jsonOut bool) {
	if jsonOut {
		fmt.Fprintf(w, "{\"error\": %q}\n", err.Error())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// setup loads the config and builds the logger shared by all commands.
func (g *globalOptions) setup(cmd *cobra.Command) error {
	configPath := g.configPath
	if configPath == "" {
		configPath = filepath.Join(g.storePath, config.FileName)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// --store always names a loose store, and so does a store without a config file
	if cmd.Flags().Changed("store") || !fileExists(configPath) {
		cfg.Storage.Kind = config.StorageLoose
		cfg.Storage.Path = g.storePath
	}
	if g.debug {
		cfg.Log.Level = "debug"
	}

	logger, err := log.NewZap(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format == "json")
	if err != nil {
		return err
	}

	g.cfg = cfg
	g.logger = logger
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// context returns the command context carrying the logger and retrier.
func (g *globalOptions) commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.WithContextLogger(ctx, log.NewZapLogger(g.logger))
	return retry.ToContext(ctx, g.cfg.Retrier())
}

// openDB opens the configured store.
func (g *globalOptions) openDB(ctx context.Context) (*gitobject.ObjectDB, error) {
	store, err := g.cfg.OpenStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return gitobject.NewObjectDB(store, g.cfg.DBOptions(log.NewZapLogger(g.logger))...)
}

func (g *globalOptions) formatter(cmd *cobra.Command) output.Formatter {
	if g.jsonOut {
		return output.Get("json", cmd.OutOrStdout())
	}
	return output.Get("human", cmd.OutOrStdout())
}

func parseID(s string) (hash.Hash, error) {
	id, err := hash.FromHex(strings.TrimSpace(s))
	if err != nil {
		return hash.Zero, fmt.Errorf("invalid object id %q: %w", s, err)
	}
	return id, nil
}
