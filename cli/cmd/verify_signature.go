package cmd

import (
	"fmt"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/signing"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
)

func newVerifySignatureCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "verify-signature <id>",
		Aliases: []string{"verify-commit", "verify-tag"},
		Short:   "Check the SSH signature of a commit or tag",
		Long: `Check the SSH signature embedded in a commit or tag and print the type
and fingerprint of the key that made it. Deciding whether that key is
trusted is left to the caller.

Example:
  gitobject verify-signature $commit`,
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

			var key ssh.PublicKey
			switch o := obj.(type) {
			case *gitobject.Commit:
				key, err = signing.VerifyCommit(o)
			case *gitobject.Tag:
				key, err = signing.VerifyTag(o)
			default:
				return fmt.Errorf("object %s is a %s and cannot carry a signature", id, obj.Type().Bytes())
			}
			if err != nil {
				return fmt.Errorf("object %s: %w", id, err)
			}

			return g.formatter(cmd).FormatSignature(id, key.Type(), ssh.FingerprintSHA256(key))
		},
	}
}
