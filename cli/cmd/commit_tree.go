package cmd

import (
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/cli/internal/output"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/grafana/gitobject/signing"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
)

func newCommitTreeCommand(g *globalOptions) *cobra.Command {
	var (
		parents   []string
		message   string
		author    string
		committer string
		date      int64
		signKey   string
	)

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> -m <message>",
		Short: "Create a commit of a tree",
		Long: `Create and store a commit of an existing tree.

Author and committer default to GIT_AUTHOR_NAME/GIT_AUTHOR_EMAIL and
GIT_COMMITTER_NAME/GIT_COMMITTER_EMAIL. With --sign-key, the commit is signed
with that SSH private key.

Examples:
  gitobject commit-tree $tree -m "initial import" --author "Jane Doe <jane@example.com>"
  gitobject commit-tree $tree -p $parent -m "next" --sign-key ~/.ssh/id_ed25519`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeID, err := parseID(args[0])
			if err != nil {
				return err
			}

			when := time.Now()
			if cmd.Flags().Changed("date") {
				when = time.Unix(date, 0).UTC()
			}

			authorSig, err := resolveSignature(object.RoleAuthor, author, "GIT_AUTHOR", when)
			if err != nil {
				return err
			}
			committerSig := authorSig
			committerSig.Role = object.RoleCommitter
			if committer != "" || os.Getenv("GIT_COMMITTER_NAME") != "" {
				if committerSig, err = resolveSignature(object.RoleCommitter, committer, "GIT_COMMITTER", when); err != nil {
					return err
				}
			}

			ctx := g.commandContext(cmd)
			db, err := g.openDB(ctx)
			if err != nil {
				return err
			}

			if _, err := db.ReadTree(ctx, treeID); err != nil {
				return err
			}

			commit := &gitobject.Commit{
				Tree:      treeID,
				Author:    authorSig,
				Committer: committerSig,
				Message:   message,
			}
			if !strings.HasSuffix(commit.Message, "\n") {
				commit.Message += "\n"
			}
			for _, p := range parents {
				parentID, err := parseID(p)
				if err != nil {
					return err
				}
				if _, err := db.ReadCommit(ctx, parentID); err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				commit.Parents = append(commit.Parents, parentID)
			}

			if signKey != "" {
				signer, err := loadSigner(signKey)
				if err != nil {
					return err
				}
				if commit, err = signing.SignCommit(commit, signer); err != nil {
					return err
				}
			}

			id, err := db.Write(ctx, commit)
			if err != nil {
				return err
			}

			return g.formatter(cmd).FormatHash(output.HashResult{
				ID:      id,
				GitID:   gitobject.GitID(commit),
				Type:    object.TypeCommit,
				Size:    commit.Size(),
				Written: true,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&parents, "parent", "p", nil, "Parent commit, repeatable")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().StringVar(&author, "author", "", "Author as \"Name <email>\"")
	cmd.Flags().StringVar(&committer, "committer", "", "Committer as \"Name <email>\" (default author)")
	cmd.Flags().Int64Var(&date, "date", 0, "Timestamp in seconds since the epoch (default now)")
	cmd.Flags().StringVar(&signKey, "sign-key", "", "SSH private key used to sign the commit")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

// resolveSignature parses "Name <email>", falling back to <envPrefix>_NAME
// and <envPrefix>_EMAIL.
func resolveSignature(role object.Role, ident, envPrefix string, when time.Time) (object.Signature, error) {
	name, email := os.Getenv(envPrefix+"_NAME"), os.Getenv(envPrefix+"_EMAIL")
	if ident != "" {
		addr, err := mail.ParseAddress(ident)
		if err != nil {
			return object.Signature{}, fmt.Errorf("%s %q: %w", role, ident, err)
		}
		name, email = addr.Name, addr.Address
	}
	if name == "" || email == "" {
		return object.Signature{}, fmt.Errorf("%s identity unknown: pass --%s or set %s_NAME and %s_EMAIL",
			role, strings.ToLower(role.String()), envPrefix, envPrefix)
	}

	return object.NewSignature(role, name, email, when)
}

func loadSigner(path string) (ssh.Signer, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("parse signing key %s: %w", path, err)
	}
	return signer, nil
}
