package gitobject

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// TreeBuilder edits a directory hierarchy by path and writes it back as
// nested trees. Subtrees of a loaded tree are read only when an edit
// reaches into them; untouched subtrees are kept by id.
type TreeBuilder struct {
	db   *ObjectDB
	root *dirNode
}

// dirNode is a directory being edited. A name lives in at most one of the
// two maps: entries holds leaves and unexpanded subtrees, dirs holds
// subtrees that have been opened for editing.
type dirNode struct {
	entries map[string]TreeEntry
	dirs    map[string]*dirNode
}

func newDirNode() *dirNode {
	return &dirNode{
		entries: make(map[string]TreeEntry),
		dirs:    make(map[string]*dirNode),
	}
}

func (n *dirNode) isEmpty() bool {
	return len(n.entries) == 0 && len(n.dirs) == 0
}

// NewTreeBuilder starts from an empty directory.
func NewTreeBuilder(db *ObjectDB) *TreeBuilder {
	return &TreeBuilder{db: db, root: newDirNode()}
}

// LoadTreeBuilder starts from the tree reachable from id, which may name a
// tree, or a commit or tag leading to one.
func LoadTreeBuilder(ctx context.Context, db *ObjectDB, id hash.Hash) (*TreeBuilder, error) {
	treeID, err := db.PeelToTree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve root tree: %w", err)
	}

	b := NewTreeBuilder(db)
	root, err := b.load(ctx, treeID)
	if err != nil {
		return nil, err
	}
	b.root = root

	return b, nil
}

func (b *TreeBuilder) load(ctx context.Context, id hash.Hash) (*dirNode, error) {
	tree, err := b.db.ReadTree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", id, err)
	}

	node := newDirNode()
	for _, entry := range tree.entries {
		node.entries[entry.Name] = entry
	}

	return node, nil
}

// splitPath normalizes p and checks every component can be a tree entry name.
func splitPath(p string) ([]string, error) {
	normalized, err := cleanFilePath(p)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(normalized, "/")
	for _, part := range parts {
		if err := validateEntryName(part); err != nil {
			return nil, NewInvalidPathError(p, fmt.Sprintf("component %q is not a valid name", part))
		}
	}

	return parts, nil
}

// descend returns the directory holding the last element of parts. Missing
// directories are created when create is set; otherwise they are reported
// as ErrPathNotFound.
func (b *TreeBuilder) descend(ctx context.Context, p string, parts []string, create bool) (*dirNode, error) {
	current := b.root
	for i, name := range parts[:len(parts)-1] {
		if child, ok := current.dirs[name]; ok {
			current = child
			continue
		}

		currentPath := strings.Join(parts[:i+1], "/")
		entry, ok := current.entries[name]
		switch {
		case ok && entry.IsTree():
			child, err := b.load(ctx, entry.ID)
			if err != nil {
				return nil, fmt.Errorf("open %q: %w", currentPath, err)
			}
			delete(current.entries, name)
			current.dirs[name] = child
			current = child
		case ok:
			return nil, NewInvalidPathError(p, fmt.Sprintf("%q is not a directory", currentPath))
		case create:
			child := newDirNode()
			current.dirs[name] = child
			current = child
		default:
			return nil, NewPathNotFoundError(currentPath)
		}
	}

	return current, nil
}

// Add places id at path with the given mode, creating intermediate
// directories. It replaces an existing entry of the same name, but refuses
// to replace a directory with a non-directory.
func (b *TreeBuilder) Add(ctx context.Context, p string, mode object.Mode, id hash.Hash) error {
	if !mode.IsValid() {
		return object.NewInvalidTreeItemError(mode.String())
	}

	parts, err := splitPath(p)
	if err != nil {
		return err
	}

	dir, err := b.descend(ctx, p, parts, true)
	if err != nil {
		return err
	}

	name := parts[len(parts)-1]
	if _, ok := dir.dirs[name]; ok {
		if mode != object.ModeTree {
			return NewInvalidPathError(p, "a directory exists at this path")
		}
		delete(dir.dirs, name)
	}
	if existing, ok := dir.entries[name]; ok && existing.IsTree() && mode != object.ModeTree {
		return NewInvalidPathError(p, "a directory exists at this path")
	}

	dir.entries[name] = TreeEntry{Mode: mode, Name: name, ID: id}
	b.db.getLogger(ctx).Debug("Tree entry staged", "path", strings.Join(parts, "/"), "mode", mode.String(), "id", id.String())

	return nil
}

// Remove deletes the entry at path. Directories left empty are removed too.
func (b *TreeBuilder) Remove(ctx context.Context, p string) error {
	parts, err := splitPath(p)
	if err != nil {
		return err
	}

	dir, err := b.descend(ctx, p, parts, false)
	if err != nil {
		return err
	}

	name := parts[len(parts)-1]
	_, isEntry := dir.entries[name]
	_, isDir := dir.dirs[name]
	if !isEntry && !isDir {
		return NewPathNotFoundError(strings.Join(parts, "/"))
	}
	delete(dir.entries, name)
	delete(dir.dirs, name)

	b.prune(b.root)
	return nil
}

// prune drops opened directories that no longer hold anything.
func (b *TreeBuilder) prune(n *dirNode) {
	for name, child := range n.dirs {
		b.prune(child)
		if child.isEmpty() {
			delete(n.dirs, name)
		}
	}
}

// Build writes every edited directory bottom-up in git order and returns
// the id of the root tree. Building an empty hierarchy fails with
// ErrEmptyTreeItems.
func (b *TreeBuilder) Build(ctx context.Context) (hash.Hash, error) {
	id, err := b.build(ctx, "", b.root)
	if err != nil {
		return hash.Zero, err
	}

	b.db.getLogger(ctx).Info("Tree built", "id", id.String())
	return id, nil
}

func (b *TreeBuilder) build(ctx context.Context, dirPath string, n *dirNode) (hash.Hash, error) {
	entries := make([]TreeEntry, 0, len(n.entries)+len(n.dirs))
	for _, entry := range n.entries {
		entries = append(entries, entry)
	}

	for name, child := range n.dirs {
		childPath := name
		if dirPath != "" {
			childPath = dirPath + "/" + name
		}

		childID, err := b.build(ctx, childPath, child)
		if errors.Is(err, ErrEmptyTreeItems) {
			continue
		}
		if err != nil {
			return hash.Zero, err
		}
		entries = append(entries, TreeEntry{Mode: object.ModeTree, Name: name, ID: childID})
	}

	SortEntries(entries)
	tree, err := NewTree(entries)
	if err != nil {
		return hash.Zero, err
	}

	id, err := b.db.Write(ctx, tree)
	if err != nil {
		return hash.Zero, fmt.Errorf("write tree %q: %w", dirPath, err)
	}
	b.db.getLogger(ctx).Debug("Tree written", "path", dirPath, "id", id.String(), "entries", tree.Len())

	return id, nil
}
