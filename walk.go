package gitobject

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// FlatTreeEntry represents a single entry in a flattened tree structure.
// Unlike TreeEntry, this includes the full path from the root tree,
// making it suitable for operations that need to work with complete file paths.
type FlatTreeEntry struct {
	// Name is the base filename (e.g., "file.txt")
	Name string
	// Path is the full path from the root (e.g., "dir/subdir/file.txt")
	Path string
	Mode object.Mode
	ID   hash.Hash
	// Type is the kind of object the entry points at
	Type object.Type
}

// FlatTree represents a recursive, flattened view of a tree structure.
// Every file and directory appears once, in breadth-first order.
type FlatTree struct {
	Entries []FlatTreeEntry
	// ID is the id of the root tree object
	ID hash.Hash
}

// GetFlatTree walks the tree reachable from id and lists every entry with its
// full path. id may name a tree, or a commit or tag that leads to one.
// Trees are loaded one at a time as the walk reaches them. Gitlinks are
// listed but not descended into, since their commits live elsewhere.
func (db *ObjectDB) GetFlatTree(ctx context.Context, id hash.Hash) (*FlatTree, error) {
	rootID, err := db.PeelToTree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve root tree: %w", err)
	}

	type queueItem struct {
		id       hash.Hash
		basePath string
	}

	var entries []FlatTreeEntry
	queue := []queueItem{{id: rootID, basePath: ""}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		tree, err := db.ReadTree(ctx, current.id)
		if err != nil {
			if current.basePath == "" {
				return nil, err
			}
			return nil, fmt.Errorf("tree at %q: %w", current.basePath, err)
		}

		for _, entry := range tree.entries {
			entryPath := entry.Name
			if current.basePath != "" {
				entryPath = current.basePath + "/" + entry.Name
			}

			entries = append(entries, FlatTreeEntry{
				Name: entry.Name,
				Path: entryPath,
				Mode: entry.Mode,
				ID:   entry.ID,
				Type: entry.Type(),
			})

			if entry.IsTree() {
				queue = append(queue, queueItem{id: entry.ID, basePath: entryPath})
			}
		}
	}

	db.getLogger(ctx).Debug("Tree flattened", "root", rootID.String(), "entries", len(entries))

	return &FlatTree{
		Entries: entries,
		ID:      rootID,
	}, nil
}

// lookupEntry resolves a normalized, non-empty path below the tree rootID.
func (db *ObjectDB) lookupEntry(ctx context.Context, rootID hash.Hash, path string) (TreeEntry, error) {
	parts := strings.Split(path, "/")
	currentID := rootID

	for i, part := range parts {
		currentPath := strings.Join(parts[:i+1], "/")

		tree, err := db.ReadTree(ctx, currentID)
		if err != nil {
			return TreeEntry{}, fmt.Errorf("get tree %s: %w", currentID, err)
		}

		entry, ok := tree.Find(part)
		if !ok {
			return TreeEntry{}, NewPathNotFoundError(currentPath)
		}

		if i == len(parts)-1 {
			return entry, nil
		}

		if !entry.IsTree() {
			return TreeEntry{}, fmt.Errorf("path component '%s' is not a directory: %w",
				currentPath, NewUnexpectedObjectTypeError(entry.ID, object.TypeTree, entry.Type()))
		}
		currentID = entry.ID
	}

	return TreeEntry{}, NewPathNotFoundError(path)
}

// GetTreeByPath returns the tree at path below the tree reachable from rootID.
// An empty path returns the root tree.
func (db *ObjectDB) GetTreeByPath(ctx context.Context, rootID hash.Hash, path string) (*Tree, error) {
	normalized, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	treeID, err := db.PeelToTree(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("resolve root tree: %w", err)
	}

	if normalized == "" {
		return db.ReadTree(ctx, treeID)
	}

	entry, err := db.lookupEntry(ctx, treeID, normalized)
	if err != nil {
		return nil, err
	}
	if !entry.IsTree() {
		return nil, fmt.Errorf("path '%s' is not a directory: %w",
			normalized, NewUnexpectedObjectTypeError(entry.ID, object.TypeTree, entry.Type()))
	}

	return db.ReadTree(ctx, entry.ID)
}

// GetBlobByPath returns the file at path below the tree reachable from rootID.
func (db *ObjectDB) GetBlobByPath(ctx context.Context, rootID hash.Hash, path string) (*Blob, error) {
	normalized, err := cleanFilePath(path)
	if err != nil {
		return nil, err
	}

	treeID, err := db.PeelToTree(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("resolve root tree: %w", err)
	}

	entry, err := db.lookupEntry(ctx, treeID, normalized)
	if err != nil {
		return nil, err
	}
	if entry.Type() != object.TypeBlob {
		return nil, fmt.Errorf("path '%s' is not a file: %w",
			normalized, NewUnexpectedObjectTypeError(entry.ID, object.TypeBlob, entry.Type()))
	}

	return db.ReadBlob(ctx, entry.ID)
}

// FileStatus describes how a path differs between two trees.
type FileStatus string

const (
	FileStatusAdded    FileStatus = "added"
	FileStatusModified FileStatus = "modified"
	FileStatusDeleted  FileStatus = "deleted"
)

// TreeChange is one path that differs between two trees.
type TreeChange struct {
	Path    string
	Status  FileStatus
	Mode    object.Mode
	ID      hash.Hash
	OldMode object.Mode
	OldID   hash.Hash
}

// CompareTrees lists the paths that differ between the trees reachable from
// base and head, sorted by path. Directories are reported when added or
// deleted; a changed directory shows up through the files below it.
func (db *ObjectDB) CompareTrees(ctx context.Context, base, head hash.Hash) ([]TreeChange, error) {
	baseTree, err := db.GetFlatTree(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("flatten base: %w", err)
	}

	headTree, err := db.GetFlatTree(ctx, head)
	if err != nil {
		return nil, fmt.Errorf("flatten head: %w", err)
	}

	return compareFlatTrees(baseTree, headTree), nil
}

func compareFlatTrees(base, head *FlatTree) []TreeChange {
	changes := make([]TreeChange, 0)

	inHead := make(map[string]FlatTreeEntry, len(head.Entries))
	for _, entry := range head.Entries {
		inHead[entry.Path] = entry
	}

	inBase := make(map[string]FlatTreeEntry, len(base.Entries))
	for _, entry := range base.Entries {
		inBase[entry.Path] = entry
	}

	for _, entry := range head.Entries {
		old, ok := inBase[entry.Path]
		switch {
		case !ok:
			changes = append(changes, TreeChange{
				Path:   entry.Path,
				Status: FileStatusAdded,
				Mode:   entry.Mode,
				ID:     entry.ID,
			})
		case entry.Type != object.TypeTree && (!old.ID.Is(entry.ID) || old.Mode != entry.Mode):
			changes = append(changes, TreeChange{
				Path:    entry.Path,
				Status:  FileStatusModified,
				Mode:    entry.Mode,
				ID:      entry.ID,
				OldMode: old.Mode,
				OldID:   old.ID,
			})
		}
	}

	for _, entry := range base.Entries {
		if _, ok := inHead[entry.Path]; !ok {
			changes = append(changes, TreeChange{
				Path:   entry.Path,
				Status: FileStatusDeleted,
				Mode:   entry.Mode,
				ID:     entry.ID,
			})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})

	return changes
}
