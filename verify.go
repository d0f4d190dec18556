package gitobject

import (
	"context"
	"fmt"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// reference is an edge of the object graph: the id it points at and the
// kind the referring object claims it has.
type reference struct {
	id   hash.Hash
	want object.Type
}

// Verify walks every object reachable from roots and checks that each one
// is present, hashes to its id, decodes, and has the kind its referrer
// expects. Gitlinks are not followed.
//
// It does not stop at the first problem: the returned error combines every
// failure found, and can be split with multierr.Errors. The count is the
// number of distinct objects visited.
func (db *ObjectDB) Verify(ctx context.Context, roots ...hash.Hash) (int, error) {
	logger := db.getLogger(ctx)

	seen := make(map[hash.Hash]bool, len(roots))
	var frontier []reference
	for _, root := range roots {
		if !seen[root] {
			seen[root] = true
			frontier = append(frontier, reference{id: root})
		}
	}

	var errs error
	visited := 0
	for len(frontier) > 0 {
		children := make([][]reference, len(frontier))
		failures := make([]error, len(frontier))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(db.concurrency)
		for i, ref := range frontier {
			g.Go(func() error {
				refs, err := db.verifyOne(gctx, ref)
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return ctxErr
					}
					failures[i] = err
					return nil
				}
				children[i] = refs
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return visited, err
		}
		visited += len(frontier)

		var next []reference
		for i := range frontier {
			errs = multierr.Append(errs, failures[i])
			for _, child := range children[i] {
				if !seen[child.id] {
					seen[child.id] = true
					next = append(next, child)
				}
			}
		}
		frontier = next
	}

	if errs != nil {
		logger.Warn("Verification failed", "objects", visited, "failures", len(multierr.Errors(errs)))
		return visited, errs
	}

	logger.Debug("Verification succeeded", "objects", visited)
	return visited, nil
}

// verifyOne checks a single object, always with hash verification, and
// returns the references it holds.
func (db *ObjectDB) verifyOne(ctx context.Context, ref reference) ([]reference, error) {
	t, body, err := db.readRecord(ctx, ref.id)
	if err != nil {
		return nil, err
	}
	if ref.want != object.TypeInvalid && t != ref.want {
		if !decodesAs(ref.want, body) {
			return nil, NewUnexpectedObjectTypeError(ref.id, ref.want, t)
		}
		t = ref.want
	}

	obj, err := DecodeObjectVerified(t, ref.id, body)
	if err != nil {
		return nil, fmt.Errorf("verify %s %s: %w", t.Bytes(), ref.id, err)
	}

	switch o := obj.(type) {
	case *Commit:
		refs := make([]reference, 0, len(o.Parents)+1)
		refs = append(refs, reference{id: o.Tree, want: object.TypeTree})
		for _, parent := range o.Parents {
			refs = append(refs, reference{id: parent, want: object.TypeCommit})
		}
		return refs, nil
	case *Tree:
		refs := make([]reference, 0, o.Len())
		for _, entry := range o.entries {
			if entry.Mode == object.ModeCommit {
				continue
			}
			refs = append(refs, reference{id: entry.ID, want: entry.Type()})
		}
		return refs, nil
	case *Tag:
		return []reference{{id: o.Object, want: o.ObjectType}}, nil
	default:
		return nil, nil
	}
}
