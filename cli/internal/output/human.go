package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// HumanFormatter outputs in human-readable format with colors
type HumanFormatter struct {
	w       io.Writer
	success *color.Color
	failure *color.Color
	info    *color.Color
	dim     *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(w io.Writer) *HumanFormatter {
	return &HumanFormatter{
		w:       w,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		dim:     color.New(color.Faint),
	}
}

func (f *HumanFormatter) FormatInit(path string, created bool) error {
	if created {
		_, err := f.success.Fprintf(f.w, "✓ Initialized empty object store in %s\n", path)
		return err
	}
	_, err := fmt.Fprintf(f.w, "Reinitialized existing object store in %s\n", path)
	return err
}

// FormatHash prints the id alone, like git hash-object
func (f *HumanFormatter) FormatHash(result HashResult) error {
	id := result.ID
	if result.ShowGitID {
		id = result.GitID
	}
	_, err := fmt.Fprintln(f.w, id.String())
	return err
}

func (f *HumanFormatter) FormatObjectInfo(id hash.Hash, kind object.Type, size int) error {
	_, err := fmt.Fprintf(f.w, "%s %d\n", kind.Bytes(), size)
	return err
}

// FormatObject prints blobs, commits and tags raw, and trees one entry per line
func (f *HumanFormatter) FormatObject(id hash.Hash, obj gitobject.Object) error {
	tree, ok := obj.(*gitobject.Tree)
	if !ok {
		_, err := f.w.Write(obj.Bytes())
		return err
	}

	for _, entry := range tree.Entries() {
		if _, err := fmt.Fprintln(f.w, entry.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTreeEntries outputs tree entries in human-readable format
func (f *HumanFormatter) FormatTreeEntries(entries []gitobject.FlatTreeEntry) error {
	for _, entry := range entries {
		// Format: [mode] [type] [hash]  [path]
		if _, err := fmt.Fprintf(f.w, "%s %s %s  %s\n",
			f.dim.Sprintf("%06o", uint32(entry.Mode)),
			f.info.Sprintf("%-6s", entry.Type.Bytes()),
			f.dim.Sprint(entry.ID.String()),
			entry.Path); err != nil {
			return err
		}
	}
	return nil
}

func (f *HumanFormatter) FormatVerify(result VerifyResult) error {
	for _, err := range result.Errors {
		if _, werr := f.failure.Fprintf(f.w, "✗ %v\n", err); werr != nil {
			return werr
		}
	}

	if len(result.Errors) == 0 {
		_, err := f.success.Fprintf(f.w, "ok: verified %d object(s)\n", result.Objects)
		return err
	}
	_, err := fmt.Fprintf(f.w, "%d problem(s) in %d object(s)\n", len(result.Errors), result.Objects)
	return err
}

func (f *HumanFormatter) FormatCID(id, gitID hash.Hash, cid string) error {
	_, err := fmt.Fprintln(f.w, cid)
	return err
}

func (f *HumanFormatter) FormatSignature(id hash.Hash, keyType, fingerprint string) error {
	_, err := f.success.Fprintf(f.w, "✓ Good signature on %s from %s key %s\n", id, keyType, fingerprint)
	return err
}
