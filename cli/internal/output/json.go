package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// JSONFormatter outputs in JSON format
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONFormatter{
		encoder: enc,
	}
}

type initOutput struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

func (f *JSONFormatter) FormatInit(path string, created bool) error {
	return f.encoder.Encode(initOutput{Path: path, Created: created})
}

type hashOutput struct {
	ID      string `json:"id"`
	GitID   string `json:"git_id"`
	Type    string `json:"type"`
	Size    int    `json:"size"`
	Written bool   `json:"written"`
}

func (f *JSONFormatter) FormatHash(result HashResult) error {
	return f.encoder.Encode(hashOutput{
		ID:      result.ID.String(),
		GitID:   result.GitID.String(),
		Type:    string(result.Type.Bytes()),
		Size:    result.Size,
		Written: result.Written,
	})
}

type objectInfoOutput struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

func (f *JSONFormatter) FormatObjectInfo(id hash.Hash, kind object.Type, size int) error {
	return f.encoder.Encode(objectInfoOutput{
		ID:   id.String(),
		Type: string(kind.Bytes()),
		Size: size,
	})
}

// treeEntryOutput represents a tree entry for JSON output
type treeEntryOutput struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
	Hash string `json:"hash"`
	Path string `json:"path"`
	Name string `json:"name"`
}

type headerOutput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type signatureOutput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Timestamp uint64 `json:"timestamp"`
	Timezone  string `json:"timezone"`
}

type objectOutput struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Size    int               `json:"size"`
	Content *string           `json:"content,omitempty"`
	Entries []treeEntryOutput `json:"entries,omitempty"`

	Tree      string           `json:"tree,omitempty"`
	Parents   []string         `json:"parents,omitempty"`
	Author    *signatureOutput `json:"author,omitempty"`
	Committer *signatureOutput `json:"committer,omitempty"`

	Object     string           `json:"object,omitempty"`
	ObjectType string           `json:"object_type,omitempty"`
	Name       string           `json:"name,omitempty"`
	Tagger     *signatureOutput `json:"tagger,omitempty"`

	Headers []headerOutput `json:"headers,omitempty"`
	Message *string        `json:"message,omitempty"`
}

func toSignatureOutput(sig object.Signature) *signatureOutput {
	return &signatureOutput{
		Name:      sig.Name,
		Email:     sig.Email,
		Timestamp: sig.Timestamp,
		Timezone:  sig.Timezone,
	}
}

func toHeadersOutput(headers []gitobject.Header) []headerOutput {
	out := make([]headerOutput, 0, len(headers))
	for _, h := range headers {
		out = append(out, headerOutput{Key: h.Key, Value: h.Value})
	}
	return out
}

// FormatObject outputs every field of a decoded object
func (f *JSONFormatter) FormatObject(id hash.Hash, obj gitobject.Object) error {
	out := objectOutput{
		ID:   id.String(),
		Type: string(obj.Type().Bytes()),
		Size: obj.Size(),
	}

	switch o := obj.(type) {
	case *gitobject.Blob:
		content := string(o.Content())
		out.Content = &content
	case *gitobject.Tree:
		for _, entry := range o.Entries() {
			out.Entries = append(out.Entries, treeEntryOutput{
				Type: string(entry.Type().Bytes()),
				Mode: fmt.Sprintf("%06o", uint32(entry.Mode)),
				Hash: entry.ID.String(),
				Path: entry.Name,
				Name: entry.Name,
			})
		}
	case *gitobject.Commit:
		out.Tree = o.Tree.String()
		for _, parent := range o.Parents {
			out.Parents = append(out.Parents, parent.String())
		}
		out.Author = toSignatureOutput(o.Author)
		out.Committer = toSignatureOutput(o.Committer)
		out.Headers = toHeadersOutput(o.ExtraHeaders)
		out.Message = &o.Message
	case *gitobject.Tag:
		out.Object = o.Object.String()
		out.ObjectType = string(o.ObjectType.Bytes())
		out.Name = o.Name
		out.Tagger = toSignatureOutput(o.Tagger)
		out.Headers = toHeadersOutput(o.ExtraHeaders)
		out.Message = &o.Message
	}

	return f.encoder.Encode(out)
}

// FormatTreeEntries outputs tree entries in JSON format
func (f *JSONFormatter) FormatTreeEntries(entries []gitobject.FlatTreeEntry) error {
	output := make([]treeEntryOutput, len(entries))
	for i, entry := range entries {
		output[i] = treeEntryOutput{
			Type: string(entry.Type.Bytes()),
			Mode: fmt.Sprintf("%06o", uint32(entry.Mode)),
			Hash: entry.ID.String(),
			Path: entry.Path,
			Name: entry.Name,
		}
	}
	return f.encoder.Encode(map[string]interface{}{
		"entries": output,
	})
}

type verifyOutput struct {
	OK      bool     `json:"ok"`
	Objects int      `json:"objects"`
	Errors  []string `json:"errors"`
}

func (f *JSONFormatter) FormatVerify(result VerifyResult) error {
	out := verifyOutput{
		OK:      len(result.Errors) == 0,
		Objects: result.Objects,
		Errors:  make([]string, 0, len(result.Errors)),
	}
	for _, err := range result.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	return f.encoder.Encode(out)
}

type cidOutput struct {
	ID    string `json:"id"`
	GitID string `json:"git_id"`
	CID   string `json:"cid"`
}

func (f *JSONFormatter) FormatCID(id, gitID hash.Hash, cid string) error {
	return f.encoder.Encode(cidOutput{ID: id.String(), GitID: gitID.String(), CID: cid})
}

type signatureCheckOutput struct {
	ID          string `json:"id"`
	Valid       bool   `json:"valid"`
	KeyType     string `json:"key_type"`
	Fingerprint string `json:"fingerprint"`
}

func (f *JSONFormatter) FormatSignature(id hash.Hash, keyType, fingerprint string) error {
	return f.encoder.Encode(signatureCheckOutput{
		ID:          id.String(),
		Valid:       true,
		KeyType:     keyType,
		Fingerprint: fingerprint,
	})
}
