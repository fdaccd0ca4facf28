package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"media-catalog/core/entry"

	"go.uber.org/zap"
)

// ErrMalformedDocument is returned when a snapshot document cannot be decoded.
var ErrMalformedDocument = errors.New("malformed snapshot document")

// document is the interchange form of a node.
// Exactly one of Version and SubdirPath is set when encoding.
type document struct {
	Version    *string   `json:"version,omitempty"`
	SubdirPath *fileName `json:"subdir_path,omitempty"`
	Index      []item    `json:"index"`
}

// item is a bare file name or a nested document.
type item struct {
	leaf fileName
	dir  *document
}

func (i item) MarshalJSON() ([]byte, error) {
	if i.dir != nil {
		return json.Marshal(i.dir)
	}
	return i.leaf.MarshalJSON()
}

// rawDocument is the decoding counterpart of document. Fields are kept raw so
// that absent and null values can be told apart, and so that names are
// decoded by unquoteName.
type rawDocument struct {
	Version    *string           `json:"version"`
	SubdirPath json.RawMessage   `json:"subdir_path"`
	Index      []json.RawMessage `json:"index"`
}

// Marshal encodes the tree rooted at n. Children are written in canonical
// order, so equal trees produce identical documents.
func Marshal(n *entry.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot encode a nil node")
	}
	return json.Marshal(toDocument(n))
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(n *entry.Node, prefix, indent string) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot encode a nil node")
	}
	return json.MarshalIndent(toDocument(n), prefix, indent)
}

func toDocument(n *entry.Node) *document {
	doc := &document{}
	if version, ok := n.Version(); ok {
		doc.Version = &version
	} else {
		name, _ := n.Name()
		if name == "" {
			zap.L().Warn("Empty subdirectory name in snapshot; writing blank subdir_path")
		}
		subdir := fileName(name)
		doc.SubdirPath = &subdir
	}

	leaves := n.Leaves()
	dirs := n.Dirs()
	doc.Index = make([]item, 0, len(leaves)+len(dirs))
	for _, l := range leaves {
		doc.Index = append(doc.Index, item{leaf: fileName(l.Name())})
	}
	for _, d := range dirs {
		doc.Index = append(doc.Index, item{dir: toDocument(d)})
	}
	return doc
}

// Unmarshal decodes a document into a node. A top-level document carrying a
// version becomes a root node; otherwise it becomes a named node.
//
// Decoding is lenient where the catalog has always been lenient: a missing
// or null subdir_path is read as an empty name and null index items are
// dropped, both with a warning.
func Unmarshal(data []byte) (*entry.Node, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return fromDocument(&raw, true)
}

// UnmarshalSnapshot decodes a persisted snapshot, which must be a root document.
func UnmarshalSnapshot(data []byte) (*entry.Node, error) {
	root, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if !root.IsRoot() {
		return nil, fmt.Errorf("%w: top-level document has no version", ErrMalformedDocument)
	}
	return root, nil
}

func fromDocument(raw *rawDocument, topLevel bool) (*entry.Node, error) {
	if raw.Index == nil {
		return nil, fmt.Errorf("%w: missing index", ErrMalformedDocument)
	}

	var node *entry.Node
	switch {
	case raw.Version != nil && topLevel:
		node = entry.NewRoot(*raw.Version)
	case raw.Version != nil:
		return nil, fmt.Errorf("%w: nested document carries a version", ErrMalformedDocument)
	case len(raw.SubdirPath) > 0 && string(bytes.TrimSpace(raw.SubdirPath)) != "null":
		name, err := unquoteName(bytes.TrimSpace(raw.SubdirPath))
		if err != nil {
			return nil, fmt.Errorf("subdir_path: %w", err)
		}
		node = entry.NewDir(name)
	default:
		zap.L().Warn("Missing subdirectory name in snapshot document. Coercing to blank")
		node = entry.NewDir("")
	}

	for i, msg := range raw.Index {
		child, err := decodeItem(msg)
		if err != nil {
			return nil, fmt.Errorf("index item %d: %w", i, err)
		}
		// A null item reaches AddChild as nil and is dropped with a warning.
		node.AddChild(child)
	}
	return node, nil
}

// decodeItem returns nil (and no error) for a JSON null.
func decodeItem(msg json.RawMessage) (entry.Entry, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty index item", ErrMalformedDocument)
	}

	switch trimmed[0] {
	case '"':
		name, err := unquoteName(trimmed)
		if err != nil {
			return nil, err
		}
		return entry.NewLeaf(name), nil
	case '{':
		var raw rawDocument
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return fromDocument(&raw, false)
	case 'n':
		if string(trimmed) == "null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w: index item must be a string or an object, got %s", ErrMalformedDocument, string(trimmed))
}
