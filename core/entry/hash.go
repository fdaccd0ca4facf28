package entry

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/zeebo/xxh3"
)

// Digest is the order-independent structural hash of an entry.
type Digest [16]byte

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Less orders digests bytewise.
func (d Digest) Less(other Digest) bool {
	return bytes.Compare(d[:], other[:]) < 0
}

const (
	tagLeaf byte = 'F'
	tagNode byte = 'D'
	tagRoot byte = 'R'
)

// Hash returns the structural digest of e.
//
// Structurally equal entries hash identically: child digests are sorted
// before they are combined, and a root's version is left out just as it is
// left out of Equal.
func Hash(e Entry) Digest {
	switch v := e.(type) {
	case *Leaf:
		if v == nil {
			return Digest{}
		}
		return hashLeaf(v)
	case *Node:
		if v == nil {
			return Digest{}
		}
		return hashNode(v)
	default:
		return Digest{}
	}
}

func hashLeaf(l *Leaf) Digest {
	h := xxh3.New()
	h.Write([]byte{tagLeaf})
	writeString(h, l.name)
	return h.Sum128().Bytes()
}

func hashNode(n *Node) Digest {
	children := make([]Digest, 0, n.Len())
	for _, l := range n.leaves {
		children = append(children, hashLeaf(l))
	}
	for _, group := range n.dirs {
		for _, d := range group {
			children = append(children, hashNode(d))
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Less(children[j])
	})

	h := xxh3.New()
	if n.root {
		h.Write([]byte{tagNode, tagRoot})
	} else {
		h.Write([]byte{tagNode, 0})
		writeString(h, n.name)
	}
	var count [8]byte
	binary.BigEndian.PutUint64(count[:], uint64(len(children)))
	h.Write(count[:])
	for _, c := range children {
		h.Write(c[:])
	}
	return h.Sum128().Bytes()
}

// writeString writes a length-prefixed string so that adjacent fields
// cannot run into each other.
func writeString(h *xxh3.Hasher, s string) {
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(s)))
	h.Write(size[:])
	h.Write([]byte(s))
}
