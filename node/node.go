package node

import (
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"
)

// Node is a 256-bit hierarchical identifier.
//
// A node is derived from its parent node and a label hash; the zero
// value is the registry root. Nodes are opaque: callers must not
// assume anything about their bytes beyond equality.
type Node [32]byte

// LabelHash is the SHA3-256 digest of a label's raw bytes.
type LabelHash [32]byte

// Root is the root node every org node is derived from.
var Root Node

// HashLabel returns the label hash for raw label bytes.
//
// It performs no validation; use CheckLabel when the label comes from
// an untrusted caller.
func HashLabel(label string) LabelHash {
	return LabelHash(sha3.Sum256([]byte(label)))
}

// Derive combines a parent node and a label hash into the child node.
//
// The combination is order-sensitive: parent bytes are hashed first.
// This is the single derivation scheme used for org, app, version and
// alias nodes, so observers can predict node identifiers from labels.
func Derive(parent Node, label LabelHash) Node {
	h := sha3.New256()
	_, _ = h.Write(parent[:])
	_, _ = h.Write(label[:])
	var out Node
	copy(out[:], h.Sum(nil))
	return out
}

// DeriveLabel validates and hashes a raw label, then derives the child
// node. It is the lookup-side composition of CheckLabel and Derive and
// mutates no state.
func DeriveLabel(parent Node, label string) (Node, error) {
	lh, err := CheckLabel(label)
	if err != nil {
		return Node{}, err
	}
	return Derive(parent, lh), nil
}

// String returns the node as 64 lower-hex characters.
func (n Node) String() string { return hex.EncodeToString(n[:]) }

// CID returns the node as a CIDv1 (raw codec, sha3-256 multihash).
//
// The node already is a sha3-256 digest, so it is wrapped as-is rather
// than re-hashed; CID(n) and the hex form name the same identifier.
func (n Node) CID() cid.Cid {
	mh, err := multihash.Encode(n[:], multihash.SHA3_256)
	if err != nil {
		// Encode only fails for unknown codes; SHA3_256 is registered.
		return cid.Undef
	}
	return cid.NewCidV1(cid.Raw, mh)
}

// Parse decodes a node from its hex form or its CID form.
func Parse(s string) (Node, error) {
	if len(s) == 64 {
		b, err := hex.DecodeString(s)
		if err == nil {
			var n Node
			copy(n[:], b)
			return n, nil
		}
	}
	c, err := cid.Decode(s)
	if err != nil {
		return Node{}, fmt.Errorf("node: not a hex node or CID: %q", s)
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil {
		return Node{}, fmt.Errorf("node: bad multihash: %w", err)
	}
	if dec.Code != multihash.SHA3_256 || dec.Length != 32 {
		return Node{}, fmt.Errorf("node: CID must carry a sha3-256 multihash")
	}
	var n Node
	copy(n[:], dec.Digest)
	return n, nil
}
