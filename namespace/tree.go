package namespace

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// DefaultDigestLen is the number of digest bytes used as node identity.
const DefaultDigestLen = 8

// digestSize is the full width of one xxhash round.
const digestSize = 8

// tree is the hash-indexed hierarchical node store. Every path prefix gets
// its own node, keyed by a truncated digest of the prefix string. Nodes are
// never deleted.
type tree struct {
	digestLen int
	index     map[string]*Node
	root      *Node
	log       *zap.SugaredLogger
}

func newTree(digestLen int, log *zap.SugaredLogger) *tree {
	if digestLen < 1 || digestLen > digestSize {
		digestLen = DefaultDigestLen
	}
	return &tree{
		digestLen: digestLen,
		index:     make(map[string]*Node),
		log:       log,
	}
}

// resolve returns the node for pth, creating it and its whole ancestor chain
// if absent. ruleCreated marks the leaf as the target of a rule; implicit
// marks nodes created by the inheritance pass. Flags are set at creation
// only; resolving an existing node never changes them.
func (t *tree) resolve(pth string, ruleCreated, implicit bool) *Node {
	if _, node := t.uniqueDigest(pth); node != nil {
		return node
	}

	components := strings.Split(pth, "/")
	var parent *Node
	parentPath := ""
	haveParent := false
	for _, comp := range components {
		childPath := ""
		if haveParent {
			childPath = parentPath + "/" + comp
		}
		digest, node := t.uniqueDigest(childPath)
		if node == nil {
			node = &Node{
				path:        childPath,
				tag:         comp,
				parent:      parent,
				ruleCreated: ruleCreated && childPath == pth,
				implicit:    implicit,
			}
			t.index[digest] = node
			if parent == nil {
				t.root = node
			} else {
				parent.children = append(parent.children, node)
			}
		}
		parent = node
		parentPath = childPath
		haveParent = true
	}
	return parent
}

// uniqueDigest returns the digest key owned by pth, together with the node
// stored there if pth already exists. A key occupied by a different path is
// a collision: the digest is fed back through the hash until a free slot or
// the exact path is found. Distinct paths therefore never share an identity,
// whatever the digest length.
func (t *tree) uniqueDigest(pth string) (string, *Node) {
	buf := []byte(pth)
	for attempt := 0; ; attempt++ {
		var sum [digestSize]byte
		binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(buf))
		key := string(sum[:t.digestLen])
		node, occupied := t.index[key]
		if !occupied || node.path == pth {
			if attempt > 0 {
				t.log.Debugw("digest collision resolved by rehashing",
					"path", pth, "attempts", attempt+1)
			}
			return key, node
		}
		buf = sum[:]
	}
}

// Len returns the number of nodes in the tree.
func (t *tree) Len() int { return len(t.index) }
