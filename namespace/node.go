package namespace

import "math/bits"

// bitset is a growable bitmask indexed by space id. The zero value is ready
// to use.
type bitset []uint64

func (b *bitset) set(i int) {
	w := i >> 6
	for len(*b) <= w {
		*b = append(*b, 0)
	}
	(*b)[w] |= 1 << (uint(i) & 63)
}

func (b *bitset) unset(i int) {
	w := i >> 6
	if w < len(*b) {
		(*b)[w] &^= 1 << (uint(i) & 63)
	}
}

func (b bitset) test(i int) bool {
	w := i >> 6
	return w < len(b) && b[w]&(1<<(uint(i)&63)) != 0
}

func (b bitset) ones() []int {
	var out []int
	for w, word := range b {
		for word != 0 {
			out = append(out, w<<6+bits.TrailingZeros64(word))
			word &= word - 1
		}
	}
	return out
}

// Mask is the per-node membership state: a positive and a negative bitmask,
// each with a provenance bitmask recording which bits were asserted directly
// by a rule rather than inherited through composition or the inheritance
// pass.
//
// Effective membership in space i is positive[i] AND NOT negative[i]; a
// negative assertion always overrides a positive one for the same space.
type Mask struct {
	pos     bitset
	neg     bitset
	posRule bitset
	negRule bitset
}

// Set asserts positive membership in the given space. A direct (by-rule) set
// also withdraws any earlier negative assertion, so repeated
// add/sub/add cycles across commits converge to added. An inherited set does
// not touch the negative mask: an explicit exclusion survives a later add
// that targets an ancestor.
func (m *Mask) Set(spaceID int, byRule bool) {
	m.pos.set(spaceID)
	if byRule {
		m.posRule.set(spaceID)
		m.neg.unset(spaceID)
		m.negRule.unset(spaceID)
	}
}

// Unset asserts negative membership in the given space. The positive bit is
// left alone: an exclusion is a recorded assertion, distinguishable from
// "never included".
func (m *Mask) Unset(spaceID int, byRule bool) {
	m.neg.set(spaceID)
	if byRule {
		m.negRule.set(spaceID)
	}
}

// Test reports effective membership: positive and not negative.
func (m *Mask) Test(spaceID int) bool {
	return m.pos.test(spaceID) && !m.neg.test(spaceID)
}

// SetByRule reports whether the positive bit was asserted directly by a rule.
func (m *Mask) SetByRule(spaceID int) bool {
	return m.posRule.test(spaceID)
}

// UnsetByRule reports whether the negative bit was asserted directly by a rule.
func (m *Mask) UnsetByRule(spaceID int) bool {
	return m.negRule.test(spaceID)
}

// Positives returns the space ids with a positive assertion, ascending.
func (m *Mask) Positives() []int {
	return m.pos.ones()
}

// Negatives returns the space ids with a negative assertion, ascending.
func (m *Mask) Negatives() []int {
	return m.neg.ones()
}

// Node is one path (or path prefix) in the tree, identified by the digest of
// its full path string. The tree owns all nodes; parent links exist for
// traversal only.
type Node struct {
	path     string
	tag      string // last path component, kept for rendering
	parent   *Node
	children []*Node // declaration order
	mask     Mask

	ruleCreated bool // leaf of a rule application, not an auto-created ancestor
	implicit    bool // created during the inheritance pass
}

// Path returns the full path string of the node.
func (n *Node) Path() string { return n.path }

// Tag returns the last path component.
func (n *Node) Tag() string { return n.tag }

// Parent returns the parent node, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in creation order. The returned slice is
// owned by the tree and must not be mutated.
func (n *Node) Children() []*Node { return n.children }

// Mask returns the node's membership mask.
func (n *Node) Mask() *Mask { return &n.mask }

// RuleCreated reports whether the node was the target of a rule, as opposed
// to an ancestor materialized on the way to one.
func (n *Node) RuleCreated() bool { return n.ruleCreated }

// Implicit reports whether the node was synthesized by the inheritance pass.
func (n *Node) Implicit() bool { return n.implicit }

// child returns the direct child with the given tag, or nil.
func (n *Node) child(tag string) *Node {
	for _, c := range n.children {
		if c.tag == tag {
			return c
		}
	}
	return nil
}
