package namespace

import (
	"sort"

	"go.uber.org/zap"
)

// VirtualSpace holds one space's bookkeeping: its stable index, the pending
// edit lists accumulated between updates, and the realized set of member
// paths.
type VirtualSpace struct {
	name  string
	index int

	// Realized member paths, maintained by SpaceUpdate.
	members map[string]struct{}

	// Pending edits, cleared after each application.
	nodesAdd     []string
	nodesSub     []string
	subspacesAdd []string
	subspacesSub []string
}

func newVirtualSpace(name string, index int) *VirtualSpace {
	return &VirtualSpace{
		name:    name,
		index:   index,
		members: make(map[string]struct{}),
	}
}

// Name returns the space name.
func (vs *VirtualSpace) Name() string { return vs.name }

// Index returns the stable integer index; bit i in every node mask belongs
// to the space with index i.
func (vs *VirtualSpace) Index() int { return vs.index }

// MemberPaths returns the realized member paths, sorted.
func (vs *VirtualSpace) MemberPaths() []string {
	paths := make([]string, 0, len(vs.members))
	for p := range vs.members {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// NameSpace owns the path tree and the space registry. It is the single
// entry point for declaring, committing and querying virtual spaces.
type NameSpace struct {
	counter   int
	nameIndex map[string]int
	spaces    []*VirtualSpace
	tree      *tree
	log       *zap.SugaredLogger
	digestLen int
	verbosity int
}

// Option configures a NameSpace at construction time.
type Option func(*NameSpace)

// WithDigestLen sets the node identity digest length in bytes (1..8).
// Shorter digests raise the collision-rehash rate; identity stays exact
// either way.
func WithDigestLen(n int) Option {
	return func(ns *NameSpace) { ns.digestLen = n }
}

// WithVerbosity sets the CLI verbosity count; at trace level (-vvv) every
// mask mutation during an update is logged.
func WithVerbosity(v int) Option {
	return func(ns *NameSpace) { ns.verbosity = v }
}

// New creates an empty NameSpace. A nil logger is replaced by a no-op one.
func New(log *zap.SugaredLogger, opts ...Option) *NameSpace {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ns := &NameSpace{
		nameIndex: make(map[string]int),
		log:       log.Named("namespace"),
		digestLen: DefaultDigestLen,
	}
	for _, opt := range opts {
		opt(ns)
	}
	ns.tree = newTree(ns.digestLen, ns.log)
	return ns
}

// space maps a name to its index. With create, an unseen name is assigned
// the next counter value; indices are never reused. Without create, the
// second return is false for unseen names — an undeclared subspace reference
// is a recoverable configuration issue, not a reason to mint a space.
func (ns *NameSpace) space(name string, create bool) (int, bool) {
	if id, ok := ns.nameIndex[name]; ok {
		return id, true
	}
	if !create {
		return 0, false
	}
	id := ns.counter
	ns.counter++
	ns.nameIndex[name] = id
	ns.spaces = append(ns.spaces, newVirtualSpace(name, id))
	return id, true
}

// Space returns the VirtualSpace for name, or nil if it was never declared.
func (ns *NameSpace) Space(name string) *VirtualSpace {
	id, ok := ns.space(name, false)
	if !ok {
		return nil
	}
	return ns.spaces[id]
}

// Spaces returns all declared spaces in index order.
func (ns *NameSpace) Spaces() []*VirtualSpace {
	return ns.spaces
}

// SpaceAdd enqueues inclusion rules for the named space, creating the space
// if unseen. Rules are absolute paths, patterns, or bare subspace names; see
// compileRule for the grammar. All rules are validated before any of them is
// queued, so a grammar error leaves the space untouched.
func (ns *NameSpace) SpaceAdd(name string, rules ...string) error {
	compiled, err := ns.compileRules(name, rules)
	if err != nil {
		return err
	}
	id, _ := ns.space(name, true)
	vs := ns.spaces[id]
	for _, cr := range compiled {
		if cr.subspace != "" {
			vs.subspacesAdd = append(vs.subspacesAdd, cr.subspace)
			continue
		}
		vs.nodesAdd = append(vs.nodesAdd, cr.adds...)
		vs.nodesSub = append(vs.nodesSub, cr.subs...)
	}
	return nil
}

// SpaceSub enqueues exclusion rules for the named space, creating the space
// if unseen. The grammar is the same as SpaceAdd's; the interpreted lists
// are queued with their roles mirrored.
func (ns *NameSpace) SpaceSub(name string, rules ...string) error {
	compiled, err := ns.compileRules(name, rules)
	if err != nil {
		return err
	}
	id, _ := ns.space(name, true)
	vs := ns.spaces[id]
	for _, cr := range compiled {
		if cr.subspace != "" {
			vs.subspacesSub = append(vs.subspacesSub, cr.subspace)
			continue
		}
		vs.nodesSub = append(vs.nodesSub, cr.adds...)
		vs.nodesAdd = append(vs.nodesAdd, cr.subs...)
	}
	return nil
}

func (ns *NameSpace) compileRules(name string, rules []string) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr, err := compileRule(r)
		if err != nil {
			ns.log.Errorw("rejected rule", "space", name, "rule", r, "error", err)
			return nil, err
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

// SpaceTest reports whether every given path currently tests
// positive-minus-negative for the named space. Untested paths are resolved
// as a side effect, materializing tree structure, but membership bits are
// never altered by a probe.
func (ns *NameSpace) SpaceTest(name string, paths ...string) bool {
	id, _ := ns.space(name, true)
	for _, p := range paths {
		if !ns.tree.resolve(p, false, false).mask.Test(id) {
			return false
		}
	}
	return true
}
