package namespace

import (
	"sort"

	"github.com/teranos/vspace/errors"
	"github.com/teranos/vspace/graph"
	"github.com/teranos/vspace/logger"
)

// SpaceUpdate commits all pending declarations.
//
// It runs in two passes around one inheritance pass: the first internal
// update applies the queued literal and subspace-derived edits in dependency
// order; the inheritance pass synthesizes all-descendants nodes and queues
// the membership they inherit; the second internal update applies those
// queued edits, marked as inherited.
//
// A cycle in the subspace-reference graph aborts the whole call with
// errors.ErrDependencyCycle before any mutation: every pending list is left
// exactly as declared so a corrected configuration can be retried.
func (ns *NameSpace) SpaceUpdate() error {
	if err := ns.updateInternal(true); err != nil {
		return err
	}
	ns.inheritancePass()
	return ns.updateInternal(false)
}

// updateInternal applies every space's pending edits in topological order.
// processingRules marks directly-applied bits as rule-set; subspace-derived
// bits are always marked inherited.
func (ns *NameSpace) updateInternal(processingRules bool) error {
	order, err := ns.buildTopo()
	if err != nil {
		ns.log.Errorw("subspace dependency cycle, update aborted", "error", err)
		return err
	}

	for _, id := range order {
		vs := ns.spaces[id]

		ns.spaceAddReal(vs, processingRules, vs.nodesAdd)
		for _, subName := range vs.subspacesAdd {
			if subID, ok := ns.space(subName, false); ok {
				ns.spaceAddReal(vs, false, ns.spaces[subID].MemberPaths())
			}
		}
		vs.nodesAdd = nil
		vs.subspacesAdd = nil

		ns.spaceSubReal(vs, processingRules, vs.nodesSub)
		for _, subName := range vs.subspacesSub {
			if subID, ok := ns.space(subName, false); ok {
				ns.spaceSubReal(vs, false, ns.spaces[subID].MemberPaths())
			}
		}
		vs.nodesSub = nil
		vs.subspacesSub = nil
	}
	return nil
}

// buildTopo derives the dependency graph from every space's pending subspace
// references and topologically orders the space indices. Unknown references
// get a diagnostic here and are skipped; they are not an error.
func (ns *NameSpace) buildTopo() ([]int, error) {
	g := graph.New(len(ns.spaces))
	for _, vs := range ns.spaces {
		for _, subName := range append(append([]string{}, vs.subspacesAdd...), vs.subspacesSub...) {
			subID, ok := ns.space(subName, false)
			if !ok {
				ns.log.Warnw("referenced subspace does not exist",
					"space", vs.name, "subspace", subName,
					"error", errors.ErrUnknownSubspace)
				continue
			}
			g.AddEdge(subID, vs.index)
		}
	}
	return g.TopoSort()
}

// spaceAddReal activates paths in the space: the realized member set grows
// and each path's node gets the positive bit, materializing nodes as needed.
func (ns *NameSpace) spaceAddReal(vs *VirtualSpace, byRule bool, paths []string) {
	trace := logger.ShouldLogTrace(ns.verbosity)
	for _, pth := range paths {
		vs.members[pth] = struct{}{}
		node := ns.tree.resolve(pth, true, false)
		node.mask.Set(vs.index, byRule)
		if trace {
			ns.log.Debugw("mask set",
				"space", vs.name, "path", pth, "byRule", byRule)
		}
	}
}

// spaceSubReal deactivates paths in the space: the realized member set
// shrinks and each path's node gets the negative bit.
func (ns *NameSpace) spaceSubReal(vs *VirtualSpace, byRule bool, paths []string) {
	trace := logger.ShouldLogTrace(ns.verbosity)
	for _, pth := range paths {
		delete(vs.members, pth)
		node := ns.tree.resolve(pth, true, false)
		node.mask.Unset(vs.index, byRule)
		if trace {
			ns.log.Debugw("mask unset",
				"space", vs.name, "path", pth, "byRule", byRule)
		}
	}
}

// inheritancePass walks the tree breadth-first, skipping the synthetic
// all-descendants nodes together with everything below them — a subtree
// hanging under a catch-all, such as the nodes an interior wildcard
// materializes, is pattern structure rather than a concrete path and takes
// no part in inheritance. Every visited node gets an all-descendants child. The root's child inherits nothing. At every other
// node the union of the parent-level catch-all membership — an existing
// all-descendants sibling plus whatever this pass already queued for the
// parent — is queued as add rules for the node and for its own
// all-descendants child, pushing an ancestor's catch-all membership down to
// catch-alls that have not been explicitly constrained yet.
//
// The queued rules are applied by the second internal update, with the
// processing-rules flag off, so every bit they set is marked inherited.
func (ns *NameSpace) inheritancePass() {
	root := ns.tree.root
	if root == nil {
		return
	}

	queued := make(map[string][]int) // all-descendants path -> space ids queued this pass
	work := []*Node{root}
	for len(work) > 0 {
		n := work[0]
		work = work[1:]
		if n.tag == AllDescendants {
			continue
		}
		work = append(work, n.children...)

		var inherited []int
		if n.parent != nil {
			set := make(map[int]struct{})
			if sibling := n.parent.child(AllDescendants); sibling != nil {
				for _, id := range sibling.mask.Positives() {
					set[id] = struct{}{}
				}
			}
			for _, id := range queued[n.parent.path+"/"+AllDescendants] {
				set[id] = struct{}{}
			}
			inherited = make([]int, 0, len(set))
			for id := range set {
				inherited = append(inherited, id)
			}
			sort.Ints(inherited)
		}

		childPath := n.path + "/" + AllDescendants
		if n.child(AllDescendants) == nil {
			ns.tree.resolve(childPath, false, true)
		}
		if len(inherited) > 0 {
			queued[childPath] = inherited
			for _, id := range inherited {
				vs := ns.spaces[id]
				vs.nodesAdd = append(vs.nodesAdd, n.path, childPath)
			}
			ns.log.Debugw("queued inherited membership",
				"path", n.path, "spaces", len(inherited))
		}
	}
}
