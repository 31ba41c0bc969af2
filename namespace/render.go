package namespace

import (
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

// RenderOptions controls how the namespace tree is formatted.
type RenderOptions struct {
	// ShowProvenance prefixes inherited memberships with "~".
	ShowProvenance bool
	// ShowExclusions lists explicitly excluded spaces with a "!" prefix.
	ShowExclusions bool
}

// DefaultRenderOptions shows provenance and exclusions.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{ShowProvenance: true, ShowExclusions: true}
}

// Render formats the whole tree with per-node space membership. Reading the
// tree never mutates it.
func (ns *NameSpace) Render() (string, error) {
	return ns.RenderWith(DefaultRenderOptions())
}

// RenderWith is Render with explicit options.
func (ns *NameSpace) RenderWith(opts RenderOptions) (string, error) {
	if ns.tree.root == nil {
		return "(empty namespace)\n", nil
	}
	var list pterm.LeveledList
	ns.renderNode(&list, ns.tree.root, 0, opts)
	return pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(list)).Srender()
}

// Print writes the rendered tree to stdout.
func (ns *NameSpace) Print() {
	out, err := ns.Render()
	if err != nil {
		ns.log.Errorw("failed to render namespace tree", "error", err)
		return
	}
	pterm.Print(out)
}

func (ns *NameSpace) renderNode(list *pterm.LeveledList, n *Node, level int, opts RenderOptions) {
	*list = append(*list, pterm.LeveledListItem{Level: level, Text: ns.nodeLabel(n, opts)})
	for _, c := range n.children {
		ns.renderNode(list, c, level+1, opts)
	}
}

// nodeLabel is the node's tag followed by its space annotations:
// member spaces by name, "~name" for inherited membership, "!name" for an
// explicit exclusion.
func (ns *NameSpace) nodeLabel(n *Node, opts RenderOptions) string {
	tag := n.tag
	if tag == "" {
		if n.parent == nil {
			tag = "(root)"
		} else {
			tag = "/"
		}
	}

	annotations := make([]string, 0, 4)
	ids := n.mask.Positives()
	if opts.ShowExclusions {
		ids = mergeIDs(ids, n.mask.Negatives())
	}
	for _, id := range ids {
		name := ns.spaces[id].name
		switch {
		case n.mask.Test(id):
			if opts.ShowProvenance && !n.mask.SetByRule(id) {
				name = "~" + name
			}
		case opts.ShowExclusions && n.mask.neg.test(id):
			name = "!" + name
		default:
			continue
		}
		annotations = append(annotations, name)
	}

	if len(annotations) == 0 {
		return tag
	}
	return tag + "  [" + strings.Join(annotations, " ") + "]"
}

// mergeIDs unions two ascending id slices.
func mergeIDs(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, id := range append(append([]int{}, a...), b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
