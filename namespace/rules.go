package namespace

import (
	"slices"
	"strings"

	"github.com/teranos/vspace/errors"
)

// Rule grammar tokens.
const (
	// RecursiveKeyword prefixes a rule that covers a path and its whole
	// subtree. It applies to absolute paths only, never to subspace
	// references.
	RecursiveKeyword = "recursive"

	// AllDescendants is the synthetic path component standing for every
	// descendant of its parent, at any depth.
	AllDescendants = ".*"

	// OneLevel is the path component standing for exactly one level of
	// children.
	OneLevel = "*"

	// FullSubtree is the grammar token rewritten to AllDescendants.
	FullSubtree = "**"
)

// compiledRule is the primitive form of one rule string: either a bare
// subspace reference, or a pair of absolute-path lists queued exactly as if
// the caller had supplied them directly.
type compiledRule struct {
	subspace string
	adds     []string
	subs     []string
}

// compileRule translates one rule string into primitive add/sub path lists.
//
// Grammar:
//
//	/literal/path            the path itself
//	recursive /literal/path  the path and all of its descendants
//	/literal/path/*          immediate children only
//	/literal/path/**         all descendants
//	/a/*/c                   interior one-level wildcard
//	/a/**/c                  interior all-descendants marker
//	subspace_name            composition reference (no leading separator)
//
// The recursive keyword on a bare subspace reference is a configuration
// error, raised here before anything is queued.
func compileRule(rule string) (compiledRule, error) {
	trimmed := strings.TrimSpace(rule)
	recursive := false
	if rest, ok := strings.CutPrefix(trimmed, RecursiveKeyword+" "); ok {
		recursive = true
		trimmed = strings.TrimSpace(rest)
	}

	if !strings.HasPrefix(trimmed, "/") {
		if recursive {
			return compiledRule{}, errors.WithHint(
				errors.NewInvalidRuleError("recursive keyword on subspace reference %q", trimmed),
				"the recursive keyword applies to absolute paths only")
		}
		return compiledRule{subspace: trimmed}, nil
	}

	var out compiledRule
	for _, variant := range expandInterior(strings.Split(trimmed, "/")) {
		adds, subs := expandTrailing(variant, recursive)
		out.adds = append(out.adds, adds...)
		out.subs = append(out.subs, subs...)
	}
	return out, nil
}

// expandInterior rewrites interior full-subtree tokens to the canonical
// all-descendants marker and expands interior one-level wildcards. Each
// interior one-level wildcard doubles the variant set: one branch matches
// exactly one path component, the other matches two. The expansion is
// exponential in the interior wildcard count; that is the documented cost of
// the grammar, not something to cap here. Variant order is deterministic:
// the shorter branch always precedes the longer one.
func expandInterior(components []string) [][]string {
	variants := [][]string{{}}
	last := len(components) - 1
	for i, comp := range components {
		interior := i != last
		switch {
		case interior && comp == FullSubtree:
			for vi := range variants {
				variants[vi] = append(variants[vi], AllDescendants)
			}
		case interior && comp == OneLevel:
			next := make([][]string, 0, len(variants)*2)
			for _, v := range variants {
				one := append(slices.Clone(v), OneLevel)
				two := append(slices.Clone(v), OneLevel, OneLevel)
				next = append(next, one, two)
			}
			variants = next
		default:
			for vi := range variants {
				variants[vi] = append(variants[vi], comp)
			}
		}
	}
	return variants
}

// expandTrailing applies the trailing-position policy to one interior-expanded
// variant:
//
//   - trailing ** becomes the all-descendants marker alone
//   - trailing * becomes the one-level marker plus a sub rule capping its own
//     descendants; under the recursive keyword it behaves like **
//   - a plain trailing component yields the path itself, plus its
//     all-descendants marker under the recursive keyword
func expandTrailing(components []string, recursive bool) (adds, subs []string) {
	lastTag := components[len(components)-1]
	prefix := strings.Join(components[:len(components)-1], "/")
	switch lastTag {
	case FullSubtree:
		return []string{prefix + "/" + AllDescendants}, nil
	case OneLevel:
		if recursive {
			return []string{prefix + "/" + AllDescendants}, nil
		}
		marker := prefix + "/" + OneLevel
		return []string{marker}, []string{marker + "/" + AllDescendants}
	default:
		full := strings.Join(components, "/")
		if recursive {
			return []string{full, full + "/" + AllDescendants}, nil
		}
		return []string{full}, nil
	}
}
