// Package namespace classifies hierarchical resource paths into named,
// overlapping virtual spaces.
//
// Callers declare, per space, which paths or other spaces should be included
// or excluded, using a small pattern language (exact paths, one-level
// wildcards, recursive subtrees). SpaceUpdate resolves the declarations into
// per-path membership bitmasks, composing subspaces in dependency order and
// propagating recursive rules through synthesized all-descendants nodes.
//
// A NameSpace is exclusively owned by its creator. All calls are synchronous
// and none of them is safe for concurrent use; a consumer needing shared
// access must serialize calls externally.
package namespace
