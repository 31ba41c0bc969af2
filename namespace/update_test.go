package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/vspace/errors"
)

func TestCycleAbortsWholeUpdate(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("space1", "/etc/gss/bc", "/etc/gss/mgr", "/etc/gss/phd", "space2"))
	require.NoError(t, ns.SpaceAdd("space2", "/etc/gss/bc", "/etc/gss/mgr", "/etc/gss/phd", "space3"))
	require.NoError(t, ns.SpaceAdd("space3", "/etc/gss/bc", "/etc/gss/mgr", "/etc/gss/phd", "space1"))

	err := ns.SpaceUpdate()
	require.Error(t, err)
	assert.True(t, errors.IsCycleError(err))

	// Zero mutation: nothing under any of the three spaces tests true.
	for _, space := range []string{"space1", "space2", "space3"} {
		assert.False(t, ns.SpaceTest(space, "/etc/gss/bc"))
		assert.False(t, ns.SpaceTest(space, "/etc/gss/mgr"))
		assert.False(t, ns.SpaceTest(space, "/etc/gss/phd"))
	}
}

func TestCycleLeavesPendingEditsUntouched(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("a", "/one", "b"))
	require.NoError(t, ns.SpaceAdd("b", "/two", "a"))
	require.Error(t, ns.SpaceUpdate())

	// The aborted call must not have consumed anything: the literal edits
	// and the subspace references are still queued, and a retry fails the
	// same way.
	assert.Equal(t, []string{"/one"}, ns.Space("a").nodesAdd)
	assert.Equal(t, []string{"b"}, ns.Space("a").subspacesAdd)
	assert.Equal(t, []string{"/two"}, ns.Space("b").nodesAdd)
	assert.Equal(t, []string{"a"}, ns.Space("b").subspacesAdd)

	err := ns.SpaceUpdate()
	require.Error(t, err)
	assert.True(t, errors.IsCycleError(err))
	assert.False(t, ns.SpaceTest("a", "/one"))
	assert.False(t, ns.SpaceTest("b", "/two"))
}

func TestSelfReferenceIsACycle(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("loop", "/x", "loop"))
	err := ns.SpaceUpdate()
	require.Error(t, err)
	assert.True(t, errors.IsCycleError(err))
	assert.False(t, ns.SpaceTest("loop", "/x"))
}

func TestRecursiveRuleCoversExistingDescendants(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("k", "/a/b/c/file"))
	require.NoError(t, ns.SpaceUpdate())

	require.NoError(t, ns.SpaceAdd("deep", "recursive /a/b"))
	require.NoError(t, ns.SpaceUpdate())

	assert.True(t, ns.SpaceTest("deep", "/a/b"))
	assert.True(t, ns.SpaceTest("deep", "/a/b/c"))
	assert.True(t, ns.SpaceTest("deep", "/a/b/c/file"))
	assert.False(t, ns.SpaceTest("deep", "/a"))
	assert.False(t, ns.SpaceTest("k", "/a/b"))
}

func TestRecursiveRuleCoversLaterResolvedPaths(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("deep", "recursive /a/b"))
	require.NoError(t, ns.SpaceUpdate())
	assert.True(t, ns.SpaceTest("deep", "/a/b"))

	// The probe materializes nodes under /a/b without membership; the next
	// update's inheritance pass picks them up through the synthesized
	// all-descendants sibling.
	assert.False(t, ns.SpaceTest("deep", "/a/b/new/leaf"))
	require.NoError(t, ns.SpaceUpdate())
	assert.True(t, ns.SpaceTest("deep", "/a/b/new"))
	assert.True(t, ns.SpaceTest("deep", "/a/b/new/leaf"))

	// Inherited, not rule-set.
	leaf := ns.tree.resolve("/a/b/new/leaf", false, false)
	assert.True(t, leaf.Mask().Test(ns.Space("deep").Index()))
	assert.False(t, leaf.Mask().SetByRule(ns.Space("deep").Index()))
}

func TestInheritancePropagatesThroughCatchAllChain(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("sub", "/root/dir/x/y/z"))
	require.NoError(t, ns.SpaceAdd("deep", "recursive /root"))
	require.NoError(t, ns.SpaceUpdate())

	// One update is enough for the whole existing chain: the pass visits
	// parents before children and consults what it queued for them.
	assert.True(t, ns.SpaceTest("deep", "/root"))
	assert.True(t, ns.SpaceTest("deep", "/root/dir"))
	assert.True(t, ns.SpaceTest("deep", "/root/dir/x"))
	assert.True(t, ns.SpaceTest("deep", "/root/dir/x/y"))
	assert.True(t, ns.SpaceTest("deep", "/root/dir/x/y/z"))
}

func TestExplicitExclusionSurvivesInheritedAdd(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("deep", "recursive /srv"))
	require.NoError(t, ns.SpaceUpdate())

	require.NoError(t, ns.SpaceAdd("other", "/srv/secret"))
	require.NoError(t, ns.SpaceSub("deep", "/srv/secret"))
	require.NoError(t, ns.SpaceUpdate())

	assert.False(t, ns.SpaceTest("deep", "/srv/secret"))
	assert.True(t, ns.SpaceTest("other", "/srv/secret"))

	// Further updates keep re-queuing the inherited add; the recorded
	// negative assertion must keep winning.
	require.NoError(t, ns.SpaceUpdate())
	require.NoError(t, ns.SpaceUpdate())
	assert.False(t, ns.SpaceTest("deep", "/srv/secret"))
}

func TestRootCatchAllInheritsNothing(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("k", "/top"))
	require.NoError(t, ns.SpaceUpdate())

	rootCatchAll := ns.tree.root.child(AllDescendants)
	require.NotNil(t, rootCatchAll, "the root gets an all-descendants child")
	assert.True(t, rootCatchAll.Implicit())
	assert.Empty(t, rootCatchAll.Mask().Positives())
}

func TestOneLevelWildcardCommit(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("l", "/etc/*"))
	require.NoError(t, ns.SpaceUpdate())

	// The one-level marker is a member; its own descendants are capped by
	// the generated sub rule.
	assert.True(t, ns.SpaceTest("l", "/etc/*"))
	assert.False(t, ns.SpaceTest("l", "/etc/*/.*"))
}

func TestFullSubtreeWildcardCommit(t *testing.T) {
	ns := New(nil)

	require.NoError(t, ns.SpaceAdd("w", "/data/**"))
	require.NoError(t, ns.SpaceUpdate())

	assert.True(t, ns.SpaceTest("w", "/data/"+AllDescendants))
	assert.False(t, ns.SpaceTest("w", "/data"))

	// Descendants resolved later inherit through the catch-all.
	assert.False(t, ns.SpaceTest("w", "/data/sub"))
	require.NoError(t, ns.SpaceUpdate())
	assert.True(t, ns.SpaceTest("w", "/data/sub"))
}

func TestUpdateWithNothingPending(t *testing.T) {
	ns := New(nil)
	require.NoError(t, ns.SpaceUpdate())

	require.NoError(t, ns.SpaceAdd("k", "/a"))
	require.NoError(t, ns.SpaceUpdate())
	require.NoError(t, ns.SpaceUpdate())
	assert.True(t, ns.SpaceTest("k", "/a"))
}

func TestDigestLenOptionEndToEnd(t *testing.T) {
	// A short digest forces collisions; engine behavior must not change.
	ns := New(nil, WithDigestLen(1))

	require.NoError(t, ns.SpaceAdd("k", "/etc/gss/bc", "/etc/ssh/id_rsa", "/home/user/elis"))
	require.NoError(t, ns.SpaceSub("k", "/etc/ssh/id_rsa"))
	require.NoError(t, ns.SpaceUpdate())

	assert.True(t, ns.SpaceTest("k", "/etc/gss/bc"))
	assert.False(t, ns.SpaceTest("k", "/etc/ssh/id_rsa"))
	assert.True(t, ns.SpaceTest("k", "/home/user/elis"))
}

func TestUnknownSubspaceWarnsWithSentinel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ns := New(zap.New(core).Sugar())

	require.NoError(t, ns.SpaceAdd("k", "/etc/gss/bc", "ghost"))
	require.NoError(t, ns.SpaceUpdate())

	entries := logs.FilterMessage("referenced subspace does not exist").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "k", fields["space"])
	assert.Equal(t, "ghost", fields["subspace"])

	var logged error
	for _, f := range entries[0].Context {
		if f.Key == "error" {
			logged, _ = f.Interface.(error)
		}
	}
	require.NotNil(t, logged)
	assert.True(t, errors.Is(logged, errors.ErrUnknownSubspace))
}

func TestTraceVerbosityLogsMaskMutations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ns := New(zap.New(core).Sugar(), WithVerbosity(3))

	require.NoError(t, ns.SpaceAdd("k", "/etc/gss/bc"))
	require.NoError(t, ns.SpaceSub("k", "/etc/gss/mgr"))
	require.NoError(t, ns.SpaceUpdate())

	assert.NotZero(t, logs.FilterMessage("mask set").Len())
	assert.NotZero(t, logs.FilterMessage("mask unset").Len())
}

func TestDefaultVerbositySkipsMaskMutationLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ns := New(zap.New(core).Sugar())

	require.NoError(t, ns.SpaceAdd("k", "/etc/gss/bc"))
	require.NoError(t, ns.SpaceUpdate())

	assert.Zero(t, logs.FilterMessage("mask set").Len())
}

func TestInteriorWildcardSubtreeTakesNoPartInInheritance(t *testing.T) {
	ns := New(nil)

	// The interior marker materializes a catch-all node with a concrete
	// child below it. That subtree is pattern structure, not a path.
	require.NoError(t, ns.SpaceAdd("s", "/etc/abc/**/xyz"))
	require.NoError(t, ns.SpaceUpdate())

	under := ns.tree.resolve("/etc/abc/"+AllDescendants+"/xyz", false, false)
	assert.Nil(t, under.child(AllDescendants), "no catch-all synthesized below a catch-all")
	assert.Empty(t, under.children)

	// Stable across repeated updates.
	require.NoError(t, ns.SpaceUpdate())
	assert.Empty(t, under.children)

	// Its parent's siblings above the catch-all still participate normally.
	abc := ns.tree.resolve("/etc/abc", false, false)
	assert.NotNil(t, abc.child(AllDescendants))
}
