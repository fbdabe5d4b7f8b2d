package graph

import (
	"testing"

	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(passes []*Pass) []string {
	out := make([]string, 0, len(passes))
	for _, p := range passes {
		out = append(out, p.Name)
	}
	return out
}

func TestDeferredGraphWithSkybox(t *testing.T) {
	g, err := NewDeferredGraph(true)
	require.NoError(t, err)

	plan, err := g.Compile()
	require.NoError(t, err)

	assert.Equal(t, []string{metadata.RenderPassCubemapBake}, names(plan.Once))
	assert.Equal(t, []string{metadata.RenderPassGeometry, metadata.RenderPassLighting, metadata.RenderPassSkybox}, names(plan.Frame))
	assert.True(t, plan.Before(metadata.RenderPassGeometry, metadata.RenderPassLighting))
	assert.True(t, plan.Before(metadata.RenderPassLighting, metadata.RenderPassSkybox))
	assert.False(t, plan.Before(metadata.RenderPassLighting, metadata.RenderPassGeometry))

	require.Len(t, plan.Submissions, 2)
	assert.Equal(t, SubmissionGeometry, plan.Submissions[0].Name)
	assert.False(t, plan.Submissions[0].Presents)
	assert.Equal(t, SubmissionLighting, plan.Submissions[1].Name)
	assert.True(t, plan.Submissions[1].Presents)
	assert.Len(t, plan.Submissions[1].Passes, 2)

	present, ok := plan.PresentSubmission()
	require.True(t, ok)
	assert.Equal(t, SubmissionLighting, present.Name)

	require.Len(t, plan.OnceSubmissions, 1)
	assert.NotEqual(t, [16]byte{}, [16]byte(plan.ID))
}

func TestDeferredGraphWithoutSkybox(t *testing.T) {
	g, err := NewDeferredGraph(false)
	require.NoError(t, err)

	plan, err := g.Compile()
	require.NoError(t, err)
	assert.Empty(t, plan.Once)
	assert.Equal(t, []string{metadata.RenderPassGeometry, metadata.RenderPassLighting}, names(plan.Frame))
	_, ok := g.Resource(ResourceCubemap)
	assert.False(t, ok)
}

func TestCompileOrdersWritersBeforeReaders(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "a"}))
	require.NoError(t, g.AddResource(Resource{Name: "sc", Kind: ResourceKindSwapchain}))
	// inserted reader first, the sort must still put the writer first
	require.NoError(t, g.AddPass(Pass{Name: "present", Reads: []string{"a"}, Writes: []string{"sc"}}))
	require.NoError(t, g.AddPass(Pass{Name: "produce", Writes: []string{"a"}}))

	plan, err := g.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"produce", "present"}, names(plan.Frame))
	// passes without an explicit group get their own submission
	assert.Len(t, plan.Submissions, 2)
}

func TestCompileStableForIndependentPasses(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "x"}))
	require.NoError(t, g.AddResource(Resource{Name: "y"}))
	require.NoError(t, g.AddResource(Resource{Name: "sc", Kind: ResourceKindSwapchain}))
	require.NoError(t, g.AddPass(Pass{Name: "second", Writes: []string{"y"}}))
	require.NoError(t, g.AddPass(Pass{Name: "first", Writes: []string{"x"}}))
	require.NoError(t, g.AddPass(Pass{Name: "final", Reads: []string{"x", "y"}, Writes: []string{"sc"}}))

	plan, err := g.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first", "final"}, names(plan.Frame))
}

func TestGraphValidationErrors(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "a"}))
	assert.ErrorIs(t, g.AddResource(Resource{Name: "a"}), ErrDuplicateName)
	assert.ErrorIs(t, g.AddPass(Pass{Name: "p", Reads: []string{"missing"}}), ErrUnknownResource)
	require.NoError(t, g.AddPass(Pass{Name: "p", Writes: []string{"a"}}))
	assert.ErrorIs(t, g.AddPass(Pass{Name: "p"}), ErrDuplicateName)
}

func TestCompileMissingProducer(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "a"}))
	require.NoError(t, g.AddResource(Resource{Name: "sc", Kind: ResourceKindSwapchain}))
	require.NoError(t, g.AddPass(Pass{Name: "p", Reads: []string{"a"}, Writes: []string{"sc"}}))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrMissingProducer)
}

func TestCompileCycle(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "a"}))
	require.NoError(t, g.AddResource(Resource{Name: "b"}))
	require.NoError(t, g.AddResource(Resource{Name: "sc", Kind: ResourceKindSwapchain}))
	require.NoError(t, g.AddPass(Pass{Name: "p1", Reads: []string{"b"}, Writes: []string{"a"}}))
	require.NoError(t, g.AddPass(Pass{Name: "p2", Reads: []string{"a"}, Writes: []string{"b", "sc"}}))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrGraphCycle)
}

func TestCompileOnceReadingPerFrame(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "a"}))
	require.NoError(t, g.AddResource(Resource{Name: "sc", Kind: ResourceKindSwapchain}))
	require.NoError(t, g.AddPass(Pass{Name: "frame", Writes: []string{"a", "sc"}}))
	require.NoError(t, g.AddPass(Pass{Name: "once", Schedule: ScheduleOnce, Reads: []string{"a"}}))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrInvalidDependency)
}

func TestCompileNoPresentPass(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "a"}))
	require.NoError(t, g.AddPass(Pass{Name: "p", Writes: []string{"a"}}))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrNoPresentPass)
}

func TestCompileInterleavedSubmission(t *testing.T) {
	g := New()
	require.NoError(t, g.AddResource(Resource{Name: "a"}))
	require.NoError(t, g.AddResource(Resource{Name: "b"}))
	require.NoError(t, g.AddResource(Resource{Name: "sc", Kind: ResourceKindSwapchain}))
	require.NoError(t, g.AddPass(Pass{Name: "p1", Submission: "s1", Writes: []string{"a"}}))
	require.NoError(t, g.AddPass(Pass{Name: "p2", Submission: "s2", Reads: []string{"a"}, Writes: []string{"b"}}))
	require.NoError(t, g.AddPass(Pass{Name: "p3", Submission: "s1", Reads: []string{"b"}, Writes: []string{"sc"}}))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrSubmissionInterleaved)
}
