// Package graph describes a frame as passes reading and writing named
// resources and compiles it into an ordered execution plan.
package graph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

var (
	ErrDuplicateName         = errors.New("duplicate name in frame graph")
	ErrUnknownResource       = errors.New("pass references an unknown resource")
	ErrGraphCycle            = errors.New("frame graph contains a cycle")
	ErrMissingProducer       = errors.New("resource is read but never written")
	ErrInvalidDependency     = errors.New("run-once pass depends on per-frame output")
	ErrNoPresentPass         = errors.New("no per-frame pass writes the swapchain last")
	ErrSubmissionInterleaved = errors.New("submission group is split by another group")
)

type ResourceKind int

const (
	ResourceKindImage ResourceKind = iota
	ResourceKindBuffer
	ResourceKindSwapchain
)

type Lifetime int

const (
	// Lives as long as the renderer.
	LifetimePersistent Lifetime = iota
	// Rebuilt together with the swapchain.
	LifetimeSwapchain
)

type Resource struct {
	Name     string
	Kind     ResourceKind
	Lifetime Lifetime
	// External resources are produced outside the graph, for example uploads.
	External bool
}

type Schedule int

const (
	SchedulePerFrame Schedule = iota
	ScheduleOnce
)

type Pass struct {
	Name       string
	Schedule   Schedule
	Submission string
	RenderPass string
	Pipeline   string
	Reads      []string
	Writes     []string
}

type Graph struct {
	resources map[string]*Resource
	order     []string
	passes    []*Pass
}

func New() *Graph {
	return &Graph{
		resources: make(map[string]*Resource),
	}
}

func (g *Graph) AddResource(r Resource) error {
	if _, ok := g.resources[r.Name]; ok {
		return fmt.Errorf("%w: resource `%s`", ErrDuplicateName, r.Name)
	}
	res := r
	g.resources[r.Name] = &res
	g.order = append(g.order, r.Name)
	return nil
}

func (g *Graph) AddPass(p Pass) error {
	for _, existing := range g.passes {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: pass `%s`", ErrDuplicateName, p.Name)
		}
	}
	for _, name := range append(slices.Clone(p.Reads), p.Writes...) {
		if _, ok := g.resources[name]; !ok {
			return fmt.Errorf("%w: `%s` in pass `%s`", ErrUnknownResource, name, p.Name)
		}
	}
	if p.Submission == "" {
		p.Submission = p.Name
	}
	pass := p
	g.passes = append(g.passes, &pass)
	return nil
}

func (g *Graph) Resource(name string) (Resource, bool) {
	r, ok := g.resources[name]
	if !ok {
		return Resource{}, false
	}
	return *r, true
}

// Resources returns the resources in insertion order.
func (g *Graph) Resources() []Resource {
	out := make([]Resource, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, *g.resources[name])
	}
	return out
}

// Submission is a run of consecutive passes recorded into one command buffer.
type Submission struct {
	Name   string
	Passes []*Pass
	// Presents marks the submission that writes the swapchain image last. It
	// waits for image acquisition and signals the present semaphore.
	Presents bool
}

type Plan struct {
	ID              uuid.UUID
	Once            []*Pass
	Frame           []*Pass
	OnceSubmissions []Submission
	Submissions     []Submission
}

// Before reports whether pass a executes before pass b in the per-frame order.
func (p *Plan) Before(a, b string) bool {
	ia, ib := -1, -1
	for i, pass := range p.Frame {
		if pass.Name == a {
			ia = i
		}
		if pass.Name == b {
			ib = i
		}
	}
	return ia >= 0 && ib >= 0 && ia < ib
}

// PresentSubmission returns the submission flagged as presenting.
func (p *Plan) PresentSubmission() (Submission, bool) {
	for _, s := range p.Submissions {
		if s.Presents {
			return s, true
		}
	}
	return Submission{}, false
}

func (g *Graph) Compile() (*Plan, error) {
	writers := make(map[string][]*Pass)
	for _, p := range g.passes {
		for _, w := range p.Writes {
			writers[w] = append(writers[w], p)
		}
	}

	for _, p := range g.passes {
		for _, r := range p.Reads {
			if g.resources[r].External {
				continue
			}
			if len(writers[r]) == 0 {
				return nil, fmt.Errorf("%w: `%s` read by `%s`", ErrMissingProducer, r, p.Name)
			}
			if p.Schedule == ScheduleOnce {
				for _, w := range writers[r] {
					if w.Schedule == SchedulePerFrame {
						return nil, fmt.Errorf("%w: `%s` reads `%s` written by `%s`", ErrInvalidDependency, p.Name, r, w.Name)
					}
				}
			}
		}
	}

	once, err := g.sort(ScheduleOnce, writers)
	if err != nil {
		return nil, err
	}
	frame, err := g.sort(SchedulePerFrame, writers)
	if err != nil {
		return nil, err
	}

	if len(frame) == 0 || !g.writesSwapchain(frame[len(frame)-1]) {
		return nil, ErrNoPresentPass
	}

	onceSubs, err := group(once)
	if err != nil {
		return nil, err
	}
	frameSubs, err := group(frame)
	if err != nil {
		return nil, err
	}
	frameSubs[len(frameSubs)-1].Presents = true

	return &Plan{
		ID:              uuid.New(),
		Once:            once,
		Frame:           frame,
		OnceSubmissions: onceSubs,
		Submissions:     frameSubs,
	}, nil
}

func (g *Graph) writesSwapchain(p *Pass) bool {
	for _, w := range p.Writes {
		if g.resources[w].Kind == ResourceKindSwapchain {
			return true
		}
	}
	return false
}

// sort orders the passes of one schedule so every writer of a resource runs
// before its readers, and successive writers keep insertion order. Ties are
// broken by insertion order.
func (g *Graph) sort(schedule Schedule, writers map[string][]*Pass) ([]*Pass, error) {
	var nodes []*Pass
	index := make(map[*Pass]int)
	for _, p := range g.passes {
		if p.Schedule == schedule {
			index[p] = len(nodes)
			nodes = append(nodes, p)
		}
	}

	edges := make([][]int, len(nodes))
	indegree := make([]int, len(nodes))
	addEdge := func(from, to int) {
		if from == to || slices.Contains(edges[from], to) {
			return
		}
		edges[from] = append(edges[from], to)
		indegree[to]++
	}

	for i, p := range nodes {
		for _, r := range p.Reads {
			for _, w := range writers[r] {
				if j, ok := index[w]; ok {
					addEdge(j, i)
				}
			}
		}
		// a later writer of the same resource runs after an earlier one
		for _, r := range p.Writes {
			for _, w := range writers[r] {
				if j, ok := index[w]; ok && j < i {
					addEdge(j, i)
				}
			}
		}
	}

	var ordered []*Pass
	done := make([]bool, len(nodes))
	for len(ordered) < len(nodes) {
		next := -1
		for i := range nodes {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i, p := range nodes {
				if !done[i] {
					stuck = append(stuck, p.Name)
				}
			}
			return nil, fmt.Errorf("%w: %v", ErrGraphCycle, stuck)
		}
		done[next] = true
		ordered = append(ordered, nodes[next])
		for _, to := range edges[next] {
			indegree[to]--
		}
	}
	return ordered, nil
}

func group(passes []*Pass) ([]Submission, error) {
	var subs []Submission
	seen := make(map[string]bool)
	for _, p := range passes {
		if len(subs) > 0 && subs[len(subs)-1].Name == p.Submission {
			subs[len(subs)-1].Passes = append(subs[len(subs)-1].Passes, p)
			continue
		}
		if seen[p.Submission] {
			return nil, fmt.Errorf("%w: `%s`", ErrSubmissionInterleaved, p.Submission)
		}
		seen[p.Submission] = true
		subs = append(subs, Submission{Name: p.Submission, Passes: []*Pass{p}})
	}
	return subs, nil
}
