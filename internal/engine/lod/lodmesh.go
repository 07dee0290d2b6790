package lod

import (
	gomath "math"

	"github.com/Faultbox/meshlod/internal/engine/mesh"
	"github.com/Faultbox/meshlod/pkg/math"
)

const (
	// MaxLevels caps the number of detail levels per mesh.
	MaxLevels = 16

	// finalRatio is the cumulative triangle ratio the coarsest level
	// aims for when more than four levels are requested.
	finalRatio = 0.01
)

// Level is one precomputed detail level: a simplified mesh plus the
// thresholds within which it should be drawn.
type Level struct {
	Mesh        *mesh.Mesh
	Triangles   int
	MaxDistance float32
	MinCoverage float32
}

// LODMesh owns an ordered chain of detail levels for one source mesh.
// Level 0 is always an exact, untouched copy of the source so there is
// no quality loss at close range.
type LODMesh struct {
	levels     []Level
	levelCount int
	reduction  float32
	bias       float32
	simplifier *Simplifier
}

// NewLODMesh creates an empty LOD chain.
func NewLODMesh() *LODMesh {
	return &LODMesh{
		bias:       1,
		simplifier: NewSimplifier(),
	}
}

// Generate builds levelCount detail levels from source. Level i keeps
// roughly reduction^i of the source triangles; with more than four
// levels the per-step factor is instead solved so the coarsest level
// lands near 1% of the source, and the last two levels are pushed even
// harder toward the triangle floor so distant objects cost almost
// nothing. Calling Generate again rebuilds the chain wholesale.
func (l *LODMesh) Generate(source *mesh.Mesh, levelCount int, reduction float32) {
	l.levelCount = clampInt(levelCount, 1, MaxLevels)
	l.reduction = clampFloat(reduction, 0.05, 0.95)

	step := l.reduction
	mult := float32(2.0)
	if l.levelCount > 4 {
		// Solve step^(n-1) = finalRatio, clamped so no single step
		// halves more than once
		step = float32(gomath.Pow(finalRatio, 1/float64(l.levelCount-1)))
		if step > 0.5 {
			step = 0.5
		}
		mult = 1.5
	}

	l.levels = make([]Level, 0, l.levelCount)
	for i := 0; i < l.levelCount; i++ {
		var m *mesh.Mesh
		if i == 0 {
			m = source.Copy()
		} else {
			ratio := float32(gomath.Pow(float64(step), float64(i)))
			if l.levelCount > 4 {
				// Force the tail levels toward the floor
				switch i {
				case l.levelCount - 2:
					ratio *= 0.25
				case l.levelCount - 1:
					ratio *= 0.05
				}
			}
			m = l.simplifier.Simplify(source, ratio)
		}

		l.levels = append(l.levels, Level{
			Mesh:        m,
			Triangles:   m.TriangleCount(),
			MaxDistance: 10 * float32(gomath.Pow(float64(mult), float64(i))),
			MinCoverage: 0.5 / float32(gomath.Pow(float64(mult), float64(i))),
		})
	}
}

// Reduction returns the per-level reduction factor the chain was
// generated with.
func (l *LODMesh) Reduction() float32 {
	return l.reduction
}

// LevelCount returns the number of generated levels.
func (l *LODMesh) LevelCount() int {
	return len(l.levels)
}

// Level returns level i, clamped into range. Out-of-range requests
// saturate rather than fault.
func (l *LODMesh) Level(i int) *Level {
	if len(l.levels) == 0 {
		return nil
	}
	return &l.levels[clampInt(i, 0, len(l.levels)-1)]
}

// SetBias sets the global selection bias. Values above 1 shift every
// transition closer to the camera (coarser earlier); below 1, later.
func (l *LODMesh) SetBias(bias float32) {
	l.bias = clampFloat(bias, 0.1, 10)
}

// Bias returns the current selection bias.
func (l *LODMesh) Bias() float32 {
	return l.bias
}

// SetDistances overrides the per-level distance thresholds.
func (l *LODMesh) SetDistances(distances []float32) {
	for i := 0; i < len(l.levels) && i < len(distances); i++ {
		l.levels[i].MaxDistance = distances[i]
	}
}

// LODIndex returns the level index selected for the given distance,
// with the bias applied.
func (l *LODMesh) LODIndex(distance float32) int {
	d := distance * l.bias
	for i := range l.levels {
		if d <= l.levels[i].MaxDistance {
			return i
		}
	}
	return len(l.levels) - 1
}

// SelectByDistance returns the mesh to draw for the given distance.
func (l *LODMesh) SelectByDistance(distance float32) *mesh.Mesh {
	if len(l.levels) == 0 {
		return nil
	}
	return l.levels[l.LODIndex(distance)].Mesh
}

// CoverageIndex returns the level index for the given screen-coverage
// fraction (0..1 of screen height), with the bias applied.
func (l *LODMesh) CoverageIndex(coverage float32) int {
	c := coverage / l.bias
	for i := range l.levels {
		if c >= l.levels[i].MinCoverage {
			return i
		}
	}
	return len(l.levels) - 1
}

// SelectByCoverage returns the mesh to draw for the given screen
// coverage fraction.
func (l *LODMesh) SelectByCoverage(coverage float32) *mesh.Mesh {
	if len(l.levels) == 0 {
		return nil
	}
	return l.levels[l.CoverageIndex(coverage)].Mesh
}

// groupEntry is one member of a LODGroup.
type groupEntry struct {
	lod      *LODMesh
	position math.Vec3
	scale    float32
	current  int
}

// LODGroup batches several LOD meshes so one camera position per frame
// drives all of their selections.
type LODGroup struct {
	entries          []groupEntry
	visibleTriangles int
}

// NewLODGroup creates an empty group.
func NewLODGroup() *LODGroup {
	return &LODGroup{}
}

// Add registers a LOD mesh at a world position and scale.
func (g *LODGroup) Add(l *LODMesh, position math.Vec3, scale float32) {
	g.entries = append(g.entries, groupEntry{lod: l, position: position, scale: scale})
}

// Len returns the number of members.
func (g *LODGroup) Len() int {
	return len(g.entries)
}

// Update recomputes every member's selected level from the camera
// position and accumulates the total visible triangle count.
func (g *LODGroup) Update(cameraPos math.Vec3) {
	g.visibleTriangles = 0
	for i := range g.entries {
		e := &g.entries[i]
		d := cameraPos.Distance(e.position)
		if e.scale > 0 {
			d /= e.scale
		}
		e.current = e.lod.LODIndex(d)
		g.visibleTriangles += e.lod.Level(e.current).Triangles
	}
}

// LevelOf returns the level last selected for member i.
func (g *LODGroup) LevelOf(i int) int {
	return g.entries[i].current
}

// MeshOf returns the mesh last selected for member i.
func (g *LODGroup) MeshOf(i int) *mesh.Mesh {
	return g.entries[i].lod.Level(g.entries[i].current).Mesh
}

// VisibleTriangles returns the triangle total from the last Update.
func (g *LODGroup) VisibleTriangles() int {
	return g.visibleTriangles
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
