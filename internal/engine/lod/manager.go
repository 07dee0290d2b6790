package lod

import (
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshlod/internal/engine/mesh"
	"github.com/Faultbox/meshlod/pkg/math"
)

// SelectionMode chooses how the manager picks a level per draw call.
type SelectionMode int

const (
	// SelectDistance compares camera distance against level thresholds.
	SelectDistance SelectionMode = iota
	// SelectScreenSize projects the bounding sphere to a screen-height
	// fraction and compares it against level coverage thresholds.
	SelectScreenSize
	// SelectScreenError estimates each level's geometric error in
	// pixels and takes the coarsest level under the pixel budget.
	SelectScreenError
	// SelectTriangleBudget behaves like SelectScreenSize until the
	// frame triangle budget is exceeded, then forces coarser levels.
	SelectTriangleBudget
)

// ParseSelectionMode maps a config string to a SelectionMode.
// Unknown strings fall back to distance selection.
func ParseSelectionMode(s string) SelectionMode {
	switch s {
	case "screen_size":
		return SelectScreenSize
	case "screen_error":
		return SelectScreenError
	case "triangle_budget":
		return SelectTriangleBudget
	default:
		return SelectDistance
	}
}

const (
	adaptBiasMin  = 0.5
	adaptBiasMax  = 3.0
	adaptStep     = 0.1
	adaptHighBand = 1.2
	adaptLowBand  = 0.8
)

// cacheKey identifies a source mesh by its caller-assigned ID plus its
// dimensions, so a mesh rebuilt with different geometry under the same
// ID still misses.
type cacheKey struct {
	id       string
	vertices int
	indices  int
}

// cacheEntry is one cached LOD chain plus the derived bounding sphere
// used by the screen-space policies.
type cacheEntry struct {
	lod    *LODMesh
	center math.Vec3
	radius float32
}

// Manager is the per-frame LOD decision layer. It lazily builds and
// caches LOD chains per mesh, picks a level per draw call under the
// active selection policy, and tunes a global bias against measured
// frame time. Not safe for concurrent use; it belongs to the render
// thread.
type Manager struct {
	log *zap.Logger

	enabled                bool
	levelCount             int
	reduction              float32
	bias                   float32
	mode                   SelectionMode
	distanceScale          float32
	minFullQualityDistance float32
	minVertexCount         int
	customDistances        []float32

	unloadEnabled  bool
	unloadDistance float32

	triangleBudget    int
	screenErrorPixels float32

	adaptiveEnabled bool
	targetFrameTime float32
	frameTime       float32

	cameraPos    math.Vec3
	fovY         float32
	screenHeight int

	statsEnabled       bool
	frameTriangles     int
	frameMeshes        int
	lastFrameTriangles int
	lastFrameMeshes    int
	generateCount      int

	cache map[cacheKey]*cacheEntry
	empty *mesh.Mesh
}

// NewManager creates a manager with rendering-friendly defaults.
// Pass nil to disable logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:                    log,
		enabled:                true,
		levelCount:             4,
		reduction:              0.5,
		bias:                   1,
		mode:                   SelectDistance,
		distanceScale:          1,
		minFullQualityDistance: 5,
		minVertexCount:         100,
		unloadDistance:         1000,
		triangleBudget:         500000,
		screenErrorPixels:      4,
		targetFrameTime:        1.0 / 60.0,
		fovY:                   float32(gomath.Pi / 3),
		screenHeight:           1080,
		statsEnabled:           true,
		cache:                  make(map[cacheKey]*cacheEntry),
		empty:                  mesh.New("lod:empty"),
	}
}

// SetEnabled toggles the manager. While disabled every SelectMesh call
// passes the original mesh through without touching the cache.
func (m *Manager) SetEnabled(enabled bool) { m.enabled = enabled }

// Enabled reports whether LOD selection is active.
func (m *Manager) Enabled() bool { return m.enabled }

// SetLevelCount sets how many levels new LOD chains get, clamped to
// [1, MaxLevels]. Changing it invalidates every cached chain.
func (m *Manager) SetLevelCount(n int) {
	n = clampInt(n, 1, MaxLevels)
	if n != m.levelCount {
		m.levelCount = n
		m.ClearCache()
	}
}

// SetReductionFactor sets the per-level triangle ratio for new chains.
// Changing it invalidates every cached chain.
func (m *Manager) SetReductionFactor(f float32) {
	f = clampFloat(f, 0.05, 0.95)
	if f != m.reduction {
		m.reduction = f
		m.ClearCache()
	}
}

// SetSelectionMode switches the active selection policy.
func (m *Manager) SetSelectionMode(mode SelectionMode) { m.mode = mode }

// SetBias sets the global selection bias (>1 coarser, <1 finer).
func (m *Manager) SetBias(bias float32) {
	m.bias = clampFloat(bias, 0.1, 10)
	m.applyBias()
}

// SetDistanceScale scales every distance comparison, letting hosts
// work in their own world units.
func (m *Manager) SetDistanceScale(s float32) {
	if s > 0 {
		m.distanceScale = s
	}
}

// SetMinFullQualityDistance sets the distance floor inside which level
// 0 is always returned regardless of policy.
func (m *Manager) SetMinFullQualityDistance(d float32) {
	if d >= 0 {
		m.minFullQualityDistance = d
	}
}

// SetMinVertexCount sets the vertex floor below which meshes are not
// worth simplifying and pass through unchanged.
func (m *Manager) SetMinVertexCount(n int) {
	if n >= 0 {
		m.minVertexCount = n
	}
}

// SetDistances overrides the per-level distance thresholds for current
// and future chains.
func (m *Manager) SetDistances(distances []float32) {
	m.customDistances = append(m.customDistances[:0], distances...)
	for _, e := range m.cache {
		e.lod.SetDistances(m.customDistances)
	}
}

// SetUnloadEnabled toggles distance-based unloading.
func (m *Manager) SetUnloadEnabled(enabled bool) { m.unloadEnabled = enabled }

// SetUnloadDistance sets the distance beyond which objects are culled
// to an empty mesh.
func (m *Manager) SetUnloadDistance(d float32) {
	if d > 0 {
		m.unloadDistance = d
	}
}

// SetTriangleBudget sets the per-frame triangle budget enforced by the
// budget policy.
func (m *Manager) SetTriangleBudget(budget int) {
	if budget >= 0 {
		m.triangleBudget = budget
	}
}

// SetScreenErrorBudget sets the tolerated screen-space error in pixels
// for the screen-error policy.
func (m *Manager) SetScreenErrorBudget(pixels float32) {
	if pixels > 0 {
		m.screenErrorPixels = pixels
	}
}

// SetAdaptiveEnabled toggles the frame-time feedback loop.
func (m *Manager) SetAdaptiveEnabled(enabled bool) { m.adaptiveEnabled = enabled }

// SetTargetFrameTime sets the frame time AdaptQuality steers toward.
func (m *Manager) SetTargetFrameTime(seconds float32) {
	if seconds > 0 {
		m.targetFrameTime = seconds
	}
}

// SetStatsEnabled toggles per-frame triangle/mesh accounting.
func (m *Manager) SetStatsEnabled(enabled bool) { m.statsEnabled = enabled }

// SetCamera updates the camera position used for distance computation.
func (m *Manager) SetCamera(pos math.Vec3) { m.cameraPos = pos }

// SetView updates the projection parameters used by the screen-space
// policies. fovY is the vertical field of view in radians.
func (m *Manager) SetView(fovY float32, screenHeight int) {
	if fovY > 0 {
		m.fovY = fovY
	}
	if screenHeight > 0 {
		m.screenHeight = screenHeight
	}
}

// BeginFrame rolls the per-frame counters over and records the
// measured duration of the previous frame.
func (m *Manager) BeginFrame(frameTime float32) {
	m.lastFrameTriangles = m.frameTriangles
	m.lastFrameMeshes = m.frameMeshes
	m.frameTriangles = 0
	m.frameMeshes = 0
	if frameTime > 0 {
		m.frameTime = frameTime
	}
}

// AdaptQuality nudges the global bias toward the target frame time.
// Called once per frame. Frames within 20% of the target leave the
// bias untouched.
func (m *Manager) AdaptQuality() {
	if !m.adaptiveEnabled || m.targetFrameTime <= 0 || m.frameTime <= 0 {
		return
	}

	ratio := m.frameTime / m.targetFrameTime
	switch {
	case ratio > adaptHighBand:
		m.bias += adaptStep * (ratio - 1)
		if m.bias > adaptBiasMax {
			m.bias = adaptBiasMax
		}
	case ratio < adaptLowBand:
		m.bias -= adaptStep * (1 - ratio)
		if m.bias < adaptBiasMin {
			m.bias = adaptBiasMin
		}
	default:
		return
	}
	m.applyBias()
}

// SelectMesh picks the mesh to draw for one object this frame. The
// returned mesh is one of the precomputed levels (or the original, or
// a shared empty mesh when unloaded); callers submit it unchanged to
// their renderer.
func (m *Manager) SelectMesh(src *mesh.Mesh, model math.Mat4) *mesh.Mesh {
	if src == nil {
		return nil
	}
	if !m.enabled || src.Primitive != mesh.Triangles || src.VertexCount() < m.minVertexCount {
		return src
	}

	worldPos := model.Translation()
	distance := m.cameraPos.Distance(worldPos)

	// Unloaded objects contribute nothing to the frame stats; the
	// totals represent rendered geometry only.
	if m.unloadEnabled && distance > m.unloadDistance*m.distanceScale {
		return m.empty
	}

	entry := m.entryFor(src)
	if entry == nil {
		return src
	}

	var idx int
	if distance <= m.minFullQualityDistance*m.distanceScale {
		idx = 0
	} else {
		scale := model.UniformScale()
		idx = m.selectIndex(entry, distance, scale)
	}

	lv := entry.lod.Level(idx)
	if m.statsEnabled {
		m.frameTriangles += lv.Triangles
		m.frameMeshes++
	}
	return lv.Mesh
}

// LODIndexFor exposes the level index the manager would pick for a
// mesh at the given distance, for HUD/telemetry use.
func (m *Manager) LODIndexFor(src *mesh.Mesh, distance float32) int {
	entry := m.entryFor(src)
	if entry == nil {
		return 0
	}
	return entry.lod.LODIndex(distance / m.distanceScale)
}

// ClearCache drops every cached LOD chain.
func (m *Manager) ClearCache() {
	if len(m.cache) > 0 {
		m.log.Debug("lod cache cleared", zap.Int("entries", len(m.cache)))
	}
	m.cache = make(map[cacheKey]*cacheEntry)
}

// FrameTriangles returns the triangle total of the last completed frame.
func (m *Manager) FrameTriangles() int { return m.lastFrameTriangles }

// FrameMeshes returns the mesh count of the last completed frame.
func (m *Manager) FrameMeshes() int { return m.lastFrameMeshes }

// CacheSize returns the number of cached LOD chains.
func (m *Manager) CacheSize() int { return len(m.cache) }

// Bias returns the current global bias.
func (m *Manager) Bias() float32 { return m.bias }

// GenerateCount returns how many LOD chains have been generated since
// startup, including regenerations after cache clears.
func (m *Manager) GenerateCount() int { return m.generateCount }

// entryFor returns the cached chain for src, generating it on first
// sight. Meshes without an ID are not cacheable and return nil.
func (m *Manager) entryFor(src *mesh.Mesh) *cacheEntry {
	if src.ID == "" {
		return nil
	}
	key := cacheKey{id: src.ID, vertices: src.VertexCount(), indices: len(src.Indices)}
	if e, ok := m.cache[key]; ok {
		return e
	}

	start := time.Now()
	chain := NewLODMesh()
	chain.Generate(src, m.levelCount, m.reduction)
	chain.SetBias(m.bias)
	if len(m.customDistances) > 0 {
		chain.SetDistances(m.customDistances)
	}
	center, radius := src.BoundingSphere()

	e := &cacheEntry{lod: chain, center: center, radius: radius}
	m.cache[key] = e
	m.generateCount++

	m.log.Debug("lod chain generated",
		zap.String("mesh", src.ID),
		zap.Int("levels", chain.LevelCount()),
		zap.Int("source_triangles", src.TriangleCount()),
		zap.Int("coarsest_triangles", chain.Level(chain.LevelCount()-1).Triangles),
		zap.Duration("took", time.Since(start)),
	)
	return e
}

// selectIndex dispatches to the active selection policy.
func (m *Manager) selectIndex(e *cacheEntry, distance, scale float32) int {
	switch m.mode {
	case SelectScreenSize:
		return m.screenSizeIndex(e, distance, scale)
	case SelectScreenError:
		return m.screenErrorIndex(e, distance, scale)
	case SelectTriangleBudget:
		return m.budgetIndex(e, distance, scale)
	default:
		return e.lod.LODIndex(distance / m.distanceScale)
	}
}

// coverage returns the projected bounding sphere as a fraction of
// screen height.
func (m *Manager) coverage(e *cacheEntry, distance, scale float32) float32 {
	d := distance / m.distanceScale
	if d < 1e-6 {
		d = 1e-6
	}
	halfTan := float32(gomath.Tan(float64(m.fovY) / 2))
	return (e.radius * scale) / (d * halfTan)
}

func (m *Manager) screenSizeIndex(e *cacheEntry, distance, scale float32) int {
	return e.lod.CoverageIndex(m.coverage(e, distance, scale))
}

// screenErrorIndex estimates each level's geometric error in pixels
// and returns the coarsest level that stays under the pixel budget.
func (m *Manager) screenErrorIndex(e *cacheEntry, distance, scale float32) int {
	d := distance / m.distanceScale
	if d < 1e-6 {
		d = 1e-6
	}
	halfTan := float32(gomath.Tan(float64(m.fovY) / 2))
	pixelsPerUnit := float32(m.screenHeight) / (2 * d * halfTan)

	reduction := e.lod.Reduction()
	budget := m.screenErrorPixels * m.bias
	n := e.lod.LevelCount()
	for i := n - 1; i > 0; i-- {
		dropped := 1 - float32(gomath.Pow(float64(reduction), float64(i)))
		errPixels := e.radius * scale * dropped * pixelsPerUnit
		if errPixels <= budget {
			return i
		}
	}
	return 0
}

// budgetIndex falls back to screen-size selection while under budget;
// once the running frame total exceeds the budget it forces a coarser
// level proportional to normalized distance.
func (m *Manager) budgetIndex(e *cacheEntry, distance, scale float32) int {
	base := m.screenSizeIndex(e, distance, scale)
	if m.triangleBudget <= 0 || m.frameTriangles <= m.triangleBudget {
		return base
	}

	n := e.lod.LevelCount()
	far := e.lod.Level(n - 1).MaxDistance
	norm := (distance * m.bias) / (m.distanceScale * far)
	if norm > 1 {
		norm = 1
	}
	forced := int(norm*float32(n-1) + 0.5)
	if forced <= base {
		forced = base + 1
	}
	return clampInt(forced, 0, n-1)
}

// applyBias propagates the global bias into every cached chain.
func (m *Manager) applyBias() {
	for _, e := range m.cache {
		e.lod.SetBias(m.bias)
	}
}
