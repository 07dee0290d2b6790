// Package main is the entry point for the meshlod viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshlod/internal/config"
	"github.com/Faultbox/meshlod/internal/engine/mesh"
	"github.com/Faultbox/meshlod/internal/engine/primitives"
	"github.com/Faultbox/meshlod/internal/logger"
	"github.com/Faultbox/meshlod/internal/viewer"
	"github.com/Faultbox/meshlod/pkg/formats"
	"github.com/Faultbox/meshlod/pkg/math"
)

var (
	flagMesh    = flag.String("mesh", "", "Mesh file to view (.obj, .gltf, .glb); a procedural sphere is used when empty")
	flagCount   = flag.Int("count", 8, "Instances per side of the scene grid")
	flagSpacing = flag.Float64("spacing", 40, "Distance between instances")
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== meshlod viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	src, err := loadSource(*flagMesh)
	if err != nil {
		logger.Error("failed to load mesh", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("source mesh loaded",
		zap.String("mesh", src.ID),
		zap.Int("vertices", src.VertexCount()),
		zap.Int("triangles", src.TriangleCount()),
	)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	populateScene(v, src, *flagCount, float32(*flagSpacing))
	v.FitCamera()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// loadSource loads the mesh to view, falling back to a procedural sphere.
func loadSource(path string) (*mesh.Mesh, error) {
	if path == "" {
		return primitives.Sphere(48, 64, 10), nil
	}
	return formats.LoadMesh(path)
}

// populateScene fills the scene with a grid of instances so multiple
// LOD levels are visible at once.
func populateScene(v *viewer.Viewer, src *mesh.Mesh, count int, spacing float32) {
	if count < 1 {
		count = 1
	}

	palette := []math.Vec3{
		{X: 0.8, Y: 0.5, Z: 0.3},
		{X: 0.4, Y: 0.7, Z: 0.5},
		{X: 0.5, Y: 0.5, Z: 0.8},
		{X: 0.8, Y: 0.8, Z: 0.4},
	}

	half := float32(count-1) / 2
	for gz := 0; gz < count; gz++ {
		for gx := 0; gx < count; gx++ {
			pos := math.Vec3{
				X: (float32(gx) - half) * spacing,
				Z: (float32(gz) - half) * spacing,
			}
			// Vary scale a little so the selection has to account for it
			scale := 1.0 + 0.5*float32((gx+gz)%3)
			color := palette[(gx+gz*count)%len(palette)]
			v.AddInstance(src, pos, scale, color)
		}
	}
}
