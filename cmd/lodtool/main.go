// lodtool is a CLI utility for offline mesh simplification.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Faultbox/meshlod/internal/engine/lod"
	"github.com/Faultbox/meshlod/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "simplify":
		cmdSimplify(args)
	case "chain":
		cmdChain(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lodtool - offline mesh simplification utility

Usage:
  lodtool <command> [options]

Commands:
  info <mesh>                              Show mesh statistics
  simplify -in <mesh> -out <file.obj> -ratio <r>
                                           Simplify to a triangle ratio
  chain -in <mesh> -out <dir> [-levels n] [-reduction r]
                                           Generate a full LOD chain

Supported inputs: .obj, .gltf, .glb. Outputs are written as OBJ.

Examples:
  lodtool info bunny.obj
  lodtool simplify -in bunny.obj -out bunny_lod2.obj -ratio 0.25
  lodtool chain -in scene.glb -out ./lods -levels 5 -reduction 0.5`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lodtool info <mesh>")
		os.Exit(1)
	}

	m, err := formats.LoadMesh(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	center, radius := m.BoundingSphere()
	fmt.Printf("Mesh:      %s\n", args[0])
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Normals:   %v\n", m.HasNormals())
	fmt.Printf("Indexed:   %v\n", m.HasIndices())
	fmt.Printf("Center:    (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	fmt.Printf("Radius:    %.3f\n", radius)
}

func cmdSimplify(args []string) {
	fs := flag.NewFlagSet("simplify", flag.ExitOnError)
	in := fs.String("in", "", "Input mesh file")
	out := fs.String("out", "", "Output OBJ file")
	ratio := fs.Float64("ratio", 0.5, "Target triangle ratio (0..1)")
	fs.Parse(args)

	if *in == "" || *out == "" {
		fs.Usage()
		os.Exit(1)
	}

	m, err := formats.LoadMesh(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	simplified := lod.NewSimplifier().Simplify(m, float32(*ratio))
	elapsed := time.Since(start)

	if err := formats.SaveOBJ(*out, simplified); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d -> %d triangles (%.1f%%) in %s\n",
		filepath.Base(*in),
		m.TriangleCount(),
		simplified.TriangleCount(),
		100*float64(simplified.TriangleCount())/float64(m.TriangleCount()),
		elapsed.Round(time.Millisecond),
	)
}

func cmdChain(args []string) {
	fs := flag.NewFlagSet("chain", flag.ExitOnError)
	in := fs.String("in", "", "Input mesh file")
	out := fs.String("out", "", "Output directory")
	levels := fs.Int("levels", 4, "Number of LOD levels (1-16)")
	reduction := fs.Float64("reduction", 0.5, "Per-level reduction factor")
	fs.Parse(args)

	if *in == "" || *out == "" {
		fs.Usage()
		os.Exit(1)
	}

	m, err := formats.LoadMesh(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	chain := lod.NewLODMesh()
	chain.Generate(m, *levels, float32(*reduction))
	elapsed := time.Since(start)

	base := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
	fmt.Printf("Generated %d levels in %s\n", chain.LevelCount(), elapsed.Round(time.Millisecond))

	for i := 0; i < chain.LevelCount(); i++ {
		level := chain.Level(i)
		path := filepath.Join(*out, fmt.Sprintf("%s_lod%d.obj", base, i))
		if err := formats.SaveOBJ(path, level.Mesh); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  lod%d: %6d triangles  dist %8.1f  cov %.4f  -> %s\n",
			i, level.Triangles, level.MaxDistance, level.MinCoverage, path)
	}
}
