// meshforge is a CLI for optimizing binary glTF scene assets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshforge/internal/compress"
	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/internal/pipeline"
)

func main() {
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]
	args = args[1:]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := compress.ParseTier(cfg.Compressor.Tier); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch command {
	case "optimize", "opt":
		cmdOptimize(cfg, args)
	case "inspect":
		cmdInspect(cfg, args)
	case "batch":
		cmdBatch(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshforge - glTF scene asset optimizer

Usage:
  meshforge [options] <command> [args]

Commands:
  optimize <in.glb> [-o out.glb]  Optimize a single scene
  inspect <in.glb>                Print complexity diagnostics
  batch <dir> [-jobs n]           Optimize every .glb under a directory

Options (before the command):
  -config path     Config file (default ./meshforge.yaml)
  -tier t          Compression tier: fast, balanced, high, extreme
  -compressor bin  External compressor binary
  -timeout d       External compressor timeout (e.g. 90s)
  -debug           Debug logging

Examples:
  meshforge optimize scene.glb -o scene.opt.glb
  meshforge -tier high batch ./assets -jobs 8`)
}

func cmdOptimize(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	output := fs.String("o", "", "Output path (default <in>.opt.glb)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshforge optimize <in.glb> [-o out.glb]")
		os.Exit(1)
	}
	inPath := fs.Arg(0)
	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".opt.glb"
	}

	if err := optimizeFile(pipeline.New(*cfg), inPath, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func optimizeFile(p *pipeline.Pipeline, inPath, outPath string) error {
	input, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	res, err := p.Optimize(context.Background(), input)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if err := os.WriteFile(outPath, res.Buffer, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s -> %s (%d -> %d bytes, %s)\n",
		inPath, outPath, res.InBytes, res.OutBytes, res.Method)
	return nil
}

func cmdInspect(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshforge inspect <in.glb>")
		os.Exit(1)
	}

	input, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	mesh, anim, err := pipeline.New(*cfg).Inspect(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scene:      %s\n", args[0])
	fmt.Printf("Meshes:     %d (%d primitives)\n", mesh.Meshes, mesh.Primitives)
	fmt.Printf("Vertices:   %d\n", mesh.Vertices)
	fmt.Printf("Triangles:  %d\n", mesh.Triangles)
	fmt.Printf("Buffers:    %.2f MB (%.0f bytes/tri)\n",
		float64(mesh.BufferBytes)/(1024*1024), mesh.BytesPerTri)
	if mesh.Bloated {
		fmt.Println("            warning: oversized for its triangle count")
	}
	if mesh.HighVertexCount {
		fmt.Println("            warning: high vertex count")
	}
	fmt.Printf("Animations: %d (%d channels, %d static)\n",
		anim.Animations, anim.Channels, anim.StaticChannels)
	if anim.Animations > 0 {
		fmt.Printf("Duration:   %.2fs (%d keyframes)\n", anim.Duration, anim.Keyframes)
	}
}

func cmdBatch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	jobs := fs.Int("jobs", runtime.NumCPU(), "Concurrent optimizations")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshforge batch <dir> [-jobs n]")
		os.Exit(1)
	}
	root := fs.Arg(0)

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".glb") &&
			!strings.HasSuffix(path, ".opt.glb") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No .glb files under %s\n", root)
		return
	}

	p := pipeline.New(*cfg)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*jobs)
	for _, inPath := range files {
		inPath := inPath
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".opt.glb"
			return optimizeFile(p, inPath, outPath)
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Optimized %d files\n", len(files))
}
