package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/batch"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/config"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	outputDir := flag.String("out", "", "Output directory (default: alongside each scene)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	edges := flag.String("edges", "", "Edge mode: boundary, manual, mixed, all, off")
	previews := flag.Bool("preview", false, "Render mesh wireframe previews next to the export")
	dump := flag.Bool("dump", false, "Dump the resolved configuration and exit")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	if err := cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Workers:   *workers,
		EdgesMode: *edges,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dump {
		spew.Dump(cfg)
		os.Exit(0)
	}

	scenes := flag.Args()
	if len(scenes) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: spine-export [flags] scene.json [scene2.json ...]")
		os.Exit(1)
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(scenes[0])
	}

	fmt.Printf("Blender Spine exporter → Spine %s JSON\n", cfg.SpineVersion)
	fmt.Printf("Scenes: %d, Workers: %d\n", len(scenes), cfg.Workers)
	fmt.Printf("Output: %s\n", outDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Export:    cfg,
		OutputDir: outDir,
		Sizes:     texture.NewSizeCache(),
		Previews:  *previews,
		Workers:   cfg.Workers,
	}, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	var errs []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errs = append(errs, r)
		}
	}

	fmt.Printf("Exported: %d/%d\n", success, len(scenes))

	if len(errs) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errs) < limit {
			limit = len(errs)
		}
		for _, e := range errs[:limit] {
			fmt.Printf("  %s: %s\n", e.Scene, e.Error)
		}
	}

	manifestPath := filepath.Join(outDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
