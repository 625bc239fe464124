package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SimonHeggie/Blender-Spine-IO/internal/config"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/preview"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/scene"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/spine"
	"github.com/SimonHeggie/Blender-Spine-IO/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Export    config.Config
	OutputDir string
	Sizes     *texture.SizeCache
	Previews  bool
	Workers   int
}

// Result holds the outcome of processing one scene.
type Result struct {
	Scene   string
	JSON    string
	Success bool
	Error   string
}

// Run processes all scene files using a worker pool.
func Run(cfg Config, scenes []string) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f scenes/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	sceneChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(cfg, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

func processScene(cfg Config, path string) Result {
	s, err := scene.Load(path)
	if err != nil {
		return Result{Scene: path, Error: err.Error()}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := cfg.OutputDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return Result{Scene: path, Error: err.Error()}
	}

	ctx := spine.NewContext()
	ctx.Quiet = cfg.Workers > 1

	doc, prepared, err := spine.Export(s, spine.Options{
		Config: cfg.Export,
		OutDir: outDir,
		Sizes:  cfg.Sizes,
	}, ctx)
	logPath := filepath.Join(outDir, stem+".log")
	if err != nil {
		// The log flushes on failure too.
		ctx.Logf("[SpineExport] FATAL %v", err)
		_ = ctx.Flush(logPath)
		return Result{Scene: path, Error: err.Error()}
	}

	jsonPath := filepath.Join(outDir, stem+".json")
	if err := doc.Write(jsonPath); err != nil {
		return Result{Scene: path, Error: err.Error()}
	}

	if err := ctx.Flush(logPath); err != nil {
		return Result{Scene: path, Error: err.Error()}
	}

	if cfg.Previews {
		previewDir := filepath.Join(outDir, "previews")
		if err := os.MkdirAll(previewDir, 0755); err != nil {
			return Result{Scene: path, JSON: jsonPath, Error: err.Error()}
		}
		for _, p := range prepared {
			img := preview.Render(p.Region, p.Edges, cfg.Export.PreviewSize, cfg.Export.Supersample)
			dst := filepath.Join(previewDir, p.Slot+".webp")
			if err := preview.WriteWebP(img, dst); err != nil {
				return Result{Scene: path, JSON: jsonPath, Error: fmt.Sprintf("preview %s: %v", p.Slot, err)}
			}
		}
	}

	return Result{Scene: path, JSON: jsonPath, Success: true}
}
