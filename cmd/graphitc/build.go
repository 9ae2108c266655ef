package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/graphitc/internal/buildcache"
	"github.com/funvibe/graphitc/internal/codegen"
	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/directionpolicy"
	"github.com/funvibe/graphitc/internal/lexer"
	"github.com/funvibe/graphitc/internal/lower"
	"github.com/funvibe/graphitc/internal/mircontext"
	"github.com/funvibe/graphitc/internal/parser"
	"github.com/funvibe/graphitc/internal/pipeline"
)

// entryFunction is the one function graphitc looks for and compiles:
// every generated translation unit is that function's lowered, direction-
// resolved body.
const entryFunction = "main"

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "output file path (default: input filename with its extension replaced by .cu)")
	configPath := fs.String("config", "", "backend-config YAML sidecar (direction overrides, fusion labels, module name)")
	cacheDir := fs.String("cache", "", "directory for the content-addressed kernel build cache")
	jobs := fs.Int("j", 1, "number of kernel regions to precompile concurrently (requires -cache to have any effect)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: graphitc build [-o out] [-config graphit.config.yaml] [-cache DIR] [-j N] <file>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	sourcePath := fs.Arg(0)

	start := time.Now()
	sourceCode, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphitc: reading %s: %s\n", sourcePath, err)
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		base := filepath.Base(sourcePath)
		outPath = strings.TrimSuffix(base, filepath.Ext(base)) + ".cu"
	}

	pctx := pipeline.NewPipelineContext(string(sourceCode), sourcePath)
	pl := pipeline.New(&lexer.Processor{}, &parser.Processor{})
	pctx = pl.Run(pctx)
	if reportAndCheck(pctx.Errors) {
		os.Exit(1)
	}

	mirCtx := pctx.MIRCtx
	if *configPath != "" {
		fc, err := mircontext.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "graphitc: %s\n", err)
			os.Exit(1)
		}
		mirCtx.ApplyFileConfig(fc)
	}
	if mirCtx.ModuleName == "" {
		base := filepath.Base(sourcePath)
		mirCtx.ModuleName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	body, lowerErrs := lower.EmitProgram(pctx.FIR, mirCtx, pctx.SymbolTable, sourcePath)
	if reportAndCheck(lowerErrs) {
		os.Exit(1)
	}

	mainDecl, ok := mirCtx.LookupFunction(entryFunction)
	if !ok {
		fmt.Fprintf(os.Stderr, "graphitc: %s: no %q function declared\n", sourcePath, entryFunction)
		os.Exit(1)
	}
	emitter := lower.New(mirCtx, pctx.SymbolTable, sourcePath)
	mainBody, mainErrs := emitter.EmitFunctionBody(mainDecl)
	if reportAndCheck(mainErrs) {
		os.Exit(1)
	}
	body = append(body, mainBody...)

	resolved := directionpolicy.Resolve(body, mirCtx)

	if *cacheDir != "" {
		cache, err := buildcache.Open(*cacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "graphitc: opening build cache %s: %s\n", *cacheDir, err)
			os.Exit(1)
		}
		defer cache.Close()
		mirCtx.Cache = cache
	}

	kernelJobs := codegen.CollectKernelJobs(mirCtx, mirCtx.ModuleName, resolved)

	var unsafeWrites []*diagnostics.Error
	for _, job := range kernelJobs {
		unsafeWrites = append(unsafeWrites, codegen.CheckKernelWrites(job.Region, job.Direction)...)
	}
	if reportAndCheck(unsafeWrites) {
		os.Exit(1)
	}

	if mirCtx.Cache != nil && *jobs > 1 {
		precompile(mirCtx, kernelJobs, *jobs)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphitc: creating %s: %s\n", outPath, err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	host := codegen.NewHost(w, mirCtx)
	if err := host.GenerateResolved("_entry", resolved); err != nil {
		fmt.Fprintf(os.Stderr, "graphitc: %s\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "graphitc: writing %s: %s\n", outPath, err)
		os.Exit(1)
	}

	info, err := out.Stat()
	var size int64
	if err == nil {
		size = info.Size()
	}
	fmt.Printf("wrote %s (%s, %d kernels) in %s\n",
		outPath, humanize.Bytes(uint64(size)), len(kernelJobs), time.Since(start).Round(time.Millisecond))
}

// precompile renders jobs concurrently through a bounded worker pool,
// warming mirCtx.Cache so the subsequent single-threaded GenerateResolved
// pass hits the cache instead of re-rendering. Grounded on the standard
// sync/worker-pool idiom rather than a third-party library: no example
// repo in the retrieval pack supplies one.
func precompile(mirCtx *mircontext.Context, jobs []codegen.KernelJob, workers int) {
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, job := range jobs {
		job := job
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := codegen.WarmKernel(mirCtx, job.Name, job.Direction, job.Region); err != nil {
				fmt.Fprintf(os.Stderr, "graphitc: warming kernel %s: %s\n", job.Name, err)
			}
		}()
	}
	wg.Wait()
}

// reportAndCheck prints every diagnostic in errs (colorized when stderr
// is a terminal, per github.com/mattn/go-isatty) and reports whether the
// caller should abort.
func reportAndCheck(errs []*diagnostics.Error) bool {
	if len(errs) == 0 {
		return false
	}
	color := isatty.IsTerminal(os.Stderr.Fd())
	for _, e := range errs {
		if color {
			fmt.Fprintf(os.Stderr, "\x1b[31m- %s\x1b[0m\n", e.Error())
		} else {
			fmt.Fprintf(os.Stderr, "- %s\n", e.Error())
		}
	}
	return true
}
