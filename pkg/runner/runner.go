package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/fsutil"
)

// ErrOutputIsInput is returned for a file whose output path would
// overwrite the file itself.
var ErrOutputIsInput = errors.New("output path is the input file")

// Runner processes files with a shared document.Converter.
type Runner struct {
	// Converter renders and inspects individual documents.
	Converter *document.Converter
}

// New creates a new Runner with the given converter.
func New(conv *document.Converter) *Runner {
	return &Runner{Converter: conv}
}

// Run discovers files under opts.Paths and processes them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Processes files concurrently using a worker pool
//   - Aggregates results into a single Result with statistics
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	logger.Debug("discovered files",
		logging.FieldFiles, len(files),
		logging.FieldMode, opts.Mode.String(),
	)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; collect by path, then emit in
	// discovery order.
	outcomes := make(map[string]FileOutcome, len(files))

	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker processes files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts Options,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.process(ctx, path, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// process renders or inspects one file.
func (r *Runner) process(ctx context.Context, path string, opts Options) FileOutcome {
	logger := logging.FromContext(ctx)
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	if opts.Mode == ModeCheck {
		outcome.Document, outcome.Error = r.Converter.Inspect(ctx, path, content)
		return outcome
	}

	outPath, err := OutputPath(path, opts.WorkingDir, opts.OutputDir, opts.effectiveOutputExtension())
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.OutputPath = outPath

	doc, err := r.Converter.Convert(ctx, path, content)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Document = doc

	if opts.DryRun {
		return outcome
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, outPath, doc.HTML, info.Mode)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", outPath, err)
		return outcome
	}
	outcome.Written = written
	outcome.Unchanged = !written

	logger.Debug("rendered file",
		logging.FieldInput, path,
		logging.FieldOutput, outPath,
		logging.FieldWritten, written,
	)

	return outcome
}

// OutputPath returns where the HTML for input goes. With an empty outDir
// the output sits next to input; otherwise input's path relative to
// workDir is mirrored under outDir (inputs outside workDir keep only their
// base name). A relative outDir is resolved against workDir.
func OutputPath(input, workDir, outDir, ext string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext

	var out string
	if outDir == "" {
		out = filepath.Join(filepath.Dir(input), name)
	} else {
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(workDir, outDir)
		}

		relDir := "."
		if rel, err := filepath.Rel(workDir, filepath.Dir(input)); err == nil && !escapes(rel) {
			relDir = rel
		}
		out = filepath.Join(outDir, relDir, name)
	}

	if filepath.Clean(out) == filepath.Clean(input) {
		return "", fmt.Errorf("%w: %s", ErrOutputIsInput, input)
	}
	return out, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
