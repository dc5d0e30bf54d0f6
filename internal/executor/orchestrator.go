// Package executor runs the build-completion hook: walk the output root,
// filter the selection, rewrite every selected script concurrently and
// report per-file and summary lines.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/jsveil/internal/exclude"
	"github.com/harrison/jsveil/internal/filelock"
	"github.com/harrison/jsveil/internal/fileutil"
	"github.com/harrison/jsveil/internal/history"
	"github.com/harrison/jsveil/internal/logger"
	"github.com/harrison/jsveil/internal/models"
	"github.com/harrison/jsveil/internal/report"
	"github.com/harrison/jsveil/internal/transform"
	"golang.org/x/sync/errgroup"
)

// Logger is the logging capability a build tool hands to the hook.
type Logger interface {
	LogInfo(message string)
}

// FileReporter is implemented by loggers that format the per-file and
// summary lines themselves (colors, prefixes). Other loggers receive the
// plain lines through LogInfo.
type FileReporter interface {
	LogFileReport(relPath string, delta float64)
	LogFilesSummary(count int)
}

type debugLogger interface {
	LogDebug(message string)
}

type warnLogger interface {
	LogWarn(message string)
}

type progressLogger interface {
	LogProgress(done, total int)
}

type runLogger interface {
	LogRunSummary(result models.RunResult)
}

// Recorder persists finished runs, successful or not.
type Recorder interface {
	RecordRun(ctx context.Context, run *models.RunResult) error
}

// Config is fixed when the orchestrator is built, before any build runs.
type Config struct {
	Options         transform.Options
	Rules           []exclude.Rule
	DisableFilesLog bool
	MaxConcurrency  int // 0 means one task per file with no bound
	Atomic          bool
	DryRun          bool
	ExcludeDirs     []string
	MaxDepth        int
	LockDir         string // Where root lock files go; os.TempDir() when empty
	SkipLock        bool
}

// Orchestrator rewrites the scripts of one output root per Run call.
type Orchestrator struct {
	transformer transform.Transformer
	cfg         Config
	recorder    Recorder
}

// NewOrchestrator creates a new Orchestrator instance.
func NewOrchestrator(transformer transform.Transformer, cfg Config) *Orchestrator {
	if transformer == nil {
		panic("transformer cannot be nil")
	}
	return &Orchestrator{transformer: transformer, cfg: cfg}
}

// SetRecorder attaches a run recorder. nil disables recording.
func (o *Orchestrator) SetRecorder(r Recorder) {
	o.recorder = r
}

// Config returns the configuration the orchestrator was built with.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Run processes root and returns the run result. On failure the result is
// still returned, alongside the error, and no summary line is logged.
func (o *Orchestrator) Run(ctx context.Context, root string, log Logger) (*models.RunResult, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	start := time.Now()
	run := &models.RunResult{
		ID:        uuid.NewString(),
		Root:      root,
		Preset:    o.cfg.Options.Preset,
		StartedAt: start,
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return o.finish(ctx, run, log, &FileError{Phase: PhaseWalk, Path: root, Err: err})
	}
	run.Root = absRoot

	if !o.cfg.SkipLock {
		lock, err := filelock.LockRoot(o.cfg.LockDir, absRoot)
		if err != nil {
			return o.finish(ctx, run, log, err)
		}
		defer lock.Unlock()
	}

	scan, err := fileutil.ScanDirectory(absRoot, fileutil.ScanOptions{
		Extensions:  []string{fileutil.ScriptExtension},
		ExcludeDirs: o.cfg.ExcludeDirs,
		MaxDepth:    o.cfg.MaxDepth,
	})
	if err != nil {
		return o.finish(ctx, run, log, &FileError{Phase: PhaseWalk, Path: absRoot, Err: err})
	}
	run.Discovered = len(scan.Files)

	selection := models.SelectionSet(scan.Files)
	if len(o.cfg.Rules) > 0 {
		selection = exclude.Filter(scan.Files, o.cfg.Rules)
	}
	run.Excluded = run.Discovered - selection.Len()
	logDebug(log, fmt.Sprintf("Selected %d of %d script files under %s (%d excluded)",
		selection.Len(), run.Discovered, absRoot, run.Excluded))

	return o.finish(ctx, run, log, o.process(ctx, absRoot, selection, run, log))
}

// process fans out one task per selected file and joins them.
func (o *Orchestrator) process(ctx context.Context, root string, selection models.SelectionSet, run *models.RunResult, log Logger) error {
	results := make([]models.FileResult, selection.Len())
	staged := make([]*filelock.StagedFile, selection.Len())

	limit := -1
	if o.cfg.MaxConcurrency > 0 {
		limit = o.cfg.MaxConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var done atomic.Int64
	for i, path := range selection {
		g.Go(func() error {
			res, sf, err := o.processFile(gctx, root, path, log)
			results[i] = res
			staged[i] = sf
			if err != nil {
				return err
			}
			logProgress(log, int(done.Add(1)), selection.Len())
			return nil
		})
	}
	waitErr := g.Wait()
	run.Files = results

	if waitErr != nil {
		for _, sf := range staged {
			if sf != nil {
				sf.Discard()
			}
		}
		return o.executionError(ctx, root, results)
	}

	var commitErr error
	if o.cfg.Atomic && !o.cfg.DryRun {
		commitErr = o.commit(root, staged, run, log)
	}

	for _, res := range run.Files {
		if res.Error == nil && (res.Written || o.cfg.DryRun) {
			run.Processed++
		}
	}
	return commitErr
}

// processFile reads, transforms and persists one file. Per-file lines are
// logged here except in atomic mode, where they follow the commit.
func (o *Orchestrator) processFile(ctx context.Context, root, path string, log Logger) (models.FileResult, *filelock.StagedFile, error) {
	start := time.Now()
	res := models.FileResult{Path: path, RelPath: fileutil.RelativePath(root, path)}

	fail := func(phase Phase, err error) (models.FileResult, *filelock.StagedFile, error) {
		fe := &FileError{Phase: phase, Path: path, RelPath: res.RelPath, Err: err}
		res.Error = fe
		res.Duration = time.Since(start)
		return res, nil, fe
	}

	if err := ctx.Err(); err != nil {
		return fail(PhaseRead, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fail(PhaseRead, err)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fail(PhaseRead, err)
	}
	res.OriginalSize = len(src)
	res.OriginalHash = history.Digest(src)

	out, err := o.transformer.Transform(ctx, src, o.cfg.Options)
	if err != nil {
		return fail(PhaseTransform, err)
	}
	res.TransformedSize = len(out)
	res.TransformedHash = history.Digest(out)
	res.Delta = report.SizeDelta(res.OriginalSize, res.TransformedSize)

	var sf *filelock.StagedFile
	switch {
	case o.cfg.DryRun:
	case o.cfg.Atomic:
		sf, err = filelock.Stage(path, out, info.Mode().Perm())
		if err != nil {
			return fail(PhaseWrite, err)
		}
	default:
		if err := ctx.Err(); err != nil {
			return fail(PhaseWrite, err)
		}
		if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
			return fail(PhaseWrite, err)
		}
		res.Written = true
	}
	res.Duration = time.Since(start)

	if !o.cfg.DisableFilesLog && (o.cfg.DryRun || !o.cfg.Atomic) {
		logFile(log, res.RelPath, res.Delta)
	}
	return res, sf, nil
}

// commit renames every staged file over its target in selection order.
// A failed rename stops the commit and discards what is still staged.
func (o *Orchestrator) commit(root string, staged []*filelock.StagedFile, run *models.RunResult, log Logger) error {
	for i, sf := range staged {
		if err := sf.Commit(); err != nil {
			for _, rest := range staged[i:] {
				rest.Discard()
			}
			fe := &FileError{Phase: PhaseCommit, Path: sf.Target, RelPath: run.Files[i].RelPath, Err: err}
			run.Files[i].Error = fe
			return &ExecutionError{Root: root, TotalFiles: len(staged), FileErrors: []*FileError{fe}}
		}
		run.Files[i].Written = true
		if !o.cfg.DisableFilesLog {
			logFile(log, run.Files[i].RelPath, run.Files[i].Delta)
		}
	}
	return nil
}

// executionError collects file failures in selection order. Tasks that only
// stopped because the group was cancelled are counted, not listed.
func (o *Orchestrator) executionError(ctx context.Context, root string, results []models.FileResult) error {
	execErr := &ExecutionError{Root: root, TotalFiles: len(results)}
	for _, res := range results {
		fe, ok := res.Error.(*FileError)
		if !ok {
			continue
		}
		if fe.Cancelled() {
			execErr.Cancelled++
			continue
		}
		execErr.FileErrors = append(execErr.FileErrors, fe)
	}
	if err := ctx.Err(); err != nil {
		execErr.Cause = err
	}
	return execErr
}

// finish stamps status and duration, records the run and logs the summary.
func (o *Orchestrator) finish(ctx context.Context, run *models.RunResult, log Logger, err error) (*models.RunResult, error) {
	run.Duration = time.Since(run.StartedAt)

	switch {
	case err != nil:
		run.Status = models.StatusFailed
		run.Error = err.Error()
	case o.cfg.DryRun:
		run.Status = models.StatusDryRun
	default:
		run.Status = models.StatusSuccess
	}

	if err == nil {
		logSummary(log, run.Processed)
		if o.cfg.DryRun {
			logDebug(log, "Dry run: no files were written")
		}
	}

	if o.recorder != nil {
		if recErr := o.recorder.RecordRun(context.WithoutCancel(ctx), run); recErr != nil {
			if wl, ok := log.(warnLogger); ok {
				wl.LogWarn(fmt.Sprintf("failed to record run %s: %v", run.ID, recErr))
			}
		}
	}

	if rl, ok := log.(runLogger); ok {
		rl.LogRunSummary(*run)
	}

	return run, err
}

func logFile(log Logger, relPath string, delta float64) {
	if fr, ok := log.(FileReporter); ok {
		fr.LogFileReport(relPath, delta)
		return
	}
	log.LogInfo(report.FileLine(relPath, delta))
}

func logSummary(log Logger, count int) {
	if fr, ok := log.(FileReporter); ok {
		fr.LogFilesSummary(count)
		return
	}
	log.LogInfo(report.SummaryLine(count))
}

func logDebug(log Logger, message string) {
	if dl, ok := log.(debugLogger); ok {
		dl.LogDebug(message)
	}
}

func logProgress(log Logger, done, total int) {
	if pl, ok := log.(progressLogger); ok {
		pl.LogProgress(done, total)
	}
}
