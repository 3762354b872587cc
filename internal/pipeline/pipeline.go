// Package pipeline implements the Pipeline (spec.md §4.8), the entry point
// run_watch_pipeline(config) -> Result that wires the Path Filter, Watcher,
// and Reconciler together: baseline scan, drain-after-baseline, steady
// state batch loop, error threshold, and cooperative cancellation.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/oldnordic/magellan/internal/discover"
	"github.com/oldnordic/magellan/internal/identity"
	"github.com/oldnordic/magellan/internal/magerr"
	"github.com/oldnordic/magellan/internal/reconcile"
	"github.com/oldnordic/magellan/internal/store"
	"github.com/oldnordic/magellan/internal/watcher"
)

// Config assembles everything run_watch_pipeline needs from CLI flags.
type Config struct {
	Root       string
	ModuleRoot string
	Store      *store.Store
	Tool       string
	Argv       []string

	DebounceMs  int // 0 uses watcher.DefaultDebounce
	ScanInitial bool
	WatchOnly   bool // if true, skip the baseline scan entirely regardless of ScanInitial
	Include     []string
	Exclude     []string
	IgnoreFile  string
	ErrorBudget int // 0 means unlimited; spec.md §4.8 "configurable maximum ... total per-run errors"
}

// Diagnostic is one per-path error recorded without aborting the run.
type Diagnostic struct {
	Path string
	Err  error
}

// Result is what run_watch_pipeline returns once the pipeline stops.
type Result struct {
	ExecutionID string
	Scanned     int
	Reconciled  int
	Deleted     int
	Unchanged   int
	Diagnostics         []Diagnostic
	ErrorBudgetExceeded bool
}

// Run executes run_watch_pipeline(config) -> Result (spec.md §4.8). It
// blocks until ctx is cancelled or the watcher's event source closes.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Store == nil {
		return Result{}, magerr.New(magerr.StoreUnavailable, "MAG-STORE-010", "pipeline requires an open store")
	}

	executionID := identity.NewExecutionID()
	if err := cfg.Store.BeginExecution(executionID, cfg.Tool, cfg.Root, cfg.Argv); err != nil {
		return Result{}, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-011", err)
	}

	res := Result{ExecutionID: executionID}
	rec := reconcile.New(cfg.Store, cfg.ModuleRoot, cfg.Root)

	debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
	if cfg.DebounceMs <= 0 {
		debounce = watcher.DefaultDebounce
	}
	w, err := watcher.New(cfg.Root, debounce)
	if err != nil {
		return Result{}, magerr.Wrap(magerr.IoError, "MAG-IO-010", err)
	}
	defer w.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go w.Run(runCtx)

	opts := &discover.Options{IgnoreFile: cfg.IgnoreFile, Include: cfg.Include, Exclude: cfg.Exclude}
	filter, err := discover.NewFilter(cfg.Root, opts)
	if err != nil {
		finishExecution(cfg.Store, executionID, res)
		return res, magerr.Wrap(magerr.IoError, "MAG-IO-012", err)
	}

	budgetExceeded := false
	record := func(path string, err error) {
		if err == nil {
			return
		}
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Path: path, Err: err})
		slog.Warn("pipeline.reconcile_error", "path", path, "err", err)
		if cfg.ErrorBudget > 0 && len(res.Diagnostics) >= cfg.ErrorBudget {
			budgetExceeded = true
			slog.Error("pipeline.error_budget_exceeded", "budget", cfg.ErrorBudget)
		}
	}

	if !cfg.WatchOnly && cfg.ScanInitial {
		files, rejected, err := discover.Discover(runCtx, cfg.Root, opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			finishExecution(cfg.Store, executionID, res)
			return res, magerr.Wrap(magerr.IoError, "MAG-IO-011", err)
		}
		for _, rp := range rejected {
			slog.Debug("pipeline.path_rejected", "path", rp.RelPath, "reason", rp.Reason)
		}
		for _, f := range files {
			if budgetExceeded {
				break
			}
			if ctxDone(runCtx) {
				break
			}
			res.Scanned++
			outcome, rerr := rec.ReconcileFilePath(f.RelPath, f.Language)
			if rerr != nil {
				record(f.RelPath, rerr)
				continue
			}
			tallyOutcome(&res, outcome)
		}
	}

	// Drain-after-baseline: whatever the watcher accumulated during the
	// scan above is flushed into one batch now, before steady state begins.
	w.Drain()

	if !budgetExceeded {
		steadyState(runCtx, cfg.Root, w, filter, rec, &res, record, &budgetExceeded)
	}
	res.ErrorBudgetExceeded = budgetExceeded

	finishExecution(cfg.Store, executionID, res)
	return res, nil
}

func steadyState(ctx context.Context, root string, w *watcher.Watcher, filter *discover.Filter, rec *reconcile.Reconciler, res *Result, record func(string, error), budgetExceeded *bool) {
	for {
		if ctxDone(ctx) || *budgetExceeded {
			return
		}
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-w.Batches():
			if !ok {
				return
			}
			paths := append([]string(nil), batch.Paths...)
			sort.Strings(paths)
			for _, p := range paths {
				if ctxDone(ctx) {
					return
				}
				// Admit does not require the path to exist (its symlink
				// check is skipped when Lstat fails), so a deleted path
				// passes the same checks as a live one and
				// reconcile_file_path handles its absence. A path the
				// filter rejects is skipped whether or not it still exists.
				language, admitted, reason := filter.Admit(filepath.Join(root, p))
				if !admitted {
					slog.Debug("pipeline.path_rejected", "path", p, "reason", reason)
					continue
				}
				outcome, err := rec.ReconcileFilePath(p, language)
				if err != nil {
					record(p, err)
					continue
				}
				tallyOutcome(res, outcome)
			}
		case <-time.After(2 * time.Second):
			// bounded-timeout receive (spec.md §5): lets the cancellation
			// check above run even when no batch ever arrives.
		}
	}
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func tallyOutcome(res *Result, outcome reconcile.Outcome) {
	res.Reconciled++
	switch outcome.Kind {
	case reconcile.Deleted:
		res.Deleted++
	case reconcile.Unchanged:
		res.Unchanged++
	}
}

func finishExecution(s *store.Store, executionID string, res Result) {
	counts := map[string]int{
		"scanned":    res.Scanned,
		"reconciled": res.Reconciled,
		"deleted":    res.Deleted,
		"unchanged":  res.Unchanged,
		"errors":     len(res.Diagnostics),
	}
	if err := s.FinishExecution(executionID, counts); err != nil {
		slog.Warn("pipeline.finish_execution_failed", "err", err)
	}
}
