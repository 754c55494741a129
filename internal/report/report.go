// Package report computes stats bundles for exported files on disk and
// renders them for the terminal.
package report

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"croracle/internal/core"
	"croracle/internal/log"
	"croracle/internal/stats"
)

// Options configures Run.
type Options struct {
	Places      int32
	Concurrency int
	Logger      *log.Logger
}

// FileReport is the outcome for one file. Exactly one of Bundle and Err is set.
type FileReport struct {
	Path   string       `json:"file"`
	Bundle *core.Bundle `json:"stats,omitempty"`
	Error  string       `json:"error,omitempty"`
	Err    error        `json:"-"`
}

// Failed counts the reports that carry an error.
func Failed(reports []FileReport) int {
	n := 0
	for _, r := range reports {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Run composes the bundle of every path, at most opts.Concurrency at a time.
// Reports come back in the order of paths. A file that cannot be read or
// composed is reported, not returned; the returned error is only set when
// ctx is cancelled.
func Run(ctx context.Context, paths []string, opts Options) ([]FileReport, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	logger := opts.Logger.WithComponent(log.ComponentReport)
	composer := stats.NewComposer(stats.Options{Places: opts.Places})

	reports := make([]FileReport, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = composeFile(composer, path)
			if reports[i].Err != nil {
				logger.WarnContext(ctx, "File failed", log.FieldFileName, path, log.FieldError, reports[i].Err)
			} else {
				logger.DebugContext(ctx, "File composed", log.FieldFileName, path, log.FieldRows, reports[i].Bundle.Counts.Rows)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return reports, nil
}

func composeFile(c *stats.Composer, path string) FileReport {
	fail := func(err error) FileReport {
		return FileReport{Path: path, Error: err.Error(), Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	b, err := c.ComposeReader(f)
	if err != nil {
		return fail(err)
	}
	return FileReport{Path: path, Bundle: &b}
}
