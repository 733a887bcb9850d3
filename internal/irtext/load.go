package irtext

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/llql/internal/ir"
)

// LoadSession parses every path in parallel and returns a session holding
// the modules in argument order. jobs bounds the number of concurrent
// parses; zero or less means one per CPU.
func LoadSession(ctx context.Context, paths []string, jobs int) (*ir.Session, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	modules := make([]*ir.Module, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := ParseFile(path)
			if err != nil {
				return err
			}
			modules[i] = m
			slog.Debug("module loaded", "path", path, "functions", len(m.Functions()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ir.NewSession(modules...), nil
}
