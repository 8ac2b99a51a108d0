package checker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunFiles loads and runs the suites in the given files, running at most jobs
// suites at the same time, each in its own JavaScript context. The reports
// are in the same order as the paths. If any suite cannot be loaded, it
// returns the first such error and no reports.
func RunFiles(ctx context.Context, paths []string, jobs int) ([]Report, error) {
	if jobs < 1 {
		jobs = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	reports := make([]Report, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			suite, err := LoadSuite(path)
			if err != nil {
				return err
			}
			reports[i] = suite.Run()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
