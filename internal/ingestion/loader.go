package ingestion

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// FileRequest pairs a batch request with its input file.
type FileRequest struct {
	Request
	Path string
}

// LoadFiles loads each file as its own batch, at most Workers at a time.
// Outcomes line up with files; a file that never ran has a nil outcome.
// The first failure stops files that have not started yet and is returned.
func (s *Service) LoadFiles(ctx context.Context, files []FileRequest) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.LoadFile(gctx, f.Request, f.Path)
			outcomes[i] = out
			if err != nil {
				slog.Error("Batch failed", "source", f.Source, "file", f.Path, "error", err)
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	return outcomes, err
}
