package videos

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/GintGld/video-baker/internal/models"
)

type videoReader interface {
	Video(ctx context.Context, index uint64) (models.Video, error)
}

// fetchAll reads videos [0, n) with at most limit reads in flight.
//
// In strict mode the first failure cancels the remaining reads and
// no videos are returned. In partial mode failed indices are skipped
// and returned as missing. Output is in ascending index order.
func fetchAll(
	ctx context.Context,
	reader videoReader,
	n uint64,
	limit int,
	partial bool,
) ([]models.Video, []uint64, error) {
	if n == 0 {
		return []models.Video{}, nil, nil
	}

	results := make([]models.Video, n)
	failed := make([]bool, n)

	var g *errgroup.Group
	gctx := ctx
	if partial {
		g = &errgroup.Group{}
	} else {
		g, gctx = errgroup.WithContext(ctx)
	}
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := uint64(0); i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			video, err := reader.Video(gctx, i)
			if err != nil {
				if partial {
					failed[i] = true
					return nil
				}
				return fmt.Errorf("video %d: %w", i, err)
			}

			// decoded index must match the requested slot
			video.Index = i
			results[i] = video

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if !partial {
		return results, nil, nil
	}

	out := make([]models.Video, 0, n)
	var missing []uint64
	for i := range results {
		if failed[i] {
			missing = append(missing, uint64(i))
			continue
		}
		out = append(out, results[i])
	}

	return out, missing, nil
}
