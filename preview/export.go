package preview

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/motiontx/motion"
)

// FrameTimes returns the sample times for a timeline of duration ms played
// at fps, always including both ends.
func FrameTimes(duration, fps float64) []float64 {
	if fps <= 0 || duration <= 0 {
		return []float64{0}
	}
	step := 1000 / fps
	n := int(math.Ceil(duration/step - 1e-9))
	times := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		times = append(times, float64(i)*step)
	}
	return append(times, duration)
}

// ExportFrames renders tl at fps into numbered PNG files under dir and
// returns their paths in time order. Frames render concurrently.
func ExportFrames(ctx context.Context, tl *motion.Timeline, actor motion.Actor, mopts motion.Options, opts Options, dir string, fps float64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	times := FrameTimes(tl.Duration(), fps)
	paths := make([]string, len(times))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, at := range times {
		paths[i] = filepath.Join(dir, fmt.Sprintf("%s_%05d.png", actor.ID, i))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dc, err := Render(actor, motion.Evaluate(tl, at, mopts), opts)
			if err != nil {
				return err
			}
			defer dc.Close()
			return dc.SavePNG(paths[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
