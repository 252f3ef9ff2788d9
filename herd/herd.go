package herd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/adammck/walker"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "herd",
})

// Herd ticks many walkers in parallel. Walkers share nothing but the
// (read-only) terrain, so each one is ticked on its own goroutine, and no two
// goroutines ever touch the same walker in the same tick.
type Herd struct {
	Walkers []*walker.Walker
	limit   int
}

// New returns an empty herd which ticks at most limit walkers at once. If limit
// is zero, it's the number of CPUs.
func New(limit int) *Herd {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	return &Herd{limit: limit}
}

func (h *Herd) Add(w *walker.Walker) {
	h.Walkers = append(h.Walkers, w)
}

// Boot boots every walker, one at a time.
func (h *Herd) Boot() error {
	for _, w := range h.Walkers {
		if err := w.Boot(); err != nil {
			return fmt.Errorf("booting walker %s: %w", w.ID, err)
		}
	}

	log.Infof("booted %d walkers", len(h.Walkers))
	return nil
}

// Tick ticks every walker, and waits for them all to finish. Returns the first
// error. Walkers which hadn't started by then are skipped.
func (h *Herd) Tick(ctx context.Context, now time.Time) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.limit)

	for _, w := range h.Walkers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if err := w.Tick(now); err != nil {
				return fmt.Errorf("walker %s: %w", w.ID, err)
			}

			return nil
		})
	}

	return g.Wait()
}
