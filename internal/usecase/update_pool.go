package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// updatePool runs per-product remote updates on a few workers. Jobs are
// released one stagger interval apart.
type updatePool struct {
	workerCount int
	stagger     time.Duration
}

func newUpdatePool(workerCount int, stagger time.Duration) updatePool {
	if workerCount <= 0 {
		workerCount = constants.DefaultBulkEditWorkers
	}
	if stagger < 0 {
		stagger = 0
	}
	return updatePool{workerCount: workerCount, stagger: stagger}
}

// run calls fn once per ID and returns the failures keyed by ID. IDs not
// dispatched before ctx is done fail with ctx.Err().
func (p updatePool) run(ctx context.Context, ids []string, fn func(ctx context.Context, id string) error) map[string]error {
	failed := make(map[string]error)
	if len(ids) == 0 {
		return failed
	}

	var mu sync.Mutex
	record := func(id string, err error) {
		mu.Lock()
		failed[id] = err
		mu.Unlock()
	}

	queue := make(chan string)
	var wg sync.WaitGroup
	workers := p.workerCount
	if workers > len(ids) {
		workers = len(ids)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for id := range queue {
				if err := fn(ctx, id); err != nil {
					logger.Debugf("worker %d: update %s failed: %v", workerID, id, err)
					record(id, err)
				}
			}
		}(i)
	}

	var timer *time.Timer
dispatch:
	for i, id := range ids {
		if i > 0 && p.stagger > 0 {
			if timer == nil {
				timer = time.NewTimer(p.stagger)
			} else {
				timer.Reset(p.stagger)
			}
			select {
			case <-ctx.Done():
				for _, rest := range ids[i:] {
					record(rest, ctx.Err())
				}
				break dispatch
			case <-timer.C:
			}
		}
		select {
		case <-ctx.Done():
			for _, rest := range ids[i:] {
				record(rest, ctx.Err())
			}
			break dispatch
		case queue <- id:
		}
	}
	close(queue)
	if timer != nil {
		timer.Stop()
	}
	wg.Wait()
	return failed
}
