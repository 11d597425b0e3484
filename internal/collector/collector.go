package collector

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/TheBigBear/Get-DefenderReport/internal/defender"
)

// ErrNoRecords reports a run in which no host produced a status record. The
// caller must treat this as a failed run, not as an empty report.
var ErrNoRecords = errors.New("no host produced a status record")

// Prober is the per-host probe the collector drives. A nil record means the
// host yielded nothing; per-host failures never cross this boundary.
type Prober interface {
	Probe(ctx context.Context, host string) *defender.StatusRecord
}

// Collector runs probes over a host list with a bounded worker count.
type Collector struct {
	prober      Prober
	concurrency int
	limiter     *rate.Limiter
	log         *zap.Logger
}

// New creates a Collector. A non-positive concurrency falls back to 5;
// ratePerSecond <= 0 disables the probe-start limiter.
func New(prober Prober, concurrency int, ratePerSecond float64, log *zap.Logger) *Collector {
	if concurrency <= 0 {
		concurrency = 5
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &Collector{
		prober:      prober,
		concurrency: concurrency,
		limiter:     limiter,
		log:         log,
	}
}

// Collect probes every host and returns the records that came back. At most
// the configured number of probes run concurrently; a slow or failing host
// only occupies its own slot. Output order is not tied to input order, and
// duplicate input hosts are probed twice. When no host yields a record the
// empty result is returned together with ErrNoRecords.
func (c *Collector) Collect(ctx context.Context, hosts []string) ([]defender.StatusRecord, error) {
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	records := make([]defender.StatusRecord, 0, len(hosts))

	for _, host := range hosts {
		wg.Add(1)
		sem <- struct{}{}
		go func(host string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := c.limiter.Wait(ctx); err != nil {
				c.log.Warn("probe not started", zap.String("host", host), zap.Error(err))
				return
			}
			c.log.Debug("probing host", zap.String("host", host))

			record := c.prober.Probe(ctx, host)
			if record == nil {
				return
			}
			mu.Lock()
			records = append(records, *record)
			mu.Unlock()
		}(host)
	}
	wg.Wait()

	if len(records) == 0 {
		return records, ErrNoRecords
	}
	return records, nil
}
