// Command poolchurn exercises a shared freepool under rate-limited concurrent
// churn and reports pool activity as JSON.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"golang.org/x/time/rate"

	"github.com/coachpo/freepool/internal/config"
	"github.com/coachpo/freepool/lib/telemetry"
	"github.com/coachpo/freepool/pool"
)

const (
	defaultConfigPath        = "config/churn.yaml"
	churnLoggerPrefix        = "poolchurn "
	telemetryShutdownTimeout = 5 * time.Second
)

// frame is the churn workload object: a sequence-tagged scratch buffer.
type frame struct {
	seq     int
	payload []byte
}

type churnReport struct {
	RunID      string     `json:"runId"`
	Workers    int        `json:"workers"`
	Iterations int        `json:"iterations"`
	Elapsed    string     `json:"elapsed"`
	Stats      pool.Stats `json:"stats"`
}

func main() {
	cfgPath := flag.String("config", defaultConfigPath, "path to churn configuration")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(os.Stderr, churnLoggerPrefix, log.LstdFlags|log.Lmicroseconds)

	cfg, loadedFromFile, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if !loadedFromFile {
		logger.Printf("configuration file not found, using defaults")
	}

	_, shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
	})
	if err != nil {
		logger.Fatalf("init telemetry: %v", err)
	}

	metrics, err := pool.NewMetrics(cfg.Pool.Name)
	if err != nil {
		logger.Fatalf("create pool metrics: %v", err)
	}

	sp, err := pool.NewSync(
		func(seq int) *frame { return &frame{seq: seq, payload: make([]byte, 0, 512)} },
		func(f *frame, seq int) *frame {
			f.seq = seq
			f.payload = f.payload[:0]
			return f
		},
		pool.WithDispose(func(f *frame) { f.payload = f.payload[:0] }),
		pool.WithMetrics[*frame](metrics),
		pool.WithName[*frame](cfg.Pool.Name),
	)
	if err != nil {
		logger.Fatalf("construct pool: %v", err)
	}
	if err := pool.ObserveFreeList(cfg.Pool.Name, sp.Len); err != nil {
		logger.Printf("register free-list gauge: %v", err)
	}

	warmPool(sp, cfg.Pool.WarmSize)

	limiter := rate.NewLimiter(rate.Limit(cfg.Churn.RatePerSec), cfg.Churn.Burst)
	runID := uuid.NewString()
	logger.Printf("run %s: workers=%d iterations=%d warm=%d",
		runID, cfg.Churn.Workers, cfg.Churn.Iterations, cfg.Pool.WarmSize)

	started := time.Now()
	var wg conc.WaitGroup
	for w := 0; w < cfg.Churn.Workers; w++ {
		worker := w
		wg.Go(func() {
			base := worker * cfg.Churn.Iterations
			for i := 0; i < cfg.Churn.Iterations; i++ {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				f := sp.Create(base + i)
				f.payload = append(f.payload, byte(i))
				sp.Destroy(f)
			}
		})
	}
	wg.Wait()
	elapsed := time.Since(started)

	stats := sp.Stats()
	sp.Drain()

	report := churnReport{
		RunID:      runID,
		Workers:    cfg.Churn.Workers,
		Iterations: cfg.Churn.Iterations,
		Elapsed:    elapsed.String(),
		Stats:      stats,
	}
	if err := pool.WriteReport(os.Stdout, report); err != nil {
		logger.Printf("write report: %v", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
	defer cancelShutdown()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Printf("telemetry shutdown: %v", err)
	}
}

// warmPool seeds the free list by cycling warm objects through the pool so
// early workers renew instead of allocating.
func warmPool(sp *pool.SyncPool[*frame, int], warmSize int) {
	if warmSize <= 0 {
		return
	}
	objs := make([]*frame, 0, warmSize)
	for i := 0; i < warmSize; i++ {
		objs = append(objs, sp.Create(i))
	}
	for _, obj := range objs {
		sp.Destroy(obj)
	}
}
