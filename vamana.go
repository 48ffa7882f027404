package vamana

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hupe1980/vamana/distance"
	"github.com/hupe1980/vamana/internal/mem"
	"github.com/hupe1980/vamana/internal/visited"
	"github.com/hupe1980/vamana/resource"
	"github.com/hupe1980/vamana/scratch"
	"github.com/hupe1980/vamana/vectorstore"
)

// Core wires the vector store, the scratch pools, and the resource
// controller together for search drivers. One Core serves many concurrent
// requests; each request leases its working set for the duration of one
// search.
type Core struct {
	cfg Config

	store *vectorstore.Store

	queryPool *scratch.Pool[*scratch.QueryScratch]
	diskPool  *scratch.Pool[*scratch.ThreadContext]

	rc            *resource.Controller
	reservedBytes int64

	logger  *Logger
	metrics MetricsCollector
}

// New builds a Core from cfg, pre-warming both scratch pools so the
// steady-state search path never allocates.
func New(cfg Config, optFns ...Option) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metricFn, err := metricFunc(cfg.Metric)
	if err != nil {
		return nil, err
	}

	opts := options{
		logger:           NewTextLogger(slog.LevelInfo),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ioContexts != nil && len(opts.ioContexts) != cfg.PoolSize {
		return nil, fmt.Errorf("vamana: got %d io contexts for pool size %d", len(opts.ioContexts), cfg.PoolSize)
	}

	rc := opts.controller
	if rc == nil {
		rc = resource.NewController(resource.Config{
			MemoryLimitBytes:   cfg.MemoryLimitBytes,
			MaxInflightReads:   int64(cfg.MaxSectorReads),
			IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
		})
	}

	alignedDim := mem.RoundUp(cfg.Dim, 8)
	reserved := scratchFootprint(cfg, alignedDim) + int64(cfg.MaxPoints)*int64(alignedDim)*4
	if err := rc.AcquireMemory(reserved); err != nil {
		return nil, fmt.Errorf("vamana: reserve %d bytes: %w", reserved, err)
	}

	dedupe := visited.Sparse
	if cfg.DenseDedupe {
		dedupe = visited.Dense
	}

	c := &Core{
		cfg:           cfg,
		store:         vectorstore.New(cfg.MaxPoints, cfg.Dim, metricFn),
		rc:            rc,
		reservedBytes: reserved,
		logger:        opts.logger,
		metrics:       opts.metricsCollector,
	}

	c.queryPool = scratch.NewPool(cfg.PoolSize, func() *scratch.QueryScratch {
		return scratch.NewQueryScratch(scratch.QueryScratchOptions{
			L:          cfg.L,
			R:          cfg.R,
			MaxC:       cfg.MaxC,
			Dim:        cfg.Dim,
			DedupeKind: dedupe,
			PQ:         cfg.PQ,
			PQChunks:   cfg.PQChunks,
		})
	})

	idx := 0
	c.diskPool = scratch.NewPool(cfg.PoolSize, func() *scratch.ThreadContext {
		var io scratch.IOContext
		if opts.ioContexts != nil {
			io = opts.ioContexts[idx]
			idx++
		}
		return scratch.NewThreadContext(scratch.NewDiskScratch(scratch.DiskScratchOptions{
			AlignedDim:     alignedDim,
			MaxCmps:        cfg.MaxCmps,
			SectorLen:      cfg.SectorLen,
			MaxSectorReads: cfg.MaxSectorReads,
			L:              cfg.L,
			PQ:             cfg.PQ,
			PQChunks:       cfg.PQChunks,
		}), io)
	})

	c.logger.WithDimension(cfg.Dim).Info("core initialized",
		"max_points", cfg.MaxPoints,
		"pool_size", cfg.PoolSize,
		"reserved_bytes", reserved,
	)

	return c, nil
}

// Store returns the shared vector store.
func (c *Core) Store() *vectorstore.Store {
	return c.store
}

// Resources returns the resource controller shared with collaborators.
func (c *Core) Resources() *resource.Controller {
	return c.rc
}

// LeaseQueryScratch blocks until an in-memory working set is free and
// checks it out. Release the lease on every exit path.
func (c *Core) LeaseQueryScratch() *scratch.Lease[*scratch.QueryScratch] {
	start := time.Now()
	lease := scratch.NewLease(c.queryPool)
	c.metrics.RecordLeaseWait("query", time.Since(start))
	return lease
}

// LeaseQueryScratchContext is LeaseQueryScratch with a bounded wait.
func (c *Core) LeaseQueryScratchContext(ctx context.Context) (*scratch.Lease[*scratch.QueryScratch], error) {
	start := time.Now()
	lease, err := scratch.NewLeaseContext(ctx, c.queryPool)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordLeaseWait("query", time.Since(start))
	return lease, nil
}

// LeaseThreadContext blocks until a disk working set is free and checks
// it out. Release the lease on every exit path.
func (c *Core) LeaseThreadContext() *scratch.Lease[*scratch.ThreadContext] {
	start := time.Now()
	lease := scratch.NewLease(c.diskPool)
	c.metrics.RecordLeaseWait("disk", time.Since(start))
	return lease
}

// LeaseThreadContextContext is LeaseThreadContext with a bounded wait.
func (c *Core) LeaseThreadContextContext(ctx context.Context) (*scratch.Lease[*scratch.ThreadContext], error) {
	start := time.Now()
	lease, err := scratch.NewLeaseContext(ctx, c.diskPool)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordLeaseWait("disk", time.Since(start))
	return lease, nil
}

// Load bulk-loads a vector file into the store, throttled by the
// controller's IO limit when one is configured. Requires quiescence: no
// search may run concurrently.
func (c *Core) Load(ctx context.Context, path string) (int, error) {
	start := time.Now()

	n, err := c.load(ctx, path)
	c.metrics.RecordLoad(n, time.Since(start), err)
	if err != nil {
		return 0, err
	}

	c.logger.Info("vectors loaded", "path", path, "points", n, "took", time.Since(start))
	return n, nil
}

// load picks the zero-copy mmap path unless a throughput limit forces the
// reads through the controller's limiter.
func (c *Core) load(ctx context.Context, path string) (int, error) {
	if c.cfg.IOLimitBytesPerSec <= 0 {
		return c.store.Load(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("vamana: open %s: %w", path, err)
	}
	defer f.Close()

	r := resource.NewRateLimitedReader(ctx, bufio.NewReaderSize(f, 1<<16), c.rc)
	return c.store.LoadFrom(r)
}

// Close drains both scratch pools and releases the memory reservation.
// All leases must be released first.
func (c *Core) Close() error {
	if err := c.queryPool.Drain(); err != nil {
		return err
	}
	if err := c.diskPool.Drain(); err != nil {
		return err
	}

	c.rc.ReleaseMemory(c.reservedBytes)
	c.reservedBytes = 0
	return nil
}

// scratchFootprint estimates the bytes pre-warmed into both pools, for
// the controller's memory accounting.
func scratchFootprint(cfg Config, alignedDim int) int64 {
	perDisk := int64(cfg.MaxCmps)*int64(alignedDim)*4 + int64(cfg.MaxSectorReads)*int64(cfg.SectorLen)
	perQuery := int64(3*cfg.L+cfg.R)*12 + int64(cfg.MaxC)*4 + int64(alignedDim)*4
	return int64(cfg.PoolSize) * (perDisk + perQuery)
}

func metricFunc(name string) (distance.Func, error) {
	switch strings.ToLower(name) {
	case "", "l2":
		return distance.SquaredL2, nil
	case "cosine":
		return distance.Cosine, nil
	case "dot":
		return distance.NegativeDot, nil
	default:
		return nil, fmt.Errorf("vamana: unknown metric %q", name)
	}
}
