package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/agecolor"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/concurrent"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/config"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/corridor"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/geo"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/metrics"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/projection"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// RenderItem is one opaque corridor polygon ready for the overlay layer.
type RenderItem struct {
	TraceID   string
	Polygon   orb.Ring // EPSG:3857
	FillColor agecolor.RGB
	ZIndex    int
	AgeDays   int
}

type ScanResult struct {
	// Items are ordered oldest drive first, newest last.
	Items        []RenderItem
	NumDrives    int
	NumSegments  int
	Skipped      int
	TotalLengthM float64
	// Viewport saved when the scan began, to be restored by the caller.
	Viewport datastructure.Viewport
}

// Summary is the display text for the settings panel.
func (r *ScanResult) Summary() string {
	return fmt.Sprintf("Drives: %d, Drive segments: %d", r.NumDrives, r.NumSegments)
}

type Pipeline struct {
	builder        *corridor.Builder
	mapper         agecolor.Mapper
	maxDrives      int
	workers        int
	simplifyMeters float64
	clock          func() time.Time
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

type Option func(*Pipeline)

func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// New validates cfg and prepares a pipeline. An invalid radius is fatal.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	builder, err := corridor.NewBuilder(cfg.Radius(),
		corridor.WithCalibration(cfg.Calibration()),
		corridor.WithCapStep(cfg.Corridor.CapStepDegrees),
	)
	if err != nil {
		return nil, fmt.Errorf("corridor builder: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		builder: builder,
		mapper: agecolor.Mapper{
			ExpiryWindowDays: cfg.ExpiryWindowDays,
			ValidityDays:     cfg.ValidityDays,
		},
		maxDrives:      cfg.MaxDrives,
		workers:        cfg.Workers,
		simplifyMeters: cfg.SimplifyMeters,
		clock:          time.Now,
		logger:         logger,
	}
	if p.maxDrives <= 0 {
		p.maxDrives = pkg.MAX_DRIVES
	}
	if p.workers <= 0 {
		p.workers = 1
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type job struct {
	recency int
	trace   datastructure.Trace
	now     time.Time
}

type rendered struct {
	item     RenderItem
	segments int
	lengthM  float64
	err      error
}

// Scan renders traces, given oldest first, into corridor polygons. A trace
// that cannot be rendered is logged and skipped. Only ErrScanInProgress is
// returned as an error.
func (p *Pipeline) Scan(session *Session, viewport datastructure.Viewport, traces []datastructure.Trace) (*ScanResult, error) {
	if !session.active.CompareAndSwap(false, true) {
		return nil, pkg.ErrScanInProgress
	}
	defer session.active.Store(false)

	start := time.Now()
	now := p.clock()

	if len(traces) > p.maxDrives {
		p.logger.Sugar().Warnf("found %d drives, keeping the newest %d", len(traces), p.maxDrives)
		traces = traces[len(traces)-p.maxDrives:]
	}
	session.begin(viewport, len(traces))
	p.logger.Info("scanning drives", zap.Int("drives", len(traces)))

	// recency 0 is the newest drive and gets the highest z-index
	jobs := make([]job, len(traces))
	for i := range traces {
		recency := len(traces) - 1 - i
		jobs[recency] = job{recency: recency, trace: traces[i], now: now}
	}
	results := concurrent.Map(p.workers, jobs, p.render)

	skipped := 0
	totalLength := 0.0
	for i, res := range results {
		if res.err != nil {
			skipped++
			p.recordSkip(res.err)
			p.logger.Warn("skipping drive",
				zap.Int("recency", i),
				zap.String("trace_id", jobs[i].trace.ID),
				zap.Error(res.err))
			continue
		}
		session.add(res.item, res.segments)
		totalLength += res.lengthM
		if p.metrics != nil {
			p.metrics.TracesRendered.Inc()
			p.metrics.RingVertices.Observe(float64(len(res.item.Polygon)))
		}
	}

	items, drives, segments, saved := session.end()
	if drives == 0 && len(traces) > 0 {
		p.logger.Error("no drive could be rendered", zap.Int("skipped", skipped))
	}
	if p.metrics != nil {
		p.metrics.ScanDuration.Observe(time.Since(start).Seconds())
		p.metrics.LastScanDrives.Set(float64(drives))
	}
	p.logger.Info("scan finished",
		zap.Int("drives", drives),
		zap.Int("segments", segments),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(start)))

	return &ScanResult{
		Items:        items,
		NumDrives:    drives,
		NumSegments:  segments,
		Skipped:      skipped,
		TotalLengthM: totalLength,
		Viewport:     saved,
	}, nil
}

func (p *Pipeline) render(j job) rendered {
	path := j.trace.Path
	if p.simplifyMeters > 0 {
		path = geo.Simplify(path, p.simplifyMeters)
	}

	ring, err := p.builder.Build(path)
	if err != nil {
		return rendered{err: err}
	}
	age, err := agecolor.AgeInDays(j.trace.CapturedAt, j.now)
	if err != nil {
		return rendered{err: err}
	}

	return rendered{
		item: RenderItem{
			TraceID:   j.trace.ID,
			Polygon:   projection.ToMercator(ring),
			FillColor: p.mapper.ColorForAge(age),
			ZIndex:    p.maxDrives*pkg.Z_INDEX_STEP - j.recency*pkg.Z_INDEX_STEP,
			AgeDays:   age,
		},
		segments: path.NumSegments(),
		lengthM:  geo.PolylineLength(path),
	}
}

func (p *Pipeline) recordSkip(err error) {
	if p.metrics == nil {
		return
	}
	reason := metrics.ReasonOther
	switch {
	case errors.Is(err, pkg.ErrInvalidGeometry):
		reason = metrics.ReasonGeometry
	case errors.Is(err, pkg.ErrInvalidTimestamp):
		reason = metrics.ReasonTimestamp
	}
	p.metrics.TracesSkipped.WithLabelValues(reason).Inc()
}
