package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval and mirrors them into Prometheus gauges
// when a registerer is supplied.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	quiet          bool

	fps       prometheus.Gauge
	heapBytes prometheus.Gauge
	allocRate prometheus.Gauge
	gcPause   prometheus.Gauge
	frames    prometheus.Counter
}

// ProfilerOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are computed and logged.
//
// Parameters:
//   - d: the update interval
//
// Returns:
//   - ProfilerOption: a function that applies the interval option to a profiler
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithQuiet suppresses the log line while still updating the gauges.
//
// Parameters:
//   - quiet: true to stop logging
//
// Returns:
//   - ProfilerOption: a function that applies the quiet option to a profiler
func WithQuiet(quiet bool) ProfilerOption {
	return func(p *Profiler) {
		p.quiet = quiet
	}
}

// WithRegisterer registers the profiler gauges with a Prometheus registerer.
// Panics if the metrics are already registered, like prometheus.MustRegister.
//
// Parameters:
//   - reg: the registerer, e.g. prometheus.DefaultRegisterer
//
// Returns:
//   - ProfilerOption: a function that applies the registerer option to a profiler
func WithRegisterer(reg prometheus.Registerer) ProfilerOption {
	return func(p *Profiler) {
		p.fps = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_frames_per_second",
			Help: "Frames rendered per second over the last profiler interval",
		})
		p.heapBytes = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_heap_bytes",
			Help: "Bytes of allocated heap objects",
		})
		p.allocRate = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_alloc_bytes_per_second",
			Help: "Heap allocation rate over the last profiler interval",
		})
		p.gcPause = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_gc_max_pause_microseconds",
			Help: "Longest GC pause during the last profiler interval",
		})
		p.frames = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_frames_total",
			Help: "Total frames rendered",
		})
		reg.MustRegister(p.fps, p.heapBytes, p.allocRate, p.gcPause, p.frames)
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were computed this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	if p.frames != nil {
		p.frames.Inc()
	}
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}
	seconds := max(elapsed.Seconds(), 1e-9)
	fps := float64(p.frameCount) / seconds

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRate := float64(allocDelta) / seconds

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			fps, allocMB, allocRate/1024/1024, gcCount, lastPauseUs, maxPauseUs, sysMB)
	}
	if p.fps != nil {
		p.fps.Set(fps)
		p.heapBytes.Set(float64(p.memStats.Alloc))
		p.allocRate.Set(allocRate)
		p.gcPause.Set(float64(maxPauseUs))
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
