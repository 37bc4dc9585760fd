package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-orrery/engine/window"
)

// headlessFrameRate paces Run when there is no window to pace it.
const headlessFrameRate = 60

// engine implements the Engine interface.
// Everything registered with the engine runs on the goroutine that called Run.
type engine struct {
	mu *sync.Mutex

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	nextID    uint64
	callbacks map[uint64]func(dt float32)
	order     []uint64
	posted    []func()

	lastFrame time.Time

	running     bool
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
}

// Engine is the main entry point for the engine.
// It runs one frame per window message-loop iteration: queued work posted from other goroutines
// first, then every frame callback with the frame's delta time.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default), leaving pacing to the surface's present mode.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// RequestFrames registers a callback that runs once per frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	//
	// Returns:
	//   - func(): removes the callback. Safe to call more than once.
	RequestFrames(callback func(deltaTime float32)) func()

	// Post queues fn to run on the frame goroutine before the next frame's callbacks.
	// Safe to call from any goroutine.
	//
	// Parameters:
	//   - fn: the work to run
	Post(fn func())

	// Step runs one frame with the given delta: posted work, frame callbacks, then the profiler.
	// Run calls it once per message-loop iteration.
	//
	// Parameters:
	//   - deltaTime: elapsed seconds since the previous frame
	Step(deltaTime float32)

	// Run starts the frame loop and blocks until the window closes or Quit is called.
	// Must be called from the thread that created the window.
	Run()

	// Quit stops the frame loop. Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		callbacks:   make(map[uint64]func(dt float32)),
		quitChannel: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) RequestFrames(callback func(deltaTime float32)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.callbacks[id] = callback
	e.order = append(e.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.callbacks, id)
			for i, v := range e.order {
				if v == id {
					e.order = append(e.order[:i], e.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.posted = append(e.posted, fn)
}

func (e *engine) Step(deltaTime float32) {
	e.mu.Lock()
	posted := e.posted
	e.posted = nil
	e.mu.Unlock()

	for _, fn := range posted {
		fn()
	}

	// Callbacks are looked up one at a time so a callback cancelled earlier in the frame is skipped.
	e.mu.Lock()
	ids := make([]uint64, len(e.order))
	copy(ids, e.order)
	e.mu.Unlock()
	for _, id := range ids {
		e.mu.Lock()
		cb, ok := e.callbacks[id]
		e.mu.Unlock()
		if ok {
			cb(deltaTime)
		}
	}

	e.mu.Lock()
	profiling := e.profilingEnabled
	e.mu.Unlock()
	if profiling && e.profiler != nil {
		e.profiler.Tick()
	}
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.lastFrame = time.Now()
	e.mu.Unlock()

	// Recover from panics inside frame callbacks so the window is still torn down.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame loop recovered from panic: %v", r)
			e.Quit()
		}
	}()

	if e.window == nil {
		e.runHeadless()
		return
	}

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			if err := e.window.Close(); err != nil {
				log.Printf("[Engine] failed to close window: %v", err)
			}
			return
		default:
		}
		e.frame()
	})
	e.window.ProcessMessages()
	e.Quit()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// runHeadless steps frames at the frame limit, or 60 per second, until Quit.
func (e *engine) runHeadless() {
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}
		start := time.Now()
		e.frame()

		e.mu.Lock()
		limit := e.renderFrameLimit
		e.mu.Unlock()
		if limit == 0 {
			limit = time.Second / headlessFrameRate
		}
		if remaining := limit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// frame measures the delta since the last frame, steps, and applies the frame limit.
func (e *engine) frame() {
	now := time.Now()
	e.mu.Lock()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now
	limit := e.renderFrameLimit
	e.mu.Unlock()

	e.Step(dt)

	if e.window != nil && limit > 0 {
		if remaining := limit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}
