package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/Carmen-Shannon/oxy-orrery/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrReleased is returned by Render after Release.
var ErrReleased = errors.New("renderer: released")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	released    bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer defines the interface for drawing a scene through a camera onto the window surface.
//
// Every frame is one render pass: the translucent starfield backdrop, then the sun and planets,
// then the orbit-path lines. GPU buffers are created lazily per mesh, texture and body, and are
// reused for as long as the body stays in the scene.
type Renderer interface {
	// Resize reconfigures the surface and its depth and MSAA attachments. Non-positive sizes
	// (a minimised window) are ignored.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// Render draws one frame of the scene as seen by the camera and presents it.
	//
	// Parameters:
	//   - sc: the scene to draw
	//   - cam: the camera whose view-projection is used
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or encoded
	Render(sc scene.Scene, cam camera.Camera) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Pipeline retrieves the cached Pipeline associated with the given key ("backdrop", "bodies"
	// or "orbits"), or nil if none exists.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the cached Pipeline, or nil
	Pipeline(key string) pipeline.Pipeline

	// Release frees every GPU resource. Render returns ErrReleased afterwards. Safe to call twice.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type for the given window.
// It compiles the backdrop, body and orbit pipelines from the embedded WGSL module and
// configures the surface at the window's current size. Adapter or device failures panic.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - w: the window whose surface is drawn into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		clearColor:    wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}

	// Options first so forceFallbackAdapter is known before the adapter is requested.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.clearColor)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	width, height := w.Size()
	r.backend.ConfigureSurface(width, height)

	for _, p := range defaultPipelines() {
		if _, ok := r.pipelineCache[p.PipelineKey()]; !ok {
			r.pipelineCache[p.PipelineKey()] = p
		}
	}
	for key, p := range r.pipelineCache {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			panic(fmt.Sprintf("failed to create %s pipeline: %v", key, err))
		}
	}
	return r
}

// defaultPipelines describes the three passes drawn every frame.
func defaultPipelines() []pipeline.Pipeline {
	return []pipeline.Pipeline{
		pipeline.NewPipeline(passBackdrop.key(), SolarShaderSource,
			pipeline.WithCullMode(wgpu.CullModeFront),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
		),
		pipeline.NewPipeline(passBodies.key(), SolarShaderSource,
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(passOrbits.key(), SolarShaderSource,
			pipeline.WithEntryPoints("vs_main", "fs_line"),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineStrip),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
		),
	}
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Render(sc scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}

	frame := frameUniforms(sc, cam)
	r.backend.WriteFrameUniforms(&frame)

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}

	items := drawList(sc)
	live := make(map[uint64]struct{}, len(items))
	var drawErr error
	for _, it := range items {
		live[it.body.ID()] = struct{}{}
		p := r.pipelineCache[it.pass.key()]
		u := bodyUniforms(it.body)
		if err := r.backend.DrawBody(p, it.body, &u); err != nil {
			drawErr = errors.Join(drawErr, fmt.Errorf("failed to draw %s: %w", it.body.Name(), err))
		}
	}

	r.backend.EndFrame()
	r.backend.Present()
	r.backend.PruneBodies(live)

	return drawErr
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	for _, p := range r.pipelineCache {
		p.Release()
	}
	r.backend.Release()
}
