package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
	"github.com/Carmen-Shannon/oxy-orrery/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuMesh holds the uploaded buffers for one model.Mesh.
type gpuMesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	vertexCount  uint32
	indexCount   uint32
}

// gpuTexture holds an uploaded material texture.
type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// gpuBody holds the uniform buffer and bind group of one body. The bind group is rebuilt when
// the body's texture view changes.
type gpuBody struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	view      *wgpu.TextureView
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	clearColor           wgpu.Color

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	frameLayout    *wgpu.BindGroupLayout
	bodyLayout     *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	frameBuffer    *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup
	sampler        *wgpu.Sampler
	white          *gpuTexture

	meshes   map[string]*gpuMesh
	textures map[*common.TextureStagingData]*gpuTexture
	bodies   map[uint64]*gpuBody

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// It also recreates the MSAA and depth attachments at the new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. Applied on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline compiles the pipeline's WGSL module against the shared frame and
	// body bind group layouts and stores the result on the pipeline.
	//
	// Parameters:
	//   - p: the pipeline to compile
	//
	// Returns:
	//   - error: an error if the shader module or pipeline could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// WriteFrameUniforms uploads the per-frame camera and lighting uniform.
	//
	// Parameters:
	//   - u: the frame uniforms
	WriteFrameUniforms(u *GPUFrameUniforms)

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawBody encodes one draw of the body with the given pipeline. Mesh, texture and uniform
	// resources are created on first use and cached.
	//
	// Parameters:
	//   - p: the compiled pipeline
	//   - b: the body to draw
	//   - u: the body's uniforms for this frame
	//
	// Returns:
	//   - error: an error if a GPU resource for the body could not be created
	DrawBody(p pipeline.Pipeline, b body.Body, u *GPUBodyUniforms) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// PruneBodies releases the per-body resources of every body not in live.
	//
	// Parameters:
	//   - live: the IDs drawn this frame
	PruneBodies(live map[uint64]struct{})

	// Release frees every GPU object owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor wgpu.Color) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  clearColor,
		meshes:      make(map[string]*gpuMesh),
		textures:    make(map[*common.TextureStagingData]*gpuTexture),
		bodies:      make(map[uint64]*gpuBody),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Orrery Device",
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if err := w.initSharedResources(); err != nil {
		panic(err)
	}
	return w
}

// initSharedResources creates the bind group layouts, frame uniform, sampler and the 1x1 white
// texture bound for flat materials.
func (b *wgpuRendererBackendImpl) initSharedResources() error {
	var err error
	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 144,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame layout: %w", err)
	}

	b.bodyLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Body Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 96,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create body layout: %w", err)
	}

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Orrery Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.bodyLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	b.frameBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  144,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create frame buffer: %w", err)
	}

	b.frameBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: b.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.frameBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Body Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	white := common.SolidTexture(255, 255, 255, 255)
	b.white, err = b.uploadTexture("White", &white)
	if err != nil {
		return fmt.Errorf("failed to create white texture: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: 1,
	}

	if msaaEnabled {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth sample count must match the colour attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before creating pipelines")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return err
	}

	target := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntry(),
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntry(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created)
	return nil
}

// vertexLayout describes model.Vertex: position, normal, uv.
func vertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: model.VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

func (b *wgpuRendererBackendImpl) WriteFrameUniforms(u *GPUFrameUniforms) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(b.frameBuffer, 0, u.Marshal())
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A held surface texture means the previous frame was never presented.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetBindGroup(0, b.frameBindGroup, nil)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawBody(p pipeline.Pipeline, bd body.Body, u *GPUBodyUniforms) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("no frame in progress")
	}
	if p == nil || p.RenderPipeline() == nil {
		return errors.New("pipeline not compiled")
	}

	mesh, err := b.meshFor(bd.Mesh())
	if err != nil {
		return err
	}
	view, err := b.textureFor(bd.Material())
	if err != nil {
		return err
	}
	gb, err := b.bodyFor(bd, view)
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(gb.buffer, 0, u.Marshal())

	b.framePass.SetPipeline(p.RenderPipeline())
	b.framePass.SetBindGroup(1, gb.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, mesh.vertexBuffer, 0, wgpu.WholeSize)
	if mesh.indexBuffer != nil {
		b.framePass.SetIndexBuffer(mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(mesh.indexCount, 1, 0, 0, 0)
	} else {
		b.framePass.Draw(mesh.vertexCount, 1, 0, 0)
	}
	return nil
}

// meshFor returns the cached buffers of a mesh, uploading them on first use.
func (b *wgpuRendererBackendImpl) meshFor(m model.Mesh) (*gpuMesh, error) {
	if gm, ok := b.meshes[m.Key()]; ok {
		return gm, nil
	}

	vertexData := common.SliceToBytes(m.Vertices())
	gm := &gpuMesh{vertexCount: uint32(len(m.Vertices()))}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Key() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer for %s: %w", m.Key(), err)
	}
	b.queue.WriteBuffer(buf, 0, vertexData)
	gm.vertexBuffer = buf

	if indices := m.Indices(); len(indices) > 0 {
		indexData := common.SliceToBytes(indices)
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.Key() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			gm.vertexBuffer.Release()
			return nil, fmt.Errorf("failed to create index buffer for %s: %w", m.Key(), err)
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		gm.indexBuffer = buf
		gm.indexCount = uint32(len(indices))
	}

	b.meshes[m.Key()] = gm
	return gm, nil
}

// textureFor returns the texture view sampled for a material. Flat materials share the white
// texture and are tinted by their colour in the shader.
func (b *wgpuRendererBackendImpl) textureFor(m model.Material) (*wgpu.TextureView, error) {
	if m == nil || m.Texture() == nil {
		return b.white.view, nil
	}
	tex := m.Texture()
	if gt, ok := b.textures[tex]; ok {
		return gt.view, nil
	}
	gt, err := b.uploadTexture("Body", tex)
	if err != nil {
		return nil, err
	}
	b.textures[tex] = gt
	return gt.view, nil
}

func (b *wgpuRendererBackendImpl) uploadTexture(label string, data *common.TextureStagingData) (*gpuTexture, error) {
	size := wgpu.Extent3D{
		Width:              data.Width,
		Height:             data.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &gpuTexture{texture: tex, view: view}, nil
}

// bodyFor returns the uniform buffer and bind group of a body, rebuilding the bind group when the
// material's texture changed since the last frame.
func (b *wgpuRendererBackendImpl) bodyFor(bd body.Body, view *wgpu.TextureView) (*gpuBody, error) {
	gb, ok := b.bodies[bd.ID()]
	if ok && gb.view == view {
		return gb, nil
	}
	if !ok {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: bd.Name() + " Uniform Buffer",
			Size:  96,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create uniform buffer: %w", err)
		}
		gb = &gpuBody{buffer: buf}
		b.bodies[bd.ID()] = gb
	}
	if gb.bindGroup != nil {
		gb.bindGroup.Release()
		gb.bindGroup = nil
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  bd.Name() + " Bind Group",
		Layout: b.bodyLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: gb.buffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: b.sampler},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group: %w", err)
	}
	gb.bindGroup = bindGroup
	gb.view = view
	return gb, nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) PruneBodies(live map[uint64]struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, gb := range b.bodies {
		if _, ok := live[id]; ok {
			continue
		}
		gb.release()
		delete(b.bodies, id)
	}
}

func (gb *gpuBody) release() {
	if gb.bindGroup != nil {
		gb.bindGroup.Release()
	}
	if gb.buffer != nil {
		gb.buffer.Release()
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, gb := range b.bodies {
		gb.release()
		delete(b.bodies, id)
	}
	for tex, gt := range b.textures {
		gt.view.Release()
		gt.texture.Release()
		delete(b.textures, tex)
	}
	for key, gm := range b.meshes {
		gm.vertexBuffer.Release()
		if gm.indexBuffer != nil {
			gm.indexBuffer.Release()
		}
		delete(b.meshes, key)
	}
	if b.white != nil {
		b.white.view.Release()
		b.white.texture.Release()
		b.white = nil
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.frameBindGroup != nil {
		b.frameBindGroup.Release()
	}
	if b.frameBuffer != nil {
		b.frameBuffer.Release()
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	if b.bodyLayout != nil {
		b.bodyLayout.Release()
	}
	if b.frameLayout != nil {
		b.frameLayout.Release()
	}
	b.releaseAttachments()
	b.surface.Release()
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
}
