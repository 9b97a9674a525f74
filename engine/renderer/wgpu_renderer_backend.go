package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/NatC02/glb-freeze/common"
	"github.com/NatC02/glb-freeze/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

// nodeUniformStride is the byte distance between per-draw slots in the node
// uniform buffer. WebGPU requires dynamic offsets to be multiples of
// minUniformBufferOffsetAlignment, which defaults to 256.
const nodeUniformStride = 256

// globalUniform mirrors the Globals struct in the WGSL shader.
// Vectors are padded to vec4 to satisfy WGSL uniform layout rules.
type globalUniform struct {
	ViewProj  [16]float32
	LightDir  [4]float32
	CameraPos [4]float32
}

// gpuMesh holds the GPU buffers for one uploaded mesh.
type gpuMesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeFifo (VSync)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass

	// The single lit render pipeline and its uniform resources. Created on the
	// first ConfigureSurface call, once the surface format is known.
	pipeline        *wgpu.RenderPipeline
	globalsBuffer   *wgpu.Buffer
	globalsBindGrp  *wgpu.BindGroup
	nodeBuffer      *wgpu.Buffer
	nodeBindGrp     *wgpu.BindGroup
	maxDraws        int
	meshes          []gpuMesh

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	drawIndex    int
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface

	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// CreateMesh creates GPU vertex and index buffers for the given mesh and
	// returns a handle for draw calls.
	//
	// Parameters:
	//   - mesh: the mesh whose vertices and indices should be uploaded
	//
	// Returns:
	//   - MeshHandle: the handle identifying the uploaded mesh
	//   - error: an error if buffer creation fails
	CreateMesh(mesh *model.Mesh) (MeshHandle, error)

	// BeginFrame acquires the next swapchain texture, uploads the frame globals,
	// creates a command encoder, and begins the main render pass. Must be paired
	// with EndFrame after all Draw invocations.
	//
	// Parameters:
	//   - globals: the per-frame uniform data shared by every draw call
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(globals FrameGlobals) error

	// Draw encodes a single draw command within the current render pass started by BeginFrame.
	// Multiple Draw invocations can be made between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - mesh: the handle of the mesh to draw
	//   - modelMatrix: the column-major world matrix for this draw (16 floats)
	//
	// Returns:
	//   - error: an error if the handle is invalid
	Draw(mesh MeshHandle, modelMatrix []float32) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface — call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all Draw invocations.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, maxDraws int) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		maxDraws:    maxDraws,
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
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
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

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// Create the MSAA texture that the render pass draws into; the resolved
		// result is written to the swapchain view as the ResolveTarget.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	} else {
		// No MSAA — the render pass draws directly to the swapchain view.
		b.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Build the cached render pass descriptor for the main render target.
	// When MSAA is enabled, View is the MSAA texture and ResolveTarget is
	// set per-frame to the swapchain view. When disabled, View is set
	// per-frame to the swapchain view and ResolveTarget remains nil.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue: wgpu.Color{
					R: 0.09, G: 0.09, B: 0.11, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView, // Persistent until resize
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard, // Depth not needed after resolving
			DepthClearValue: 1.0,
		},
	}

	if b.pipeline == nil {
		if err := b.createLitPipeline(); err != nil {
			panic(err)
		}
	}
}

// createLitPipeline builds the single lit render pipeline, the globals and
// per-node uniform buffers, and their bind groups. Called once, after the
// surface format is known.
func (b *wgpuRendererBackendImpl) createLitPipeline() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Lit Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: litShaderSource,
		},
	})
	if err != nil {
		return err
	}

	globalsLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Globals Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(96),
				},
			},
		},
	})
	if err != nil {
		return err
	}

	nodeLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Node Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   uint64(64),
				},
			},
		},
	})
	if err != nil {
		return err
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lit Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{globalsLayout, nodeLayout},
	})
	if err != nil {
		return err
	}

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Lit Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(24), // vec3 position + vec3 normal
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
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

	b.globalsBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Globals Buffer",
		Size:  uint64(96),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	b.globalsBindGrp, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Globals Bind Group",
		Layout: globalsLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.globalsBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}

	b.nodeBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Node Uniform Buffer",
		Size:  uint64(b.maxDraws * nodeUniformStride),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	b.nodeBindGrp, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Node Bind Group",
		Layout: nodeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.nodeBuffer, Offset: 0, Size: uint64(64)},
		},
	})
	return err
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

func (b *wgpuRendererBackendImpl) CreateMesh(mesh *model.Mesh) (MeshHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexData := common.SliceToBytes(mesh.Vertices)
	indexData := common.SliceToBytes(mesh.Indices)
	if len(vertexData) == 0 || len(indexData) == 0 {
		return -1, fmt.Errorf("mesh %q has no vertex or index data", mesh.Name)
	}

	vbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mesh.Name + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return -1, err
	}
	b.queue.WriteBuffer(vbuf, 0, vertexData)

	ibuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mesh.Name + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vbuf.Release()
		return -1, err
	}
	b.queue.WriteBuffer(ibuf, 0, indexData)

	handle := MeshHandle(len(b.meshes))
	b.meshes = append(b.meshes, gpuMesh{
		vertexBuffer: vbuf,
		indexBuffer:  ibuf,
		indexCount:   len(mesh.Indices),
	})
	return handle, nil
}

func (b *wgpuRendererBackendImpl) BeginFrame(globals FrameGlobals) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Defensive: if a previous frame's surface texture is still held, avoid
	// attempting to acquire another one. This prevents wgpu-native validation
	// errors like "Surface image is already acquired" when frames overlap.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	uniform := globalUniform{
		ViewProj:  globals.ViewProjection,
		LightDir:  [4]float32{globals.LightDirection[0], globals.LightDirection[1], globals.LightDirection[2], 0},
		CameraPos: [4]float32{globals.CameraPosition[0], globals.CameraPosition[1], globals.CameraPosition[2], 1},
	}
	b.queue.WriteBuffer(b.globalsBuffer, 0, common.StructToBytes(&uniform))

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

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget. When MSAA is off, the swapchain
	// view is the color attachment View directly and ResolveTarget is nil.
	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.globalsBindGrp, nil)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.drawIndex = 0

	return nil
}

func (b *wgpuRendererBackendImpl) Draw(mesh MeshHandle, modelMatrix []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if int(mesh) < 0 || int(mesh) >= len(b.meshes) {
		return fmt.Errorf("invalid mesh handle %d", mesh)
	}
	if b.framePass == nil {
		return fmt.Errorf("no active render pass — call BeginFrame first")
	}
	if b.drawIndex >= b.maxDraws {
		// Drop draws beyond the uniform buffer capacity rather than corrupting
		// another slot mid-pass.
		return nil
	}

	var matrix [16]float32
	copy(matrix[:], modelMatrix)
	offset := uint64(b.drawIndex * nodeUniformStride)
	b.queue.WriteBuffer(b.nodeBuffer, offset, common.StructToBytes(&matrix))

	m := b.meshes[mesh]
	b.framePass.SetBindGroup(1, b.nodeBindGrp, []uint32{uint32(offset)})
	b.framePass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(m.indexCount), 1, 0, 0, 0)

	b.drawIndex++
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}

	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	// Present the acquired surface image and release local references.
	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Instance() *wgpu.Instance {
	return b.instance
}

func (b *wgpuRendererBackendImpl) Adapter() *wgpu.Adapter {
	return b.adapter
}

func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface {
	return b.surface
}
