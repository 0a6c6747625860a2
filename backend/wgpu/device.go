// Package wgpu implements an offscreen WebGPU rendering device on top
// of the gogpu hal. Shaders are WGSL, validated per stage through naga
// before module creation; draws are recorded during the frame and
// submitted as one render pass in Flush, after which the color target
// is read back into a Pixmap.
//
// The device has no windowing layer. Sessions using it run against a
// HeadlessWindow and export frames via the PixmapSource interface.
package wgpu

import (
	"fmt"
	"log"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/primer"
)

func init() {
	primer.Register(primer.DeviceWGPU, func() primer.Device {
		return New()
	})
}

// pipelineKey identifies one cached render pipeline: a program drawing
// one vertex layout with one topology.
type pipelineKey struct {
	program *Program
	layout  string
	kind    primer.PrimitiveKind
}

// drawCmd is one recorded draw, replayed inside the frame's render pass.
type drawCmd struct {
	program *Program
	geom    *Geometry
	kind    primer.PrimitiveKind
	count   int
}

// Device is the offscreen WebGPU device.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// ownsDevice is false when the hal device came from an external
	// provider; shared devices are not torn down on Close.
	ownsDevice bool

	width  int
	height int

	colorTex  hal.Texture
	colorView hal.TextureView
	pixmap    *primer.Pixmap

	clearColor f32.Vec4
	frameOpen  bool
	draws      []drawCmd

	boundProgram  *Program
	boundGeometry *Geometry

	pipelines map[pipelineKey]hal.RenderPipeline
	closed    bool
}

var (
	_ primer.Device       = (*Device)(nil)
	_ primer.PixmapSource = (*Device)(nil)
)

// New creates an uninitialized wgpu device with the default 800x600
// render target.
func New() *Device {
	return &Device{
		width:     800,
		height:    600,
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}
}

// Name returns "wgpu".
func (d *Device) Name() string { return primer.DeviceWGPU }

// ShaderLanguage returns LangWGSL.
func (d *Device) ShaderLanguage() primer.ShaderLanguage { return primer.LangWGSL }

// SetDeviceProvider adopts a shared hal device and queue from a host
// application instead of opening a standalone one. The provider must
// implement HalDevice() any and HalQueue() any, as gogpu's context
// providers do. Call before Init.
func (d *Device) SetDeviceProvider(provider any) error {
	hp, ok := provider.(interface {
		HalDevice() any
		HalQueue() any
	})
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HalDevice/HalQueue")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}
	d.device = device
	d.queue = queue
	d.ownsDevice = false
	return nil
}

// Init opens a hal device if none was provided: Vulkan backend, first
// discrete or integrated adapter, default limits.
func (d *Device) Init() error {
	d.closed = false
	if d.device != nil {
		return nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	d.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("wgpu: no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("wgpu: open device: %w", err)
	}
	d.device = openDev.Device
	d.queue = openDev.Queue
	d.ownsDevice = true
	log.Printf("wgpu: device up, adapter %s", selected.Info.Name)
	return nil
}

// Close releases pipelines and the render target. A shared device from
// SetDeviceProvider is left alone.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true

	if d.device != nil {
		for _, p := range d.pipelines {
			d.device.DestroyRenderPipeline(p)
		}
		d.pipelines = make(map[pipelineKey]hal.RenderPipeline)
		d.destroyRenderTarget()
	}
	if d.ownsDevice {
		d.device = nil
		d.queue = nil
		d.instance = nil
	}
	d.boundProgram = nil
	d.boundGeometry = nil
	d.draws = nil
	d.frameOpen = false
}

// Pixmap returns the last read-back frame.
func (d *Device) Pixmap() *primer.Pixmap { return d.pixmap }

// Viewport resizes the render target. The texture is recreated lazily
// on the next Flush.
func (d *Device) Viewport(width, height int) {
	if width == d.width && height == d.height {
		return
	}
	d.width = width
	d.height = height
	if d.device != nil {
		d.destroyRenderTarget()
	}
}

// Clear opens a new frame: the clear color is applied by the render
// pass LoadOp in Flush, and recorded draws from the previous frame are
// dropped.
func (d *Device) Clear(c f32.Vec4) {
	d.clearColor = c
	d.draws = d.draws[:0]
	d.frameOpen = true
}

// ensureRenderTarget creates the BGRA8 color texture and its view at
// the current viewport size.
func (d *Device) ensureRenderTarget() error {
	if d.colorTex != nil {
		return nil
	}
	w := uint32(d.width)
	h := uint32(d.height)

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "primer_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create color texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "primer_color_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return fmt.Errorf("wgpu: create color view: %w", err)
	}
	d.colorTex = tex
	d.colorView = view
	d.pixmap = primer.NewPixmap(d.width, d.height)
	return nil
}

func (d *Device) destroyRenderTarget() {
	if d.colorView != nil {
		d.device.DestroyTextureView(d.colorView)
		d.colorView = nil
	}
	if d.colorTex != nil {
		d.device.DestroyTexture(d.colorTex)
		d.colorTex = nil
	}
}
