package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/primer"
)

// fenceWaitTimeout bounds how long Flush waits for the GPU.
const fenceWaitTimeout = 5 * time.Second

// Flush encodes the frame opened by Clear as a single render pass,
// submits it, waits for completion, and reads the color target back
// into the pixmap (BGRA to RGBA). Without an open frame it is a no-op.
func (d *Device) Flush() error {
	if d.closed || d.device == nil {
		return primer.ErrDeviceClosed
	}
	if !d.frameOpen {
		return nil
	}
	d.frameOpen = false

	if err := d.ensureRenderTarget(); err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "primer_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("primer_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "primer_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    d.colorView,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(d.clearColor[0]),
				G: float64(d.clearColor[1]),
				B: float64(d.clearColor[2]),
				A: float64(d.clearColor[3]),
			},
		}},
	})

	for _, cmd := range d.draws {
		pipeline, perr := d.ensurePipeline(cmd.program, cmd.geom, cmd.kind)
		if perr != nil {
			rp.End()
			encoder.DiscardEncoding()
			return perr
		}
		rp.SetPipeline(pipeline)
		if cmd.program.bindGroup != nil {
			rp.SetBindGroup(0, cmd.program.bindGroup, nil)
		}
		rp.SetVertexBuffer(0, cmd.geom.vertBuf, 0)
		if cmd.geom.indexCount > 0 {
			rp.SetIndexBuffer(cmd.geom.idxBuf, gputypes.IndexFormatUint32, 0)
			rp.DrawIndexed(uint32(cmd.count), 1, 0, 0, 0)
		} else {
			rp.Draw(uint32(cmd.count), 1, 0, 0)
		}
	}
	rp.End()

	// The pass leaves the texture as a render attachment; the copy
	// below needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	// Row pitch must be 256-byte aligned for the copy.
	w := uint32(d.width)
	h := uint32(d.height)
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "primer_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(d.colorTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: d.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, fenceWaitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%v", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("wgpu: readback: %w", err)
	}

	// Strip row padding and swizzle BGRA to the pixmap's RGBA.
	pix := d.pixmap.Data()
	for row := uint32(0); row < h; row++ {
		src := readback[row*alignedBytesPerRow:]
		dst := pix[row*bytesPerRow:]
		for x := uint32(0); x < w; x++ {
			dst[x*4+0] = src[x*4+2]
			dst[x*4+1] = src[x*4+1]
			dst[x*4+2] = src[x*4+0]
			dst[x*4+3] = src[x*4+3]
		}
	}
	return nil
}

// ensurePipeline returns the cached render pipeline for a
// (program, vertex layout, topology) combination, creating it on first
// use.
func (d *Device) ensurePipeline(p *Program, g *Geometry, kind primer.PrimitiveKind) (hal.RenderPipeline, error) {
	key := pipelineKey{program: p, layout: g.layoutKey(), kind: kind}
	if pipeline, ok := d.pipelines[key]; ok {
		return pipeline, nil
	}

	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "primer_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertModule,
			EntryPoint: vertexEntryPoint,
			Buffers:    g.vertexBufferLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.fragModule,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    gputypes.TextureFormatBGRA8Unorm,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: wgpuTopology(kind),
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline: %w", err)
	}
	d.pipelines[key] = pipeline
	return pipeline, nil
}

// wgpuTopology maps a primitive kind to a wgpu topology.
func wgpuTopology(k primer.PrimitiveKind) gputypes.PrimitiveTopology {
	switch k {
	case primer.TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	case primer.LineList:
		return gputypes.PrimitiveTopologyLineList
	case primer.PointList:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}
