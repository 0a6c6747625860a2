// Command hellowindow opens a window and clears it to the tutorial
// background color every frame. It is the smallest possible render
// loop: no shaders, no geometry.
package main

import (
	"flag"
	"log"

	"github.com/gogpu/primer"
	_ "github.com/gogpu/primer/backend/gl"
	_ "github.com/gogpu/primer/backend/wgpu"
)

func main() {
	var (
		backend = flag.String("backend", "", "rendering device (gl, wgpu, software; default: best available)")
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		frames  = flag.Int("frames", 1, "frames to render on headless devices")
		output  = flag.String("output", "window.png", "output file for headless devices")
	)
	flag.Parse()

	opts := []primer.SessionOption{primer.WithFrameBudget(*frames)}
	if *backend != "" {
		opts = append(opts, primer.WithDeviceName(*backend))
	}

	session, err := primer.NewRenderSession(primer.SessionConfig{
		Width:  *width,
		Height: *height,
		Title:  "Hello Window",
	}, opts...)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	device := session.Device()

	if err := session.Run(nil); err != nil {
		log.Fatalf("render: %v", err)
	}

	if src, ok := device.(primer.PixmapSource); ok && src.Pixmap() != nil {
		if err := src.Pixmap().SavePNG(*output); err != nil {
			log.Fatalf("save: %v", err)
		}
		log.Printf("saved %s", *output)
	}
}
