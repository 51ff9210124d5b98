// The simulator replays a scripted editing session against the engine and
// dumps the preview frames as numbered PNGs, for eyeballing the spring
// animation without a framebuffer.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/xiaoguangdong/cover-magic/internal/config"
	"github.com/xiaoguangdong/cover-magic/internal/engine"
	"github.com/xiaoguangdong/cover-magic/internal/render"
	"github.com/xiaoguangdong/cover-magic/internal/state"
)

func main() {
	outDir := flag.String("out", "/tmp/cover-magic-sim", "directory frames are written to")
	stepEvery := flag.Duration("step-every", 500*time.Millisecond, "interval between scripted config changes")
	capEvery := flag.Duration("capture-every", 50*time.Millisecond, "interval between frame captures")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Println("out dir error:", err)
		os.Exit(2)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	sink := render.NewMemorySink()
	eng := engine.New(store, sink)
	eng.Logger = engine.NewFileLogger(os.Stdout)
	if err := eng.Start(processCtx); err != nil {
		fmt.Println("engine start error:", err)
		os.Exit(2)
	}
	defer eng.Stop()

	// Scripted session: move and resize elements step by step; each change
	// runs through the debounce and spring pipeline like a slider drag.
	steps := script(store)

	captureTicker := time.NewTicker(*capEvery)
	defer captureTicker.Stop()
	stepTicker := time.NewTicker(*stepEvery)
	defer stepTicker.Stop()

	frameN := 0
	for {
		select {
		case <-processCtx.Done():
			fmt.Println("wrote", frameN, "frames to", *outDir)
			return
		case <-stepTicker.C:
			if len(steps) == 0 {
				fmt.Println("wrote", frameN, "frames to", *outDir)
				return
			}
			steps[0]()
			steps = steps[1:]
		case <-captureTicker.C:
			frame := sink.Last()
			if frame == nil {
				continue
			}
			path := filepath.Join(*outDir, fmt.Sprintf("frame-%04d.png", frameN))
			f, err := os.Create(path)
			if err != nil {
				fmt.Println("frame write error:", err)
				continue
			}
			if err := png.Encode(f, frame); err != nil {
				fmt.Println("frame encode error:", err)
			}
			f.Close()
			frameN++
		}
	}
}

func script(store *state.Store) []func() {
	cover := config.DefaultCover()
	return []func(){
		func() { store.SetCover(cover) },
		func() {
			title := cover.Title
			title.Position = config.Position{X: 10, Y: 80}
			store.SetTitle(title)
		},
		func() {
			title := cover.Title
			title.Position = config.Position{X: 90, Y: 20}
			title.Size = 110
			store.SetTitle(title)
		},
		func() {
			wm := cover.Watermark
			wm.Opacity = 15
			store.SetWatermark(wm)
		},
		func() {
			bg := cover.Background
			bg.Kind = config.BackgroundColor
			bg.Color = "#101828"
			store.SetBackground(bg)
		},
	}
}
