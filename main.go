package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaoguangdong/cover-magic/internal/config"
	"github.com/xiaoguangdong/cover-magic/internal/engine"
	"github.com/xiaoguangdong/cover-magic/internal/render"
	"github.com/xiaoguangdong/cover-magic/internal/state"
)

func main() {
	def := config.DefaultExport()
	coverPath := flag.String("config", "", "path to a cover configuration JSON; defaults are used when empty")
	outDir := flag.String("out", ".", "directory the exported image is written to")
	width := flag.Int("width", def.Width, "export width in px")
	height := flag.Int("height", def.Height, "export height in px")
	format := flag.String("format", string(def.Format), "export format: png, jpeg or webp")
	quality := flag.Float64("quality", def.Quality, "lossy quality in [0,1], jpeg only")
	name := flag.String("name", "cover", "export file name (extension added from format)")
	randomName := flag.Bool("random-name", false, "use a generated file name instead of -name")
	preview := flag.Bool("preview", false, "show the animated preview on the framebuffer before exporting")
	fbDevice := flag.String("fb", "/dev/fb0", "framebuffer device for -preview")
	previewFor := flag.Duration("preview-for", 3*time.Second, "how long to run the preview loop")
	debug := flag.Bool("debug", false, "enable debug logging to ./cover-magic-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via COVER_MAGIC_STDIO_LOG")
	flag.Parse()

	// Redirect stdout/stderr early so crashes stay diagnosable while the
	// console is in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("COVER_MAGIC_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger engine.Logger = engine.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./cover-magic-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			logger = engine.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	cover := config.DefaultCover()
	if *coverPath != "" {
		data, err := os.ReadFile(*coverPath)
		if err != nil {
			fmt.Println("config read error:", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &cover); err != nil {
			fmt.Println("config parse error:", err)
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := state.NewStore()
	var sink render.FrameSink = render.NewMemorySink()
	if *preview {
		fb := render.NewFBSink()
		fb.Device = *fbDevice
		fb.Logger = logger
		sink = fb
	}

	eng := engine.New(store, sink)
	eng.Logger = logger
	if err := eng.Start(ctx); err != nil {
		fmt.Println("engine start error:", err)
		os.Exit(1)
	}
	defer eng.Stop()

	// Feed the configuration through the normal change path so the preview
	// animates toward it.
	store.SetCover(cover)

	if *preview {
		select {
		case <-ctx.Done():
		case <-time.After(*previewFor):
		}
	}

	req := config.Export{
		Width:      *width,
		Height:     *height,
		Format:     config.Format(*format),
		Quality:    *quality,
		FileName:   *name,
		RandomName: *randomName,
	}
	path, err := eng.Export(*outDir, req)
	if err != nil {
		fmt.Println("export error:", err)
		os.Exit(1)
	}
	fmt.Println("exported", path)
}
