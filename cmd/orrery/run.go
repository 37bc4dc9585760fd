package main

import (
	"context"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/engine"
	"github.com/Carmen-Shannon/oxy-orrery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-orrery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-orrery/engine/window"
	"github.com/Carmen-Shannon/oxy-orrery/shell"
	"github.com/Carmen-Shannon/oxy-orrery/solar"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if shellAddr != "" {
		cfg.Shell.Addr = shellAddr
	}

	ld := newLoader(cfg)
	sys, err := ld.Load(dataPath)
	if err != nil {
		return err
	}
	assets := ld.Materials(sys)

	reg := prometheus.NewRegistry()
	prof := profiler.NewProfiler(
		profiler.WithRegisterer(reg),
		profiler.WithQuiet(!profile),
	)

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithMinWidth(cfg.Window.MinWidth),
		window.WithMinHeight(cfg.Window.MinHeight),
	)
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiler(prof),
		engine.WithProfiling(true),
		engine.WithRenderFrameLimit(float64(cfg.Window.FrameLimit)),
	)

	presentMode := renderer.PresentModeVSync
	if cfg.Window.FrameLimit > 0 {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithMSAA(renderer.ParseMSAA(int(cfg.Window.MSAA))),
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(software),
	)

	ctrl, err := solar.New(win, win.Input(), sys,
		solar.WithConfig(cfg),
		solar.WithAssets(assets),
		solar.WithRenderer(r),
	)
	if err != nil {
		r.Release()
		return err
	}
	defer ctrl.Destroy()

	if cfg.Shell.Addr != "" {
		br := shell.NewBridge(ctrl, eng,
			shell.WithRegistry(reg),
			shell.WithRateLimit(cfg.Shell.CommandsPerSecond, cfg.Shell.Burst),
			shell.WithAllowedOrigins(cfg.Shell.AllowedOrigins...),
		)
		unsubscribe := ctrl.Subscribe(br)
		defer unsubscribe()
		// Textures degraded while the controller was built, before the bridge existed.
		for _, d := range ctrl.Degraded() {
			br.AssetDegraded(d.Body, d.Err)
		}
		go func() {
			if err := br.ListenAndServe(cfg.Shell.Addr); err != nil {
				log.Printf("[Shell] %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := br.Shutdown(ctx); err != nil {
				log.Printf("[Shell] shutdown: %v", err)
			}
		}()
	}

	log.Printf("[Orrery] loaded %d planets from %s (%d degraded textures)", len(sys.Planets), dataPath, len(assets.Degraded))
	ctrl.Start(eng)
	eng.Run()
	return nil
}
