package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-orrery/config"
	"github.com/Carmen-Shannon/oxy-orrery/engine/loader"
	"github.com/spf13/cobra"
)

var (
	dataPath   string
	configFile string
	shellAddr  string
	profile    bool
	software   bool
	outPath    string
)

func init() {
	// GLFW and the WebGPU surface must stay on the main OS thread.
	runtime.LockOSThread()
}

// main registers the run, validate and config commands and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "interactive solar system viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "assets/planets.json", "planet data file (json or yaml)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open the viewer window",
		RunE:  runViewer,
	}
	runCmd.Flags().StringVar(&shellAddr, "shell", "", "serve the shell websocket and metrics on this address, e.g. :8090")
	runCmd.Flags().BoolVar(&profile, "profile", false, "log frame rate and memory statistics")
	runCmd.Flags().BoolVar(&software, "software", false, "force the software fallback adapter")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "load and validate planet data, then list the bodies",
		RunE:  validateData,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the effective configuration as yaml",
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&outPath, "out", "orrery.yaml", "output path")

	rootCmd.AddCommand(runCmd, validateCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig returns the defaults, overlaid with --config when given.
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLoader(cfg *config.Config) loader.Loader {
	return loader.NewLoader(
		loader.WithWorkers(cfg.Assets.Workers),
		loader.WithSunTexture(cfg.Assets.SunTexture),
		loader.WithStarTexture(cfg.Assets.StarTexture),
		loader.WithSunColor(cfg.Assets.SunColor),
	)
}

func validateData(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ld := newLoader(cfg)
	sys, err := ld.Load(dataPath)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRADIUS\tPERIOD\tDISTANCE\tTEXTURE\tCOLOR")
	for _, p := range sys.Planets {
		texture := "-"
		if p.Image != "" {
			texture = sys.ImagePath(p)
		}
		color := p.Color
		if color == "" {
			color = "-"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%s\t%s\n", p.Name, p.Radius, p.OrbitPeriod, p.DistanceFromSun, texture, color)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	assets := ld.Materials(sys)
	for _, d := range assets.Degraded {
		fmt.Fprintf(cmd.OutOrStdout(), "degraded: %s (%s): %v\n", d.Body, d.Path, d.Err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d planets, %d degraded textures\n", len(sys.Planets), len(assets.Degraded))
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Save(outPath, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}
