package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagLODLevels  = flag.Int("lod-levels", 0, "Number of LOD levels (1-16)")
	flagLODMode    = flag.String("lod-mode", "", "LOD selection mode (distance, screen_size, screen_error, triangle_budget)")
	flagNoLOD      = flag.Bool("no-lod", false, "Disable LOD selection")
	flagAdaptive   = flag.Bool("adaptive", false, "Enable adaptive quality")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagLODLevels > 0 {
		cfg.LOD.Levels = *flagLODLevels
	}
	if *flagLODMode != "" {
		cfg.LOD.Mode = *flagLODMode
	}
	if *flagNoLOD {
		cfg.LOD.Enabled = false
	}
	if *flagAdaptive {
		cfg.LOD.Adaptive = true
	}
}
