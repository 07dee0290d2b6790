// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	LOD      LODConfig      `yaml:"lod"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOVDegrees float32 `yaml:"fov_degrees"`
}

// LODConfig holds level-of-detail settings.
type LODConfig struct {
	Enabled         bool    `yaml:"enabled"`
	Levels          int     `yaml:"levels"`           // 1..16
	ReductionFactor float32 `yaml:"reduction_factor"` // triangle ratio per level
	Mode            string  `yaml:"mode"`             // distance, screen_size, screen_error, triangle_budget
	Bias            float32 `yaml:"bias"`
	TriangleBudget  int     `yaml:"triangle_budget"`
	UnloadEnabled   bool    `yaml:"unload_enabled"`
	UnloadDistance  float32 `yaml:"unload_distance"`
	DistanceScale   float32 `yaml:"distance_scale"`
	MinVertexCount  int     `yaml:"min_vertex_count"`
	Adaptive        bool    `yaml:"adaptive"`
	TargetFPS       int     `yaml:"target_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOVDegrees: 60,
		},
		LOD: LODConfig{
			Enabled:         true,
			Levels:          4,
			ReductionFactor: 0.5,
			Mode:            "screen_size",
			Bias:            1.0,
			TriangleBudget:  500000,
			UnloadEnabled:   false,
			UnloadDistance:  1000,
			DistanceScale:   1.0,
			MinVertexCount:  100,
			Adaptive:        false,
			TargetFPS:       60,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
