package textmesh

import "math"

// Config holds pipeline configuration.
type Config struct {
	// ScaleFactor is the display scale factor applied when rasterizing
	// glyph outlines, so atlas resolution matches on-screen pixel density.
	// Default: 1.0
	ScaleFactor float64

	// AtlasWidth is the initial atlas image width in pixels.
	// Must be a power of 2. Default: 512
	AtlasWidth int

	// AtlasHeight is the initial atlas image height in pixels.
	// Must be a power of 2. Default: 512
	AtlasHeight int

	// AtlasPadding is the gap in pixels between packed glyph patches,
	// preventing sampler bleeding between neighbors. Default: 1
	AtlasPadding int

	// MaxAtlasDim caps atlas growth in either dimension.
	// Must be a power of 2. Default: 8192
	MaxAtlasDim int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		ScaleFactor:  1.0,
		AtlasWidth:   512,
		AtlasHeight:  512,
		AtlasPadding: 1,
		MaxAtlasDim:  8192,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if math.IsNaN(c.ScaleFactor) || c.ScaleFactor <= 0 {
		return &ConfigError{Field: "ScaleFactor", Reason: "must be positive"}
	}
	if c.AtlasWidth < 64 {
		return &ConfigError{Field: "AtlasWidth", Reason: "must be at least 64"}
	}
	if c.AtlasWidth&(c.AtlasWidth-1) != 0 {
		return &ConfigError{Field: "AtlasWidth", Reason: "must be power of 2"}
	}
	if c.AtlasHeight < 64 {
		return &ConfigError{Field: "AtlasHeight", Reason: "must be at least 64"}
	}
	if c.AtlasHeight&(c.AtlasHeight-1) != 0 {
		return &ConfigError{Field: "AtlasHeight", Reason: "must be power of 2"}
	}
	if c.AtlasPadding < 0 {
		return &ConfigError{Field: "AtlasPadding", Reason: "must be non-negative"}
	}
	if c.AtlasPadding > 16 {
		return &ConfigError{Field: "AtlasPadding", Reason: "must be at most 16"}
	}
	if c.MaxAtlasDim&(c.MaxAtlasDim-1) != 0 {
		return &ConfigError{Field: "MaxAtlasDim", Reason: "must be power of 2"}
	}
	if c.MaxAtlasDim < c.AtlasWidth {
		return &ConfigError{Field: "MaxAtlasDim", Reason: "must be at least AtlasWidth"}
	}
	if c.MaxAtlasDim < c.AtlasHeight {
		return &ConfigError{Field: "MaxAtlasDim", Reason: "must be at least AtlasHeight"}
	}
	if c.MaxAtlasDim > 16384 {
		return &ConfigError{Field: "MaxAtlasDim", Reason: "must be at most 16384"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "textmesh: invalid config." + e.Field + ": " + e.Reason
}
