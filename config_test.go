package textmesh

import (
	"errors"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
	if cfg.AtlasWidth != 512 || cfg.AtlasHeight != 512 {
		t.Errorf("default atlas size = %dx%d, want 512x512", cfg.AtlasWidth, cfg.AtlasHeight)
	}
	if cfg.ScaleFactor != 1.0 {
		t.Errorf("default ScaleFactor = %v, want 1.0", cfg.ScaleFactor)
	}
}

func TestConfig_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero scale", func(c *Config) { c.ScaleFactor = 0 }, "ScaleFactor"},
		{"negative scale", func(c *Config) { c.ScaleFactor = -2 }, "ScaleFactor"},
		{"tiny atlas", func(c *Config) { c.AtlasWidth = 32 }, "AtlasWidth"},
		{"non-pow2 width", func(c *Config) { c.AtlasWidth = 500 }, "AtlasWidth"},
		{"non-pow2 height", func(c *Config) { c.AtlasHeight = 300 }, "AtlasHeight"},
		{"negative padding", func(c *Config) { c.AtlasPadding = -1 }, "AtlasPadding"},
		{"huge padding", func(c *Config) { c.AtlasPadding = 64 }, "AtlasPadding"},
		{"max below width", func(c *Config) { c.MaxAtlasDim = 256 }, "MaxAtlasDim"},
		{"non-pow2 max", func(c *Config) { c.MaxAtlasDim = 9000 }, "MaxAtlasDim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() error type = %T, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	e := &ConfigError{Field: "AtlasWidth", Reason: "must be power of 2"}
	want := "textmesh: invalid config.AtlasWidth: must be power of 2"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
