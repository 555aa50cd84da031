package dupscan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	hashConfig := config.GetHashConfig()
	if hashConfig.Default != "sha256" {
		t.Errorf("Expected default algorithm sha256, got %s", hashConfig.Default)
	}

	performanceConfig := config.GetPerformanceConfig()
	if performanceConfig.HashWorkers != 4 {
		t.Errorf("Expected 4 hash workers, got %d", performanceConfig.HashWorkers)
	}
	if performanceConfig.HashBuffer != "2M" {
		t.Errorf("Expected 2M hash buffer, got %s", performanceConfig.HashBuffer)
	}

	symlinkConfig := config.GetSymlinkConfig()
	if symlinkConfig.Mode != SymlinkFollow {
		t.Errorf("Expected symlink mode %s, got %s", SymlinkFollow, symlinkConfig.Mode)
	}

	outputConfig := config.GetOutputConfig()
	if outputConfig.Format != "human" {
		t.Errorf("Expected output format human, got %s", outputConfig.Format)
	}
}

func TestConfig_SaveAndReload(t *testing.T) {
	configDir := t.TempDir()

	config, err := LoadConfig(configDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if err := config.SetHashDefault("sha512"); err != nil {
		t.Fatalf("SetHashDefault failed: %v", err)
	}
	if err := config.SetHashWorkers(8); err != nil {
		t.Fatalf("SetHashWorkers failed: %v", err)
	}
	if err := config.SetSymlinkMode(SymlinkSkip); err != nil {
		t.Fatalf("SetSymlinkMode failed: %v", err)
	}
	if err := config.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(configDir, "config")); err != nil {
		t.Fatalf("Config file was not written: %v", err)
	}

	reloaded, err := LoadConfig(configDir)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := reloaded.GetHashConfig().Default; got != "sha512" {
		t.Errorf("Expected sha512 after reload, got %s", got)
	}
	if got := reloaded.GetPerformanceConfig().HashWorkers; got != 8 {
		t.Errorf("Expected 8 workers after reload, got %d", got)
	}
	if got := reloaded.GetSymlinkConfig().Mode; got != SymlinkSkip {
		t.Errorf("Expected symlink mode %s after reload, got %s", SymlinkSkip, got)
	}
}

func TestConfig_SettersRejectInvalidValues(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if err := config.SetHashDefault("md5"); err == nil {
		t.Error("Expected error for unsupported hash algorithm")
	}
	if err := config.SetHashWorkers(0); err == nil {
		t.Error("Expected error for zero workers")
	}
	if err := config.SetSymlinkMode("maybe"); err == nil {
		t.Error("Expected error for unknown symlink mode")
	}
	if err := config.SetOutputFormat("xml"); err == nil {
		t.Error("Expected error for unknown output format")
	}
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"512", 512, false},
		{"512B", 512, false},
		{"4K", 4096, false},
		{"4KB", 4096, false},
		{"2M", 2 * 1024 * 1024, false},
		{"1G", 1024 * 1024 * 1024, false},
		{"1.5K", 1536, false},
		{" 2m ", 2 * 1024 * 1024, false},
		{"", 0, true},
		{"abc", 0, true},
		{"2X", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHumanSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHumanSize(%q): expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHumanSize(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseHumanSize(%q): expected %d, got %d", tt.input, tt.expected, got)
		}
	}
}

func TestValidateHashWorkers_Bounds(t *testing.T) {
	if err := ValidateHashWorkers(1); err != nil {
		t.Errorf("1 worker should be valid: %v", err)
	}
	if err := ValidateHashWorkers(256); err != nil {
		t.Errorf("256 workers should be valid: %v", err)
	}
	if err := ValidateHashWorkers(257); err == nil {
		t.Error("Expected error for 257 workers")
	}
	if err := ValidateHashWorkers(-1); err == nil {
		t.Error("Expected error for negative workers")
	}
}
