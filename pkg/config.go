package dupscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Symlink handling modes for file symlinks encountered during
// directory expansion. Directory symlinks are never followed.
const (
	SymlinkFollow = "follow" // hash the target's content
	SymlinkSkip   = "skip"   // ignore file symlinks entirely
)

// Config represents the dupscan configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Default output format: human, json
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// SymlinkConfig represents file-symlink handling configuration
type SymlinkConfig struct {
	Mode string // follow, skip
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Number of concurrent hash workers (default: 4)
	HashBuffer  string // Hash read buffer size (default: "2M")
}

// DefaultConfigDir returns the per-user directory holding the dupscan
// config file, typically ~/.config/dupscan on Linux.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(base, "dupscan"), nil
}

// LoadConfig loads configuration from the config file in configDir.
// A missing file is not an error; defaults are used in memory and the
// file is only written by an explicit Save call.
func LoadConfig(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, "config")

	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
	} else {
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	sections := []struct {
		section string
		key     string
		value   string
	}{
		{"filehash", "default", "sha256"},
		{"output", "format", "human"},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
		{"symlink", "mode", SymlinkFollow},
		{"performance", "hash_workers", "4"},
		{"performance", "hash_buffer", "2M"},
	}

	for _, def := range sections {
		section, err := c.ini.NewSection(def.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", def.section, err)
		}
		if _, err := section.NewKey(def.key, def.value); err != nil {
			return fmt.Errorf("failed to set %s.%s: %w", def.section, def.key, err)
		}
	}

	return nil
}

// Save writes the configuration to disk, creating the config
// directory if necessary.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// Path returns the location of the config file
func (c *Config) Path() string {
	return c.configPath
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: "sha256", // fallback default
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: "human", // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,
		Debug: "",
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetSymlinkConfig returns the file-symlink handling configuration
func (c *Config) GetSymlinkConfig() *SymlinkConfig {
	symlinkConfig := &SymlinkConfig{
		Mode: SymlinkFollow, // fallback default
	}

	if c.ini.HasSection("symlink") {
		section := c.ini.Section("symlink")
		if section.HasKey("mode") {
			symlinkConfig.Mode = section.Key("mode").String()
		}
	}

	return symlinkConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: 4,    // fallback default
		HashBuffer:  "2M", // fallback default
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
		if section.HasKey("hash_buffer") {
			if bufferSize := section.Key("hash_buffer").String(); bufferSize != "" {
				performanceConfig.HashBuffer = bufferSize
			}
		}
	}

	return performanceConfig
}

// SetHashDefault sets the default hash algorithm
func (c *Config) SetHashDefault(algorithm string) error {
	if err := ValidateHashAlgorithm(algorithm); err != nil {
		return err
	}
	c.ini.Section("filehash").Key("default").SetValue(algorithm)
	return nil
}

// SetOutputFormat sets the default output format
func (c *Config) SetOutputFormat(format string) error {
	if err := ValidateOutputFormat(format); err != nil {
		return err
	}
	c.ini.Section("output").Key("format").SetValue(format)
	return nil
}

// SetSymlinkMode sets the file-symlink handling mode
func (c *Config) SetSymlinkMode(mode string) error {
	if err := ValidateSymlinkMode(mode); err != nil {
		return err
	}
	c.ini.Section("symlink").Key("mode").SetValue(mode)
	return nil
}

// SetHashWorkers sets the number of concurrent hash workers
func (c *Config) SetHashWorkers(workers int) error {
	if err := ValidateHashWorkers(workers); err != nil {
		return err
	}
	c.ini.Section("performance").Key("hash_workers").SetValue(strconv.Itoa(workers))
	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, err := GetHashAlgorithm(algorithm); err != nil {
		return fmt.Errorf("invalid hash algorithm '%s': must be one of sha1, sha256, sha512", algorithm)
	}
	return nil
}

// ValidateOutputFormat validates an output format
func ValidateOutputFormat(format string) error {
	switch format {
	case "human", "json":
		return nil
	default:
		return fmt.Errorf("invalid output format '%s': must be human or json", format)
	}
}

// ValidateSymlinkMode validates a file-symlink handling mode
func ValidateSymlinkMode(mode string) error {
	switch mode {
	case SymlinkFollow, SymlinkSkip:
		return nil
	default:
		return fmt.Errorf("invalid symlink mode '%s': must be %s or %s", mode, SymlinkFollow, SymlinkSkip)
	}
}

// ValidateHashWorkers validates a hash worker count
func ValidateHashWorkers(workers int) error {
	if workers < 1 || workers > 256 {
		return fmt.Errorf("invalid hash workers value %d: must be between 1 and 256", workers)
	}
	return nil
}

// ParseHumanSize parses a human-readable size string like "2M" or
// "512K" into a byte count.
func ParseHumanSize(sizeStr string) (int, error) {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = sizeStr[i:]
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix in %s", sizeStr)
	}

	return int(num * float64(multiplier)), nil
}
