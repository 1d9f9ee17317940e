// Package config provides configuration structures and loading for motionkit.
package config

// Config represents the complete application configuration.
type Config struct {
	Inspect InspectConfig `yaml:"inspect" mapstructure:"inspect"`
	Repair  RepairConfig  `yaml:"repair" mapstructure:"repair"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// InspectConfig controls the inspector report.
type InspectConfig struct {
	QuaternionTolerance float64 `yaml:"quaternion_tolerance" mapstructure:"quaternion_tolerance"` // allowed |norm-1| for root_rot rows
	PreviewRows         int     `yaml:"preview_rows" mapstructure:"preview_rows"`                 // rows shown for large arrays
	SmallArrayRows      int     `yaml:"small_array_rows" mapstructure:"small_array_rows"`         // arrays up to this many rows print in full
	ListPreview         int     `yaml:"list_preview" mapstructure:"list_preview"`                 // sequence items shown inside a record
	BarePreview         int     `yaml:"bare_preview" mapstructure:"bare_preview"`                 // rows/items shown for a bare array or sequence
}

// RepairConfig controls the repairer output naming and placeholders.
type RepairConfig struct {
	FixedSuffix     string `yaml:"fixed_suffix" mapstructure:"fixed_suffix"`
	FullSuffix      string `yaml:"full_suffix" mapstructure:"full_suffix"`
	PlaceholderLink string `yaml:"placeholder_link" mapstructure:"placeholder_link"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Color bool `yaml:"color" mapstructure:"color"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Inspect: InspectConfig{
			QuaternionTolerance: 0.01,
			PreviewRows:         3,
			SmallArrayRows:      5,
			ListPreview:         10,
			BarePreview:         5,
		},
		Repair: RepairConfig{
			FixedSuffix:     "_fixed",
			FullSuffix:      "_full",
			PlaceholderLink: "pelvis",
		},
		Output: OutputConfig{
			Color: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}
