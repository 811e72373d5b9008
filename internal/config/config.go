// Package config defines the balancer configuration and its loading hooks.
//
// Conventions:
//   - Provide New() returning a Config populated with defaults.
//   - Load layers an optional YAML file and TEAMBALANCE_* environment
//     variables on top of the defaults.
//   - Command-line flags are applied by the caller after Load.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log record encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// InputPath is the roster file read when --input is not given.
	InputPath string `koanf:"input_path"`

	// Delimiter is the single-character field separator of the roster.
	Delimiter string `koanf:"delimiter"`

	// Trials is the number of shuffle+assign trials per run.
	Trials int `koanf:"trials"`

	// TrialWorkers bounds how many trials run at once.
	TrialWorkers int `koanf:"trial_workers"`

	// OutputFormat selects the report renderer: text or json.
	OutputFormat string `koanf:"output_format"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// Defaults.
const (
	DefaultTrials       = 10
	DefaultDelimiter    = ";"
	DefaultInputPath    = "players.csv"
	DefaultOutputFormat = "text"
)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		InputPath:    DefaultInputPath,
		Delimiter:    DefaultDelimiter,
		Trials:       DefaultTrials,
		TrialWorkers: 1,
		OutputFormat: DefaultOutputFormat,
	}
}

// DelimiterRune returns the configured delimiter as a rune.
// Validate guarantees it is exactly one character.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ';'
}
