package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"nycsales/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Input      InputConfig      `yaml:"input" envconfig:"INPUT"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes where the yearly borough workbooks live and how they are laid out
type InputConfig struct {
	Dir      string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Sheet    string   `yaml:"sheet" envconfig:"SHEET"` // empty means the first sheet
	Years    []int    `yaml:"years" envconfig:"YEARS" validate:"required,unique,dive,min=1900,max=2100"`
	Boroughs []string `yaml:"boroughs" envconfig:"BOROUGHS" validate:"required,unique,dive,oneof=manhattan brooklyn queens"`

	// HeaderOffsets is the 0-based header row per range of years. The export
	// layout of the rolling-sales files changed in 2020, pushing the header down.
	HeaderOffsets []HeaderOffsetRule `yaml:"header_offsets" ignored:"true" validate:"required,dive"`
}

// HeaderOffsetRule assigns a header row offset to an inclusive range of years
type HeaderOffsetRule struct {
	FromYear int `yaml:"from_year" validate:"min=1900"`
	ToYear   int `yaml:"to_year" validate:"gtefield=FromYear"`
	Offset   int `yaml:"offset" validate:"min=0"`
}

// OutputConfig controls which artefacts a run writes
type OutputConfig struct {
	Dir           string `yaml:"dir" envconfig:"DIR" validate:"required"`
	WriteCSV      bool   `yaml:"write_csv" envconfig:"WRITE_CSV"`
	WriteWorkbook bool   `yaml:"write_workbook" envconfig:"WRITE_WORKBOOK"`
	Console       bool   `yaml:"console" envconfig:"CONSOLE"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"` // node-exporter textfile, empty disables
}

// ProcessingConfig tunes the load stage
type ProcessingConfig struct {
	Concurrency int `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"min=1,max=64"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig toggles OpenTelemetry tracing and metrics for a run
type TelemetryConfig struct {
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE"` // empty writes spans to stderr
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
}

// EnvPrefix namespaces every environment override, e.g. NYCSALES_INPUT_DIR.
const EnvPrefix = "NYCSALES"

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty path searches the
// usual locations; a non-empty path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile := path
	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	// Unset variables leave the field untouched, so file values survive.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize lower-cases enumerations and sorts years so sources are planned year-ascending
func (c *Config) normalize() {
	for i, b := range c.Input.Boroughs {
		c.Input.Boroughs[i] = strings.ToLower(strings.TrimSpace(b))
	}
	sort.Ints(c.Input.Years)
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
}

// Validate checks struct tags and the header offset table
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateInput, InputConfig{})
	return v.Struct(c)
}

// validateInput requires exactly one header offset rule per configured year
func validateInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(InputConfig)
	for _, year := range in.Years {
		matches := 0
		for _, rule := range in.HeaderOffsets {
			if rule.covers(year) {
				matches++
			}
		}
		if matches != 1 {
			sl.ReportError(in.HeaderOffsets, "HeaderOffsets", "HeaderOffsets", "one_rule_per_year", fmt.Sprint(year))
		}
	}
}

func (r HeaderOffsetRule) covers(year int) bool {
	return year >= r.FromYear && year <= r.ToYear
}

// HeaderOffset returns the 0-based header row for a given year
func (in InputConfig) HeaderOffset(year int) (int, error) {
	for _, rule := range in.HeaderOffsets {
		if rule.covers(year) {
			return rule.Offset, nil
		}
	}
	return 0, fmt.Errorf("no header offset configured for year %d", year)
}

// Sources plans every (year, borough) pair, years ascending then boroughs in configured order
func (in InputConfig) Sources() []domain.Source {
	boroughs := make([]domain.Borough, 0, len(in.Boroughs))
	for _, name := range in.Boroughs {
		if b, ok := domain.ParseBorough(name); ok {
			boroughs = append(boroughs, b)
		}
	}
	years := append([]int(nil), in.Years...)
	sort.Ints(years)
	return domain.PlanSources(years, boroughs)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"nycsales.yaml",
		"configs/nycsales.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:           DefaultInputDir,
			Years:         append([]int(nil), DefaultYears...),
			Boroughs:      []string{"manhattan", "brooklyn", "queens"},
			HeaderOffsets: DefaultHeaderOffsets(),
		},
		Output: OutputConfig{
			Dir:           DefaultOutputDir,
			WriteCSV:      true,
			WriteWorkbook: true,
			Console:       true,
		},
		Processing: ProcessingConfig{
			Concurrency: DefaultConcurrency,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			EnableMetrics: true,
		},
	}
}
