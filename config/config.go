// Package config loads the settings of a dataset run. Values are layered:
// built-in defaults, then an optional YAML file, then SYNTHASL_* environment
// variables, then command-line flags applied by the caller.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/dataset/generator"
	"github.com/YuminosukeSato/synthasl/dataset/index"
	"github.com/YuminosukeSato/synthasl/loader"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
	"github.com/YuminosukeSato/synthasl/pkg/log"
)

// Config holds all synthasl settings.
type Config struct {
	// Output layout
	OutputRoot  string `yaml:"output_root"`
	IndexFile   string `yaml:"index_file"`
	Format      string `yaml:"format"` // png, jpg
	JPEGQuality int    `yaml:"jpeg_quality"`

	// Sampling
	ImageSize       int      `yaml:"image_size"`
	ImagesPerLetter int      `yaml:"images_per_letter"`
	Letters         []string `yaml:"letters"` // empty means A-Z
	DistanceMin     float64  `yaml:"distance_min"`
	DistanceMax     float64  `yaml:"distance_max"`
	ScaleConstant   float64  `yaml:"scale_constant"`
	NoiseSigma      float64  `yaml:"noise_sigma"`
	Seed            int64    `yaml:"seed"` // 0 picks a time-based seed

	// Execution
	Workers       int `yaml:"workers"`
	ProgressEvery int `yaml:"progress_every"`

	// Loading
	LoadSize int `yaml:"load_size"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // console, json
}

// DefaultConfig returns the settings of the reference dataset.
func DefaultConfig() *Config {
	return &Config{
		OutputRoot:      generator.DefaultOutputRoot,
		IndexFile:       index.DefaultFileName,
		Format:          string(generator.FormatPNG),
		JPEGQuality:     generator.DefaultJPEGQuality,
		ImageSize:       generator.DefaultImageSize,
		ImagesPerLetter: generator.DefaultImagesPerLetter,
		DistanceMin:     generator.DefaultDistanceMin,
		DistanceMax:     generator.DefaultDistanceMax,
		ScaleConstant:   generator.DefaultScaleConstant,
		NoiseSigma:      generator.DefaultNoiseSigma,
		Workers:         1,
		ProgressEvery:   generator.DefaultProgressEvery,
		LoadSize:        loader.DefaultLoadSize,
		LogLevel:        "info",
		LogFormat:       log.FormatConsole,
	}
}

// Load reads a YAML file over the defaults and applies environment
// overrides. A missing file yields the defaults. An empty path skips the
// file entirely.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config %s", path)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, errors.NewPersistenceError("read config", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewPersistenceError("create directory", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewPersistenceError("write config", path, err)
	}
	return nil
}

// Environment variables read by Load.
const (
	EnvOutputRoot = "SYNTHASL_OUTPUT_ROOT"
	EnvSeed       = "SYNTHASL_SEED"
	EnvWorkers    = "SYNTHASL_WORKERS"
	EnvLogLevel   = "SYNTHASL_LOG_LEVEL"
	EnvLogFormat  = "SYNTHASL_LOG_FORMAT"
)

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvOutputRoot); v != "" {
		c.OutputRoot = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.NewValidationError(EnvSeed, "must be an integer", v)
		}
		c.Seed = seed
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError(EnvWorkers, "must be an integer", v)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputRoot) == "" {
		return errors.NewValidationError("output_root", "must not be empty", c.OutputRoot)
	}
	if c.IndexFile == "" || filepath.Base(c.IndexFile) != c.IndexFile {
		return errors.NewValidationError("index_file", "must be a plain file name", c.IndexFile)
	}
	if _, err := generator.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return errors.NewValidationError("jpeg_quality", "must be in [1, 100]", c.JPEGQuality)
	}
	if c.ImageSize <= 0 {
		return errors.NewValidationError("image_size", "must be positive", c.ImageSize)
	}
	if c.ImagesPerLetter < 0 {
		return errors.NewValidationError("images_per_letter", "must not be negative", c.ImagesPerLetter)
	}
	if _, err := c.ParsedLetters(); err != nil {
		return err
	}
	if err := errors.CheckRange("distance", c.DistanceMin, c.DistanceMax); err != nil {
		return err
	}
	if err := errors.CheckPositive("scale_constant", c.ScaleConstant); err != nil {
		return err
	}
	if err := errors.CheckScalar("noise_sigma", c.NoiseSigma); err != nil {
		return err
	}
	if c.NoiseSigma < 0 {
		return errors.NewValidationError("noise_sigma", "must not be negative", c.NoiseSigma)
	}
	if c.Workers < 0 {
		return errors.NewValidationError("workers", "must not be negative", c.Workers)
	}
	if c.ProgressEvery <= 0 {
		return errors.NewValidationError("progress_every", "must be positive", c.ProgressEvery)
	}
	if c.LoadSize <= 0 {
		return errors.NewValidationError("load_size", "must be positive", c.LoadSize)
	}
	if _, err := log.ToLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case log.FormatConsole, log.FormatJSON:
	default:
		return errors.NewValidationError("log_format", "must be console or json", c.LogFormat)
	}
	return nil
}

// ParsedLetters returns the configured letters, or the whole alphabet when
// none are set.
func (c *Config) ParsedLetters() ([]dataset.Letter, error) {
	if len(c.Letters) == 0 {
		return dataset.Alphabet(), nil
	}
	tokens := make([]string, len(c.Letters))
	for i, tok := range c.Letters {
		tokens[i] = strings.ToUpper(strings.TrimSpace(tok))
	}
	return dataset.ParseLetters(tokens)
}

// ResolveSeed replaces a zero seed with a time-based one and returns the
// seed in effect.
func (c *Config) ResolveSeed() int64 {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c.Seed
}

// GeneratorOptions translates the sampling settings.
func (c *Config) GeneratorOptions() ([]generator.Option, error) {
	f, err := generator.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return []generator.Option{
		generator.WithImageSize(c.ImageSize),
		generator.WithDistanceRange(c.DistanceMin, c.DistanceMax),
		generator.WithScaleConstant(c.ScaleConstant),
		generator.WithNoiseSigma(c.NoiseSigma),
		generator.WithFormat(f),
		generator.WithSeed(c.Seed),
	}, nil
}

// AssemblerOptions translates the layout and execution settings.
func (c *Config) AssemblerOptions() ([]generator.AssemblerOption, error) {
	letters, err := c.ParsedLetters()
	if err != nil {
		return nil, err
	}
	return []generator.AssemblerOption{
		generator.WithOutputRoot(c.OutputRoot),
		generator.WithIndexFile(c.IndexFile),
		generator.WithLetters(letters...),
		generator.WithImagesPerLetter(c.ImagesPerLetter),
		generator.WithWorkers(c.Workers),
		generator.WithProgressEvery(c.ProgressEvery),
		generator.WithJPEGQuality(c.JPEGQuality),
	}, nil
}

// LoaderOptions translates the loading settings.
func (c *Config) LoaderOptions() []loader.Option {
	return []loader.Option{
		loader.WithLoadSize(c.LoadSize),
		loader.WithIndexFile(c.IndexFile),
		loader.WithWorkers(c.Workers),
	}
}
