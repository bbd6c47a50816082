package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// Config holds all run settings. Annotation data is compiled in; paths,
// timeouts and logging can be overridden from the environment.
type Config struct {
	SourceURL         string
	SourceTableIndex  int
	SourceNewestFirst bool
	FetchTimeout      time.Duration
	FetchMaxRetries   int

	ReportYear  int
	Region      string
	Annotations []domain.Annotation
	Palette     []string

	OutputCSV       string
	OutputParquet   string // empty disables the Parquet export
	OutputXLSX      string // empty disables the XLSX export
	OutputImage     string
	MetricsTextfile string // empty disables the metrics textfile

	LogLevel  string
	LogFormat string
}

// Default returns the compiled-in configuration without reading the environment.
func Default() *Config {
	return &Config{
		SourceURL:         "https://covidlive.com.au/report/daily-cases/vic",
		SourceTableIndex:  1,
		SourceNewestFirst: true,
		FetchTimeout:      15 * time.Second,
		FetchMaxRetries:   3,

		ReportYear:  DefaultReportYear,
		Region:      DefaultRegion,
		Annotations: DefaultAnnotations(),
		Palette:     DefaultPalette(),

		OutputCSV:   "exported_covid_data.csv",
		OutputImage: "victorian_covid_plot.png",

		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load starts from Default, applies environment overrides and validates.
func Load() (*Config, error) {
	cfg := Default()

	cfg.SourceURL = sharedcfg.EnvOrDefault("SOURCE_URL", cfg.SourceURL)
	cfg.SourceNewestFirst = sharedcfg.EnvOrDefault("SOURCE_NEWEST_FIRST", "true") == "true"
	cfg.Region = sharedcfg.EnvOrDefault("REGION", cfg.Region)
	cfg.OutputCSV = sharedcfg.EnvOrDefault("OUTPUT_CSV", cfg.OutputCSV)
	cfg.OutputParquet = sharedcfg.EnvOrDefault("OUTPUT_PARQUET", "")
	cfg.OutputXLSX = sharedcfg.EnvOrDefault("OUTPUT_XLSX", "")
	cfg.OutputImage = sharedcfg.EnvOrDefault("OUTPUT_IMAGE", cfg.OutputImage)
	cfg.MetricsTextfile = sharedcfg.EnvOrDefault("METRICS_TEXTFILE", "")
	cfg.LogLevel = sharedcfg.EnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = sharedcfg.EnvOrDefault("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.SourceTableIndex, err = envInt("SOURCE_TABLE_INDEX", cfg.SourceTableIndex); err != nil {
		return nil, err
	}
	if cfg.ReportYear, err = envInt("REPORT_YEAR", cfg.ReportYear); err != nil {
		return nil, err
	}
	if cfg.FetchMaxRetries, err = envInt("FETCH_MAX_RETRIES", cfg.FetchMaxRetries); err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", cfg.FetchTimeout.String()))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("%w: invalid FETCH_TIMEOUT", domain.ErrConfig)
	}
	cfg.FetchTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a run depends on. Every failure wraps
// domain.ErrConfig so it surfaces before any network or file work.
func (c *Config) Validate() error {
	var errs []error

	if c.SourceURL == "" {
		errs = append(errs, errors.New("SOURCE_URL is required"))
	}
	if c.SourceTableIndex < 0 {
		errs = append(errs, errors.New("SOURCE_TABLE_INDEX must not be negative"))
	}
	if c.FetchMaxRetries < 0 {
		errs = append(errs, errors.New("FETCH_MAX_RETRIES must not be negative"))
	}
	if c.ReportYear < 1900 || c.ReportYear > 9999 {
		errs = append(errs, fmt.Errorf("REPORT_YEAR %d out of range", c.ReportYear))
	}
	if c.OutputCSV == "" {
		errs = append(errs, errors.New("OUTPUT_CSV is required"))
	}
	if c.OutputImage == "" {
		errs = append(errs, errors.New("OUTPUT_IMAGE is required"))
	}

	errs = append(errs, validateAnnotations(c.Annotations, c.Palette)...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrConfig, errors.Join(errs...))
}

func validateAnnotations(annotations []domain.Annotation, palette []string) []error {
	var errs []error
	validate := validator.New()

	for i, a := range annotations {
		if err := validate.Struct(a); err != nil {
			errs = append(errs, fmt.Errorf("annotation %d (%q): %w", i, a.Label, err))
		}
		if a.Start.IsZero() {
			errs = append(errs, fmt.Errorf("annotation %d (%q): start date is required", i, a.Label))
		}
		if i > 0 && a.Start.Before(annotations[i-1].Start) {
			errs = append(errs, fmt.Errorf("annotation %d (%q) starts before %q", i, a.Label, annotations[i-1].Label))
		}
	}

	for i, c := range palette {
		if err := validate.Var(c, "hexcolor"); err != nil {
			errs = append(errs, fmt.Errorf("palette entry %d %q is not a hex colour", i, c))
		}
	}

	if need := domain.IntervalCount(annotations); len(palette) < need {
		errs = append(errs, fmt.Errorf("palette has %d colours for %d annotation intervals", len(palette), need))
	}
	return errs
}

func envInt(key string, def int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrConfig, key)
	}
	return n, nil
}
