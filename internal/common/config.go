package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig      `yaml:"ocr"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract        string        `yaml:"tesseract"`
	Pdftoppm         string        `yaml:"pdftoppm"`
	Language         string        `yaml:"language"`
	TessdataDir      string        `yaml:"tessdata_dir"`
	DPI              int           `yaml:"dpi"`
	MaxPages         int           `yaml:"max_pages"`
	HeicConverter    string        `yaml:"heic_converter"`
	ArtifactCacheDir string        `yaml:"artifact_cache_dir"`
	TextLayer        bool          `yaml:"text_layer"`
	PSM              int           `yaml:"psm"`
	OEM              int           `yaml:"oem"`
	Timeout          time.Duration `yaml:"timeout"`
}

// OutputConfig holds where reports, charts and workbooks are written
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig holds history-store configuration
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	InMemory bool   `yaml:"in_memory"`
}

// LoggingConfig controls application logging behavior
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:        getEnv("TESSERACT_BIN", "tesseract"),
			Pdftoppm:         getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Language:         getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			DPI:              getEnvAsInt("OCR_DPI", 300),
			MaxPages:         getEnvAsInt("OCR_MAX_PAGES", 0),
			HeicConverter:    getEnv("HEIC_CONVERTER", "magick"),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
			TextLayer:        getEnvAsBool("OCR_TEXT_LAYER", false),
			PSM:              getEnvAsInt("OCR_PSM", 0),
			OEM:              getEnvAsInt("OCR_OEM", 0),
			Timeout:          getEnvAsDuration("OCR_TIMEOUT", 5*time.Minute),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "./output"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_URL", ""),
			InMemory: getEnvAsBool("DB_INMEM", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnvAsBool("LOG_JSON", false),
		},
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg. Keys missing from
// the file keep their current value.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return NewAppError("CONFIG_ERROR", "parse "+path, err)
	}
	return nil
}

// ChartsDir is where generated chart images are written.
func (c *Config) ChartsDir() string { return filepath.Join(c.Output.Dir, "charts") }

// ReportsDir is where text and document reports are written.
func (c *Config) ReportsDir() string { return filepath.Join(c.Output.Dir, "reports") }

// IdentityWorkbook is the spreadsheet that identity records are appended to.
func (c *Config) IdentityWorkbook() string {
	return filepath.Join(c.Output.Dir, "identity_output.xlsx")
}

// AnalysisWorkbook is the spreadsheet produced by the export command.
func (c *Config) AnalysisWorkbook() string {
	return filepath.Join(c.Output.Dir, "analysis_output.xlsx")
}

// SummaryFile is the final plain-text summary.
func (c *Config) SummaryFile() string {
	return filepath.Join(c.Output.Dir, "final_project_summary.txt")
}

// HistoryDSN returns the DSN for the history store, defaulting to a sqlite
// file in the output directory.
func (c *Config) HistoryDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return filepath.Join(c.Output.Dir, "analyzer.db")
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("output.dir", c.Output.Dir, Required).
		Field("ocr.tesseract", c.OCR.Tesseract, Required).
		Field("ocr.pdftoppm", c.OCR.Pdftoppm, Required).
		Field("ocr.language", c.OCR.Language, Required).
		Field("ocr.dpi", c.OCR.DPI, Positive).
		Field("ocr.max_pages", c.OCR.MaxPages, NonNegative).
		Field("ocr.psm", c.OCR.PSM, NonNegative).
		Field("ocr.oem", c.OCR.OEM, NonNegative).
		Field("ocr.heic_converter", c.OCR.HeicConverter, OneOf("heif-convert", "magick", "sips")).
		Field("logging.level", strings.ToLower(c.Logging.Level), OneOf("debug", "info", "warn", "error"))
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
