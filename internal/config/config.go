package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"payoutrecon/internal/log"
)

type Config struct {
	// Stripe
	StripeSecretKey         string
	StripeMaxNetworkRetries int
	ProductCacheSize        int
	ProductCacheTTL         time.Duration

	// Backend selection
	DataBackend string
	FixturePath string

	// Report
	ReportTimezone string
	LogLevel       string

	// Report archive
	ReportDBPath string

	// AMQP
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	ExportTimeout time.Duration
}

var validBackends = []string{"stripe", "memory"}

func Load() *Config {
	cfg := &Config{
		StripeSecretKey:         getEnv("STRIPE_SECRET_KEY", ""),
		StripeMaxNetworkRetries: getEnvInt("STRIPE_MAX_NETWORK_RETRIES", 3),
		ProductCacheSize:        getEnvInt("PRODUCT_CACHE_SIZE", 500),
		ProductCacheTTL:         getEnvDuration("PRODUCT_CACHE_TTL", time.Hour),

		DataBackend: getEnv("DATA_BACKEND", "stripe"),
		FixturePath: getEnv("FIXTURE_PATH", ""),

		ReportTimezone: getEnv("REPORT_TIMEZONE", "Local"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		ReportDBPath: getEnv("REPORT_DB_PATH", ""),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "payoutrecon"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "report.completed"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Revenue"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		ExportTimeout: getEnvDuration("EXPORT_TIMEOUT", 30*time.Second),
	}

	return cfg
}

// Location resolves ReportTimezone; "Local" is the machine's zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("load report timezone %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "stripe":
		if c.StripeSecretKey == "" {
			errors = append(errors, "STRIPE_SECRET_KEY is required when using stripe backend")
		}
	case "memory":
		if c.FixturePath == "" {
			errors = append(errors, "FIXTURE_PATH is required when using memory backend")
		} else if _, err := os.Stat(c.FixturePath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("fixture file does not exist: %s", c.FixturePath))
		}
	}

	if c.StripeMaxNetworkRetries < 0 || c.StripeMaxNetworkRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid Stripe max network retries %d: must be between 0 and 10", c.StripeMaxNetworkRetries))
	}
	if c.ProductCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid product cache size %d: must be at least 1", c.ProductCacheSize))
	}
	if c.ProductCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid product cache TTL %v: must be positive", c.ProductCacheTTL))
	}

	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid report timezone '%s': %v", c.ReportTimezone, err))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	// Check if directory exists or can be created
	if c.ReportDBPath != "" {
		dir := filepath.Dir(c.ReportDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create report database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name cannot be empty when a spreadsheet ID is provided")
		}

		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets export")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.ExportTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid export timeout %v: must be at least 1 second", c.ExportTimeout))
	} else if c.ExportTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid export timeout %v: must be at most 10 minutes", c.ExportTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
