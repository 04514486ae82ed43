package app

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jfenner/leasesync/pkg/errors"
)

// Config holds the application configuration loaded from environment
// variables and .env files, plus the command-line flags cobra fills in.
type Config struct {
	// OPNsense connection
	OPNsenseHost      string
	OPNsenseKey       string
	OPNsenseSecret    string
	OPNsenseVerifySSL string

	// phpIPAM connection
	PHPIPAMHost     string
	PHPIPAMScheme   string
	PHPIPAMAppID    string
	PHPIPAMAppCode  string
	PHPIPAMSubnetID string

	// Command-line flags
	DryRun  bool
	Verbose bool
	Quiet   bool
	EnvFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// requiredSettings are the environment variables that must be present and
// non-blank before any network call is made.
var requiredSettings = []string{
	"OPNSENSE_HOST",
	"OPNSENSE_KEY",
	"OPNSENSE_SECRET",
	"PHPIPAM_HOST",
	"PHPIPAM_APP_ID",
	"PHPIPAM_APP_CODE",
	"PHPIPAM_SUBNET_ID",
}

// optionalSettings have defaults and may be absent.
var optionalSettings = []string{
	"OPNSENSE_VERIFY_SSL",
	"PHPIPAM_SCHEME",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"LOG_OUTPUT",
}

// Load populates the environment-derived fields of the config. Flag
// fields are untouched; cobra owns those. Validation failures are
// *errors.ConfigError and happen before any network activity.
func (c *Config) Load() error {
	loadEnvFiles(c.EnvFile)

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindSettings()

	for _, key := range requiredSettings {
		if strings.TrimSpace(viper.GetString(key)) == "" {
			return errors.NewConfigError(key, "required setting is not set", nil)
		}
	}

	c.OPNsenseHost = strings.TrimSpace(viper.GetString("OPNSENSE_HOST"))
	c.OPNsenseKey = strings.TrimSpace(viper.GetString("OPNSENSE_KEY"))
	c.OPNsenseSecret = strings.TrimSpace(viper.GetString("OPNSENSE_SECRET"))
	c.OPNsenseVerifySSL = strings.TrimSpace(viper.GetString("OPNSENSE_VERIFY_SSL"))

	c.PHPIPAMHost = strings.TrimSpace(viper.GetString("PHPIPAM_HOST"))
	c.PHPIPAMAppID = strings.TrimSpace(viper.GetString("PHPIPAM_APP_ID"))
	c.PHPIPAMAppCode = strings.TrimSpace(viper.GetString("PHPIPAM_APP_CODE"))
	c.PHPIPAMSubnetID = strings.TrimSpace(viper.GetString("PHPIPAM_SUBNET_ID"))

	scheme := strings.ToLower(strings.TrimSpace(viper.GetString("PHPIPAM_SCHEME")))
	if scheme == "" {
		scheme = "https"
	}
	if scheme != "http" && scheme != "https" {
		return errors.NewConfigError("PHPIPAM_SCHEME", "must be 'http' or 'https', got "+scheme, nil)
	}
	c.PHPIPAMScheme = scheme

	if c.LogLevel == "" {
		c.LogLevel = viper.GetString("LOG_LEVEL")
	}
	c.LogFormat = getOrDefault("LOG_FORMAT", "auto")
	c.LogOutput = getOrDefault("LOG_OUTPUT", "stderr")

	return nil
}

// loadEnvFiles loads environment variables from .env files. An explicit
// --env-file wins over the conventional locations.
func loadEnvFiles(explicit string) {
	if explicit != "" {
		_ = godotenv.Load(explicit)
		return
	}

	// .env.local overrides .env
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindSettings explicitly binds the settings to Viper so they resolve
// even when only present in a .env file.
func bindSettings() {
	for _, key := range append(append([]string{}, requiredSettings...), optionalSettings...) {
		_ = viper.BindEnv(key)
	}
}

// getOrDefault returns a viper value or the default when unset.
func getOrDefault(key, defaultValue string) string {
	if value := viper.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

// isConfigError reports whether err is a configuration error.
func isConfigError(err error) bool {
	return errors.IsConfig(err)
}
