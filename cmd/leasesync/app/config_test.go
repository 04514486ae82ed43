package app

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfenner/leasesync/pkg/errors"
)

// setRequiredEnv sets every required setting to a valid value.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPNSENSE_HOST", "fw.example.net")
	t.Setenv("OPNSENSE_KEY", "key")
	t.Setenv("OPNSENSE_SECRET", "secret")
	t.Setenv("PHPIPAM_HOST", "ipam.example.net")
	t.Setenv("PHPIPAM_APP_ID", "leasesync")
	t.Setenv("PHPIPAM_APP_CODE", "code")
	t.Setenv("PHPIPAM_SUBNET_ID", "12")
}

func TestConfigLoad(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)

	cfg := &Config{}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "fw.example.net", cfg.OPNsenseHost)
	assert.Equal(t, "key", cfg.OPNsenseKey)
	assert.Equal(t, "ipam.example.net", cfg.PHPIPAMHost)
	assert.Equal(t, "12", cfg.PHPIPAMSubnetID)
	assert.Equal(t, "https", cfg.PHPIPAMScheme, "scheme defaults to https")
}

func TestConfigLoadMissingRequired(t *testing.T) {
	for _, missing := range requiredSettings {
		t.Run(missing, func(t *testing.T) {
			viper.Reset()
			setRequiredEnv(t)
			t.Setenv(missing, "")

			cfg := &Config{}
			err := cfg.Load()

			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, missing, cfgErr.Setting)
		})
	}
}

func TestConfigLoadBlankIsMissing(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("OPNSENSE_KEY", "   ")

	cfg := &Config{}
	err := cfg.Load()

	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "OPNSENSE_KEY", cfgErr.Setting)
}

func TestConfigLoadSchemeValidation(t *testing.T) {
	t.Run("http accepted", func(t *testing.T) {
		viper.Reset()
		setRequiredEnv(t)
		t.Setenv("PHPIPAM_SCHEME", "http")

		cfg := &Config{}
		require.NoError(t, cfg.Load())
		assert.Equal(t, "http", cfg.PHPIPAMScheme)
	})

	t.Run("case folded", func(t *testing.T) {
		viper.Reset()
		setRequiredEnv(t)
		t.Setenv("PHPIPAM_SCHEME", "HTTPS")

		cfg := &Config{}
		require.NoError(t, cfg.Load())
		assert.Equal(t, "https", cfg.PHPIPAMScheme)
	})

	t.Run("anything else rejected", func(t *testing.T) {
		viper.Reset()
		setRequiredEnv(t)
		t.Setenv("PHPIPAM_SCHEME", "ftp")

		cfg := &Config{}
		err := cfg.Load()

		var cfgErr *errors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "PHPIPAM_SCHEME", cfgErr.Setting)
	})
}

func TestConfigLoadTrimsWhitespace(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("OPNSENSE_HOST", "  fw.example.net  ")

	cfg := &Config{}
	require.NoError(t, cfg.Load())
	assert.Equal(t, "fw.example.net", cfg.OPNsenseHost)
}

func TestConfigErrorExitClass(t *testing.T) {
	err := errors.NewConfigError("OPNSENSE_HOST", "required setting is not set", nil)
	assert.True(t, isConfigError(err))
	assert.False(t, isConfigError(errors.New("transport failure")))
}
