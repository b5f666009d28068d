package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/alexiusacademia/gravdam/internal/server"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Configuration keys.
const (
	keyConcreteMetric   = "defaults.concrete_density.metric"
	keyConcreteImperial = "defaults.concrete_density.imperial"
	keyWaterMass        = "defaults.water_density.kg_m3"
	keyWaterWeight      = "defaults.water_density.kn_m3"
	keyWaterImperial    = "defaults.water_density.imperial"
	keyFriction         = "defaults.friction_coefficient"

	keyServerAddr      = "server.addr"
	keyServerRateLimit = "server.rate_limit"
	keyServerBurst     = "server.burst"

	keyLogFile       = "log.file"
	keyLogMaxSizeMB  = "log.max_size_mb"
	keyLogMaxBackups = "log.max_backups"
	keyLogMaxAgeDays = "log.max_age_days"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func setConfigDefaults(v *viper.Viper) {
	d := units.StandardDefaults()
	v.SetDefault(keyConcreteMetric, d.ConcreteMetric)
	v.SetDefault(keyConcreteImperial, d.ConcreteImperial)
	v.SetDefault(keyWaterMass, d.WaterMass)
	v.SetDefault(keyWaterWeight, d.WaterWeight)
	v.SetDefault(keyWaterImperial, d.WaterImperial)
	v.SetDefault(keyFriction, d.Friction)

	v.SetDefault(keyServerAddr, ":8080")
	v.SetDefault(keyServerRateLimit, 20.0)
	v.SetDefault(keyServerBurst, 40)

	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyLogMaxSizeMB, 50)
	v.SetDefault(keyLogMaxBackups, 5)
	v.SetDefault(keyLogMaxAgeDays, 30)
}

// initConfig reads gravdam.yaml and GRAVDAM_* environment variables into
// the global viper instance. A missing default config file is not an error;
// a missing --config file is.
func initConfig(logger *log.Logger) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gravdam")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gravdam"))
		}
	}

	viper.SetEnvPrefix("GRAVDAM")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	setConfigDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug("no config file, using built-in defaults")
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	logger.Debug("config loaded", "file", viper.ConfigFileUsed())
	return nil
}

// configuredDefaults returns the material seeds after config and
// environment overrides.
func configuredDefaults(v *viper.Viper) units.Defaults {
	return units.Defaults{
		ConcreteMetric:   v.GetFloat64(keyConcreteMetric),
		ConcreteImperial: v.GetFloat64(keyConcreteImperial),
		WaterMass:        v.GetFloat64(keyWaterMass),
		WaterWeight:      v.GetFloat64(keyWaterWeight),
		WaterImperial:    v.GetFloat64(keyWaterImperial),
		Friction:         v.GetFloat64(keyFriction),
	}
}

func serverConfig(v *viper.Viper) server.Config {
	return server.Config{
		Addr:      v.GetString(keyServerAddr),
		RateLimit: v.GetFloat64(keyServerRateLimit),
		Burst:     v.GetInt(keyServerBurst),
		Defaults:  configuredDefaults(v),
	}
}

func logConfig(v *viper.Viper) server.LogConfig {
	return server.LogConfig{
		File:       v.GetString(keyLogFile),
		MaxSizeMB:  v.GetInt(keyLogMaxSizeMB),
		MaxBackups: v.GetInt(keyLogMaxBackups),
		MaxAgeDays: v.GetInt(keyLogMaxAgeDays),
		Debug:      verbose,
	}
}
