package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/alexiusacademia/gravdam/internal/units"
)

func TestConfiguredDefaultsBuiltIn(t *testing.T) {
	v := viper.New()
	setConfigDefaults(v)

	if got, want := configuredDefaults(v), units.StandardDefaults(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	cfg := serverConfig(v)
	if cfg.Addr != ":8080" || cfg.RateLimit != 20 || cfg.Burst != 40 {
		t.Fatalf("unexpected server config %+v", cfg)
	}
}

func TestConfiguredDefaultsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gravdam.yaml")
	content := `
defaults:
  concrete_density:
    metric: 24.0
  water_density:
    imperial: 0.064
  friction_coefficient: 0.65
server:
  addr: ":9000"
log:
  file: /tmp/gravdam.log
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	setConfigDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	d := configuredDefaults(v)
	if d.ConcreteMetric != 24.0 {
		t.Errorf("expected concrete 24.0, got %f", d.ConcreteMetric)
	}
	if d.Friction != 0.65 {
		t.Errorf("expected friction 0.65, got %f", d.Friction)
	}
	if d.WaterWeight != units.WaterDensityWeight {
		t.Errorf("expected default water weight, got %f", d.WaterWeight)
	}
	if d.WaterImperial != 0.064 {
		t.Errorf("expected imperial water 0.064, got %f", d.WaterImperial)
	}
	if got := serverConfig(v).Addr; got != ":9000" {
		t.Errorf("expected addr :9000, got %q", got)
	}
	if got := logConfig(v).File; got != "/tmp/gravdam.log" {
		t.Errorf("expected log file, got %q", got)
	}
}

func TestConfiguredDefaultsFromEnv(t *testing.T) {
	t.Setenv("GRAVDAM_DEFAULTS_WATER_DENSITY_KN_M3", "10")

	v := viper.New()
	v.SetEnvPrefix("GRAVDAM")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setConfigDefaults(v)

	if got := configuredDefaults(v).WaterWeight; got != 10 {
		t.Fatalf("expected water weight 10 from env, got %f", got)
	}
}
