package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/geo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type CalibrationConfig struct {
	Horizontal float64 `mapstructure:"horizontal" validate:"gt=0"`
	Vertical   float64 `mapstructure:"vertical" validate:"gt=0"`
}

type CorridorConfig struct {
	CapStepDegrees float64           `mapstructure:"cap_step_degrees" validate:"gt=0,lte=180"`
	Calibration    CalibrationConfig `mapstructure:"calibration"`
}

// Config holds the pipeline settings. RadiusMiles comes from the editor's
// editable-distance permission.
type Config struct {
	RadiusMiles      float64        `mapstructure:"radius_miles"`
	ExpiryWindowDays int            `mapstructure:"expiry_window_days" validate:"gte=0"`
	ValidityDays     int            `mapstructure:"validity_days" validate:"gt=0,gtefield=ExpiryWindowDays"`
	MaxDrives        int            `mapstructure:"max_drives" validate:"gt=0"`
	Workers          int            `mapstructure:"workers" validate:"gte=1"`
	SimplifyMeters   float64        `mapstructure:"simplify_meters" validate:"gte=0"`
	Corridor         CorridorConfig `mapstructure:"corridor"`
}

func (c Config) Radius() datastructure.Radius {
	return datastructure.RadiusFromMiles(c.RadiusMiles)
}

func (c Config) Calibration() geo.Calibration {
	return geo.Calibration{
		Horizontal: c.Corridor.Calibration.Horizontal,
		Vertical:   c.Corridor.Calibration.Vertical,
	}
}

// SetDefaults installs the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("radius_miles", 1.0)
	v.SetDefault("expiry_window_days", pkg.DAYS_TO_EXPIRY)
	v.SetDefault("validity_days", pkg.VALIDITY_DAYS)
	v.SetDefault("max_drives", pkg.MAX_DRIVES)
	v.SetDefault("workers", 1)
	v.SetDefault("simplify_meters", 0.0)
	v.SetDefault("corridor.cap_step_degrees", pkg.CAP_STEP_DEGREES)
	v.SetDefault("corridor.calibration.horizontal", geo.DefaultCalibration.Horizontal)
	v.SetDefault("corridor.calibration.vertical", geo.DefaultCalibration.Vertical)
}

// Load reads defaults, an optional YAML file at path and EAA_* environment
// variables, then validates the result.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// flag name -> config key
var flagKeys = map[string]string{
	"radius-miles":       "radius_miles",
	"expiry-window-days": "expiry_window_days",
	"max-drives":         "max_drives",
	"workers":            "workers",
	"simplify-meters":    "simplify_meters",
	"cap-step-degrees":   "corridor.cap_step_degrees",
}

// LoadWithFlags is Load with command line flags taking precedence over the
// file and the environment. Only flags the user set override.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// EAA_CORRIDOR_CAP_STEP_DEGREES -> corridor.cap_step_degrees
	v.SetEnvPrefix("EAA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper unmarshals and validates an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Radius().Validate(); err != nil {
		return fmt.Errorf("radius_miles: %w", err)
	}

	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("config validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
