package logger

import (
	"time"

	"github.com/lintang-b-s/osm-edit-area-age/pkg/logger/config"
	myZap "github.com/lintang-b-s/osm-edit-area-age/pkg/logger/zap"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// New builds the process logger. LOG_LEVEL (-1 debug .. 2 error) and
// LOG_TIME_FORMAT are read from the environment.
func New() (*zap.Logger, error) {
	viper.SetDefault("LOG_LEVEL", config.INFO_LEVEL)
	viper.SetDefault("LOG_TIME_FORMAT", time.RFC3339Nano)
	viper.AutomaticEnv()

	cfg := config.Configuration{
		Level:      viper.GetInt("LOG_LEVEL"),
		TimeFormat: viper.GetString("LOG_TIME_FORMAT"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	log, err := myZap.New(cfg)

	if err != nil {
		return nil, err
	}

	return log, nil
}
