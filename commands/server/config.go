package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/lockbox/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// FlagHome names the directory holding the config, the genesis file
	// and the application database.
	FlagHome = "home"

	flagBind     = "bind"
	flagAPIBind  = "api_bind"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
	flagForce    = "force"

	envPrefix  = "LOCKBOXD"
	configName = "lockboxd.toml"
)

// Config holds the node settings read from the home directory config file,
// the LOCKBOXD_ prefixed environment and the command line, in increasing
// order of precedence.
type Config struct {
	Home     string `mapstructure:"home"`
	Bind     string `mapstructure:"bind"`
	APIBind  string `mapstructure:"api_bind"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

func setDefaults() {
	viper.SetDefault(flagBind, "tcp://localhost:26658")
	viper.SetDefault(flagAPIBind, "")
	viper.SetDefault(flagDebug, false)
	viper.SetDefault(flagLogLevel, "info")
}

// LoadConfig reads the configuration. A missing config file is not an
// error.
func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if home := viper.GetString(FlagHome); home != "" {
		path := filepath.Join(home, "config", configName)
		if _, err := os.Stat(path); err == nil {
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(errors.ErrInput, "cannot read %s: %s", path, err)
			}
		}
	}

	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &conf, nil
}

// NewLogger returns the tendermint logger writing to stdout, filtered to
// the given level.
func NewLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, opt), nil
}
