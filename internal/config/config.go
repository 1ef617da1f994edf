// Package config reads beacon settings from an optional YAML file and
// BEACON_* environment variables.
package config

import (
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/viper"
)

const EnvPrefix = "BEACON"

// Keys read by the CLI and the engine.
const (
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeySchemaRoot      = "schema.root"
	KeyOTelEndpoint    = "otel.endpoint"
	KeyOTelService     = "otel.service"
	KeyNamespaces      = "namespaces.directives"
	KeyConcurrency     = "execution.concurrency"
	KeyTimeout         = "execution.timeout"
	defaultConfigName  = "beacon"
	defaultConfigType  = "yaml"
	defaultServiceName = "beacon"
)

// New returns a viper instance with defaults and environment binding but no
// file.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeySchemaRoot, ".")
	v.SetDefault(KeyOTelEndpoint, "")
	v.SetDefault(KeyOTelService, defaultServiceName)
	v.SetDefault(KeyNamespaces, []string{})
	v.SetDefault(KeyConcurrency, 0)
	v.SetDefault(KeyTimeout, "10s")
	return v
}

// Load reads file when given. Without one it looks for beacon.yaml in the
// working directory and $HOME/.config/beacon, and a missing file is not an
// error.
func Load(file string) (*viper.Viper, error) {
	v := New()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return v, nil
	}

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/beacon")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read config file").
			WithCause(err)
	}
	return v, nil
}
